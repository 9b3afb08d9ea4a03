package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// Count holds the raw measurements behind a token estimate. Counts of texts
// that meet at whitespace can be summed with Add instead of re-measuring the
// concatenation.
type Count struct {
	Words int
	Runes int
}

func Measure(text string) Count {
	return Count{Words: len(strings.Fields(text)), Runes: utf8.RuneCountInString(text)}
}

func (c Count) Add(o Count) Count {
	return Count{Words: c.Words + o.Words, Runes: c.Runes + o.Runes}
}

// Tokens takes the larger of a word-based and a character-based guess, since
// non-Latin scripts such as Hebrew tokenize into more pieces per word than
// English. Whitespace-only text is zero tokens.
func (c Count) Tokens() int {
	if c.Words == 0 {
		return 0
	}
	return max(c.Words*4/3, c.Runes/4, 1)
}

// CountTokens provides a rough token count estimate.
func CountTokens(text string) int {
	return Measure(text).Tokens()
}

// Fits reports whether text is estimated to fit within budget tokens.
func Fits(text string, budget int) bool {
	return budget <= 0 || CountTokens(text) <= budget
}
