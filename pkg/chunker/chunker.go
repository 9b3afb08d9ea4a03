package chunker

import (
	"strings"

	"github.com/nikhilbhutani/audiobrief/pkg/tokenizer"
)

// separators are tried in order, coarsest first. Transcripts joined from
// segments are often one long line, so sentence and word breaks matter most.
var separators = []string{"\n\n", "\n", ". ", "? ", "! ", " "}

type TextChunk struct {
	Content string
	Index   int
}

// Split breaks text into chunks of at most maxTokens estimated tokens,
// preferring paragraph, line, sentence and then word boundaries. A single
// word longer than the budget is cut by characters.
func Split(text string, maxTokens int) []TextChunk {
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	var chunks []TextChunk
	for _, part := range splitRecursive(text, separators, maxTokens) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, TextChunk{Content: part, Index: len(chunks)})
	}
	return chunks
}

func splitRecursive(text string, seps []string, maxTokens int) []string {
	if tokenizer.CountTokens(text) <= maxTokens {
		return []string{text}
	}

	if len(seps) == 0 {
		return splitFixed(text, maxTokens*4)
	}

	sep := seps[0]
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return splitRecursive(text, seps[1:], maxTokens)
	}

	// Every separator ends in whitespace, so the running count of current
	// equals the count of its concatenation.
	var result []string
	var current strings.Builder
	var count tokenizer.Count
	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		pc := tokenizer.Measure(part)
		if current.Len() > 0 && count.Add(pc).Tokens() > maxTokens {
			result = append(result, splitRecursive(current.String(), seps[1:], maxTokens)...)
			current.Reset()
			count = tokenizer.Count{}
		}
		current.WriteString(part)
		count = count.Add(pc)
	}
	if current.Len() > 0 {
		result = append(result, splitRecursive(current.String(), seps[1:], maxTokens)...)
	}
	return result
}

func splitFixed(text string, size int) []string {
	if size <= 0 {
		size = 1
	}
	var result []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		result = append(result, string(runes[i:end]))
	}
	return result
}
