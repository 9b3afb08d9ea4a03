// Package transcribe turns an uploaded recording into one transcript,
// cutting files that exceed the recognizer's request ceiling into segments
// that are recognized concurrently and stitched back together in order.
package transcribe

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/nikhilbhutani/audiobrief/internal/media"
)

var (
	ErrNoAudio             = errors.New("no audio provided")
	ErrTranscriptionFailed = errors.New("transcription failed")

	ErrToolMissing         = media.ErrToolMissing
	ErrDurationUnavailable = media.ErrDurationUnavailable
	ErrSegmentingFailed    = media.ErrSegmentingFailed
)

// Recognizer is the speech-to-text capability: one file in, its text out.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// Asset is an uploaded recording. Size may be zero when the caller does not
// know it; the persisted byte count is used instead.
type Asset struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

// PlannedSegment is one time slice of the source.
type PlannedSegment struct {
	Index    int
	Start    time.Duration
	Duration time.Duration
}

// SegmentPlan lists slices in start order. Together they cover the source
// from zero to its full duration with no gaps and no overlaps.
type SegmentPlan []PlannedSegment

// Total is the summed duration of all slices.
func (p SegmentPlan) Total() time.Duration {
	var total time.Duration
	for _, s := range p {
		total += s.Duration
	}
	return total
}

// SegmentFile is a segment on scratch storage tagged with its position.
type SegmentFile struct {
	Index int
	Path  string
}

// Fragment is the recognized text of one segment.
type Fragment struct {
	Index int
	Text  string
}

// JoinFragments concatenates fragment texts in position order. Each text is
// trimmed, empty ones (silent segments) are skipped, and the rest are
// separated by exactly one space. Input order does not matter.
func JoinFragments(fragments []Fragment) string {
	ordered := make([]Fragment, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	texts := make([]string, 0, len(ordered))
	for _, f := range ordered {
		if text := strings.TrimSpace(f.Text); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, " ")
}
