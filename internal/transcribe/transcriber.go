package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// SegmentTranscriber runs the recognizer over a single file with a small,
// immediate retry budget.
type SegmentTranscriber struct {
	rec        Recognizer
	maxRetries int
}

func NewSegmentTranscriber(rec Recognizer, maxRetries int) *SegmentTranscriber {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SegmentTranscriber{rec: rec, maxRetries: maxRetries}
}

// MaxRetries is the per-file retry budget the orchestrator applies to every
// recognition it dispatches.
func (t *SegmentTranscriber) MaxRetries() int { return t.maxRetries }

// Transcribe makes exactly one recognition attempt.
func (t *SegmentTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	return t.rec.Recognize(ctx, path)
}

// TranscribeWithRetry re-submits the file up to maxRetries more times after
// a failure, without backoff. The returned text is untouched.
func (t *SegmentTranscriber) TranscribeWithRetry(ctx context.Context, path string, maxRetries int) (string, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	attempts := 0
	for attempts <= maxRetries {
		if attempts > 0 {
			if ctx.Err() != nil {
				break
			}
			slog.Warn("retrying segment transcription",
				"file", filepath.Base(path),
				"attempt", attempts+1,
				"error", lastErr,
			)
		}
		attempts++

		text, err := t.Transcribe(ctx, path)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("transcribe %s after %d attempt(s): %w", filepath.Base(path), attempts, lastErr)
}
