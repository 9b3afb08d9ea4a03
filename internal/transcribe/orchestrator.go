package transcribe

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nikhilbhutani/audiobrief/internal/config"
	"github.com/nikhilbhutani/audiobrief/internal/media"
)

type Options struct {
	// SegmentBytes is the target size of one segment when a file must be cut.
	SegmentBytes int64
	// MaxConcurrency caps in-flight recognition calls; 0 dispatches every
	// segment at once.
	MaxConcurrency int
}

// segmentSource is satisfied by *Segmenter.
type segmentSource interface {
	Segment(ctx context.Context, sourcePath string, maxBytes int64) (*SegmentSet, error)
}

// Orchestrator owns one transcription request end to end, including the
// scratch files it creates.
type Orchestrator struct {
	transcriber *SegmentTranscriber
	segmenter   segmentSource
	scratch     *Scratch
	opts        Options
}

func NewOrchestrator(transcriber *SegmentTranscriber, segmenter *Segmenter, scratch *Scratch, opts Options) *Orchestrator {
	if opts.MaxConcurrency < 0 {
		opts.MaxConcurrency = 0
	}
	return &Orchestrator{
		transcriber: transcriber,
		segmenter:   segmenter,
		scratch:     scratch,
		opts:        opts,
	}
}

// TranscribeAudio returns the transcript of asset. Assets no larger than
// thresholdBytes go to the recognizer in one call; larger ones are segmented
// and recognized concurrently. Either every segment succeeds or the call
// fails with ErrTranscriptionFailed. All scratch files are gone on return.
func (o *Orchestrator) TranscribeAudio(ctx context.Context, asset Asset, thresholdBytes int64) (string, error) {
	if asset.Body == nil {
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, ErrNoAudio)
	}

	src, written, err := o.scratch.Persist(asset.Filename, asset.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
	}
	defer Remove(src)

	size := asset.Size
	if size <= 0 {
		size = written
	}
	if written == 0 {
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, ErrNoAudio)
	}

	if size <= thresholdBytes {
		slog.Info("transcribing audio directly", "file", asset.Filename, "bytes", size)
		text, err := o.transcriber.TranscribeWithRetry(ctx, src, o.transcriber.MaxRetries())
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
		}
		return text, nil
	}

	set, err := o.segmenter.Segment(ctx, src, o.opts.SegmentBytes)
	if err != nil {
		slog.Error("segmenting failed", "stage", "segment", "file", asset.Filename, "error", err)
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
	}
	defer set.Cleanup()

	fragments, err := o.transcribeSegments(ctx, set.Files)
	if err != nil {
		slog.Error("segment transcription failed", "stage", "transcribe", "file", asset.Filename, "error", err)
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
	}

	transcript := JoinFragments(fragments)
	slog.Info("transcribed segmented audio",
		"file", asset.Filename,
		"segments", len(fragments),
		"chars", len(transcript),
	)
	return transcript, nil
}

// transcribeSegments fans out one recognition per segment. Results land in
// a slice indexed by dispatch position, so completion order is irrelevant.
func (o *Orchestrator) transcribeSegments(ctx context.Context, files []SegmentFile) ([]Fragment, error) {
	fragments := make([]Fragment, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if o.opts.MaxConcurrency > 0 {
		g.SetLimit(o.opts.MaxConcurrency)
	}

	for i, f := range files {
		g.Go(func() error {
			text, err := o.transcriber.TranscribeWithRetry(gctx, f.Path, o.transcriber.MaxRetries())
			if err != nil {
				return fmt.Errorf("segment %d: %w", f.Index, err)
			}
			fragments[i] = Fragment{Index: f.Index, Text: text}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fragments, nil
}

// NewFromConfig wires the full pipeline: scratch space, segmenter and
// retrying transcriber over rec and tools.
func NewFromConfig(cfg config.TranscriptionConfig, rec Recognizer, tools media.Toolchain) *Orchestrator {
	scratch := NewScratch(cfg.ScratchDir)
	return NewOrchestrator(
		NewSegmentTranscriber(rec, cfg.MaxRetries),
		NewSegmenter(tools, scratch),
		scratch,
		Options{
			SegmentBytes:   cfg.SegmentBytes,
			MaxConcurrency: cfg.MaxConcurrency,
		},
	)
}
