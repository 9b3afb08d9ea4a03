package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nikhilbhutani/audiobrief/internal/media"
)

// SegmentSet is the output of one segmentation. Dir is empty when the source
// was small enough to be used as-is, in which case Files holds only the
// source path and Cleanup leaves it alone.
type SegmentSet struct {
	Dir   string
	Plan  SegmentPlan
	Files []SegmentFile
}

// Cleanup removes every segment file and the segment directory.
func (s *SegmentSet) Cleanup() {
	if s == nil || s.Dir == "" {
		return
	}
	for _, f := range s.Files {
		Remove(f.Path)
	}
	Remove(s.Dir)
}

type Segmenter struct {
	tools   media.Toolchain
	scratch *Scratch
}

func NewSegmenter(tools media.Toolchain, scratch *Scratch) *Segmenter {
	return &Segmenter{tools: tools, scratch: scratch}
}

// Segment cuts sourcePath into pieces of about maxBytes each. It never
// modifies or deletes the source.
func (s *Segmenter) Segment(ctx context.Context, sourcePath string, maxBytes int64) (*SegmentSet, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if maxBytes <= 0 || maxBytes >= info.Size() {
		return &SegmentSet{Files: []SegmentFile{{Index: 0, Path: sourcePath}}}, nil
	}

	if err := s.tools.Check(); err != nil {
		return nil, err
	}

	total, err := s.tools.ProbeDuration(ctx, sourcePath)
	if err != nil {
		if !errors.Is(err, ErrDurationUnavailable) {
			err = fmt.Errorf("%w: %w", ErrDurationUnavailable, err)
		}
		return nil, err
	}

	secs := SegmentSeconds(info.Size(), total, maxBytes)
	plan := PlanSegments(total, secs)

	dir, err := s.scratch.MkdirChunks()
	if err != nil {
		return nil, err
	}

	paths, err := s.tools.Split(ctx, sourcePath, time.Duration(secs)*time.Second, dir)
	if err != nil {
		Remove(dir)
		if !errors.Is(err, ErrSegmentingFailed) {
			err = fmt.Errorf("%w: %w", ErrSegmentingFailed, err)
		}
		return nil, err
	}

	set := &SegmentSet{Dir: dir, Plan: plan, Files: make([]SegmentFile, len(paths))}
	for i, p := range paths {
		set.Files[i] = SegmentFile{Index: i, Path: p}
	}

	if len(paths) != len(plan) {
		// ffmpeg cuts on packet boundaries in copy mode, so the last slice
		// can be split or merged differently from the plan.
		slog.Debug("segment count differs from plan", "planned", len(plan), "produced", len(paths))
	}
	slog.Info("segmented audio",
		"source_bytes", info.Size(),
		"duration", total.String(),
		"segment_seconds", secs,
		"segments", len(paths),
	)
	return set, nil
}
