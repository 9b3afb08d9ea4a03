package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrToolMissing         = errors.New("media tool not available")
	ErrDurationUnavailable = errors.New("media duration unavailable")
	ErrSegmentingFailed    = errors.New("audio segmenting failed")
)

// Prober reports the playing time of a media file.
type Prober interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
}

// Splitter cuts a media file into consecutive segments of a fixed length and
// returns the produced paths in chronological order.
type Splitter interface {
	Split(ctx context.Context, src string, segment time.Duration, outDir string) ([]string, error)
}

// Toolchain is everything the segmenter needs from the host.
type Toolchain interface {
	Check() error
	Prober
	Splitter
}

// CommandRunner executes an external program and returns stdout and stderr
// interleaved.
type CommandRunner interface {
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// FFmpegConfig holds the binary locations for the ffmpeg toolchain.
type FFmpegConfig struct {
	FFmpegPath  string // default: "ffmpeg"
	FFprobePath string // default: "ffprobe"
}

// FFmpeg implements Toolchain by shelling out to ffprobe and ffmpeg.
type FFmpeg struct {
	cfg      FFmpegConfig
	run      CommandRunner
	lookPath func(string) (string, error)
}

type Option func(*FFmpeg)

// WithCommandRunner replaces process execution, mainly for tests.
func WithCommandRunner(r CommandRunner) Option {
	return func(f *FFmpeg) { f.run = r }
}

// WithLookPath replaces the binary lookup used by Check.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(f *FFmpeg) { f.lookPath = fn }
}

func NewFFmpeg(cfg FFmpegConfig, opts ...Option) *FFmpeg {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	f := &FFmpeg{cfg: cfg, run: execRunner{}, lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Check verifies that both binaries can be found on the host.
func (f *FFmpeg) Check() error {
	for _, bin := range []string{f.cfg.FFprobePath, f.cfg.FFmpegPath} {
		if _, err := f.lookPath(bin); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrToolMissing, bin, err)
		}
	}
	return nil
}

func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	out, err := f.run.CombinedOutput(ctx, f.cfg.FFprobePath, "-hide_banner", "-i", path)
	if err != nil && len(out) == 0 {
		return 0, fmt.Errorf("%w: ffprobe: %v", ErrDurationUnavailable, err)
	}
	return ParseDuration(string(out))
}

// probeContainer asks ffprobe which container src uses.
func (f *FFmpeg) probeContainer(ctx context.Context, src string) (string, error) {
	out, err := f.run.CombinedOutput(ctx, f.cfg.FFprobePath, "-hide_banner", "-i", src)
	if err != nil && len(out) == 0 {
		return "", fmt.Errorf("%w: ffprobe: %v", ErrSegmentingFailed, err)
	}
	return ContainerExt(string(out))
}

// Split stream-copies src into outDir as chunk-000<ext>, chunk-001<ext>, ...
// No re-encoding happens, so the segments keep the source container. A src
// without an extension gets the one its probed container implies.
func (f *FFmpeg) Split(ctx context.Context, src string, segment time.Duration, outDir string) ([]string, error) {
	seconds := int(segment / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	ext := filepath.Ext(src)
	if ext == "" {
		detected, err := f.probeContainer(ctx, src)
		if err != nil {
			return nil, err
		}
		ext = detected
	}

	out, err := f.run.CombinedOutput(ctx, f.cfg.FFmpegPath, segmentArgs(src, seconds, outDir, ext)...)
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %v: %s", ErrSegmentingFailed, err, lastLines(string(out), 5))
	}

	paths, err := filepath.Glob(filepath.Join(outDir, "chunk-*"+ext))
	if err != nil {
		return nil, fmt.Errorf("%w: list segments: %v", ErrSegmentingFailed, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced no segments", ErrSegmentingFailed)
	}
	sort.Strings(paths)
	return paths, nil
}

func segmentArgs(src string, seconds int, outDir, ext string) []string {
	return []string{
		"-hide_banner", "-y",
		"-i", src,
		"-f", "segment",
		"-segment_time", strconv.Itoa(seconds),
		"-c", "copy",
		"-reset_timestamps", "1",
		filepath.Join(outDir, "chunk-%03d"+ext),
	}
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
