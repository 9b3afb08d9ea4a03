// Command audiobrief transcribes a local audio file, and optionally
// summarizes it, using the same pipeline as the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nikhilbhutani/audiobrief/internal/config"
	"github.com/nikhilbhutani/audiobrief/internal/llm"
	"github.com/nikhilbhutani/audiobrief/internal/media"
	"github.com/nikhilbhutani/audiobrief/internal/stt"
	"github.com/nikhilbhutani/audiobrief/internal/summary"
	"github.com/nikhilbhutani/audiobrief/internal/transcribe"
)

func main() {
	input := flag.String("i", "", "path to the audio file")
	summarize := flag.Bool("summarize", false, "also print a summary of the transcript")
	threshold := flag.Int64("threshold", 0, "override TRANSCRIBE_THRESHOLD_BYTES")
	segment := flag.Int64("segment", 0, "override TRANSCRIBE_SEGMENT_BYTES")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: audiobrief -i <audio file> [-summarize]")
		os.Exit(2)
	}

	if err := run(*input, *summarize, *threshold, *segment); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(path string, summarize bool, threshold, segment int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if threshold > 0 {
		cfg.Transcription.ThresholdBytes = threshold
	}
	if segment > 0 {
		cfg.Transcription.SegmentBytes = segment
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	tools := media.NewFFmpeg(media.FFmpegConfig{
		FFmpegPath:  cfg.Transcription.FFmpegPath,
		FFprobePath: cfg.Transcription.FFprobePath,
	})
	recognizer := stt.New(stt.Config{
		APIKey:   cfg.STT.APIKey,
		BaseURL:  cfg.STT.BaseURL,
		Model:    cfg.STT.Model,
		Prompt:   cfg.STT.Prompt,
		Language: cfg.STT.Language,
	})
	orchestrator := transcribe.NewFromConfig(cfg.Transcription, recognizer, tools)

	text, err := orchestrator.TranscribeAudio(ctx, transcribe.Asset{
		Filename: filepath.Base(path),
		Size:     info.Size(),
		Body:     f,
	}, cfg.Transcription.ThresholdBytes)
	if err != nil {
		return err
	}
	fmt.Println(text)

	if !summarize {
		return nil
	}
	out, err := summary.NewService(llm.NewGateway(cfg.LLM), cfg.Summary).Summarize(ctx, text)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(out)
	return nil
}
