package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilbhutani/audiobrief/internal/api"
	"github.com/nikhilbhutani/audiobrief/internal/config"
	"github.com/nikhilbhutani/audiobrief/internal/llm"
	"github.com/nikhilbhutani/audiobrief/internal/media"
	"github.com/nikhilbhutani/audiobrief/internal/stt"
	"github.com/nikhilbhutani/audiobrief/internal/summary"
	"github.com/nikhilbhutani/audiobrief/internal/transcribe"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Small files never touch ffmpeg, so a missing toolchain only degrades
	// the large-file path.
	tools := media.NewFFmpeg(media.FFmpegConfig{
		FFmpegPath:  cfg.Transcription.FFmpegPath,
		FFprobePath: cfg.Transcription.FFprobePath,
	})
	if err := tools.Check(); err != nil {
		slog.Warn("media toolchain unavailable, large uploads will fail", "error", err)
	}

	recognizer := stt.New(stt.Config{
		APIKey:   cfg.STT.APIKey,
		BaseURL:  cfg.STT.BaseURL,
		Model:    cfg.STT.Model,
		Prompt:   cfg.STT.Prompt,
		Language: cfg.STT.Language,
	})
	orchestrator := transcribe.NewFromConfig(cfg.Transcription, recognizer, tools)

	gw := llm.NewGateway(cfg.LLM)
	if len(gw.Providers()) == 0 {
		slog.Warn("no LLM provider configured, summaries will fail")
	}
	summarizer := summary.NewService(gw, cfg.Summary)

	router := api.NewRouter(cfg, orchestrator, summarizer, gw, tools)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server",
			"addr", cfg.Addr(),
			"stt", recognizer.Name(),
			"threshold_bytes", cfg.Transcription.ThresholdBytes,
			"segment_bytes", cfg.Transcription.SegmentBytes,
			"llm_providers", gw.Providers(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
