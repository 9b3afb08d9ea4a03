// Package summary turns a transcript into a corrected summary in the
// transcript's own language mix.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nikhilbhutani/audiobrief/internal/config"
	"github.com/nikhilbhutani/audiobrief/internal/llm"
	"github.com/nikhilbhutani/audiobrief/internal/prompt"
	"github.com/nikhilbhutani/audiobrief/pkg/chunker"
	"github.com/nikhilbhutani/audiobrief/pkg/tokenizer"
)

var (
	ErrEmptyTranscript = errors.New("transcript is empty")
	ErrSummaryFailed   = errors.New("summary generation failed")
)

// partialConcurrency bounds parallel LLM calls when summarizing long transcripts.
const partialConcurrency = 4

// ChatClient is the part of llm.Gateway the service needs.
type ChatClient interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

type Service struct {
	llm         ChatClient
	languages   string
	temperature float64
	maxTokens   int
}

func NewService(client ChatClient, cfg config.SummaryConfig) *Service {
	languages := cfg.Languages
	if languages == "" {
		languages = "Hebrew and English"
	}
	return &Service{
		llm:         client,
		languages:   languages,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTranscriptTokens,
	}
}

// Summarize returns a summary of transcript. Transcripts over the token
// budget are summarized part by part and the partial summaries merged.
func (s *Service) Summarize(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", ErrEmptyTranscript
	}

	if tokenizer.Fits(transcript, s.maxTokens) {
		out, err := s.complete(ctx, prompt.Summary, map[string]string{"transcript": transcript})
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrSummaryFailed, err)
		}
		return out, nil
	}

	parts := chunker.Split(transcript, s.maxTokens)
	slog.Info("summarizing long transcript in parts",
		"tokens", tokenizer.CountTokens(transcript),
		"parts", len(parts),
	)

	partials := make([]string, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(partialConcurrency)
	for i, part := range parts {
		g.Go(func() error {
			out, err := s.complete(gctx, prompt.PartialSummary, map[string]string{
				"part":       strconv.Itoa(i + 1),
				"parts":      strconv.Itoa(len(parts)),
				"transcript": part.Content,
			})
			if err != nil {
				return fmt.Errorf("part %d: %w", i+1, err)
			}
			partials[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummaryFailed, err)
	}

	out, err := s.complete(ctx, prompt.CombineSummaries, map[string]string{
		"summaries": strings.Join(partials, "\n\n"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: combine: %w", ErrSummaryFailed, err)
	}
	return out, nil
}

func (s *Service) complete(ctx context.Context, tmpl prompt.Template, vars map[string]string) (string, error) {
	vars["languages"] = s.languages
	system, user, err := tmpl.Render(vars)
	if err != nil {
		return "", err
	}

	resp, err := s.llm.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		Temperature: s.temperature,
	})
	if err != nil {
		return "", err
	}

	out := strings.TrimSpace(resp.Content)
	if out == "" {
		return "", fmt.Errorf("%s: empty completion from %s", tmpl.Name, resp.Provider)
	}
	return out, nil
}
