package llm

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/nikhilbhutani/audiobrief/internal/config"
)

type gateway struct {
	providers        map[string]Provider
	defaultProvider  string
	defaultModel     string
	fallbackProvider string
	maxRetries       int
	backoff          func(attempt int) time.Duration
}

func NewGateway(cfg config.LLMConfig) Gateway {
	var providers []Provider
	if cfg.OpenAIKey != "" {
		providers = append(providers, NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL))
	}
	if cfg.AnthropicKey != "" {
		providers = append(providers, NewAnthropicProvider(cfg.AnthropicKey))
	}
	if cfg.OllamaURL != "" {
		providers = append(providers, NewOllamaProvider(cfg.OllamaURL))
	}
	return newGateway(cfg, providers...)
}

func newGateway(cfg config.LLMConfig, providers ...Provider) *gateway {
	g := &gateway{
		providers:        make(map[string]Provider, len(providers)),
		defaultProvider:  cfg.DefaultProvider,
		defaultModel:     cfg.DefaultModel,
		fallbackProvider: cfg.FallbackProvider,
		maxRetries:       max(cfg.MaxRetries, 0),
		backoff:          quadraticBackoff,
	}
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	return g
}

func quadraticBackoff(attempt int) time.Duration {
	return time.Duration(attempt*attempt) * 500 * time.Millisecond
}

func (g *gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Providers() []string {
	names := make([]string, 0, len(g.providers))
	for name := range g.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}

	resp, err := g.chatWithRetry(ctx, providerName, req)
	if err != nil && ctx.Err() == nil && g.fallbackProvider != "" && g.fallbackProvider != providerName {
		slog.Warn("primary provider failed, trying fallback",
			"primary", providerName,
			"fallback", g.fallbackProvider,
			"error", err,
		)
		return g.chatWithRetry(ctx, g.fallbackProvider, req)
	}
	return resp, err
}

func (g *gateway) chatWithRetry(ctx context.Context, providerName string, req ChatRequest) (*ChatResponse, error) {
	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}
	req.Model = g.modelFor(p, req.Model)

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.backoff(attempt)):
			}
			slog.Debug("retrying LLM call", "provider", providerName, "attempt", attempt)
		}

		resp, err := p.ChatCompletion(ctx, req)
		if err == nil {
			slog.Info("llm call",
				"provider", resp.Provider,
				"model", resp.Model,
				"input_tokens", resp.InputTokens,
				"output_tokens", resp.OutputTokens,
				"cost_usd", resp.CostUSD,
				"latency_ms", resp.LatencyMs,
			)
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all retries exhausted for %s: %w", providerName, lastErr)
}

// modelFor keeps the requested model unless it is empty or, for the
// configured default, unknown to p (e.g. gpt-4o on an Anthropic fallback).
func (g *gateway) modelFor(p Provider, model string) string {
	if model == "" {
		model = g.defaultModel
	}
	models := p.Models()
	if model == g.defaultModel && len(models) > 0 && !slices.Contains(models, model) {
		return models[0]
	}
	return model
}

func (g *gateway) ChatStream(ctx context.Context, req ChatRequest) (<-chan StreamChunk, error) {
	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}

	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}
	req.Model = g.modelFor(p, req.Model)

	return p.ChatCompletionStream(ctx, req)
}

func (g *gateway) ListModels() []ModelInfo {
	var models []ModelInfo
	for _, name := range g.Providers() {
		for _, m := range g.providers[name].Models() {
			models = append(models, ModelInfo{Provider: name, Model: m})
		}
	}
	return models
}
