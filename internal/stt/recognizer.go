package stt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
)

// Config holds settings for an OpenAI-compatible transcription endpoint
// (Groq, OpenAI, or a local whisper.cpp server).
type Config struct {
	APIKey   string
	BaseURL  string // default: "https://api.groq.com/openai/v1"
	Model    string // default: "whisper-large-v3"
	Prompt   string
	Language string
}

// Recognizer turns one audio file into text. Decoding is pinned to
// temperature 0 so repeated calls on the same audio agree.
type Recognizer struct {
	cfg    Config
	client *openai.Client
}

func New(cfg Config) *Recognizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-large-v3"
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	return &Recognizer{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (r *Recognizer) Name() string { return "openai-compatible:" + r.cfg.Model }

// Recognize uploads the file and returns the recognized text verbatim.
func (r *Recognizer) Recognize(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	resp, err := r.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:       r.cfg.Model,
		FilePath:    filepath.Base(path),
		Reader:      f,
		Prompt:      r.cfg.Prompt,
		Language:    r.cfg.Language,
		Temperature: 0,
		Format:      openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return resp.Text, nil
}
