package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	STT           STTConfig
	Transcription TranscriptionConfig
	LLM           LLMConfig
	Summary       SummaryConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	WriteTimeout   time.Duration
	MaxUploadBytes int64
	AllowedOrigins []string
}

type STTConfig struct {
	APIKey   string
	BaseURL  string // default: Groq's OpenAI-compatible endpoint
	Model    string
	Prompt   string // optional vocabulary/language hint passed to the recognizer
	Language string
}

// TranscriptionConfig drives the large-file path. Files above ThresholdBytes
// are cut into segments of roughly SegmentBytes each.
type TranscriptionConfig struct {
	ThresholdBytes int64
	SegmentBytes   int64
	MaxRetries     int
	MaxConcurrency int // 0 means one in-flight request per segment
	ScratchDir     string
	FFmpegPath     string
	FFprobePath    string
}

type LLMConfig struct {
	OpenAIKey        string
	OpenAIBaseURL    string
	AnthropicKey     string
	OllamaURL        string
	DefaultProvider  string
	DefaultModel     string
	FallbackProvider string
	MaxRetries       int
}

type SummaryConfig struct {
	Languages           string
	Temperature         float64
	MaxTranscriptTokens int
}

// Load reads configuration from the environment. A .env file in the working
// directory (or the file named by ENV_FILE) is applied first when present;
// variables already set in the process environment win.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load env file", "path", envFile, "error", err)
	}

	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	writeTimeout, err := getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}

	maxUpload, err := getEnvInt64("MAX_UPLOAD_BYTES", 500<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}

	threshold, err := getEnvInt64("TRANSCRIBE_THRESHOLD_BYTES", 25<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSCRIBE_THRESHOLD_BYTES: %w", err)
	}

	segmentBytes, err := getEnvInt64("TRANSCRIBE_SEGMENT_BYTES", 20<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSCRIBE_SEGMENT_BYTES: %w", err)
	}

	sttRetries, err := getEnvInt("TRANSCRIBE_MAX_RETRIES", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSCRIBE_MAX_RETRIES: %w", err)
	}

	concurrency, err := getEnvInt("TRANSCRIBE_MAX_CONCURRENCY", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSCRIBE_MAX_CONCURRENCY: %w", err)
	}

	llmRetries, err := getEnvInt("LLM_MAX_RETRIES", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	temperature, err := getEnvFloat("SUMMARY_TEMPERATURE", 0.7)
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_TEMPERATURE: %w", err)
	}

	maxTranscriptTokens, err := getEnvInt("SUMMARY_MAX_TRANSCRIPT_TOKENS", 24000)
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_MAX_TRANSCRIPT_TOKENS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			WriteTimeout:   writeTimeout,
			MaxUploadBytes: maxUpload,
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		STT: STTConfig{
			APIKey:   getEnv("STT_API_KEY", os.Getenv("GROQ_API_KEY")),
			BaseURL:  getEnv("STT_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:    getEnv("STT_MODEL", "whisper-large-v3"),
			Prompt:   getEnv("STT_PROMPT", ""),
			Language: getEnv("STT_LANGUAGE", ""),
		},
		Transcription: TranscriptionConfig{
			ThresholdBytes: threshold,
			SegmentBytes:   segmentBytes,
			MaxRetries:     sttRetries,
			MaxConcurrency: concurrency,
			ScratchDir:     getEnv("SCRATCH_DIR", os.TempDir()),
			FFmpegPath:     getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath:    getEnv("FFPROBE_PATH", "ffprobe"),
		},
		LLM: LLMConfig{
			OpenAIKey:        getEnv("OPENAI_API_KEY", os.Getenv("GITHUB_TOKEN")),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://models.inference.ai.azure.com"),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			OllamaURL:        getEnv("OLLAMA_URL", ""),
			DefaultProvider:  getEnv("LLM_DEFAULT_PROVIDER", "openai"),
			DefaultModel:     getEnv("LLM_DEFAULT_MODEL", "gpt-4o"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", ""),
			MaxRetries:       llmRetries,
		},
		Summary: SummaryConfig{
			Languages:           getEnv("SUMMARY_LANGUAGES", "Hebrew and English"),
			Temperature:         temperature,
			MaxTranscriptTokens: maxTranscriptTokens,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var problems []string
	if c.STT.APIKey == "" {
		problems = append(problems, "STT_API_KEY (or GROQ_API_KEY) is required")
	}
	if c.Transcription.ThresholdBytes <= 0 {
		problems = append(problems, "TRANSCRIBE_THRESHOLD_BYTES must be positive")
	}
	if c.Transcription.SegmentBytes <= 0 {
		problems = append(problems, "TRANSCRIBE_SEGMENT_BYTES must be positive")
	} else if c.Transcription.SegmentBytes > c.Transcription.ThresholdBytes {
		problems = append(problems, "TRANSCRIBE_SEGMENT_BYTES must not exceed TRANSCRIBE_THRESHOLD_BYTES")
	}
	if c.Transcription.MaxRetries < 0 {
		problems = append(problems, "TRANSCRIBE_MAX_RETRIES must not be negative")
	}
	if c.Transcription.MaxConcurrency < 0 {
		problems = append(problems, "TRANSCRIBE_MAX_CONCURRENCY must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
