package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/audiobrief/internal/api/handlers"
	"github.com/nikhilbhutani/audiobrief/internal/api/middleware"
	"github.com/nikhilbhutani/audiobrief/internal/config"
	"github.com/nikhilbhutani/audiobrief/internal/llm"
)

type Router struct {
	mux         *chi.Mux
	cfg         *config.Config
	transcriber handlers.Transcriber
	summarizer  handlers.Summarizer
	llmGW       llm.Gateway
	tools       handlers.ToolChecker
}

func NewRouter(cfg *config.Config, transcriber handlers.Transcriber, summarizer handlers.Summarizer, gw llm.Gateway, tools handlers.ToolChecker) *Router {
	return &Router{
		mux:         chi.NewRouter(),
		cfg:         cfg,
		transcriber: transcriber,
		summarizer:  summarizer,
		llmGW:       gw,
		tools:       tools,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.AllowedOrigins))

	health := handlers.NewHealthHandler(rt.tools, rt.llmGW)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	transcribeH := handlers.NewTranscribeHandler(rt.transcriber,
		rt.cfg.Transcription.ThresholdBytes,
		rt.cfg.Server.MaxUploadBytes,
	)
	summarizeH := handlers.NewSummarizeHandler(rt.summarizer)
	chatH := handlers.NewChatHandler(rt.llmGW)

	r.Route("/api", func(r chi.Router) {
		r.Post("/transcribe", transcribeH.Transcribe)
		r.Post("/summarize", summarizeH.Summarize)
		r.Post("/chat", chatH.Stream)
		// Older clients post summaries under the chat prefix.
		r.Post("/chat/summarize", summarizeH.Summarize)
		r.Get("/models", chatH.Models)
	})

	return r
}
