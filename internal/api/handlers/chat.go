package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/audiobrief/internal/llm"
)

type ChatHandler struct {
	gateway llm.Gateway
}

func NewChatHandler(gw llm.Gateway) *ChatHandler {
	return &ChatHandler{gateway: gw}
}

type chatRequest struct {
	Provider string        `json:"provider,omitempty"`
	Model    string        `json:"model,omitempty"`
	Messages []llm.Message `json:"messages"`
}

// Stream relays a chat completion as server-sent events, one JSON
// StreamChunk per event, ending with a chunk whose done flag is set.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ch, err := h.gateway.ChatStream(r.Context(), llm.ChatRequest{
		Provider: req.Provider,
		Model:    req.Model,
		Messages: req.Messages,
	})
	if err != nil {
		slog.Error("chat stream failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusBadGateway, "chat failed")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for chunk := range ch {
		if chunk.Error != nil {
			slog.Error("chat stream interrupted", "request_id", middleware.GetReqID(r.Context()), "error", chunk.Error)
			fmt.Fprint(w, "data: {\"error\":\"chat failed\",\"done\":true}\n\n")
			flusher.Flush()
			return
		}

		data, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()

		if chunk.Done {
			return
		}
	}
}

func (h *ChatHandler) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"models": h.gateway.ListModels()})
}
