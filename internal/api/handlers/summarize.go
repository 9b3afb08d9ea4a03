package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/audiobrief/internal/summary"
)

// Summarizer is satisfied by *summary.Service.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

type SummarizeHandler struct {
	svc Summarizer
}

func NewSummarizeHandler(svc Summarizer) *SummarizeHandler {
	return &SummarizeHandler{svc: svc}
}

type summarizeRequest struct {
	Transcript string `json:"transcript"`
}

func (h *SummarizeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.svc.Summarize(r.Context(), req.Transcript)
	if errors.Is(err, summary.ErrEmptyTranscript) {
		writeError(w, http.StatusBadRequest, "transcript required")
		return
	}
	if err != nil {
		slog.Error("error generating summary",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Failed to generate summary")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": out})
}
