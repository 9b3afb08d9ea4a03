package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/audiobrief/internal/transcribe"
)

// Transcriber is satisfied by *transcribe.Orchestrator.
type Transcriber interface {
	TranscribeAudio(ctx context.Context, asset transcribe.Asset, thresholdBytes int64) (string, error)
}

type TranscribeHandler struct {
	svc            Transcriber
	thresholdBytes int64
	maxUploadBytes int64
}

func NewTranscribeHandler(svc Transcriber, thresholdBytes, maxUploadBytes int64) *TranscribeHandler {
	return &TranscribeHandler{svc: svc, thresholdBytes: thresholdBytes, maxUploadBytes: maxUploadBytes}
}

// Transcribe accepts a multipart upload with the audio in field "file" and
// responds with {"text": ...}.
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		if r.ContentLength > h.maxUploadBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "File not provided")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File not provided")
		return
	}
	defer file.Close()

	text, err := h.svc.TranscribeAudio(r.Context(), transcribe.Asset{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, h.thresholdBytes)
	if err != nil {
		slog.Error("transcription failed",
			"request_id", middleware.GetReqID(r.Context()),
			"file", header.Filename,
			"bytes", header.Size,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "transcription failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
