package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nikhilbhutani/audiobrief/internal/llm"
	"github.com/nikhilbhutani/audiobrief/internal/summary"
	"github.com/nikhilbhutani/audiobrief/internal/transcribe"
)

type fakeTranscriber struct {
	text      string
	err       error
	gotAsset  transcribe.Asset
	gotBody   []byte
	threshold int64
}

func (f *fakeTranscriber) TranscribeAudio(_ context.Context, asset transcribe.Asset, threshold int64) (string, error) {
	f.gotAsset = asset
	f.threshold = threshold
	f.gotBody, _ = io.ReadAll(asset.Body)
	return f.text, f.err
}

type fakeSummarizer struct {
	out string
	err error
	got string
}

func (f *fakeSummarizer) Summarize(_ context.Context, transcript string) (string, error) {
	f.got = transcript
	return f.out, f.err
}

func multipartRequest(t *testing.T, field, filename string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(body)
	} else {
		mw.WriteField("note", "no file here")
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestTranscribe_Success(t *testing.T) {
	svc := &fakeTranscriber{text: "hello world"}
	h := NewTranscribeHandler(svc, 25<<20, 1<<20)

	rec := httptest.NewRecorder()
	h.Transcribe(rec, multipartRequest(t, "file", "memo.mp3", []byte("ID3 audio bytes")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["text"]; got != "hello world" {
		t.Errorf("text = %q", got)
	}
	if svc.gotAsset.Filename != "memo.mp3" || svc.gotAsset.Size != int64(len("ID3 audio bytes")) {
		t.Errorf("asset = %+v", svc.gotAsset)
	}
	if string(svc.gotBody) != "ID3 audio bytes" {
		t.Errorf("body = %q", svc.gotBody)
	}
	if svc.threshold != 25<<20 {
		t.Errorf("threshold = %d", svc.threshold)
	}
}

func TestTranscribe_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		svcErr     error
		maxUpload  int64
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing file field",
			req:        func(t *testing.T) *http.Request { return multipartRequest(t, "", "", nil) },
			wantStatus: http.StatusBadRequest,
			wantError:  "File not provided",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/transcribe", strings.NewReader("{}"))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "File not provided",
		},
		{
			name:       "pipeline failure hides details",
			req:        func(t *testing.T) *http.Request { return multipartRequest(t, "file", "a.mp3", []byte("x")) },
			svcErr:     fmt.Errorf("%w: ffprobe exploded", transcribe.ErrTranscriptionFailed),
			wantStatus: http.StatusInternalServerError,
			wantError:  "transcription failed",
		},
		{
			name: "upload too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "a.mp3", bytes.Repeat([]byte("x"), 4096))
			},
			maxUpload:  1024,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "file too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTranscribeHandler(&fakeTranscriber{err: tt.svcErr}, 25<<20, tt.maxUpload)
			rec := httptest.NewRecorder()
			h.Transcribe(rec, tt.req(t))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := decodeBody(t, rec)["error"]; got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		out        string
		err        error
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{"ok", `{"transcript":"שלום and hello"}`, "a summary", nil, http.StatusOK, "summary", "a summary"},
		{"bad json", `{`, "", nil, http.StatusBadRequest, "error", "invalid request body"},
		{"empty transcript", `{"transcript":""}`, "", summary.ErrEmptyTranscript, http.StatusBadRequest, "error", "transcript required"},
		{"llm failure", `{"transcript":"x"}`, "", errors.New("upstream 500"), http.StatusInternalServerError, "error", "Failed to generate summary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeSummarizer{out: tt.out, err: tt.err}
			rec := httptest.NewRecorder()
			NewSummarizeHandler(svc).Summarize(rec, httptest.NewRequest(http.MethodPost, "/api/summarize", strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decodeBody(t, rec)[tt.wantKey]; got != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.wantKey, got, tt.wantValue)
			}
		})
	}
}

type fakeGateway struct {
	chunks    []llm.StreamChunk
	streamErr error
	names     []string
}

func (g *fakeGateway) Chat(context.Context, llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, errors.New("not used")
}

func (g *fakeGateway) ChatStream(context.Context, llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	if g.streamErr != nil {
		return nil, g.streamErr
	}
	ch := make(chan llm.StreamChunk, len(g.chunks))
	for _, c := range g.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func (g *fakeGateway) Provider(string) (llm.Provider, error) { return nil, errors.New("not used") }
func (g *fakeGateway) Providers() []string                   { return g.names }
func (g *fakeGateway) ListModels() []llm.ModelInfo {
	return []llm.ModelInfo{{Provider: "openai", Model: "gpt-4o"}}
}

func TestChatStream(t *testing.T) {
	gw := &fakeGateway{chunks: []llm.StreamChunk{{Content: "Hel"}, {Content: "lo"}, {Done: true}}}
	rec := httptest.NewRecorder()
	body := `{"messages":[{"role":"user","content":"hi"}]}`
	NewChatHandler(gw).Stream(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	events := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	if len(events) != 3 {
		t.Fatalf("events = %q", events)
	}
	if events[0] != `data: {"content":"Hel","done":false}` || events[2] != `data: {"done":true}` {
		t.Errorf("unexpected events %q", events)
	}
}

func TestChatStream_Errors(t *testing.T) {
	rec := httptest.NewRecorder()
	NewChatHandler(&fakeGateway{}).Stream(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"messages":[]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty messages: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	gw := &fakeGateway{streamErr: errors.New(`provider "openai" not configured`)}
	NewChatHandler(gw).Stream(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`)))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("gateway error: status = %d", rec.Code)
	}
}

type fakeTools struct{ err error }

func (f fakeTools) Check() error { return f.err }

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		tools      ToolChecker
		providers  []string
		wantStatus int
	}{
		{"ready", fakeTools{}, []string{"openai"}, http.StatusOK},
		{"ffmpeg missing", fakeTools{err: transcribe.ErrToolMissing}, []string{"openai"}, http.StatusServiceUnavailable},
		{"no llm", fakeTools{}, nil, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.tools, &fakeGateway{names: tt.providers}).Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
