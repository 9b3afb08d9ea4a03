package handlers

import (
	"net/http"
	"strings"
)

// ToolChecker reports whether the external media tools are usable.
type ToolChecker interface {
	Check() error
}

// ProviderLister reports which LLM providers are configured.
type ProviderLister interface {
	Providers() []string
}

type HealthHandler struct {
	tools     ToolChecker
	providers ProviderLister
}

func NewHealthHandler(tools ToolChecker, providers ProviderLister) *HealthHandler {
	return &HealthHandler{tools: tools, providers: providers}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if h.tools != nil {
		if err := h.tools.Check(); err != nil {
			checks["ffmpeg"] = "unhealthy: " + err.Error()
		} else {
			checks["ffmpeg"] = "ok"
		}
	}

	if h.providers != nil {
		if names := h.providers.Providers(); len(names) == 0 {
			checks["llm"] = "unhealthy: no provider configured"
		} else {
			checks["llm"] = "ok: " + strings.Join(names, ", ")
		}
	}

	status := http.StatusOK
	for _, v := range checks {
		if strings.HasPrefix(v, "unhealthy") {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, map[string]any{"status": statusStr(status), "checks": checks})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}
