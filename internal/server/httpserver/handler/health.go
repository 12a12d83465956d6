package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.status("healthy"))
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.probe != nil && !h.probe.Running() {
		h.writeError(w, r, http.StatusServiceUnavailable, CodeNotReady, "redis listener is not running")
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.status("ready"))
}

// handleVersion handles GET /version.
func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	h.writeJSON(w, r, http.StatusOK, VersionResponse{
		Version:   info.Version,
		Commit:    info.Commit,
		BuildTime: info.BuildTime,
		GoVersion: info.GoVersion,
	})
}

func (h *Handler) status(s string) HealthResponse {
	resp := HealthResponse{
		Status: s,
		Time:   time.Now().UTC(),
	}
	if h.keys != nil {
		n := h.keys.Len()
		resp.Keys = &n
	}
	return resp
}
