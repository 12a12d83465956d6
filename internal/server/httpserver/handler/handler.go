package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes carried in error envelopes.
const (
	CodeNotReady      = "NOT_READY"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternalError = "INTERNAL"
)

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-ID"

// Probe reports whether the RESP listener is accepting connections.
type Probe interface {
	Running() bool
}

// KeyCounter reports the number of stored keys.
type KeyCounter interface {
	Len() int
}

// Handler serves the health, readiness and version endpoints.
type Handler struct {
	probe  Probe
	keys   KeyCounter
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates a Handler. probe and keys may be nil: a nil probe always
// reports ready and a nil key counter omits the key count.
func New(probe Probe, keys KeyCounter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		probe:  probe,
		keys:   keys,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)
	h.mux.HandleFunc("GET /version", h.handleVersion)
}

// writeJSON writes a JSON response with the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := r.Header.Get(RequestIDHeader)
	h.encode(w, status, NewResponse(requestID, data))
}

// writeError writes an error response with the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := r.Header.Get(RequestIDHeader)
	w.Header().Set("X-Error-Code", code)
	h.encode(w, status, NewErrorResponse(requestID, code, message))
}

func (h *Handler) encode(w http.ResponseWriter, status int, body *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// WriteError writes an error envelope outside a Handler, for middleware.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewErrorResponse("", code, message))
}
