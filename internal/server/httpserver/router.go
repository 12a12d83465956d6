package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/respkv/internal/server/httpserver/handler"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Probe reports RESP listener readiness for /ready.
	Probe handler.Probe

	// Keys reports the stored key count on /health and /ready.
	Keys handler.KeyCounter

	// Metrics serves /metrics. Nil disables the endpoint.
	Metrics http.Handler

	// Logger for request logging.
	Logger *slog.Logger

	// RateLimit is the per-IP limit in requests/second (0 = unlimited).
	RateLimit int
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := handler.New(cfg.Probe, cfg.Keys, logger)

	// Order: Recover -> RequestID -> AccessLog -> RateLimit -> Handler
	middlewares := []Middleware{
		Recover(logger),
		RequestID(),
		AccessLog(logger),
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit))
	}

	mux := http.NewServeMux()
	mux.Handle("/", h)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return Chain(mux, middlewares...)
}
