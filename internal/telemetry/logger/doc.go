// Package logger provides structured logging for respkv.
//
// It wraps log/slog:
//
//   - logger.go: configuration, the global level and the default logger
//   - context.go: connection and request attributes carried in a context
//   - redact.go: keeps stored values and secrets out of the logs
//
// Components that only need a *slog.Logger take one directly; Logger.Slog
// returns the configured instance.
package logger
