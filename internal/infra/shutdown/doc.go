// Package shutdown provides graceful shutdown for respkv.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM; SIGHUP runs reload callbacks)
//   - Timeout-bounded shutdown hooks, run in reverse registration order
//   - Programmatic shutdown via Trigger or context cancellation
//
// Usage:
//
//	h := shutdown.NewHandler(10*time.Second, logger)
//	h.OnShutdown("redis", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
