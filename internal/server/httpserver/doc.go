// Package httpserver provides the HTTP side server of respkv.
//
// It uses the Go standard library net/http and exposes operational
// endpoints next to the RESP listener:
//
//   - GET /health, GET /ready, GET /version
//   - GET /metrics in Prometheus text format
//
// Every request passes Recover, RequestID, AccessLog and, when configured,
// a per-IP RateLimit middleware.
package httpserver
