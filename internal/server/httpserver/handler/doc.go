// Package handler provides the HTTP handlers of the respkv side server.
//
// Endpoints:
//
//   - GET /health: liveness, always 200 while the process serves HTTP
//   - GET /ready: 200 once the RESP listener accepts connections, else 503
//   - GET /version: build information
//
// JSON responses share the Response envelope.
package handler
