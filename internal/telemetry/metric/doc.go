// Package metric provides Prometheus metrics for respkv.
//
// A Registry owns a private prometheus.Registry and implements the event
// sinks of the RESP server and the memory store:
//
//   - prometheus.go: metric definitions, event methods and the HTTP handler
//   - collector.go: a collector reporting the live key count
//
// Metrics are exposed at /metrics by the HTTP side server.
package metric
