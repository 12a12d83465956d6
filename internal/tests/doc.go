// Package tests holds end-to-end tests that run the RESP listener, the
// store, the metrics registry and the HTTP side server together, wired
// the way respkv-server wires them.
package tests
