// Command respkv-server runs the respkv RESP key-value server.
//
// The server listens for RESP clients and, unless disabled, serves
// /health, /ready, /version and /metrics on a separate HTTP address.
//
// Usage:
//
//	respkv-server [flags]
//	respkv-server --config /etc/respkv/server.yaml
//
// Configuration is layered: built-in defaults, the YAML file, RESPKV_*
// environment variables, then flags. SIGHUP or a change to the config
// file reloads the log level.
package main
