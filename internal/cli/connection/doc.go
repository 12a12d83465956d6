// Package connection provides server connections for respkv-cli.
//
//   - client.go: RESP client over TCP
//   - manager.go: current connection of an interactive session
//   - http.go: client for the HTTP side endpoints (/health, /version)
package connection
