// Package redisserver serves the respkv key-value store over RESP.
//
// Each accepted TCP connection is handled by its own goroutine which reads
// request frames, dispatches them to the CommandHandler and writes exactly
// one reply frame per request, in arrival order.
//
// Supported commands:
//   - PING, ECHO, QUIT, COMMAND
//   - GET, SET [PX ms | EX s], DEL, EXISTS
//   - TTL, PTTL, DBSIZE
package redisserver
