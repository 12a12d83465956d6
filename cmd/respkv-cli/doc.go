// Command respkv-cli is the command-line client for respkv.
//
// Usage:
//
//	respkv-cli [global options] ping|echo|get|set|del|ttl|status|config ...
//	respkv-cli [global options] COMMAND [ARG...]
//	respkv-cli [global options]            (interactive shell)
package main
