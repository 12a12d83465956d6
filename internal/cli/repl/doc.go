// Package repl implements the interactive mode of respkv-cli.
//
// Each input line is split into arguments with redis-cli quoting rules
// and sent to the server as one command. A few words are handled
// locally: help, history, clear and exit. QUIT is sent to the server
// and then ends the session.
package repl
