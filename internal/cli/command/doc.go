// Package command defines the respkv-cli commands on urfave/cli/v2.
//
// Subcommands cover the common key operations. Any other arguments are
// sent to the server as a raw command, and running without arguments
// starts the interactive shell.
package command
