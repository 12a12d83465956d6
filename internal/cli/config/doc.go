// Package config holds the respkv-cli settings file (~/.respkv/cli.yaml).
//
// Values in the file are defaults; command-line flags and RESPKV_*
// environment variables override them.
package config
