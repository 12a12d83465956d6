// Package config provides server configuration for respkv.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (address formats, limits, log settings)
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// RESPKV_ environment variables and command-line flags.
package config
