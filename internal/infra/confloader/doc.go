// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader on top of koanf:
//
//   - Sources: YAML files, environment variables, maps (flags)
//   - Watch support: callbacks when the config file changes
//   - Type safety: unmarshaling into typed structs via koanf tags
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables (RESPKV_ prefix)
//  3. Configuration file
//  4. Default values
package confloader
