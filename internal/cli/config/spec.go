package config

import "time"

// CLIConfig is the configuration for respkv-cli.
type CLIConfig struct {
	// Addr is the RESP server address.
	Addr string `json:"addr" yaml:"addr"`

	// HTTPAddr is the server's HTTP side listener used by status.
	HTTPAddr string `json:"http_addr" yaml:"http_addr"`

	// Output is text, json or yaml.
	Output string `json:"output" yaml:"output"`

	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// HistoryFile overrides ~/.respkv_history. "-" disables history.
	HistoryFile string `json:"history_file,omitempty" yaml:"history_file,omitempty"`
}

const (
	DefaultAddr     = "127.0.0.1:6379"
	DefaultHTTPAddr = "127.0.0.1:9121"
	DefaultOutput   = "text"
	DefaultTimeout  = 5 * time.Second
)

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Addr:     DefaultAddr,
		HTTPAddr: DefaultHTTPAddr,
		Output:   DefaultOutput,
		Timeout:  DefaultTimeout,
	}
}
