// Package config defines the server configuration structure.
package config

import (
	"time"

	"github.com/yndnr/respkv/internal/server/redisserver"
)

// ServerConfig is the root configuration for respkv-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// RateLimit is commands/second per client IP (0 = disabled).
	RateLimit int `koanf:"rate_limit"`

	MaxBulkLen  int `koanf:"max_bulk_len"`
	MaxArrayLen int `koanf:"max_array_len"`
	MaxClients  int `koanf:"max_clients"`
}

// HTTPConfig configures the HTTP side server.
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`

	// RateLimit is requests/second per client IP (0 = disabled).
	RateLimit int `koanf:"rate_limit"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// RedisServerConfig converts the section to the RESP server configuration.
func (c RedisConfig) RedisServerConfig() *redisserver.Config {
	return &redisserver.Config{
		Address:      c.Addr,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		IdleTimeout:  c.IdleTimeout,
		RateLimit:    c.RateLimit,
		MaxBulkLen:   c.MaxBulkLen,
		MaxArrayLen:  c.MaxArrayLen,
		MaxClients:   c.MaxClients,
	}
}
