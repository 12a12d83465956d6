package main

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/server/config"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"addr":       "server.redis.addr",
	"http-addr":  "server.http.addr",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// loadConfig layers defaults, the config file, the environment and the
// flags that were set, then verifies the result.
func loadConfig(c *cli.Context) (*config.ServerConfig, error) {
	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}

	cfg := config.Default()
	loader := confloader.NewLoader(
		confloader.WithConfigFile(c.String("config")),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
