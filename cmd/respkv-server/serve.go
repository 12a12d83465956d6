package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/server/httpserver"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	slogger := log.Slog()

	info := buildinfo.Get()
	log.Info("starting respkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", c.String("config"),
	)

	reg := metric.NewRegistry()

	store := memory.New(
		memory.WithLogger(slogger.With("component", "store")),
		memory.WithMetrics(reg),
	)
	reg.WatchKeys(store)

	redisSrv := redisserver.New(
		cfg.Server.Redis.RedisServerConfig(),
		store,
		slogger.With("component", "redis"),
		redisserver.WithMetrics(reg),
	)
	if err := redisSrv.Start(c.Context); err != nil {
		_ = store.Close()
		return fmt.Errorf("start redis listener: %w", err)
	}

	sh := shutdown.NewHandler(cfg.Server.ShutdownTimeout, slogger)

	// Hooks run in reverse order: listeners first, the store last.
	sh.OnShutdown("store", func(_ context.Context) error {
		return store.Close()
	})
	sh.OnShutdown("redis", redisSrv.Shutdown)

	if cfg.Server.HTTP.Enabled {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Probe:     redisSrv,
			Keys:      store,
			Metrics:   reg.Handler(),
			Logger:    slogger.With("component", "http"),
			RateLimit: cfg.Server.HTTP.RateLimit,
		})
		httpSrv := httpserver.New(cfg.Server.HTTP.Addr, router, slogger.With("component", "http"))
		if err := httpSrv.Start(); err != nil {
			_ = redisSrv.Shutdown(c.Context)
			_ = store.Close()
			return fmt.Errorf("start http listener: %w", err)
		}
		sh.OnShutdown("http", httpSrv.Shutdown)
	}

	reload := func() {
		next, err := loadConfig(c)
		if err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		if err := logger.SetLevel(next.Log.Level); err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		log.Info("config reloaded", "log_level", next.Log.Level)
	}
	sh.OnReload(reload)

	if path := c.String("config"); path != "" {
		watcher, err := startWatcher(path, slogger, reload)
		if err != nil {
			log.Warn("config file watching disabled", "error", err)
		} else {
			sh.OnShutdown("watcher", func(_ context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started",
		"redis_addr", redisSrv.Addr().String(),
		"http_enabled", cfg.Server.HTTP.Enabled,
	)
	if err := sh.Wait(c.Context); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func startWatcher(path string, log *slog.Logger, onChange func()) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.With("component", "config")))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.OnChange(func(string) { onChange() })
	w.StartAsync()
	return w, nil
}
