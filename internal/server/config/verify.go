package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/respkv/internal/protocol/resp"
	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Verify validates the configuration and returns all problems found.
func Verify(cfg *ServerConfig) error {
	var errs []error
	errs = append(errs, verifyRedis(&cfg.Server.Redis)...)
	errs = append(errs, verifyHTTP(&cfg.Server.HTTP, cfg.Server.Redis.Addr)...)
	errs = append(errs, verifyLog(&cfg.Log)...)

	if cfg.Server.ShutdownTimeout <= 0 {
		errs = append(errs, invalid("server.shutdown_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func verifyRedis(cfg *RedisConfig) []error {
	var errs []error

	if err := verifyAddr(cfg.Addr); err != nil {
		errs = append(errs, invalid("server.redis.addr: %v", err))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, invalid("server.redis.read_timeout must be positive"))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, invalid("server.redis.write_timeout must be positive"))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, invalid("server.redis.idle_timeout must be positive"))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, invalid("server.redis.rate_limit must not be negative"))
	}
	if cfg.MaxBulkLen <= 0 || cfg.MaxBulkLen > resp.MaxBulkLen {
		errs = append(errs, invalid("server.redis.max_bulk_len must be in 1..%d", resp.MaxBulkLen))
	}
	if cfg.MaxArrayLen <= 0 {
		errs = append(errs, invalid("server.redis.max_array_len must be positive"))
	}
	if cfg.MaxClients < 0 {
		errs = append(errs, invalid("server.redis.max_clients must not be negative"))
	}

	return errs
}

func verifyHTTP(cfg *HTTPConfig, redisAddr string) []error {
	if !cfg.Enabled {
		return nil
	}

	var errs []error
	if err := verifyAddr(cfg.Addr); err != nil {
		errs = append(errs, invalid("server.http.addr: %v", err))
	} else if cfg.Addr == redisAddr {
		errs = append(errs, invalid("server.http.addr conflicts with server.redis.addr"))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, invalid("server.http.rate_limit must not be negative"))
	}
	return errs
}

func verifyLog(cfg *LogSection) []error {
	var errs []error
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, invalid("log.level: %v", err))
	}
	switch strings.ToLower(cfg.Format) {
	case "", "json", "text", "console":
	default:
		errs = append(errs, invalid("log.format %q must be json or text", cfg.Format))
	}
	return errs
}

func verifyAddr(addr string) error {
	if addr == "" {
		return errors.New("address is required")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if port == "" {
		return errors.New("port is required")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
