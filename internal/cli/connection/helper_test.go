package connection

import (
	"context"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
)

// startServer runs a real RESP server on a loopback port.
func startServer(t *testing.T) string {
	t.Helper()

	cfg := redisserver.DefaultConfig()
	cfg.Address = "127.0.0.1:0"

	store := memory.New()
	srv := redisserver.New(cfg, store, nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		_ = store.Close()
	})
	return srv.Addr().String()
}
