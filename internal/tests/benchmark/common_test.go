package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
)

// KeyCounts are the store sizes used by the scaling benchmarks.
var KeyCounts = []int{1000, 10000, 100000}

// ValueSizes are the payload sizes used by the codec benchmarks.
var ValueSizes = []int{16, 1024, 64 * 1024}

func key(i int) string {
	return fmt.Sprintf("key:%08d", i)
}

// prefillStore writes count keys; every other key expires in an hour.
func prefillStore(store *memory.Store, count int) {
	value := make([]byte, 64)
	for i := 0; i < count; i++ {
		var ttl time.Duration
		if i%2 == 0 {
			ttl = time.Hour
		}
		store.Set(key(i), value, ttl)
	}
}

// reportMemory reports heap usage as a custom metric.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.HeapAlloc)/1024/1024, prefix+"_heap_MB")
}

// startServer starts a RESP server and returns a connected client.
func startServer(b *testing.B) *connection.Client {
	b.Helper()

	cfg := redisserver.DefaultConfig()
	cfg.Address = "127.0.0.1:0"

	store := memory.New()
	srv := redisserver.New(cfg, store, nil)
	if err := srv.Start(context.Background()); err != nil {
		b.Fatalf("Start() error = %v", err)
	}

	client, err := connection.Dial(context.Background(), srv.Addr().String(), 5*time.Second)
	if err != nil {
		b.Fatalf("Dial() error = %v", err)
	}

	b.Cleanup(func() {
		client.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		_ = store.Close()
	})
	return client
}
