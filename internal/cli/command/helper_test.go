package command

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/cli/config"
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

// testCLI runs respkv-cli with an isolated config file.
type testCLI struct {
	t          *testing.T
	addr       string
	configPath string
	input      string
}

func newTestCLI(t *testing.T, addr string) *testCLI {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.yaml")

	cfg := config.Default()
	cfg.HistoryFile = "-"
	if err := config.Save(cfg, path); err != nil {
		t.Fatalf("config.Save() error = %v", err)
	}
	return &testCLI{t: t, addr: addr, configPath: path}
}

// run executes the app and returns stdout and the returned error.
func (tc *testCLI) run(args ...string) (string, error) {
	tc.t.Helper()

	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(tc.input)

	full := []string{"respkv-cli", "--config", tc.configPath, "--timeout", "2s"}
	if tc.addr != "" {
		full = append(full, "--addr", tc.addr)
	}
	err := app.Run(append(full, args...))
	return stdout.String(), err
}

// mustRun fails the test when the command returns an error.
func (tc *testCLI) mustRun(args ...string) string {
	tc.t.Helper()
	out, err := tc.run(args...)
	if err != nil {
		tc.t.Fatalf("run(%q) error = %v", args, err)
	}
	return out
}
