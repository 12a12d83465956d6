package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/metric"
)

type stubProbe struct{ running bool }

func (p stubProbe) Running() bool { return p.running }

func startServer(t *testing.T, cfg *RouterConfig) *Server {
	t.Helper()
	s := New("127.0.0.1:0", NewRouter(cfg), nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func get(t *testing.T, s *Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get("http://" + s.Addr().String() + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestNew(t *testing.T) {
	s := New(":8080", okHandler(), nil)
	if s == nil {
		t.Fatal("New returned nil")
	}
	if s.httpServer == nil {
		t.Error("httpServer is nil")
	}
	if s.Addr() != nil {
		t.Error("Addr() should be nil before Start")
	}
}

func TestServer_Endpoints(t *testing.T) {
	reg := metric.NewRegistry()
	reg.CommandProcessed("PING", false, time.Millisecond)

	s := startServer(t, &RouterConfig{
		Probe:   stubProbe{running: true},
		Metrics: reg.Handler(),
	})

	tests := []struct {
		path     string
		wantCode int
		contains string
	}{
		{"/health", http.StatusOK, `"healthy"`},
		{"/ready", http.StatusOK, `"ready"`},
		{"/version", http.StatusOK, `"go_version"`},
		{"/metrics", http.StatusOK, `respkv_commands_total{command="PING",status="ok"} 1`},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := get(t, s, tt.path)
			if code != tt.wantCode {
				t.Errorf("GET %s status = %d, want %d", tt.path, code, tt.wantCode)
			}
			if !strings.Contains(body, tt.contains) {
				t.Errorf("GET %s body = %q, want %q", tt.path, body, tt.contains)
			}
		})
	}
}

func TestServer_NotReady(t *testing.T) {
	s := startServer(t, &RouterConfig{Probe: stubProbe{running: false}})

	code, body := get(t, s, "/ready")
	if code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", code)
	}

	var env map[string]any
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if env["code"] != "NOT_READY" {
		t.Errorf("code = %v, want NOT_READY", env["code"])
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	s := startServer(t, &RouterConfig{})

	if code, _ := get(t, s, "/metrics"); code != http.StatusNotFound {
		t.Errorf("GET /metrics status = %d, want 404", code)
	}
}

func TestServer_StartTwice(t *testing.T) {
	s := startServer(t, &RouterConfig{})
	if err := s.Start(); err == nil {
		t.Error("second Start() should fail")
	}
}

func TestServer_InvalidAddress(t *testing.T) {
	s := New("256.0.0.1:99999", okHandler(), nil)
	if err := s.Start(); err == nil {
		t.Error("Start() with invalid address should fail")
	}
}

func TestServer_Shutdown(t *testing.T) {
	s := New("127.0.0.1:0", okHandler(), nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	addr := s.Addr().String()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}

	client := http.Client{Timeout: time.Second}
	if _, err := client.Get("http://" + addr + "/"); err == nil {
		t.Error("request after Shutdown should fail")
	}
}
