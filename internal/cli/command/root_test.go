package command

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/server/httpserver/handler"
)

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "respkv-cli" {
		t.Errorf("Name = %q, want respkv-cli", app.Name)
	}

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"ping", "echo", "get", "set", "del", "ttl", "repl", "status", "config"} {
		if !names[want] {
			t.Errorf("missing command %q", want)
		}
	}

	flags := make(map[string]bool)
	for _, f := range app.Flags {
		flags[f.Names()[0]] = true
	}
	for _, want := range []string{"addr", "http-addr", "timeout", "output", "config"} {
		if !flags[want] {
			t.Errorf("missing flag %q", want)
		}
	}
}

// ==================== Key commands ====================

func TestCommands_Keys(t *testing.T) {
	tc := newTestCLI(t, startServer(t))

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"ping"}, "PONG\n"},
		{[]string{"ping", "hi"}, "\"hi\"\n"},
		{[]string{"echo", "hello world"}, "\"hello world\"\n"},
		{[]string{"get", "k"}, "(nil)\n"},
		{[]string{"set", "k", "v"}, "OK\n"},
		{[]string{"get", "k"}, "\"v\"\n"},
		{[]string{"ttl", "k"}, "none\n"},
		{[]string{"set", "--ex", "100", "k", "v"}, "OK\n"},
		{[]string{"ttl", "k"}, "(integer) 100\n"},
		{[]string{"del", "k", "other"}, "(integer) 1\n"},
		{[]string{"ttl", "k"}, "(nil)\n"},
	}

	for _, step := range steps {
		if got := tc.mustRun(step.args...); got != step.want {
			t.Errorf("%v = %q, want %q", step.args, got, step.want)
		}
	}
}

func TestCommands_SetPX(t *testing.T) {
	tc := newTestCLI(t, startServer(t))

	tc.mustRun("set", "--px", "60000", "k", "v")
	out := tc.mustRun("ttl", "--ms", "k")
	if !strings.HasPrefix(out, "(integer) ") || out == "(integer) 0\n" {
		t.Errorf("ttl --ms = %q", out)
	}
}

func TestCommands_ArgErrors(t *testing.T) {
	tc := newTestCLI(t, startServer(t))

	tests := [][]string{
		{"get"},
		{"get", "a", "b"},
		{"set", "k"},
		{"set", "--px", "10", "--ex", "1", "k", "v"},
		{"del"},
		{"ping", "a", "b"},
		{"echo"},
	}

	for _, args := range tests {
		if _, err := tc.run(args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestCommands_RawCommand(t *testing.T) {
	tc := newTestCLI(t, startServer(t))

	tc.mustRun("SET", "a", "1")
	if got := tc.mustRun("EXISTS", "a", "b"); got != "(integer) 1\n" {
		t.Errorf("EXISTS = %q", got)
	}
	if got := tc.mustRun("DBSIZE"); got != "(integer) 1\n" {
		t.Errorf("DBSIZE = %q", got)
	}

	_, err := tc.run("NOPE")
	var se connection.ServerError
	if !errors.As(err, &se) || !strings.Contains(se.Error(), "unknown command") {
		t.Errorf("NOPE error = %v, want ServerError", err)
	}
}

func TestCommands_OutputFormats(t *testing.T) {
	tc := newTestCLI(t, startServer(t))
	tc.mustRun("set", "k", "v")

	if got := tc.mustRun("-o", "json", "get", "k"); got != "\"v\"\n" {
		t.Errorf("json get = %q", got)
	}
	if got := tc.mustRun("-o", "yaml", "del", "k"); got != "1\n" {
		t.Errorf("yaml del = %q", got)
	}
	if _, err := tc.run("-o", "xml", "ping"); err == nil {
		t.Error("unknown output format should fail")
	}
}

func TestCommands_ConnectionRefused(t *testing.T) {
	tc := newTestCLI(t, "127.0.0.1:1")
	_, err := tc.run("ping")
	if err == nil || !strings.Contains(err.Error(), "could not connect") {
		t.Errorf("ping error = %v", err)
	}
}

// ==================== REPL ====================

func TestCommands_Repl(t *testing.T) {
	addr := startServer(t)
	tc := newTestCLI(t, addr)
	tc.input = "SET greeting \"hello there\"\nGET greeting\nexit\n"

	out := tc.mustRun("repl")
	if !strings.Contains(out, addr+"> ") {
		t.Errorf("prompt missing address:\n%s", out)
	}
	if !strings.Contains(out, "\"hello there\"") {
		t.Errorf("GET reply missing:\n%s", out)
	}
}

func TestCommands_NoArgsStartsRepl(t *testing.T) {
	tc := newTestCLI(t, startServer(t))
	tc.input = "PING\n"

	if out := tc.mustRun(); !strings.Contains(out, "PONG") {
		t.Errorf("output = %q", out)
	}
}

// ==================== Status ====================

func TestCommands_Status(t *testing.T) {
	keys := 3
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			writeEnvelope(w, handler.HealthResponse{Status: "healthy", Keys: &keys})
		case "/version":
			writeEnvelope(w, handler.VersionResponse{Version: "v9.9.9", GoVersion: "go1.24"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tc := newTestCLI(t, "")
	out := tc.mustRun("--http-addr", srv.URL, "status")
	for _, want := range []string{"healthy", "v9.9.9", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func writeEnvelope(w http.ResponseWriter, data any) {
	_ = output.NewFormatter(output.FormatJSON).Format(w, handler.NewResponse("req-test", data))
}

// ==================== Config ====================

func TestCommands_Config(t *testing.T) {
	tc := newTestCLI(t, "")

	if got := tc.mustRun("config", "path"); got != tc.configPath+"\n" {
		t.Errorf("config path = %q", got)
	}

	tc.mustRun("config", "set", "addr", "10.1.1.1:7000")
	tc.mustRun("config", "set", "timeout", "3s")

	out := tc.mustRun("-o", "json", "config", "show")
	if !strings.Contains(out, `"addr": "10.1.1.1:7000"`) {
		t.Errorf("config show = %s", out)
	}

	data, err := os.ReadFile(tc.configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "timeout: 3s") {
		t.Errorf("saved config:\n%s", data)
	}

	if _, err := tc.run("config", "set", "output", "xml"); err == nil {
		t.Error("invalid output should be rejected")
	}
	if _, err := tc.run("config", "set", "color", "on"); err == nil {
		t.Error("unknown key should be rejected")
	}
}

func TestCommands_FlagOverridesConfig(t *testing.T) {
	addr := startServer(t)
	tc := newTestCLI(t, "")
	tc.mustRun("config", "set", "addr", "127.0.0.1:1")

	tc.addr = addr
	if got := tc.mustRun("ping"); got != "PONG\n" {
		t.Errorf("ping with --addr = %q", got)
	}
}
