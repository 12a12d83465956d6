package repl

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestHistory_Add(t *testing.T) {
	h := NewHistory("", 3)

	h.Add("cmd1")
	h.Add("cmd1")
	h.Add("  ")
	h.Add("cmd2")
	h.Add("cmd3")
	h.Add("cmd4")

	if want := []string{"cmd2", "cmd3", "cmd4"}; !reflect.DeepEqual(h.Entries(), want) {
		t.Errorf("Entries() = %v, want %v", h.Entries(), want)
	}
	if h.Get(0) != "cmd4" || h.Get(2) != "cmd2" {
		t.Errorf("Get(0) = %q, Get(2) = %q", h.Get(0), h.Get(2))
	}
	if h.Get(3) != "" || h.Get(-1) != "" {
		t.Error("Get() out of range should return empty string")
	}
}

func TestHistory_DefaultSize(t *testing.T) {
	if h := NewHistory("", 0); h.maxSize != defaultHistorySize {
		t.Errorf("maxSize = %d, want %d", h.maxSize, defaultHistorySize)
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", HistoryFileName)

	h := NewHistory(path, 10)
	h.Add("SET k v")
	h.Add("GET k")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("history file mode = %o, want 600", perm)
	}

	loaded := NewHistory(path, 10)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded.Entries(), h.Entries()) {
		t.Errorf("loaded = %v, want %v", loaded.Entries(), h.Entries())
	}
}

func TestHistory_LoadTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFileName)
	if err := os.WriteFile(path, []byte("a\nb\n\nc\nd\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path, 2)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []string{"c", "d"}; !reflect.DeepEqual(h.Entries(), want) {
		t.Errorf("Entries() = %v, want %v", h.Entries(), want)
	}
}

func TestHistory_MissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "none"), 10)
	if err := h.Load(); err != nil {
		t.Errorf("Load() missing file error = %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("", 10)
	h.Add("PING")
	if err := h.Save(); err != nil {
		t.Errorf("Save() without file error = %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load() without file error = %v", err)
	}
}

func TestDefaultHistoryFile(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got := DefaultHistoryFile(); !strings.HasSuffix(got, HistoryFileName) {
		t.Errorf("DefaultHistoryFile() = %q", got)
	}
}
