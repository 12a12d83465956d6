package metric

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

type fixedCounter struct {
	n atomic.Int64
}

func (f *fixedCounter) Len() int { return int(f.n.Load()) }

func TestCollector_ReportsLen(t *testing.T) {
	src := &fixedCounter{}
	src.n.Store(42)

	r := NewRegistry()
	r.WatchKeys(src)

	if body := scrape(t, r.Handler()); !strings.Contains(body, "respkv_keys 42") {
		t.Error("expected respkv_keys 42")
	}

	src.n.Store(7)
	if body := scrape(t, r.Handler()); !strings.Contains(body, "respkv_keys 7") {
		t.Error("expected respkv_keys 7 after change")
	}
}

func TestWatchKeys_Once(t *testing.T) {
	r := NewRegistry()
	r.WatchKeys(&fixedCounter{})

	// A second registration of the same descriptor would panic.
	r.WatchKeys(&fixedCounter{})
}

func TestCollector_Describe(t *testing.T) {
	c := NewCollector(&fixedCounter{})
	ch := make(chan *prometheus.Desc, 2)
	c.Describe(ch)
	close(ch)

	n := 0
	for d := range ch {
		n++
		if !strings.Contains(d.String(), "respkv_keys") {
			t.Errorf("Describe() = %s, want respkv_keys", d)
		}
	}
	if n != 1 {
		t.Errorf("Describe() sent %d descriptors, want 1", n)
	}
}
