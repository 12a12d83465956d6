package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "respkv"

// Command outcome label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Connection metrics
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	ProtocolErrors    prometheus.Counter

	// Store metrics
	ExpiredKeys   prometheus.Counter
	ReaperWakeups prometheus.Counter

	keysOnce sync.Once
}

// NewRegistry creates a registry with the respkv metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total commands processed by command and outcome.",
			},
			[]string{"command", "status"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Command execution time in seconds.",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"command"},
		),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Currently open client connections.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Client connections accepted since start.",
		}),
		ProtocolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Connections closed because of malformed RESP input.",
		}),
		ExpiredKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expired_keys_total",
			Help:      "Keys removed because their expiry passed.",
		}),
		ReaperWakeups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaper_wakeups_total",
			Help:      "Times the expiry reaper woke up.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.CommandsTotal,
		r.CommandDuration,
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.ProtocolErrors,
		r.ExpiredKeys,
		r.ReaperWakeups,
	)

	return r
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns the /metrics handler of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry: r.registry,
	})
}

// Gatherer exposes the underlying registry for tests and custom handlers.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WatchKeys registers the respkv_keys gauge over src. Only the first call
// has an effect.
func (r *Registry) WatchKeys(src KeyCounter) {
	r.keysOnce.Do(func() {
		r.registry.MustRegister(NewCollector(src))
	})
}

// ConnectionOpened records an accepted client connection.
func (r *Registry) ConnectionOpened() {
	r.ConnectionsActive.Inc()
	r.ConnectionsTotal.Inc()
}

// ConnectionClosed records a closed client connection.
func (r *Registry) ConnectionClosed() {
	r.ConnectionsActive.Dec()
}

// ProtocolError records a connection dropped for malformed input.
func (r *Registry) ProtocolError() {
	r.ProtocolErrors.Inc()
}

// CommandProcessed records one executed command.
func (r *Registry) CommandProcessed(command string, failed bool, elapsed time.Duration) {
	status := StatusOK
	if failed {
		status = StatusError
	}
	r.CommandsTotal.WithLabelValues(command, status).Inc()
	r.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// KeysExpired records keys removed by expiry.
func (r *Registry) KeysExpired(n int) {
	if n > 0 {
		r.ExpiredKeys.Add(float64(n))
	}
}

// ReaperWoke records one reaper wakeup.
func (r *Registry) ReaperWoke() {
	r.ReaperWakeups.Inc()
}
