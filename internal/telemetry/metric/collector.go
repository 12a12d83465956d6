package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// KeyCounter reports the number of live keys.
type KeyCounter interface {
	Len() int
}

// Collector reports the current key count at scrape time.
type Collector struct {
	src  KeyCounter
	keys *prometheus.Desc
}

// NewCollector creates a collector reading from src.
func NewCollector(src KeyCounter) *Collector {
	return &Collector{
		src: src,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Number of keys currently stored.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.src.Len()))
}
