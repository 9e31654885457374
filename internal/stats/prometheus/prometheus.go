// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/netprobe/internal/stats"
)

// Collector implements stats.Collector using Prometheus metrics.
// Every pipeline metric is known up front, so the full set is built and
// registered at construction time; unknown names are silently dropped.
type Collector struct {
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector with the pipeline metrics
// registered. If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	c := &Collector{
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}

	counterHelp := map[string]string{
		stats.MetricBatches:     "Batches dispatched to the network.",
		stats.MetricPositions:   "Positions evaluated and reported.",
		stats.MetricParseErrors: "Input lines skipped because they failed to parse.",
		stats.MetricUnmapped:    "Legal moves with no slot in the policy index space.",
	}
	for name, help := range counterHelp {
		counter := prometheus.NewCounter(prometheus.CounterOpts{
			Name: name,
			Help: help,
		})
		registry.MustRegister(counter)
		c.counters[name] = counter
	}

	batchSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: stats.MetricBatchSize,
		Help: "Size of the most recently dispatched batch.",
	})
	registry.MustRegister(batchSize)
	c.gauges[stats.MetricBatchSize] = batchSize

	inference := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    stats.MetricInferenceSec,
		Help:    "Wall time of one blocking batched evaluation.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})
	registry.MustRegister(inference)
	c.histograms[stats.MetricInferenceSec] = inference

	return c
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	if counter, ok := c.counters[name]; ok {
		counter.Add(float64(delta))
	}
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	if gauge, ok := c.gauges[name]; ok {
		gauge.Set(float64(value))
	}
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	if histogram, ok := c.histograms[name]; ok {
		histogram.Observe(value)
	}
}
