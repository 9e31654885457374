// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the pipeline.
const (
	// Pipeline metrics.
	MetricBatches     = "netprobe_batches_total"
	MetricPositions   = "netprobe_positions_total"
	MetricParseErrors = "netprobe_parse_errors_total"
	MetricUnmapped    = "netprobe_unmapped_moves_total"
	MetricBatchSize   = "netprobe_batch_size"

	// Inference metrics.
	MetricInferenceSec = "netprobe_inference_seconds"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
