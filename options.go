package netprobe

import (
	"go.uber.org/zap"

	"github.com/discochess/netprobe/internal/backend"
	"github.com/discochess/netprobe/internal/batcher"
	"github.com/discochess/netprobe/internal/encoder"
	"github.com/discochess/netprobe/internal/stats"
)

// PolicyMode selects the policy output shape.
type PolicyMode int

const (
	// PolicyLegal reports exactly the legal moves, ordered by ascending
	// global index, with raw logits.
	PolicyLegal PolicyMode = iota

	// PolicyTopSet reports every slot in the whole index space whose
	// softmax probability clears the threshold, ordered by descending
	// probability, without legality filtering.
	PolicyTopSet
)

// DefaultBatchSize is used when no batch size is configured.
const DefaultBatchSize = 4

// DefaultThreshold is the top-set probability cutoff (1%).
const DefaultThreshold = 0.01

// Option configures a Pipeline.
type Option interface {
	apply(*options)
}

// options holds the pipeline configuration.
type options struct {
	network     backend.Network
	batchSize   int
	policyMode  PolicyMode
	threshold   float32
	historyMode encoder.HistoryMode
	inputMode   batcher.InputMode
	blankPolicy batcher.BlankPolicy
	stats       stats.Collector
	logger      *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		batchSize:   DefaultBatchSize,
		policyMode:  PolicyLegal,
		threshold:   DefaultThreshold,
		historyMode: encoder.HistoryFilled,
		inputMode:   batcher.Streaming,
		blankPolicy: batcher.TrimBlank,
		stats:       stats.NewNoop(),
		logger:      zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithNetwork sets the network to evaluate with. Required.
func WithNetwork(n backend.Network) Option {
	return optionFunc(func(o *options) {
		o.network = n
	})
}

// WithBatchSize sets how many positions are evaluated per batch.
// Default is DefaultBatchSize.
func WithBatchSize(n int) Option {
	return optionFunc(func(o *options) {
		o.batchSize = n
	})
}

// WithPolicyMode selects the policy output shape.
// Default is PolicyLegal.
func WithPolicyMode(m PolicyMode) Option {
	return optionFunc(func(o *options) {
		o.policyMode = m
	})
}

// WithThreshold sets the top-set probability cutoff.
// Only meaningful with PolicyTopSet. Default is DefaultThreshold.
func WithThreshold(t float32) Option {
	return optionFunc(func(o *options) {
		o.threshold = t
	})
}

// WithHistoryMode controls how history planes are populated.
// Default is encoder.HistoryFilled.
func WithHistoryMode(m encoder.HistoryMode) Option {
	return optionFunc(func(o *options) {
		o.historyMode = m
	})
}

// WithInputMode selects streaming or read-all input.
// Default is batcher.Streaming.
func WithInputMode(m batcher.InputMode) Option {
	return optionFunc(func(o *options) {
		o.inputMode = m
	})
}

// WithBlankPolicy selects the blank-line policy.
// Default is batcher.TrimBlank.
func WithBlankPolicy(p batcher.BlankPolicy) Option {
	return optionFunc(func(o *options) {
		o.blankPolicy = p
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
