// Package netprobefx provides an fx module for an inference pipeline
// backed by a registered network backend.
package netprobefx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/netprobe"
	"github.com/discochess/netprobe/internal/backend"
	"github.com/discochess/netprobe/internal/stats"
	"github.com/discochess/netprobe/internal/stats/logger"
	"github.com/discochess/netprobe/internal/weights"
)

// Config holds configuration for the pipeline.
type Config struct {
	// NetworkPath points at the network weights file, optionally
	// compressed (.gz, .zst).
	NetworkPath string

	// Backend names the backend to use. Empty selects the first
	// registered one.
	Backend string

	// BatchSize is the number of positions per batch. Default is
	// netprobe.DefaultBatchSize.
	BatchSize int
}

// Module provides a configured *netprobe.Pipeline.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("netprobe",
	fx.Provide(
		newStatsCollector,
		newNetwork,
		newPipeline,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("netprobe.stats"))
}

// NetworkParams holds dependencies for creating the network.
type NetworkParams struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
}

func newNetwork(p NetworkParams) (backend.Network, error) {
	modelPath, cleanup, err := weights.Stage(p.Config.NetworkPath)
	if err != nil {
		return nil, err
	}

	net, err := backend.Create(p.Config.Backend, backend.Config{
		ModelPath: modelPath,
		Logger:    p.Logger.Named("backend"),
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			err := net.Close()
			if cerr := cleanup(); err == nil {
				err = cerr
			}
			return err
		},
	})

	return net, nil
}

// PipelineParams holds dependencies for creating the pipeline.
type PipelineParams struct {
	fx.In

	Config    Config
	Network   backend.Network
	Logger    *zap.Logger
	Collector stats.Collector
}

func newPipeline(p PipelineParams) (*netprobe.Pipeline, error) {
	batchSize := p.Config.BatchSize
	if batchSize <= 0 {
		batchSize = netprobe.DefaultBatchSize
	}
	return netprobe.New(
		netprobe.WithNetwork(p.Network),
		netprobe.WithBatchSize(batchSize),
		netprobe.WithStats(p.Collector),
		netprobe.WithLogger(p.Logger.Named("netprobe")),
	)
}
