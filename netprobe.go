// Package netprobe drives batched neural-network evaluation of chess
// positions: FEN strings stream in line by line, fixed-size batches go
// through one blocking evaluation each, and the policy output is decoded
// back onto moves and reported per position.
//
// Example usage:
//
//	net, err := backend.Create("", backend.Config{ModelPath: "net.onnx"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer net.Close()
//
//	pipeline, err := netprobe.New(
//	    netprobe.WithNetwork(net),
//	    netprobe.WithBatchSize(16),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := pipeline.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package netprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/discochess/netprobe/internal/batcher"
	"github.com/discochess/netprobe/internal/decoder"
	"github.com/discochess/netprobe/internal/encoder"
	"github.com/discochess/netprobe/internal/fen"
	"github.com/discochess/netprobe/internal/report"
	"github.com/discochess/netprobe/internal/stats"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNoNetwork indicates no network was provided.
	ErrNoNetwork = errors.New("netprobe: no network provided")

	// ErrBadBatchSize indicates the configured batch size is not positive.
	ErrBadBatchSize = errors.New("netprobe: batch size must be at least 1")
)

// Pipeline is the encode -> batch -> decode driver. It owns no goroutines:
// processing is strictly sequential, batch by batch, and the only blocking
// point is the network's batched computation.
type Pipeline struct {
	cfg options
}

// New creates a Pipeline with the given options. A network is required.
func New(opts ...Option) (*Pipeline, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if cfg.network == nil {
		return nil, ErrNoNetwork
	}
	if cfg.batchSize < 1 {
		return nil, ErrBadBatchSize
	}
	return &Pipeline{cfg: cfg}, nil
}

// position is one batch entry that survived parsing. Slots enter the
// computation in entry order, so comp index i belongs to entries[i].
type position struct {
	line string
	pos  *chess.Position
	slot encoder.Slot
}

// Run processes input until end of stream. Each batch of non-blank lines
// is encoded, evaluated in one blocking call, decoded, and reported,
// followed by a BATCH_DONE marker and a synchronous flush. Unparsable
// lines are logged and skipped; a backend failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg := p.cfg

	// The input format is queried once and threaded through every
	// encoding call.
	format := cfg.network.Capabilities().InputFormat

	header := report.LogitsHeader
	if cfg.policyMode == PolicyTopSet {
		header = report.TopSetHeader(cfg.threshold)
	}

	reader := batcher.New(in, cfg.batchSize, cfg.inputMode, cfg.blankPolicy)
	writer := report.New(out)

	for {
		lines, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if err := p.runBatch(ctx, lines, format, header, writer); err != nil {
			return err
		}
	}
}

func (p *Pipeline) runBatch(ctx context.Context, lines []string, format encoder.InputFormat, header string, writer *report.Writer) error {
	cfg := p.cfg
	batchID := uuid.NewString()
	cfg.logger.Debug("assembling batch",
		zap.String("batchID", batchID),
		zap.Int("lines", len(lines)),
	)
	cfg.stats.IncCounter(stats.MetricBatches, 1)
	cfg.stats.SetGauge(stats.MetricBatchSize, int64(len(lines)))

	comp := cfg.network.NewComputation()
	entries := make([]position, 0, len(lines))
	for _, line := range lines {
		pos, err := parsePosition(line)
		if err != nil {
			// Defensive choice: one malformed line must not abort a
			// long-running batch job.
			cfg.logger.Warn("skipping unparsable position",
				zap.String("batchID", batchID),
				zap.String("line", line),
				zap.Error(err),
			)
			cfg.stats.IncCounter(stats.MetricParseErrors, 1)
			continue
		}
		slot := encoder.Encode(pos, format, cfg.historyMode)
		comp.AddInput(slot)
		entries = append(entries, position{line: line, pos: pos, slot: slot})
	}

	if len(entries) > 0 {
		start := time.Now()
		if err := comp.Compute(ctx); err != nil {
			return fmt.Errorf("computing batch of %d: %w", comp.BatchSize(), err)
		}
		cfg.stats.ObserveHistogram(stats.MetricInferenceSec, time.Since(start).Seconds())
	}

	for i, e := range entries {
		row := comp.Policy(i)
		var moves []decoder.Scored
		if cfg.policyMode == PolicyTopSet {
			moves = decoder.TopSet(row, cfg.threshold)
		} else {
			moves = decoder.Legal(e.pos, e.slot.Transform, row)
			if dropped := legalMoveCount(e.pos) - len(moves); dropped > 0 {
				cfg.stats.IncCounter(stats.MetricUnmapped, int64(dropped))
			}
		}
		if err := writer.Position(e.line, comp.Value(i), header, moves); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		cfg.stats.IncCounter(stats.MetricPositions, 1)
	}

	if err := writer.BatchDone(); err != nil {
		return fmt.Errorf("writing batch marker: %w", err)
	}
	cfg.logger.Debug("batch done",
		zap.String("batchID", batchID),
		zap.Int("positions", len(entries)),
	)
	return nil
}

// parsePosition validates and parses one input line.
func parsePosition(line string) (*chess.Position, error) {
	if err := fen.Validate(line); err != nil {
		return nil, err
	}
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(line)); err != nil {
		return nil, err
	}
	return pos, nil
}

func legalMoveCount(pos *chess.Position) int {
	return len(pos.ValidMoves())
}
