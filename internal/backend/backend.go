// Package backend defines the contracts between the driver and the neural
// network execution engines, plus a factory registry for backend selection.
package backend

import (
	"context"

	"github.com/discochess/netprobe/internal/encoder"
)

// Capabilities describes what a network requires and provides. The driver
// queries it once after construction and threads InputFormat unchanged into
// every encoding call.
type Capabilities struct {
	InputFormat encoder.InputFormat
}

// Network is a loaded network on a concrete execution backend. A Network
// is constructed once at startup and confined to a single flow of control.
type Network interface {
	// Capabilities reports the network's declared requirements.
	Capabilities() Capabilities

	// NewComputation starts an empty batch. Each batch owns its inputs
	// and results exclusively; nothing is shared across batches.
	NewComputation() Computation

	// Close releases backend resources.
	Close() error
}

// Computation is one batched evaluation. Slots are added in input order,
// evaluated together by a single blocking Compute call, and read back by
// batch-local index aligned with the order of AddInput calls.
type Computation interface {
	// AddInput appends an encoded slot to the batch.
	AddInput(slot encoder.Slot)

	// Compute runs the whole batch and blocks until results are ready.
	// There are no partial results: the batch completes or fails.
	Compute(ctx context.Context) error

	// BatchSize reports the number of slots added so far.
	BatchSize() int

	// Value returns the scalar value estimate for a batch-local index.
	Value(i int) float32

	// Policy returns the dense per-move-index score row for a
	// batch-local index. The row is read-only and valid until the next
	// batch begins.
	Policy(i int) []float32
}
