// Package mock provides a deterministic in-process network. It needs no
// model file or shared library, which makes it the backend of choice for
// tests and for exercising the pipeline without real weights.
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/discochess/netprobe/internal/backend"
	"github.com/discochess/netprobe/internal/encoder"
	"github.com/discochess/netprobe/internal/moveindex"
)

func init() {
	backend.Register("mock", -100, func(cfg backend.Config) (backend.Network, error) {
		return New(), nil
	})
}

// Network produces pseudo-random but reproducible outputs: the value head
// is a tanh of an input digest (always finite, always in (-1, 1)) and each
// policy slot is a smooth function of the digest and the slot index.
type Network struct {
	// Format is the input format the mock declares. Defaults to
	// Classical112.
	Format encoder.InputFormat

	// FailCompute makes every Compute call fail, for error-path tests.
	FailCompute bool
}

var _ backend.Network = (*Network)(nil)

// New creates a mock network with the classical input format.
func New() *Network {
	return &Network{Format: encoder.Classical112}
}

func (n *Network) Capabilities() backend.Capabilities {
	return backend.Capabilities{InputFormat: n.Format}
}

func (n *Network) NewComputation() backend.Computation {
	return &computation{net: n}
}

func (n *Network) Close() error { return nil }

type computation struct {
	net     *Network
	digests []uint64
}

var _ backend.Computation = (*computation)(nil)

func (c *computation) AddInput(slot encoder.Slot) {
	h := fnv.New64a()
	var buf [4]byte
	for _, v := range slot.Planes {
		bits := math.Float32bits(v)
		buf[0] = byte(bits)
		buf[1] = byte(bits >> 8)
		buf[2] = byte(bits >> 16)
		buf[3] = byte(bits >> 24)
		h.Write(buf[:])
	}
	c.digests = append(c.digests, h.Sum64())
}

func (c *computation) BatchSize() int {
	return len(c.digests)
}

func (c *computation) Compute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.net.FailCompute {
		return fmt.Errorf("mock: compute failed")
	}
	if len(c.digests) == 0 {
		return fmt.Errorf("mock: empty batch")
	}
	return nil
}

func (c *computation) Value(i int) float32 {
	d := c.digests[i]
	return float32(math.Tanh(float64(int64(d%2001)-1000) / 500))
}

func (c *computation) Policy(i int) []float32 {
	d := c.digests[i]
	row := make([]float32, moveindex.SpaceSize)
	for idx := range row {
		row[idx] = float32(math.Sin(float64(d%997)/997 + float64(idx)*0.37))
	}
	return row
}
