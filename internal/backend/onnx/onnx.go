//go:build cgo

// Package onnx runs the network through ONNX Runtime. The model is
// expected to take a single "planes" input of shape [batch, 112, 8, 8] and
// produce a "value" head of shape [batch, 1] and a "policy" head of shape
// [batch, 1858].
package onnx

import (
	"context"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"github.com/discochess/netprobe/internal/backend"
	"github.com/discochess/netprobe/internal/encoder"
	"github.com/discochess/netprobe/internal/moveindex"
)

func init() {
	backend.Register("onnx", 100, New)
}

// Network wraps a dynamic ONNX session so every batch size maps onto one
// session run.
type Network struct {
	session *ort.DynamicAdvancedSession
	logger  *zap.Logger
}

// Compile-time check that Network implements backend.Network.
var _ backend.Network = (*Network)(nil)

// New loads a model and prepares a batched session.
func New(cfg backend.Config) (backend.Network, error) {
	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initializing onnxruntime: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{"planes"},
		[]string{"value", "policy"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session for %s: %w", cfg.ModelPath, err)
	}

	return &Network{session: session, logger: cfg.Logger}, nil
}

// Capabilities reports the classical 112-plane input layout.
func (n *Network) Capabilities() backend.Capabilities {
	return backend.Capabilities{InputFormat: encoder.Classical112}
}

// NewComputation starts an empty batch against this session.
func (n *Network) NewComputation() backend.Computation {
	return &computation{net: n}
}

// Close destroys the session.
func (n *Network) Close() error {
	if n.session == nil {
		return nil
	}
	err := n.session.Destroy()
	n.session = nil
	if err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

type computation struct {
	net    *Network
	slots  []encoder.Slot
	values []float32
	policy []float32
}

var _ backend.Computation = (*computation)(nil)

func (c *computation) AddInput(slot encoder.Slot) {
	c.slots = append(c.slots, slot)
}

func (c *computation) BatchSize() int {
	return len(c.slots)
}

func (c *computation) Compute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n := len(c.slots)
	if n == 0 {
		return fmt.Errorf("onnx: empty batch")
	}

	data := make([]float32, 0, n*encoder.SlotFloats)
	for _, slot := range c.slots {
		data = append(data, slot.Planes...)
	}

	input, err := ort.NewTensor(ort.NewShape(int64(n), encoder.PlaneCount, 8, 8), data)
	if err != nil {
		return fmt.Errorf("creating input tensor: %w", err)
	}
	defer input.Destroy()

	valueOut, err := ort.NewTensor(ort.NewShape(int64(n), 1), make([]float32, n))
	if err != nil {
		return fmt.Errorf("creating value tensor: %w", err)
	}
	defer valueOut.Destroy()

	policyOut, err := ort.NewTensor(ort.NewShape(int64(n), moveindex.SpaceSize), make([]float32, n*moveindex.SpaceSize))
	if err != nil {
		return fmt.Errorf("creating policy tensor: %w", err)
	}
	defer policyOut.Destroy()

	err = c.net.session.Run(
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{valueOut, policyOut},
	)
	if err != nil {
		return fmt.Errorf("running batch of %d: %w", n, err)
	}

	c.values = append([]float32(nil), valueOut.GetData()...)
	c.policy = append([]float32(nil), policyOut.GetData()...)
	return nil
}

func (c *computation) Value(i int) float32 {
	return c.values[i]
}

func (c *computation) Policy(i int) []float32 {
	return c.policy[i*moveindex.SpaceSize : (i+1)*moveindex.SpaceSize]
}
