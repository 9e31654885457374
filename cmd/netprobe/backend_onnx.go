//go:build cgo

package main

// The onnx backend wraps the cgo-based onnxruntime bindings, so it is only
// registered when cgo is available.
import _ "github.com/discochess/netprobe/internal/backend/onnx"
