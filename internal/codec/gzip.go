package codec

import (
	"bytes"
	"compress/gzip"
	"io"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Gzip decompresses RFC 1952 gzip streams.
type Gzip struct{}

// Compile-time check that Gzip implements Codec.
var _ Codec = Gzip{}

// Name returns "gzip".
func (Gzip) Name() string { return "gzip" }

// Extension returns "gz".
func (Gzip) Extension() string { return "gz" }

// Sniff reports whether head starts with the gzip magic bytes.
func (Gzip) Sniff(head []byte) bool {
	return bytes.HasPrefix(head, gzipMagic)
}

// Reader wraps r to decompress gzip data.
func (Gzip) Reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}
