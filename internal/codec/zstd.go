package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Zstd decompresses zstandard streams.
type Zstd struct{}

// Compile-time check that Zstd implements Codec.
var _ Codec = Zstd{}

// Name returns "zstd".
func (Zstd) Name() string { return "zstd" }

// Extension returns "zst".
func (Zstd) Extension() string { return "zst" }

// Sniff reports whether head starts with the zstd frame magic.
func (Zstd) Sniff(head []byte) bool {
	return bytes.HasPrefix(head, zstdMagic)
}

// Reader wraps r to decompress zstd data.
func (Zstd) Reader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}
