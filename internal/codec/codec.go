// Package codec detects and decompresses compressed network weight files.
// Detection goes by magic bytes, not file extension, so a compressed file
// with a misleading name still decompresses.
package codec

import "io"

// Codec decompresses one compression format.
type Codec interface {
	// Name returns the short format name, e.g. "gzip".
	Name() string

	// Extension returns the conventional file extension without dot.
	Extension() string

	// Sniff reports whether head starts with this format's magic bytes.
	Sniff(head []byte) bool

	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
}

// MagicLen is how many leading bytes Detect needs to see. Shorter heads
// are fine; they just match fewer formats.
const MagicLen = 4

// codecs lists the known formats in sniff order.
var codecs = []Codec{Gzip{}, Zstd{}}

// Detect returns the codec whose magic bytes start head, or nil when head
// is not compressed in any known format.
func Detect(head []byte) Codec {
	for _, c := range codecs {
		if c.Sniff(head) {
			return c
		}
	}
	return nil
}
