// Package weights stages network weight files for backends that want a
// plain file on disk. Compressed files are detected by their magic bytes
// and decompressed to a temporary file; anything else is handed through
// untouched.
package weights

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/discochess/netprobe/internal/codec"
)

// Stage makes the weights at path available as a plain file and returns
// its location plus a cleanup func. The cleanup is a no-op when no staging
// was needed.
func Stage(path string) (string, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("weights file: %w", err)
	}
	defer f.Close()

	head := make([]byte, codec.MagicLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("reading weights file: %w", err)
	}
	head = head[:n]

	c := codec.Detect(head)
	if c == nil {
		return path, func() error { return nil }, nil
	}

	// The sniffed bytes are already consumed, so stitch them back in
	// front of the rest of the file.
	r, err := c.Reader(io.MultiReader(strings.NewReader(string(head)), f))
	if err != nil {
		return "", nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	defer r.Close()

	tmp, err := os.CreateTemp("", "netprobe-*-"+stagedName(path, c))
	if err != nil {
		return "", nil, fmt.Errorf("staging weights: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("staging weights: %w", err)
	}

	name := tmp.Name()
	return name, func() error { return os.Remove(name) }, nil
}

// stagedName strips the compression suffix from the file name so the
// temporary file keeps a recognizable model extension.
func stagedName(path string, c codec.Codec) string {
	base := filepath.Base(path)
	for _, suffix := range []string{"." + c.Extension(), ".zstd"} {
		if trimmed := strings.TrimSuffix(base, suffix); trimmed != base {
			return trimmed
		}
	}
	return base
}
