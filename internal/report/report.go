// Package report renders per-position results in the line-oriented format
// downstream consumers parse: the input line echoed verbatim, the value,
// one policy line, a separator per position and a BATCH_DONE marker per
// batch.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/discochess/netprobe/internal/decoder"
)

const separator = "--------------------------------------------------"

// LogitsHeader labels legal-restricted policy lines.
const LogitsHeader = "Policy (Logits):"

// TopSetHeader labels unrestricted top-set policy lines for a threshold,
// e.g. "Policy (Top > 1%):" for 0.01.
func TopSetHeader(threshold float32) string {
	return fmt.Sprintf("Policy (Top > %g%%):", threshold*100)
}

// Writer emits position reports. Output is buffered; each batch marker
// flushes synchronously so incremental consumers see batch boundaries
// promptly.
type Writer struct {
	w *bufio.Writer
}

// New wraps an output stream.
func New(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Position writes one position report. line is the original input line,
// echoed byte for byte rather than re-serialized from the parsed position.
func (w *Writer) Position(line string, value float32, header string, moves []decoder.Scored) error {
	if _, err := fmt.Fprintf(w.w, "FEN: %s\n", line); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.w, "Value: %g\n", value); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.w, "%s ", header); err != nil {
		return err
	}
	for _, m := range moves {
		if _, err := fmt.Fprintf(w.w, "%d:%g ", m.Index, m.Score); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w.w, "\n%s\n", separator); err != nil {
		return err
	}
	return nil
}

// BatchDone writes the batch-boundary marker and flushes.
func (w *Writer) BatchDone() error {
	if _, err := fmt.Fprintln(w.w, "BATCH_DONE"); err != nil {
		return err
	}
	return w.w.Flush()
}

// Flush forces out any buffered output.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
