// Package batcher groups non-blank input lines into fixed-size batches.
package batcher

import (
	"bufio"
	"io"
	"strings"
)

// InputMode selects how lines are pulled from the stream.
type InputMode int

const (
	// Streaming reads just enough lines to fill the next batch.
	Streaming InputMode = iota

	// ReadAll slurps the whole stream up front, then serves batches from
	// memory. Useful when the producer closes its end early.
	ReadAll
)

// BlankPolicy decides what counts as a blank line.
type BlankPolicy int

const (
	// TrimBlank trims leading and trailing whitespace before the
	// emptiness check. Lines are delivered trimmed. This is the stricter
	// policy and survives Windows pipe line endings.
	TrimBlank BlankPolicy = iota

	// RawBlank treats only the truly empty line as blank and delivers
	// lines untouched.
	RawBlank
)

// Reader assembles batches of non-blank lines from a line-oriented stream.
// Blank lines never count toward a batch. A partial batch at end of input
// is still delivered; after that, Next reports io.EOF.
type Reader struct {
	scanner *bufio.Scanner
	size    int
	mode    InputMode
	blank   BlankPolicy

	pending []string
	slurped bool
	eof     bool
}

// New creates a batch reader. size must be at least 1.
func New(r io.Reader, size int, mode InputMode, blank BlankPolicy) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Reader{scanner: sc, size: size, mode: mode, blank: blank}
}

// Next returns the next batch, between 1 and size lines long, in input
// order. It returns io.EOF once the stream is exhausted with nothing
// accumulated; any other error comes from the underlying stream.
func (r *Reader) Next() ([]string, error) {
	if r.mode == ReadAll {
		return r.nextFromPending()
	}
	return r.nextStreaming()
}

func (r *Reader) nextStreaming() ([]string, error) {
	if r.eof {
		return nil, io.EOF
	}
	batch := make([]string, 0, r.size)
	for len(batch) < r.size {
		if !r.scanner.Scan() {
			r.eof = true
			if err := r.scanner.Err(); err != nil {
				return nil, err
			}
			break
		}
		line, ok := r.accept(r.scanner.Text())
		if !ok {
			continue
		}
		batch = append(batch, line)
	}
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

func (r *Reader) nextFromPending() ([]string, error) {
	if !r.slurped {
		r.slurped = true
		for r.scanner.Scan() {
			if line, ok := r.accept(r.scanner.Text()); ok {
				r.pending = append(r.pending, line)
			}
		}
		if err := r.scanner.Err(); err != nil {
			return nil, err
		}
	}
	if len(r.pending) == 0 {
		return nil, io.EOF
	}
	n := r.size
	if n > len(r.pending) {
		n = len(r.pending)
	}
	batch := r.pending[:n]
	r.pending = r.pending[n:]
	return batch, nil
}

func (r *Reader) accept(line string) (string, bool) {
	if r.blank == TrimBlank {
		line = strings.TrimSpace(line)
	}
	return line, line != ""
}
