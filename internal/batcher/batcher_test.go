package batcher

import (
	"io"
	"strings"
	"testing"
)

func collect(t *testing.T, r *Reader) [][]string {
	t.Helper()
	var batches [][]string
	for {
		batch, err := r.Next()
		if err == io.EOF {
			return batches
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if len(batch) == 0 {
			t.Fatal("Next() returned an empty batch")
		}
		batches = append(batches, batch)
	}
}

func TestBlankLinesNeverCount(t *testing.T) {
	in := "\nfen1\n\nfen2\n"
	r := New(strings.NewReader(in), 2, Streaming, TrimBlank)
	batches := collect(t, r)
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}
	if len(batches[0]) != 2 || batches[0][0] != "fen1" || batches[0][1] != "fen2" {
		t.Errorf("batch = %v", batches[0])
	}
}

func TestPartialFinalBatch(t *testing.T) {
	in := "fen1\nfen2\n"
	r := New(strings.NewReader(in), 4, Streaming, TrimBlank)
	batches := collect(t, r)
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Errorf("final batch has %d lines, want 2", len(batches[0]))
	}
}

func TestEmptyInput(t *testing.T) {
	for _, in := range []string{"", "\n\n\n", "   \n\t\n"} {
		r := New(strings.NewReader(in), 4, Streaming, TrimBlank)
		if batches := collect(t, r); len(batches) != 0 {
			t.Errorf("input %q: got %d batches, want 0", in, len(batches))
		}
	}
}

func TestBatchBoundaries(t *testing.T) {
	in := "a\nb\nc\nd\ne\n"
	for _, mode := range []InputMode{Streaming, ReadAll} {
		r := New(strings.NewReader(in), 2, mode, TrimBlank)
		batches := collect(t, r)
		if len(batches) != 3 {
			t.Fatalf("mode %d: got %d batches, want 3", mode, len(batches))
		}
		want := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
		for i, batch := range batches {
			if len(batch) != len(want[i]) {
				t.Fatalf("mode %d batch %d = %v, want %v", mode, i, batch, want[i])
			}
			for j := range batch {
				if batch[j] != want[i][j] {
					t.Errorf("mode %d batch %d = %v, want %v", mode, i, batch, want[i])
				}
			}
		}
	}
}

func TestTrimPolicy(t *testing.T) {
	in := "  fen1  \r\n   \nfen2\n"

	trimmed := New(strings.NewReader(in), 4, Streaming, TrimBlank)
	batches := collect(t, trimmed)
	if len(batches) != 1 || len(batches[0]) != 2 {
		t.Fatalf("trimmed: batches = %v", batches)
	}
	if batches[0][0] != "fen1" {
		t.Errorf("trimmed first line = %q, want %q", batches[0][0], "fen1")
	}

	// Raw policy counts whitespace-only lines and keeps padding. The
	// scanner still strips the line terminator, \r included.
	raw := New(strings.NewReader(in), 4, Streaming, RawBlank)
	batches = collect(t, raw)
	if len(batches) != 1 || len(batches[0]) != 3 {
		t.Fatalf("raw: batches = %v", batches)
	}
	if batches[0][0] != "  fen1  " {
		t.Errorf("raw first line = %q", batches[0][0])
	}
}

func TestNextAfterEOF(t *testing.T) {
	r := New(strings.NewReader("a\n"), 2, Streaming, TrimBlank)
	if _, err := r.Next(); err != nil {
		t.Fatalf("first Next() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := r.Next(); err != io.EOF {
			t.Fatalf("Next() after exhaustion error = %v, want io.EOF", err)
		}
	}
}
