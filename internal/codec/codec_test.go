package codec

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want string
	}{
		{"gzip magic", []byte{0x1f, 0x8b, 0x08, 0x00}, "gzip"},
		{"zstd magic", []byte{0x28, 0xb5, 0x2f, 0xfd}, "zstd"},
		{"plain text", []byte("FEN:"), ""},
		{"onnx protobuf", []byte{0x08, 0x07, 0x12, 0x00}, ""},
		{"short head", []byte{0x1f}, ""},
		{"empty head", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Detect(tt.head)
			got := ""
			if c != nil {
				got = c.Name()
			}
			if got != tt.want {
				t.Errorf("Detect(%v) = %q, want %q", tt.head, got, tt.want)
			}
		})
	}
}

func TestGzipRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("weight-bytes")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	c := Detect(buf.Bytes())
	if c == nil || c.Name() != "gzip" {
		t.Fatalf("Detect on gzip stream = %v", c)
	}

	r, err := c.Reader(&buf)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "weight-bytes" {
		t.Errorf("decompressed = %q", got)
	}
}

func TestZstdRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Write([]byte("weight-bytes")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	c := Detect(buf.Bytes())
	if c == nil || c.Name() != "zstd" {
		t.Fatalf("Detect on zstd stream = %v", c)
	}

	r, err := c.Reader(&buf)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "weight-bytes" {
		t.Errorf("decompressed = %q", got)
	}
}

func TestGzipReaderRejectsGarbage(t *testing.T) {
	if _, err := (Gzip{}).Reader(bytes.NewReader([]byte("not gzip"))); err == nil {
		t.Error("Reader() on garbage succeeded")
	}
}
