package weights

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestStagePlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.onnx")
	if err := os.WriteFile(path, []byte("model-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	staged, cleanup, err := Stage(path)
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	defer cleanup()

	if staged != path {
		t.Errorf("plain file was staged to %q, want passthrough", staged)
	}
}

func TestStageGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.onnx.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte("model-bytes")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	staged, cleanup, err := Stage(path)
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}

	got, err := os.ReadFile(staged)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "model-bytes" {
		t.Errorf("staged content = %q", got)
	}

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup error = %v", err)
	}
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Error("cleanup did not remove staged file")
	}
}

func TestStageGzipWithoutExtension(t *testing.T) {
	// Detection goes by magic bytes, so a compressed file with a plain
	// name must still decompress.
	dir := t.TempDir()
	path := filepath.Join(dir, "net.onnx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte("model-bytes")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	staged, cleanup, err := Stage(path)
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	defer cleanup()

	if staged == path {
		t.Fatal("compressed file was passed through unstaged")
	}
	got, err := os.ReadFile(staged)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "model-bytes" {
		t.Errorf("staged content = %q", got)
	}
}

func TestStageMissingFile(t *testing.T) {
	if _, _, err := Stage(filepath.Join(t.TempDir(), "missing.onnx")); err == nil {
		t.Error("Stage() on missing file succeeded")
	}
}
