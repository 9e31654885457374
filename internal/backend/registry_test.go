package backend

import (
	"errors"
	"testing"
)

type fakeNetwork struct {
	Network
	name string
}

func fakeFactory(name string) Factory {
	return func(cfg Config) (Network, error) {
		return &fakeNetwork{name: name}, nil
	}
}

// The registry is package-global, so selection order, name lookup and the
// empty-registry error are exercised in one sequence.
func TestRegistry(t *testing.T) {
	if _, err := Create("", Config{}); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("Create on empty registry error = %v, want ErrNoBackend", err)
	}

	Register("slow", 10, fakeFactory("slow"))
	Register("fast", 90, fakeFactory("fast"))
	Register("also-fast", 90, fakeFactory("also-fast"))

	names := Backends()
	want := []string{"also-fast", "fast", "slow"}
	if len(names) != len(want) {
		t.Fatalf("Backends() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Backends() = %v, want %v", names, want)
		}
	}

	net, err := Create("", Config{})
	if err != nil {
		t.Fatalf("Create(\"\") error = %v", err)
	}
	if got := net.(*fakeNetwork).name; got != "also-fast" {
		t.Errorf("default selection = %q, want %q", got, "also-fast")
	}

	net, err = Create("slow", Config{})
	if err != nil {
		t.Fatalf("Create(slow) error = %v", err)
	}
	if got := net.(*fakeNetwork).name; got != "slow" {
		t.Errorf("named selection = %q, want %q", got, "slow")
	}

	if _, err := Create("missing", Config{}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Create(missing) error = %v, want ErrUnknownBackend", err)
	}
}
