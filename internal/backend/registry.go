package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Sentinel errors for backend selection.
var (
	// ErrNoBackend indicates no backend has been registered.
	ErrNoBackend = errors.New("backend: no backends available")

	// ErrUnknownBackend indicates the requested backend name is not
	// registered.
	ErrUnknownBackend = errors.New("backend: unknown backend")
)

// Config carries everything a factory needs to construct a Network.
type Config struct {
	// ModelPath is the staged (decompressed) network file.
	ModelPath string

	// LibraryPath optionally points at a backend shared library.
	LibraryPath string

	// Logger is never nil; factories may ignore it.
	Logger *zap.Logger
}

// Factory constructs a Network from a Config.
type Factory func(cfg Config) (Network, error)

type registration struct {
	name     string
	priority int
	factory  Factory
}

var (
	mu            sync.RWMutex
	registrations []registration
)

// Register adds a backend factory under a name. Higher priority backends
// are listed first; ties order by name. Backends register themselves from
// package init.
func Register(name string, priority int, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registrations = append(registrations, registration{name: name, priority: priority, factory: f})
	sort.SliceStable(registrations, func(i, j int) bool {
		if registrations[i].priority != registrations[j].priority {
			return registrations[i].priority > registrations[j].priority
		}
		return registrations[i].name < registrations[j].name
	})
}

// Backends returns the registered backend names in selection order.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, len(registrations))
	for i, r := range registrations {
		names[i] = r.name
	}
	return names
}

// Create constructs the named backend. An empty name selects the first
// registered backend.
func Create(name string, cfg Config) (Network, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	mu.RLock()
	defer mu.RUnlock()

	if name == "" {
		if len(registrations) == 0 {
			return nil, ErrNoBackend
		}
		return registrations[0].factory(cfg)
	}
	for _, r := range registrations {
		if r.name == name {
			return r.factory(cfg)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
