package mpc

import (
	"fmt"
	"sort"
	"sync"
)

// Registry tracks the variables an engine has produced. A host that
// wants to list or guard active names passes one in with WithRegistry.
type Registry struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Track records name, failing if it was already recorded
func (r *Registry) Track(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[name]; ok {
		return fmt.Errorf("%w: %q", ErrNameInUse, name)
	}
	r.names[name] = struct{}{}
	return nil
}

// Names returns the recorded names in sorted order
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.names))
	for n := range r.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
