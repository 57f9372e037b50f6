// Package registry tracks the log category names a process uses, so that
// accidental duplicate registrations can be caught at the call site.
//
// The registry is an explicit, caller-owned object: there is no ambient
// global set and no background checking task. Register is synchronous and
// returns a result the caller can act on immediately.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicate is returned when a category name is registered twice.
var ErrDuplicate = errors.New("category already registered")

// Registry is a set of registered category names. It is safe for
// concurrent use.
type Registry struct {
	mu         sync.Mutex
	categories map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		categories: make(map[string]struct{}),
	}
}

// Register adds a category name. Registering a name that is already
// present returns an error wrapping ErrDuplicate; the set is unchanged.
func (r *Registry) Register(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.categories[name]; exists {
		return fmt.Errorf("category %q: %w", name, ErrDuplicate)
	}
	r.categories[name] = struct{}{}
	return nil
}

// Contains reports whether the name has been registered.
func (r *Registry) Contains(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.categories[name]
	return ok
}

// Names returns all registered category names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.categories))
	for name := range r.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
