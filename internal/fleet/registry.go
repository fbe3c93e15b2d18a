// internal/fleet/registry.go
package fleet

import (
	"errors"
	"fmt"
)

// ErrUnknownDisplay is returned when a logical name is not registered.
var ErrUnknownDisplay = errors.New("fleet: unknown display")

// Registry is the source of truth for display identity.
// Read-only after construction. Iteration order is configuration order.
type Registry struct {
	order  []string
	byName map[string]Display
}

// NewRegistry builds a registry from an ordered display list.
// Duplicate names are a construction error.
func NewRegistry(displays []Display) (*Registry, error) {
	r := &Registry{
		order:  make([]string, 0, len(displays)),
		byName: make(map[string]Display, len(displays)),
	}
	for _, d := range displays {
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("fleet: duplicate display name %q", d.Name)
		}
		r.order = append(r.order, d.Name)
		r.byName[d.Name] = d
	}
	return r, nil
}

// Lookup resolves a logical display name.
func (r *Registry) Lookup(name string) (Display, error) {
	d, ok := r.byName[name]
	if !ok {
		return Display{}, fmt.Errorf("%w: %q", ErrUnknownDisplay, name)
	}
	return d, nil
}

// All returns every display in configuration order.
func (r *Registry) All() []Display {
	out := make([]Display, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len reports the fleet size.
func (r *Registry) Len() int {
	return len(r.order)
}
