package module

import "fmt"

// Registry is the immutable catalog of every known module kind in its
// default instantiation. Iteration follows registration order.
type Registry struct {
	modules []Module
	index   map[string]int
}

// NewRegistry builds a registry from canonical defaults. Identities must be
// unique and non-empty.
func NewRegistry(mods ...Module) (*Registry, error) {
	r := &Registry{
		modules: make([]Module, 0, len(mods)),
		index:   make(map[string]int, len(mods)),
	}

	for i, m := range mods {
		if m == nil {
			return nil, fmt.Errorf("registry entry %d: %w", i, ErrNilModule)
		}
		id := m.ID()
		if id == "" {
			return nil, fmt.Errorf("registry entry %d: %w", i, ErrEmptyID)
		}
		if _, ok := r.index[id]; ok {
			return nil, &DuplicateIdentityError{ID: id}
		}
		r.index[id] = len(r.modules)
		r.modules = append(r.modules, m)
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. Intended for
// package-level catalogs assembled from compile-time constants.
func MustRegistry(mods ...Module) *Registry {
	r, err := NewRegistry(mods...)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns the canonical defaults in registry order
func (r *Registry) All() []Module {
	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// Lookup returns the canonical default for an identity
func (r *Registry) Lookup(id string) (Module, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.modules[i], true
}

// IDs returns every identity in registry order
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.modules))
	for i, m := range r.modules {
		ids[i] = m.ID()
	}
	return ids
}

// Len returns the number of canonical modules
func (r *Registry) Len() int {
	return len(r.modules)
}
