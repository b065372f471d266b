package module

// Set is the caller's desired configuration: an insertion-ordered collection
// of modules keyed by identity. When an identity is inserted twice the last
// instance wins and keeps the position of the first insertion.
type Set struct {
	order    []string
	items    map[string]Module
	replaced []string
}

// NewSet creates a set from the given modules in order
func NewSet(mods ...Module) *Set {
	s := &Set{items: make(map[string]Module, len(mods))}
	for _, m := range mods {
		s.With(m)
	}
	return s
}

// With declares a module. Nil modules are ignored.
func (s *Set) With(m Module) *Set {
	if m == nil {
		return s
	}
	id := m.ID()
	if _, ok := s.items[id]; ok {
		s.replaced = append(s.replaced, id)
	} else {
		s.order = append(s.order, id)
	}
	s.items[id] = m
	return s
}

// Extend appends every module of other, in other's order
func (s *Set) Extend(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, m := range other.Modules() {
		s.With(m)
	}
	return s
}

// Lookup returns the declared module for an identity
func (s *Set) Lookup(id string) (Module, bool) {
	m, ok := s.items[id]
	return m, ok
}

// Modules returns the declared modules in insertion order
func (s *Set) Modules() []Module {
	out := make([]Module, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// IDs returns the declared identities in insertion order
func (s *Set) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of distinct identities
func (s *Set) Len() int {
	return len(s.order)
}

// Replaced lists identities that were declared more than once, once per
// overwrite, in the order the overwrites happened.
func (s *Set) Replaced() []string {
	out := make([]string, len(s.replaced))
	copy(out, s.replaced)
	return out
}

// Compose merges sets left to right into a new set
func Compose(sets ...*Set) *Set {
	out := NewSet()
	for _, s := range sets {
		out.Extend(s)
	}
	return out
}
