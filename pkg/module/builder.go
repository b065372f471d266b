package module

import "context"

// Builder constructs a Node. Building never fails and has no side effects;
// nothing runs until the reconciler invokes the node's actions.
type Builder struct {
	node *Node
}

// NewBuilder returns a builder whose node is satisfied when enabled, sets
// Enabled on enable, clears it on disable, and has no children.
func NewBuilder(name string) *Builder {
	return &Builder{
		node: &Node{
			name:    name,
			check:   defaultCheck,
			enable:  defaultEnable,
			disable: defaultDisable,
		},
	}
}

// WithCheck replaces the check predicate
func (b *Builder) WithCheck(fn CheckFunc) *Builder {
	if fn != nil {
		b.node.check = fn
	}
	return b
}

// WithEnable replaces the enable action
func (b *Builder) WithEnable(fn ActionFunc) *Builder {
	if fn != nil {
		b.node.enable = fn
	}
	return b
}

// WithDisable replaces the disable action
func (b *Builder) WithDisable(fn ActionFunc) *Builder {
	if fn != nil {
		b.node.disable = fn
	}
	return b
}

// WithChild attaches an already-built child. The child is owned by the
// node from here on and must not be attached anywhere else.
func (b *Builder) WithChild(child *Node) *Builder {
	if child != nil {
		b.node.children = append(b.node.children, child)
	}
	return b
}

// Build returns the node. The builder must not be reused afterwards.
func (b *Builder) Build() *Node {
	n := b.node
	b.node = nil
	return n
}

func defaultCheck(s State) bool {
	return s.Enabled
}

func defaultEnable(_ context.Context, s *State) error {
	s.Enabled = true
	return nil
}

func defaultDisable(_ context.Context, s *State) error {
	s.Enabled = false
	return nil
}
