package module

import "context"

// State is the mutable record owned by a single Node
type State struct {
	Enabled bool
}

// CheckFunc reports whether a node's state already satisfies its goal
type CheckFunc func(State) bool

// ActionFunc performs an enable or disable step and updates the state in place
type ActionFunc func(ctx context.Context, s *State) error

// Node is one unit of nested module behavior. A Node exclusively owns its
// state and its children; nodes form a strict tree.
type Node struct {
	name     string
	state    State
	check    CheckFunc
	enable   ActionFunc
	disable  ActionFunc
	children []*Node
}

// Name returns the node name
func (n *Node) Name() string {
	return n.name
}

// State returns a copy of the node state
func (n *Node) State() State {
	return n.state
}

// Children returns the owned children in declaration order
func (n *Node) Children() []*Node {
	return n.children
}

// Check evaluates the check predicate against the current state
func (n *Node) Check() bool {
	return n.check(n.state)
}

// Enable runs the enable action
func (n *Node) Enable(ctx context.Context) error {
	return n.enable(ctx, &n.state)
}

// Disable runs the disable action
func (n *Node) Disable(ctx context.Context) error {
	return n.disable(ctx, &n.state)
}
