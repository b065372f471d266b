package reconciler

import (
	"context"

	"github.com/ezix/ezix/pkg/events"
	"github.com/ezix/ezix/pkg/metrics"
	"github.com/ezix/ezix/pkg/module"
	"github.com/ezix/ezix/pkg/types"
)

// Manager owns named module trees and converges all of them on Apply.
//
// Registration happens before Apply; re-registering an identity replaces its
// root but keeps the position of the first registration. Apply visits roots
// in that order. Each tree is walked depth-first: a node whose check fails is
// enabled, and its children are visited in declaration order only if the
// check holds afterwards. Manager is not safe for concurrent use.
type Manager struct {
	roots map[string]*module.Node
	order []string
	opts  options
}

// NewManager creates an empty manager
func NewManager(opts ...Option) *Manager {
	return &Manager{
		roots: make(map[string]*module.Node),
		opts:  newOptions(opts),
	}
}

// AddModule registers a root node under id. Nil roots are ignored.
func (m *Manager) AddModule(id string, root *module.Node) {
	if root == nil {
		return
	}
	if _, ok := m.roots[id]; !ok {
		m.order = append(m.order, id)
	} else {
		m.opts.logger.Debug().Str("module", id).Msg("replacing registered module")
	}
	m.roots[id] = root
}

// Modules returns the registered identities in registration order
func (m *Manager) Modules() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Lookup returns the root registered under id
func (m *Manager) Lookup(id string) (*module.Node, bool) {
	n, ok := m.roots[id]
	return n, ok
}

// Apply converges every registered tree. It is idempotent: satisfied nodes
// are not enabled again.
func (m *Manager) Apply(ctx context.Context) (*types.Run, error) {
	timer := metrics.NewTimer()
	run := m.opts.startRun("tree")

	w := newWalk(&m.opts)
	for i, id := range m.order {
		w.visit(ctx, id, m.roots[id])
		if !w.aborted {
			continue
		}
		for _, rest := range m.order[i+1:] {
			w.outcomes = append(w.outcomes, types.Outcome{
				Module: rest,
				Phase:  types.PhaseEnable,
				Status: types.OutcomeSkipped,
			})
			m.opts.publish(events.EventModuleSkipped, rest, "skipped after earlier failure", nil)
		}
		break
	}

	run.Outcomes = w.outcomes
	err := m.opts.result(w.failures)
	m.opts.finishRun(run, timer, err)
	return run, err
}
