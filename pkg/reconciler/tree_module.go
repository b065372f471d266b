package reconciler

import (
	"context"

	"github.com/ezix/ezix/pkg/module"
	"github.com/ezix/ezix/pkg/types"
)

// TreeModule exposes a node tree through the flat module contract so that
// nested modules can live in the canonical registry.
//
// Enable converges the tree. Disable tears it down post-order: children in
// reverse declaration order, then the root.
type TreeModule struct {
	id      string
	enabled bool
	root    *module.Node
	opts    options
}

// NewTreeModule wraps root under id with the declared intent enabled
func NewTreeModule(id string, enabled bool, root *module.Node, opts ...Option) *TreeModule {
	return &TreeModule{
		id:      id,
		enabled: enabled,
		root:    root,
		opts:    newOptions(opts),
	}
}

func (t *TreeModule) ID() string {
	return t.id
}

func (t *TreeModule) IsEnabled() bool {
	return t.enabled
}

// Root returns the wrapped tree
func (t *TreeModule) Root() *module.Node {
	return t.root
}

// Enable converges the tree. Nodes left blocked are reported as a
// *BlockedError since the flat contract has no other way to surface them.
func (t *TreeModule) Enable(ctx context.Context) error {
	w := newWalk(&t.opts)
	w.visit(ctx, t.id, t.root)
	if err := t.opts.result(w.failures); err != nil {
		return err
	}
	if len(w.blocked) > 0 {
		return &BlockedError{ID: t.id, Paths: w.blocked}
	}
	return nil
}

// Disable tears the tree down
func (t *TreeModule) Disable(ctx context.Context) error {
	var failures []*ActionError
	t.teardown(ctx, t.id, t.root, &failures)
	return t.opts.result(failures)
}

// teardown reports whether the pass must stop
func (t *TreeModule) teardown(ctx context.Context, path string, n *module.Node, failures *[]*ActionError) bool {
	if n == nil {
		return false
	}

	children := n.Children()
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		if t.teardown(ctx, path+"/"+child.Name(), child, failures) {
			return true
		}
	}

	t.opts.logger.Debug().Str("module", path).Msg("disabling node")
	if err := n.Disable(ctx); err != nil {
		t.opts.logger.Error().Err(err).Str("module", path).Msg("failed to disable node")
		*failures = append(*failures, &ActionError{ID: path, Phase: types.PhaseDisable, Err: err})
		return t.opts.policy == FailFast
	}
	return false
}
