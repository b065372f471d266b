package modules

import (
	"errors"
	"fmt"

	"github.com/ezix/ezix/pkg/cmdrun"
	"github.com/ezix/ezix/pkg/module"
	"github.com/ezix/ezix/pkg/policy"
	"github.com/ezix/ezix/pkg/reconciler"
)

// ErrNotTree is returned by BuildTree for flat kinds
var ErrNotTree = errors.New("module kind is not tree-shaped")

// Env carries the host capabilities modules act through
type Env struct {
	Runner cmdrun.Runner
	Policy policy.Writer

	// Root prefixes every file path modules write. Empty means "/".
	Root string

	// Options are passed to tree-backed modules
	Options []reconciler.Option
}

// Kind describes one module kind
type Kind struct {
	ID      string
	Summary string

	// Tree reports whether the kind is backed by a node tree
	Tree bool

	// Requires lists host commands the kind's actions run
	Requires []string

	build func(env Env, enabled bool, decode func(any) error) (module.Module, error)
	tree  func(env Env, decode func(any) error) (*module.Node, error)
}

// Catalog resolves module kinds by identity
type Catalog struct {
	env   Env
	kinds []Kind
	index map[string]int
}

// NewCatalog creates the catalog of built-in kinds. Missing capabilities in
// env default to the host's.
func NewCatalog(env Env) *Catalog {
	if env.Runner == nil {
		env.Runner = cmdrun.ExecRunner{}
	}
	if env.Policy == nil {
		env.Policy = policy.NewSystemWriter()
	}

	c := &Catalog{env: env, index: make(map[string]int)}
	for i, k := range builtin() {
		c.kinds = append(c.kinds, k)
		c.index[k.ID] = i
	}
	return c
}

// Kinds returns the kinds in canonical order
func (c *Catalog) Kinds() []Kind {
	out := make([]Kind, len(c.kinds))
	copy(out, c.kinds)
	return out
}

// Known reports whether id names a kind
func (c *Catalog) Known(id string) bool {
	_, ok := c.index[id]
	return ok
}

// IsTree reports whether id names a tree-shaped kind
func (c *Catalog) IsTree(id string) bool {
	i, ok := c.index[id]
	return ok && c.kinds[i].Tree
}

// Build decodes a configuration entry and builds the module. A nil decode
// leaves the configuration at its zero value.
func (c *Catalog) Build(id string, enabled bool, decode func(any) error) (module.Module, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("unknown module %q", id)
	}
	if decode == nil {
		decode = func(any) error { return nil }
	}
	m, err := c.kinds[i].build(c.env, enabled, decode)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", id, err)
	}
	return m, nil
}

// BuildTree decodes a configuration entry into a node tree
func (c *Catalog) BuildTree(id string, decode func(any) error) (*module.Node, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("unknown module %q", id)
	}
	if c.kinds[i].tree == nil {
		return nil, fmt.Errorf("module %s: %w", id, ErrNotTree)
	}
	if decode == nil {
		decode = func(any) error { return nil }
	}
	n, err := c.kinds[i].tree(c.env, decode)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", id, err)
	}
	return n, nil
}

// Registry returns the canonical registry: one disabled default per kind
func (c *Catalog) Registry() (*module.Registry, error) {
	mods := make([]module.Module, 0, len(c.kinds))
	for _, k := range c.kinds {
		m, err := c.Build(k.ID, false, nil)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return module.NewRegistry(mods...)
}
