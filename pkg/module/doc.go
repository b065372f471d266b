/*
Package module defines the building blocks the reconciler works on.

There are two shapes of module.

A Module is a flat leaf: a stable identity, an Enable/Disable action pair and
the declared intent (IsEnabled). Leaf modules are collected into a Registry of
canonical defaults, one per known identity, and into a Set describing what the
caller wants.

A Node is a tree: a small State record, a check predicate, enable and disable
actions, and an ordered list of owned child nodes. Nodes are built with a
Builder:

	desktop := module.NewBuilder("desktop").
		WithEnable(func(ctx context.Context, s *module.State) error {
			if err := enableDisplayManager(ctx, "gdm"); err != nil {
				return err
			}
			s.Enabled = true
			return nil
		}).
		Build()

	root := module.NewBuilder("xserver").
		WithChild(desktop).
		Build()

Without overrides a node is satisfied when State.Enabled is true, enable sets
it and disable clears it.

# Ownership

A Node exclusively owns its State and children, and a Set or Registry owns the
modules it holds. Nothing is shared between nodes, so the package needs no
locking; callers that reconcile from several goroutines must serialize.

# Duplicates

Registry rejects duplicate identities with DuplicateIdentityError. Set applies
last-write-wins: the later instance replaces the earlier one and Replaced
reports the overwritten identities.
*/
package module
