/*
Package reconciler converges a host toward a declared configuration.

It offers two engines that share options, error types, metrics and events.

# Flat Reconciliation

Reconciler diffs a desired module.Set against the canonical module.Registry.
Every canonical identity receives exactly one action per pass, in registry
order:

	declared, IsEnabled() == true   → declared.Enable
	declared, IsEnabled() == false  → declared.Disable
	not declared                    → canonical default's Disable

Absence from the set means "make sure this is off". A declared identity with
no canonical default aborts the pass with MissingCanonicalDefaultError before
any action runs.

	reg := module.MustRegistry(firewall.New(env, nil), shell.New(env, nil))
	rec := reconciler.New(reg, reconciler.WithPolicy(reconciler.ContinueOnError))

	run, err := rec.Apply(ctx, module.NewSet(fw))

Plan returns the same step list without invoking anything.

# Tree Walk

Manager holds named module.Node trees and walks each one depth-first:

 1. If the node's check holds, the node is satisfied and nothing runs.
 2. Otherwise enable runs, then the check is evaluated again.
 3. Children are visited in declaration order only while the parent's check
    holds. A node still unsatisfied after enable is blocked and its subtree
    is skipped; that is not an error.

The walk never disables anything. A tree that must be torn down is wrapped in
a TreeModule, whose Disable runs post-order (children in reverse order, then
the parent), and reconciled through the flat engine.

# Failure Policy

FailFast stops at the first failed action and returns that *ActionError.
Remaining identities are recorded as skipped and left untouched.

ContinueOnError attempts everything and returns an *ApplyError listing every
failure. Both error types work with errors.Is and errors.As:

	var actionErr *reconciler.ActionError
	if errors.As(err, &actionErr) {
		fmt.Println(actionErr.ID, actionErr.Phase)
	}

# Observability

Each pass produces a types.Run with one Outcome per action or node visit.
Progress is also published as events.Event values when WithPublisher is set,
and counted in the metrics package. None of it is read back by the engines.
*/
package reconciler
