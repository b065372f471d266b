/*
Package types defines the plain data records shared by the reconciler, the
apply journal and the CLI.

A Step is one planned decision for a canonical identity (enable or disable,
and whether it came from a declaration or from the canonical default). An
Outcome records what happened when the step or a tree node was executed, and
a Run groups the outcomes of one apply pass together with its policy, status
and timing. Runs are serialized as JSON by the storage package.

These types carry no behavior beyond small accessors; the reconciliation
rules live in package reconciler.
*/
package types
