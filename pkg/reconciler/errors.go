package reconciler

import (
	"fmt"
	"strings"

	"github.com/ezix/ezix/pkg/types"
)

// ActionError wraps a collaborator failure with the module identity and the
// phase that failed. For tree nodes ID is the slash-separated node path.
type ActionError struct {
	ID    string
	Phase types.Phase
	Err   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("failed to %s '%s' module: %v", e.Phase, e.ID, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// ApplyError aggregates every failure of a continue-on-error pass
type ApplyError struct {
	Failures []*ActionError
}

func (e *ApplyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d module action(s) failed:", len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("\n - ")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap exposes each failure to errors.Is and errors.As
func (e *ApplyError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// IDs returns the failed identities in the order they failed
func (e *ApplyError) IDs() []string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.ID
	}
	return ids
}

// MissingCanonicalDefaultError reports a declared module whose identity is
// not part of the canonical registry
type MissingCanonicalDefaultError struct {
	ID string
}

func (e *MissingCanonicalDefaultError) Error() string {
	return fmt.Sprintf("module '%s' has no canonical default", e.ID)
}

// BlockedError reports tree nodes whose check still failed after enable
type BlockedError struct {
	ID    string
	Paths []string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("module '%s' did not converge: blocked at %s", e.ID, strings.Join(e.Paths, ", "))
}
