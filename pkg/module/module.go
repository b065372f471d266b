package module

import "context"

// Module is the contract implemented by every leaf module registered with
// the reconciler.
type Module interface {
	// ID returns the stable identity used for diffing. It must not change
	// between calls.
	ID() string

	// Enable converges the module to its declared configuration. It must be
	// idempotent.
	Enable(ctx context.Context) error

	// Disable returns the module to its baseline. It must be idempotent.
	Disable(ctx context.Context) error

	// IsEnabled reports the declared intent carried by this instance, not
	// the observed system state.
	IsEnabled() bool
}
