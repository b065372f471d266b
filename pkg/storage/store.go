package storage

import (
	"errors"

	"github.com/ezix/ezix/pkg/types"
)

// ErrNotFound is returned when no run matches
var ErrNotFound = errors.New("run not found")

// Journal records apply runs for later inspection. It is write-mostly: the
// reconciler never reads it back.
type Journal interface {
	RecordRun(run *types.Run) error

	// GetRun finds a run by id or unique id prefix
	GetRun(id string) (*types.Run, error)

	// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
	ListRuns(limit int) ([]*types.Run, error)

	LatestRun() (*types.Run, error)

	// Prune deletes all but the newest keep runs and returns how many were
	// removed
	Prune(keep int) (int, error)

	Close() error
}
