package module

import (
	"errors"
	"fmt"
)

var (
	// ErrNilModule is returned when a nil module is handed to a registry
	ErrNilModule = errors.New("module is nil")

	// ErrEmptyID is returned for modules reporting an empty identity
	ErrEmptyID = errors.New("module id is empty")
)

// DuplicateIdentityError reports two canonical modules sharing one identity
type DuplicateIdentityError struct {
	ID string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("duplicate module identity %q", e.ID)
}
