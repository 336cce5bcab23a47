package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLockTimeout is returned when the cross-process lock for a data
	// file could not be acquired within the configured timeout. No state
	// has changed when this is returned; the caller may simply retry.
	ErrLockTimeout = errors.New("lock acquisition timed out")

	// ErrCatalogMissing is returned when the required catalog file does
	// not exist. The store must not operate on a partial or absent
	// catalog.
	ErrCatalogMissing = errors.New("missing required catalog file")
)

// ValidationError reports a rejected edit field. Validation rejects the
// whole payload on the first failing field, so at most one of these
// surfaces per edit attempt.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
