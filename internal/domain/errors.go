package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by services and adapters. Wrap these with context
// using fmt.Errorf("%w: ...") and test them with errors.Is.
var (
	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates that the referenced resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates that the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a state conflict such as a double termination.
	ErrConflict = errors.New("conflict")
	// ErrStorage indicates a failure in the underlying persistence layer.
	ErrStorage = errors.New("storage failure")
)

// StorageError wraps err as an ErrStorage failure for operation op.
// It returns nil when err is nil.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
