package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced user, category or item does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for a duplicate item name or a concurrent write
	// that kept colliding after retries.
	ErrConflict = errors.New("conflict")

	// ErrPermissionDenied is returned when the requester does not own the item.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}

// errRetry makes the surrounding transaction start over. It never escapes
// the package.
var errRetry = errors.New("transaction must be retried")
