package core

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the target entity does not exist. Terminal for
// the whole operation; callers should not retry.
var ErrNotFound = errors.New("not found")

// ValidationError carries a single human-readable reason the caller can act
// on: a composition violation, an illegal status transition, or a malformed
// request. The message text is part of the API contract.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness violation, e.g. a duplicate taxonomy
// term within a category.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
