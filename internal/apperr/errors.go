// Package apperr defines the error vocabulary shared across Folium layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")

	// ErrResolutionExhausted means the bounded slug/name collision loop
	// ran out of attempts before the time-derived fallback kicked in.
	ErrResolutionExhausted = errors.New("resolution attempts exhausted")
)

// ValidationError reports a request that must be rejected before any
// store access happens (blank title, manuscript with zero chapters).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
