package scheduling

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned when a job does not exist or belongs to someone else
	ErrJobNotFound = errors.New("scheduled post not found")

	// ErrNotPending is returned when cancelling a job that already ran or was cancelled
	ErrNotPending = errors.New("scheduled post is no longer pending")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrJobNotFound)
}

// IsConflict checks if error reports a job that is no longer pending
func IsConflict(err error) bool {
	return errors.Is(err, ErrNotPending)
}

// permanentError marks an execution failure that a retry cannot fix
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so the worker fails the job instead of retrying it
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
