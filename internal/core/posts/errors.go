package posts

import (
	"errors"
	"fmt"

	"Agora/internal/core/editwindow"
	"Agora/internal/core/validation"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post does not exist
	ErrNotFound = errors.New("post not found")

	// ErrPermissionDenied is returned when the actor does not own the post
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")

	// ErrEditWindowExpired is returned when an edit arrives after the edit window closed
	ErrEditWindowExpired = editwindow.ErrExpired
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
	return errors.Is(err, ErrNotFound)
}

// ValidateText checks post text the same way for immediate and scheduled posts
func ValidateText(text string) error {
	if err := validation.CheckText(text); err != nil {
		var fe *validation.FieldError
		if errors.As(err, &fe) {
			return NewValidationError(fe.Field, fe.Message)
		}
		return err
	}
	return nil
}
