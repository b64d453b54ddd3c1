package comments

import (
	"errors"
	"fmt"

	"Agora/internal/core/editwindow"
	"Agora/internal/core/validation"
)

var (
	// ErrCommentNotFound indicates the requested comment doesn't exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrPostNotFound indicates the post being commented on doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrPermissionDenied indicates the actor does not own the comment
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")

	// ErrEditWindowExpired indicates the edit window closed
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
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrPostNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

func validateText(text string) error {
	if err := validation.CheckText(text); err != nil {
		var fe *validation.FieldError
		if errors.As(err, &fe) {
			return NewValidationError(fe.Field, fe.Message)
		}
		return err
	}
	return nil
}
