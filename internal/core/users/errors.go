package users

import (
	"errors"
	"fmt"

	"Agora/internal/core/validation"
)

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when the normalized email belongs to another user
	ErrEmailTaken = errors.New("user with this email address already exists")

	// ErrUsernameTaken is returned when the username belongs to another user
	ErrUsernameTaken = errors.New("a user with that username already exists")

	// ErrInvalidCredentials is returned when email and password do not match an account
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")

	// ErrAlreadySubscribed is returned when subscribing twice to the same user
	ErrAlreadySubscribed = errors.New("already subscribed")

	// ErrNotSubscribed is returned when unsubscribing from a user not subscribed to
	ErrNotSubscribed = errors.New("not subscribed")

	// ErrSelfSubscription is returned when a user subscribes to themselves
	ErrSelfSubscription = errors.New("will not subscribe to self")
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

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsPrecondition checks if error is a subscription state error
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrAlreadySubscribed) ||
		errors.Is(err, ErrNotSubscribed) ||
		errors.Is(err, ErrSelfSubscription)
}

func validationFrom(err error) error {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return NewValidationError(fe.Field, fe.Message)
	}
	return err
}

// conflictAsValidation turns a uniqueness conflict into a field error
func conflictAsValidation(err error) error {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return NewValidationError("email", ErrEmailTaken.Error())
	case errors.Is(err, ErrUsernameTaken):
		return NewValidationError("username", ErrUsernameTaken.Error())
	}
	return err
}
