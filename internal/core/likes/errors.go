package likes

import "errors"

var (
	// ErrTargetNotFound indicates the post/comment being liked doesn't exist
	ErrTargetNotFound = errors.New("not found")

	// ErrAlreadyLiked indicates the actor already likes the target
	ErrAlreadyLiked = errors.New("already liked")

	// ErrNotLiked indicates the actor does not like the target
	ErrNotLiked = errors.New("not liked")

	// ErrInvalidTarget indicates a malformed target
	ErrInvalidTarget = errors.New("invalid like target")
)

// IsNotFound checks if the target is missing
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTargetNotFound)
}

// IsPrecondition checks if the ledger state forbids the operation
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrAlreadyLiked) || errors.Is(err, ErrNotLiked)
}
