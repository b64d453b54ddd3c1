package feeds

import "errors"

var (
	// ErrPostNotFound is returned when a post detail is requested for a missing post
	ErrPostNotFound = errors.New("post not found")

	// ErrCommentNotFound is returned when a comment detail is requested for a missing comment
	ErrCommentNotFound = errors.New("comment not found")

	// ErrInvalidView is returned for unknown views or personal views without an actor
	ErrInvalidView = errors.New("invalid feed view")
)

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) || errors.Is(err, ErrCommentNotFound)
}
