package comments

import (
	"time"

	"Agora/internal/core/media"
)

// Comment belongs to exactly one post and one user; both are fixed at creation
type Comment struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Text      string    `json:"text" db:"text"`
	Media     string    `json:"media" db:"media"`
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user" db:"user_id"`
	PostID    int64     `json:"post" db:"post_id"`
}

// CreateCommentRequest is the input for commenting on a post
type CreateCommentRequest struct {
	Media *media.Upload
	Text  string
}

// UpdateCommentRequest edits a comment. Nil fields are left unchanged.
type UpdateCommentRequest struct {
	Text    *string
	Media   *media.Upload
	Partial bool
}
