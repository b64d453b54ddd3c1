package posts

import (
	"time"

	"Agora/internal/core/media"
)

// Post is a short text with optional media, owned by exactly one user.
// UserID and CreatedAt are fixed at creation.
type Post struct {
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	ScheduledJobID *string   `json:"-" db:"scheduled_job_id"`
	Text           string    `json:"text" db:"text"`
	Media          string    `json:"media" db:"media"`
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user" db:"user_id"`
}

// CreatePostRequest is the input for creating a post
type CreatePostRequest struct {
	Media *media.Upload
	Text  string
}

// UpdatePostRequest edits a post. Nil fields are left unchanged; a full
// update (PUT) must carry text.
type UpdatePostRequest struct {
	Text    *string
	Media   *media.Upload
	Partial bool
}
