package comments

import (
	"context"
	"time"

	"Agora/internal/core/media"
	"Agora/internal/core/users"
)

// Service defines the business logic interface for comments.
// actorID is always the authenticated caller.
type Service interface {
	// CreateComment attaches a new comment by actorID to postID
	CreateComment(ctx context.Context, actorID, postID int64, req CreateCommentRequest) (*Comment, error)
	GetComment(ctx context.Context, id int64) (*Comment, error)

	// UpdateComment edits text and media within the edit window. Owner only.
	UpdateComment(ctx context.Context, actorID, id int64, req UpdateCommentRequest) (*Comment, error)

	// DeleteComment removes the comment and its likes. Owner only.
	DeleteComment(ctx context.Context, actorID, id int64) error
}

// Repository defines the data access interface for comments
type Repository interface {
	// Create inserts a comment. Returns ErrPostNotFound if the post is gone.
	Create(ctx context.Context, comment *Comment) (*Comment, error)
	GetByID(ctx context.Context, id int64) (*Comment, error)

	// Update writes text and media only if owned by comment.UserID and created
	// less than window ago by the database clock
	Update(ctx context.Context, comment *Comment, window time.Duration) (*Comment, error)

	// Delete removes an owned comment and returns its media key
	Delete(ctx context.Context, id, userID int64) (string, error)
}

// MediaStore stores comment media
type MediaStore interface {
	SavePostMedia(ctx context.Context, username string, upload media.Upload) (string, error)
	Delete(ctx context.Context, key string) error
}

// UserLookup resolves comment owners
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}
