package posts

import (
	"context"
	"time"

	"Agora/internal/core/media"
	"Agora/internal/core/users"
)

// Service defines the business logic interface for posts.
// actorID is always the authenticated caller.
type Service interface {
	CreatePost(ctx context.Context, actorID int64, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)

	// UpdatePost edits text and media. Only the owner may edit, and only
	// within the edit window.
	UpdatePost(ctx context.Context, actorID, id int64, req UpdatePostRequest) (*Post, error)

	// DeletePost removes the post with its comments and likes. Owner only.
	DeletePost(ctx context.Context, actorID, id int64) error
}

// Repository defines the data access interface for posts
type Repository interface {
	Create(ctx context.Context, post *Post) (*Post, error)

	// CreateScheduled inserts a post keyed by its scheduled job.
	// Idempotent: if a post for the job already exists it is returned with created=false.
	CreateScheduled(ctx context.Context, post *Post) (*Post, bool, error)

	GetByID(ctx context.Context, id int64) (*Post, error)

	// Update writes text and media only if the post is owned by post.UserID and
	// was created less than window ago by the database clock. Returns
	// ErrEditWindowExpired otherwise.
	Update(ctx context.Context, post *Post, window time.Duration) (*Post, error)

	// Delete removes an owned post and returns the media keys of the post and
	// its comments so the blobs can be removed.
	Delete(ctx context.Context, id, userID int64) ([]string, error)
}

// MediaStore stores post media
type MediaStore interface {
	SavePostMedia(ctx context.Context, username string, upload media.Upload) (string, error)
	Delete(ctx context.Context, key string) error
}

// UserLookup resolves post owners
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}
