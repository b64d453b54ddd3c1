package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"Agora/internal/core/media"
	"Agora/internal/core/posts"
	"Agora/internal/core/users"
)

// Executor turns a claimed job into a post. Running the same job twice
// creates at most one post.
type Executor struct {
	posts  PostCreator
	users  UserLookup
	media  MediaStore
	logger *slog.Logger
}

// NewExecutor creates an executor. logger may be nil.
func NewExecutor(postCreator PostCreator, userLookup UserLookup, mediaStore MediaStore, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		posts:  postCreator,
		users:  userLookup,
		media:  mediaStore,
		logger: logger,
	}
}

// Execute re-validates the payload, promotes the temp media and inserts the post.
// Payload problems are returned wrapped with Permanent. The temp copy is left
// for the caller, which releases it once the job is terminal.
func (e *Executor) Execute(ctx context.Context, job *Job) (*posts.Post, error) {
	if err := posts.ValidateText(job.Text); err != nil {
		return nil, Permanent(fmt.Errorf("invalid payload: %w", err))
	}

	owner, err := e.users.GetByID(ctx, job.ActorID)
	if err != nil {
		if users.IsNotFound(err) {
			return nil, Permanent(fmt.Errorf("owner %d no longer exists: %w", job.ActorID, err))
		}
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}

	jobID := job.ID
	post := &posts.Post{
		UserID:         job.ActorID,
		Text:           job.Text,
		ScheduledJobID: &jobID,
	}

	if job.HasMedia() {
		destKey := media.PostMediaKey(owner.Username, job.ID, media.Extension(job.TempMedia))
		if err := e.media.Promote(ctx, job.TempMedia, destKey); err != nil {
			if errors.Is(err, media.ErrNotFound) || errors.Is(err, media.ErrInvalidKey) {
				return nil, Permanent(fmt.Errorf("temp media unavailable: %w", err))
			}
			return nil, fmt.Errorf("failed to promote media: %w", err)
		}
		post.Media = destKey
	}

	created, isNew, err := e.posts.CreateScheduled(ctx, post)
	if err != nil {
		if users.IsNotFound(err) {
			return nil, Permanent(fmt.Errorf("owner %d no longer exists: %w", job.ActorID, err))
		}
		return nil, fmt.Errorf("failed to create scheduled post: %w", err)
	}

	if isNew {
		e.logger.Info("scheduled post published",
			slog.String("job_id", job.ID),
			slog.Int64("post_id", created.ID),
			slog.Int64("user_id", job.ActorID))
	} else {
		e.logger.Info("scheduled post already published",
			slog.String("job_id", job.ID),
			slog.Int64("post_id", created.ID))
	}
	return created, nil
}
