package scheduling

import (
	"context"
	"time"

	"Agora/internal/core/media"
	"Agora/internal/core/posts"
	"Agora/internal/core/users"
)

// Service is the request-side API of scheduled publication
type Service interface {
	// SchedulePost validates the draft now and queues it for PublishAt
	SchedulePost(ctx context.Context, actorID int64, req ScheduleRequest) (*Job, error)

	// ListScheduled returns the actor's pending jobs, soonest first
	ListScheduled(ctx context.Context, actorID int64) ([]*Job, error)

	// CancelScheduled cancels a pending job owned by the actor and releases its temp media
	CancelScheduled(ctx context.Context, actorID int64, jobID string) error
}

// Queue accepts and manages submitted jobs
type Queue interface {
	// Submit stores a pending job due DelaySeconds from now
	Submit(ctx context.Context, sub Submission) (*Job, error)

	ListPending(ctx context.Context, actorID int64) ([]*Job, error)

	// Cancel moves a pending job owned by actorID to cancelled and returns it.
	// Returns ErrJobNotFound or ErrNotPending.
	Cancel(ctx context.Context, actorID int64, jobID string) (*Job, error)
}

// JobStore is the worker-side view of the queue
type JobStore interface {
	// Claim leases up to limit due jobs, including running jobs whose lease expired,
	// and increments their attempt counter. Concurrent claimers never share a job.
	Claim(ctx context.Context, limit int, lease time.Duration) ([]*Job, error)

	// Complete marks a job done with the post it created
	Complete(ctx context.Context, jobID string, postID int64) error

	// Fail marks a job failed for good
	Fail(ctx context.Context, jobID, reason string) error

	// RecordError keeps the lease running out so the job is reclaimed later
	RecordError(ctx context.Context, jobID, reason string) error
}

// PostCreator inserts posts keyed by their job
type PostCreator interface {
	CreateScheduled(ctx context.Context, post *posts.Post) (*posts.Post, bool, error)
}

// UserLookup resolves job owners
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// MediaStore handles the temp copy a job carries
type MediaStore interface {
	Validate(upload media.Upload) error
	SaveTemp(ctx context.Context, upload media.Upload) (string, error)
	Promote(ctx context.Context, tempKey, destKey string) error
	Delete(ctx context.Context, key string) error
}
