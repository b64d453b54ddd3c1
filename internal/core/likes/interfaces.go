package likes

import "context"

// TargetValidator checks that like targets exist
type TargetValidator interface {
	TargetExists(ctx context.Context, target Target) (bool, error)
}

// Service defines the business logic interface for likes
type Service interface {
	// Like adds target to the actor's liked set.
	// Fails with ErrTargetNotFound or ErrAlreadyLiked.
	Like(ctx context.Context, actorID int64, target Target) error

	// Unlike removes target from the actor's liked set.
	// Fails with ErrTargetNotFound or ErrNotLiked.
	Unlike(ctx context.Context, actorID int64, target Target) error

	// HasLiked reports whether the actor likes target
	HasLiked(ctx context.Context, actorID int64, target Target) (bool, error)
}

// Repository defines the data access interface for the like ledgers.
// Implementations dispatch on Target.Kind to the post or comment ledger.
type Repository interface {
	// Add inserts the like. Returns ErrAlreadyLiked when present and
	// ErrTargetNotFound when the target vanished concurrently.
	Add(ctx context.Context, userID int64, target Target) error

	// Remove deletes the like. Returns ErrNotLiked when absent.
	Remove(ctx context.Context, userID int64, target Target) error

	Exists(ctx context.Context, userID int64, target Target) (bool, error)
	Count(ctx context.Context, target Target) (int, error)
}
