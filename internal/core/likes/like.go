package likes

import (
	"context"
	"fmt"
	"time"
)

// TargetKind says which ledger a like belongs to
type TargetKind int

const (
	// KindPost targets a post
	KindPost TargetKind = iota + 1
	// KindComment targets a comment
	KindComment
)

func (k TargetKind) String() string {
	switch k {
	case KindPost:
		return "post"
	case KindComment:
		return "comment"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Target is the thing being liked: a post or a comment
type Target struct {
	Kind TargetKind
	ID   int64
}

// Post returns a target for a post
func Post(id int64) Target {
	return Target{Kind: KindPost, ID: id}
}

// Comment returns a target for a comment
func Comment(id int64) Target {
	return Target{Kind: KindComment, ID: id}
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// Validate rejects unknown kinds and non-positive IDs
func (t Target) Validate() error {
	if t.Kind != KindPost && t.Kind != KindComment {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidTarget, int(t.Kind))
	}
	if t.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidTarget)
	}
	return nil
}

// Like is one entry of a ledger
type Like struct {
	CreatedAt time.Time
	Target    Target
	UserID    int64
}

// ExistsFunc checks whether a target of one kind exists
type ExistsFunc func(ctx context.Context, id int64) (bool, error)

// CompositeTargetValidator dispatches existence checks on the target kind
type CompositeTargetValidator struct {
	postExists    ExistsFunc
	commentExists ExistsFunc
}

// NewCompositeTargetValidator creates a validator over posts and comments
func NewCompositeTargetValidator(postExists, commentExists ExistsFunc) *CompositeTargetValidator {
	return &CompositeTargetValidator{
		postExists:    postExists,
		commentExists: commentExists,
	}
}

// TargetExists reports whether the post or comment exists
func (v *CompositeTargetValidator) TargetExists(ctx context.Context, target Target) (bool, error) {
	switch target.Kind {
	case KindPost:
		return v.postExists(ctx, target.ID)
	case KindComment:
		return v.commentExists(ctx, target.ID)
	default:
		return false, ErrInvalidTarget
	}
}
