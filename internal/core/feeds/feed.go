package feeds

import (
	"fmt"
	"time"

	"Agora/internal/core/users"
)

// ViewKind selects which posts a feed shows
type ViewKind int

const (
	// ViewAll is every post
	ViewAll ViewKind = iota + 1
	// ViewSubscriptions is posts by users the actor is subscribed to
	ViewSubscriptions
	// ViewLiked is posts the actor liked directly or through one of their comments
	ViewLiked
)

func (k ViewKind) String() string {
	switch k {
	case ViewAll:
		return "all"
	case ViewSubscriptions:
		return "subscriptions"
	case ViewLiked:
		return "liked"
	default:
		return fmt.Sprintf("ViewKind(%d)", int(k))
	}
}

// PostView is a post feed query. ActorID is required for the personal views.
type PostView struct {
	Kind    ViewKind
	ActorID int64
}

// All returns the global feed
func All() PostView { return PostView{Kind: ViewAll} }

// Subscriptions returns the feed of users actorID subscribes to
func Subscriptions(actorID int64) PostView {
	return PostView{Kind: ViewSubscriptions, ActorID: actorID}
}

// Liked returns the liked feed of actorID
func Liked(actorID int64) PostView {
	return PostView{Kind: ViewLiked, ActorID: actorID}
}

// Validate rejects personal views without an actor
func (v PostView) Validate() error {
	switch v.Kind {
	case ViewAll:
		return nil
	case ViewSubscriptions, ViewLiked:
		if v.ActorID <= 0 {
			return fmt.Errorf("%w: %s view needs an actor", ErrInvalidView, v.Kind)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidView, v.Kind)
	}
}

// PostRow is a post with its author and derived counts
type PostRow struct {
	CreatedAt     time.Time
	Author        users.Author
	Text          string
	Media         string
	ID            int64
	CommentsCount int
	LikesCount    int
}

// CommentRow is a comment with its author and like count
type CommentRow struct {
	CreatedAt  time.Time
	Author     users.Author
	Text       string
	Media      string
	ID         int64
	PostID     int64
	LikesCount int
}

// PostDetail is a post with one page of its comments
type PostDetail struct {
	Post          *PostRow
	Comments      []*CommentRow
	CommentsCount int
}

// CommentDetail is a comment with the post it belongs to
type CommentDetail struct {
	Comment *CommentRow
	Post    *PostRow
}
