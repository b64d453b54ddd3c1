package feeds

import (
	"context"

	"Agora/internal/core/pagination"
)

// Service composes the read side: post feeds, post and comment details
type Service interface {
	// ListPosts returns one page of view, newest first, with the total count
	ListPosts(ctx context.Context, view PostView, page pagination.Request) ([]*PostRow, int, error)

	// GetPostDetail returns a post with one page of its comments
	GetPostDetail(ctx context.Context, postID int64, commentsPage pagination.Request) (*PostDetail, error)

	// ListComments returns one page of a post's comments, newest first
	ListComments(ctx context.Context, postID int64, page pagination.Request) ([]*CommentRow, int, error)

	// GetCommentDetail returns a comment with its post
	GetCommentDetail(ctx context.Context, commentID int64) (*CommentDetail, error)
}

// Repository runs the feed queries. Ordering is created_at DESC, id DESC.
type Repository interface {
	CountPosts(ctx context.Context, view PostView) (int, error)
	ListPosts(ctx context.Context, view PostView, limit, offset int) ([]*PostRow, error)
	GetPost(ctx context.Context, postID int64) (*PostRow, error)

	CountComments(ctx context.Context, postID int64) (int, error)
	ListComments(ctx context.Context, postID int64, limit, offset int) ([]*CommentRow, error)
	GetComment(ctx context.Context, commentID int64) (*CommentRow, error)
}
