package feeds

import (
	"context"

	"Agora/internal/core/pagination"
)

type feedService struct {
	repo Repository
}

// NewFeedService creates a new feed service
func NewFeedService(repo Repository) Service {
	return &feedService{repo: repo}
}

func (s *feedService) ListPosts(ctx context.Context, view PostView, page pagination.Request) ([]*PostRow, int, error) {
	if err := view.Validate(); err != nil {
		return nil, 0, err
	}
	count, err := s.repo.CountPosts(ctx, view)
	if err != nil {
		return nil, 0, err
	}
	if err := page.Validate(count); err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return []*PostRow{}, 0, nil
	}
	rows, err := s.repo.ListPosts(ctx, view, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

func (s *feedService) GetPostDetail(ctx context.Context, postID int64, commentsPage pagination.Request) (*PostDetail, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, count, err := s.ListComments(ctx, postID, commentsPage)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, CommentsCount: count}, nil
}

func (s *feedService) ListComments(ctx context.Context, postID int64, page pagination.Request) ([]*CommentRow, int, error) {
	count, err := s.repo.CountComments(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	if err := page.Validate(count); err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return []*CommentRow{}, 0, nil
	}
	rows, err := s.repo.ListComments(ctx, postID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

func (s *feedService) GetCommentDetail(ctx context.Context, commentID int64) (*CommentDetail, error) {
	comment, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	post, err := s.repo.GetPost(ctx, comment.PostID)
	if err != nil {
		return nil, err
	}
	return &CommentDetail{Comment: comment, Post: post}, nil
}
