package posts

import (
	"context"
	"fmt"
	"log/slog"

	"Agora/internal/core/editwindow"
	"Agora/internal/core/media"
)

type postService struct {
	repo   Repository
	users  UserLookup
	media  MediaStore
	policy *editwindow.Policy
	logger *slog.Logger
}

// NewPostService creates a new post service. logger may be nil.
func NewPostService(repo Repository, users UserLookup, mediaStore MediaStore, policy *editwindow.Policy, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:   repo,
		users:  users,
		media:  mediaStore,
		policy: policy,
		logger: logger,
	}
}

// CreatePost validates the draft, stores any media and inserts the post
func (s *postService) CreatePost(ctx context.Context, actorID int64, req CreatePostRequest) (*Post, error) {
	if err := ValidateText(req.Text); err != nil {
		return nil, err
	}

	post := &Post{UserID: actorID, Text: req.Text}

	if req.Media != nil {
		key, err := s.saveMedia(ctx, actorID, *req.Media)
		if err != nil {
			return nil, err
		}
		post.Media = key
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		s.deleteMedia(ctx, post.Media)
		return nil, err
	}

	s.logger.Info("post created", slog.Int64("post_id", created.ID), slog.Int64("user_id", actorID))
	return created, nil
}

func (s *postService) GetPost(ctx context.Context, id int64) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdatePost checks ownership before the edit window
func (s *postService) UpdatePost(ctx context.Context, actorID, id int64, req UpdatePostRequest) (*Post, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != actorID {
		return nil, ErrPermissionDenied
	}
	if !req.Partial && req.Text == nil {
		return nil, NewValidationError("text", "This field is required.")
	}
	updated := *existing
	if req.Text != nil {
		if err := ValidateText(*req.Text); err != nil {
			return nil, err
		}
		updated.Text = *req.Text
	}

	oldMedia := existing.Media
	if req.Media != nil {
		key, err := s.saveMedia(ctx, actorID, *req.Media)
		if err != nil {
			return nil, err
		}
		updated.Media = key
	}

	result, err := s.repo.Update(ctx, &updated, s.policy.Window())
	if err != nil {
		if updated.Media != oldMedia {
			s.deleteMedia(ctx, updated.Media)
		}
		return nil, err
	}
	if updated.Media != oldMedia {
		s.deleteMedia(ctx, oldMedia)
	}
	return result, nil
}

// DeletePost removes the post, then the blobs it and its comments referenced
func (s *postService) DeletePost(ctx context.Context, actorID, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != actorID {
		return ErrPermissionDenied
	}

	keys, err := s.repo.Delete(ctx, id, actorID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		s.deleteMedia(ctx, key)
	}

	s.logger.Info("post deleted", slog.Int64("post_id", id), slog.Int64("user_id", actorID))
	return nil
}

func (s *postService) saveMedia(ctx context.Context, actorID int64, upload media.Upload) (string, error) {
	owner, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve post owner: %w", err)
	}
	key, err := s.media.SavePostMedia(ctx, owner.Username, upload)
	if err != nil {
		if media.IsValidationError(err) {
			return "", NewValidationError("media", err.Error())
		}
		return "", err
	}
	return key, nil
}

func (s *postService) deleteMedia(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.media.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete post media", slog.String("key", key), slog.String("error", err.Error()))
	}
}
