package comments

import (
	"context"
	"fmt"
	"log/slog"

	"Agora/internal/core/editwindow"
	"Agora/internal/core/media"
)

type commentService struct {
	repo   Repository
	users  UserLookup
	media  MediaStore
	policy *editwindow.Policy
	logger *slog.Logger
}

// NewCommentService creates a new comment service. logger may be nil.
func NewCommentService(repo Repository, users UserLookup, mediaStore MediaStore, policy *editwindow.Policy, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &commentService{
		repo:   repo,
		users:  users,
		media:  mediaStore,
		policy: policy,
		logger: logger,
	}
}

func (s *commentService) CreateComment(ctx context.Context, actorID, postID int64, req CreateCommentRequest) (*Comment, error) {
	if err := validateText(req.Text); err != nil {
		return nil, err
	}

	comment := &Comment{UserID: actorID, PostID: postID, Text: req.Text}
	if req.Media != nil {
		key, err := s.saveMedia(ctx, actorID, *req.Media)
		if err != nil {
			return nil, err
		}
		comment.Media = key
	}

	created, err := s.repo.Create(ctx, comment)
	if err != nil {
		s.deleteMedia(ctx, comment.Media)
		return nil, err
	}

	s.logger.Info("comment created",
		slog.Int64("comment_id", created.ID),
		slog.Int64("post_id", postID),
		slog.Int64("user_id", actorID))
	return created, nil
}

func (s *commentService) GetComment(ctx context.Context, id int64) (*Comment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *commentService) UpdateComment(ctx context.Context, actorID, id int64, req UpdateCommentRequest) (*Comment, error) {
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
		if err := validateText(*req.Text); err != nil {
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

func (s *commentService) DeleteComment(ctx context.Context, actorID, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != actorID {
		return ErrPermissionDenied
	}

	key, err := s.repo.Delete(ctx, id, actorID)
	if err != nil {
		return err
	}
	s.deleteMedia(ctx, key)
	return nil
}

func (s *commentService) saveMedia(ctx context.Context, actorID int64, upload media.Upload) (string, error) {
	owner, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve comment owner: %w", err)
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

func (s *commentService) deleteMedia(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.media.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete comment media", slog.String("key", key), slog.String("error", err.Error()))
	}
}
