package likes

import (
	"context"
	"fmt"
	"log/slog"
)

type likeService struct {
	repo      Repository
	validator TargetValidator
	logger    *slog.Logger
}

// NewService creates a new like service. logger may be nil.
func NewService(repo Repository, validator TargetValidator, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &likeService{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

func (s *likeService) Like(ctx context.Context, actorID int64, target Target) error {
	if err := s.checkTarget(ctx, target); err != nil {
		return err
	}
	if err := s.repo.Add(ctx, actorID, target); err != nil {
		return err
	}
	s.logger.Debug("liked", slog.Int64("user_id", actorID), slog.String("target", target.String()))
	return nil
}

func (s *likeService) Unlike(ctx context.Context, actorID int64, target Target) error {
	if err := s.checkTarget(ctx, target); err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, actorID, target); err != nil {
		return err
	}
	s.logger.Debug("unliked", slog.Int64("user_id", actorID), slog.String("target", target.String()))
	return nil
}

func (s *likeService) HasLiked(ctx context.Context, actorID int64, target Target) (bool, error) {
	if err := target.Validate(); err != nil {
		return false, err
	}
	return s.repo.Exists(ctx, actorID, target)
}

func (s *likeService) checkTarget(ctx context.Context, target Target) error {
	if err := target.Validate(); err != nil {
		return err
	}
	exists, err := s.validator.TargetExists(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", target, err)
	}
	if !exists {
		return ErrTargetNotFound
	}
	return nil
}
