package scheduling

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"Agora/internal/core/media"
	"Agora/internal/core/posts"
	"Agora/internal/metrics"
)

type schedulingService struct {
	queue  Queue
	media  MediaStore
	logger *slog.Logger
	now    func() time.Time
}

// NewSchedulingService creates the request-side scheduler. logger and now may be nil.
func NewSchedulingService(queue Queue, mediaStore MediaStore, logger *slog.Logger, now func() time.Time) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &schedulingService{
		queue:  queue,
		media:  mediaStore,
		logger: logger,
		now:    now,
	}
}

// SchedulePost checks the draft like an ordinary post, stashes media in temp
// storage and submits the job. The temp copy is removed if submission fails.
func (s *schedulingService) SchedulePost(ctx context.Context, actorID int64, req ScheduleRequest) (*Job, error) {
	if err := posts.ValidateText(req.Text); err != nil {
		var pe *posts.ValidationError
		if errors.As(err, &pe) {
			return nil, NewValidationError(pe.Field, pe.Message)
		}
		return nil, err
	}
	if req.PublishAt == nil {
		return nil, NewValidationError("post_date", "This field is required.")
	}

	now := s.now()
	if !req.PublishAt.After(now) {
		return nil, NewValidationError("post_date", "Publication date must be in the future.")
	}
	delay := int64(req.PublishAt.Sub(now) / time.Second)

	var tempKey string
	if req.Media != nil {
		if err := s.media.Validate(*req.Media); err != nil {
			if media.IsValidationError(err) {
				return nil, NewValidationError("media", err.Error())
			}
			return nil, err
		}
		key, err := s.media.SaveTemp(ctx, *req.Media)
		if err != nil {
			return nil, err
		}
		tempKey = key
	}

	job, err := s.queue.Submit(ctx, Submission{
		ActorID:       actorID,
		DelaySeconds:  delay,
		Text:          req.Text,
		TempMediaPath: tempKey,
	})
	if err != nil {
		s.releaseTemp(ctx, tempKey)
		return nil, err
	}

	metrics.JobSubmitted()
	s.logger.Info("post scheduled",
		slog.String("job_id", job.ID),
		slog.Int64("user_id", actorID),
		slog.Int64("delay_seconds", delay),
		slog.Bool("has_media", tempKey != ""))
	return job, nil
}

func (s *schedulingService) ListScheduled(ctx context.Context, actorID int64) ([]*Job, error) {
	return s.queue.ListPending(ctx, actorID)
}

// CancelScheduled only succeeds while the job is pending
func (s *schedulingService) CancelScheduled(ctx context.Context, actorID int64, jobID string) error {
	if _, err := uuid.Parse(jobID); err != nil {
		return ErrJobNotFound
	}
	job, err := s.queue.Cancel(ctx, actorID, jobID)
	if err != nil {
		return err
	}
	s.releaseTemp(ctx, job.TempMedia)
	metrics.JobFinished(string(StatusCancelled), 0, 0)
	s.logger.Info("scheduled post cancelled", slog.String("job_id", jobID), slog.Int64("user_id", actorID))
	return nil
}

func (s *schedulingService) releaseTemp(ctx context.Context, key string) {
	releaseTemp(ctx, s.media, s.logger, key)
}

func releaseTemp(ctx context.Context, store MediaStore, logger *slog.Logger, key string) {
	if key == "" {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		logger.Warn("failed to delete temp media", slog.String("key", key), slog.String("error", err.Error()))
	}
}
