// Package scheduling defers post creation to a future instant through a durable job queue.
package scheduling

import (
	"time"

	"Agora/internal/core/media"
)

// Status is the lifecycle state of a scheduled post
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further execution will happen
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed || s == StatusCancelled
}

// Job is a queued post waiting for its run time.
// The job owns TempMedia until it reaches a terminal status.
type Job struct {
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	RunAt       time.Time  `json:"run_at" db:"run_at"`
	LockedUntil *time.Time `json:"-" db:"locked_until"`
	PostID      *int64     `json:"post_id" db:"post_id"`
	ID          string     `json:"id" db:"id"`
	Text        string     `json:"text" db:"text"`
	TempMedia   string     `json:"-" db:"temp_media"`
	Status      Status     `json:"status" db:"status"`
	LastError   string     `json:"last_error,omitempty" db:"last_error"`
	ActorID     int64      `json:"user" db:"actor_id"`
	Attempts    int        `json:"attempts" db:"attempts"`
}

// HasMedia reports whether the job carries a temp media copy
func (j *Job) HasMedia() bool {
	return j.TempMedia != ""
}

// Submission is the payload handed to the queue
type Submission struct {
	Text          string
	TempMediaPath string
	ActorID       int64
	DelaySeconds  int64
}

// ScheduleRequest is the draft of a post to publish at PublishAt
type ScheduleRequest struct {
	PublishAt *time.Time
	Media     *media.Upload
	Text      string
}
