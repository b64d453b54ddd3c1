package post

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"Agora/internal/api/handlers"
	"Agora/internal/core/scheduling"
)

// ScheduleHandler defers post publication
type ScheduleHandler struct {
	service        scheduling.Service
	maxUploadBytes int64
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(service scheduling.Service, maxUploadBytes int64) *ScheduleHandler {
	return &ScheduleHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// scheduledView is a pending job as returned to its owner
type scheduledView struct {
	CreatedAt time.Time         `json:"created_at"`
	RunAt     time.Time         `json:"run_at"`
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Status    scheduling.Status `json:"status"`
	HasMedia  bool              `json:"has_media"`
}

func newScheduledView(job *scheduling.Job) scheduledView {
	return scheduledView{
		ID:        job.ID,
		Text:      job.Text,
		Status:    job.Status,
		RunAt:     job.RunAt,
		CreatedAt: job.CreatedAt,
		HasMedia:  job.HasMedia(),
	}
}

// HandleSchedule queues a post for publication at post_date
// POST /api/posts/schedule/
//
// Body: "text", "post_date" (RFC 3339) and an optional "media" file.
func (h *ScheduleHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	form, err := handlers.ReadForm(w, r, "media", h.maxUploadBytes)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	req := scheduling.ScheduleRequest{Media: form.File}
	req.Text, _ = form.Get("text")
	if raw, ok := form.Get("post_date"); ok && raw != "" {
		publishAt, err := parsePostDate(raw)
		if err != nil {
			handlers.WriteValidationError(w, "post_date", "Datetime has wrong format. Use ISO 8601.")
			return
		}
		req.PublishAt = &publishAt
	}

	job, err := h.service.SchedulePost(r.Context(), actorID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, newScheduledView(job))
}

// parsePostDate accepts RFC 3339 and the zone-less ISO form, read as UTC
func parsePostDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", raw, time.UTC)
}

// HandleList returns the caller's pending scheduled posts
// GET /api/posts/scheduled/
func (h *ScheduleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	jobs, err := h.service.ListScheduled(r.Context(), actorID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	views := make([]scheduledView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, newScheduledView(job))
	}
	handlers.WriteJSON(w, http.StatusOK, views)
}

// HandleCancel cancels a pending scheduled post
// DELETE /api/posts/scheduled/{jobID}/
func (h *ScheduleHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelScheduled(r.Context(), actorID, chi.URLParam(r, "jobID")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
