package user

import (
	"context"
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/pagination"
	"Agora/internal/core/users"
)

// DirectoryHandler serves the public user list, profiles and subscriptions
type DirectoryHandler struct {
	service  users.UserService
	renderer *handlers.Renderer
	pages    pagination.Settings
}

// NewDirectoryHandler creates a new user directory handler
func NewDirectoryHandler(service users.UserService, renderer *handlers.Renderer, pages pagination.Settings) *DirectoryHandler {
	return &DirectoryHandler{
		service:  service,
		renderer: renderer,
		pages:    pages,
	}
}

// HandleList returns a page of users
// GET /api/users/?user=&location=&page=
//
// "user" matches username or full name, "location" matches location.
// Both are case-insensitive substrings and combine with AND.
func (h *DirectoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := pagination.ParseRequest(query, h.pages)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	filter := users.ListFilter{
		User:     query.Get("user"),
		Location: query.Get("location"),
	}
	list, count, err := h.service.ListUsers(r.Context(), filter, page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := h.renderer.For(r).UserListItems(list)
	handlers.WriteJSON(w, http.StatusOK, pagination.Build(h.renderer.RequestURL(r), "page", page, count, items))
}

// HandleDetail returns a public profile
// GET /api/users/{id}/
func (h *DirectoryHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.ParseID(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	detail, err := h.service.GetUserDetail(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, h.renderer.For(r).UserDetail(detail))
}

// HandleSubscribe adds the user to the caller's subscriptions
// POST /api/users/{id}/subscribe/
func (h *DirectoryHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.Subscribe, "Subscribed!")
}

// HandleUnsubscribe removes the user from the caller's subscriptions
// POST /api/users/{id}/unsubscribe/
func (h *DirectoryHandler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.Unsubscribe, "Unsubscribed!")
}

func (h *DirectoryHandler) toggle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actorID, targetID int64) error, done string) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}
	targetID, err := handlers.ParseID(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := op(r.Context(), actorID, targetID); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteMessage(w, http.StatusOK, done)
}
