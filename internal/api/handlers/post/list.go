package post

import (
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/feeds"
	"Agora/internal/core/pagination"
)

// FeedHandler serves the post feeds and post detail
type FeedHandler struct {
	feeds    feeds.Service
	renderer *handlers.Renderer
	posts    pagination.Settings
	comments pagination.Settings
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(service feeds.Service, renderer *handlers.Renderer, postPages, commentPages pagination.Settings) *FeedHandler {
	return &FeedHandler{
		feeds:    service,
		renderer: renderer,
		posts:    postPages,
		comments: commentPages,
	}
}

// HandleList returns every post, newest first
// GET /api/posts/
func (h *FeedHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, feeds.All())
}

// HandleMyFeed returns posts by users the caller is subscribed to
// GET /api/posts/my-feed/
func (h *FeedHandler) HandleMyFeed(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}
	h.serveFeed(w, r, feeds.Subscriptions(actorID))
}

// HandleLiked returns posts the caller liked, directly or through a comment
// GET /api/posts/liked/
func (h *FeedHandler) HandleLiked(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}
	h.serveFeed(w, r, feeds.Liked(actorID))
}

func (h *FeedHandler) serveFeed(w http.ResponseWriter, r *http.Request, view feeds.PostView) {
	page, err := pagination.ParseRequest(r.URL.Query(), h.posts)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	rows, count, err := h.feeds.ListPosts(r.Context(), view, page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := h.renderer.For(r).PostListItems(rows)
	handlers.WriteJSON(w, http.StatusOK, pagination.Build(h.renderer.RequestURL(r), "page", page, count, items))
}

// HandleDetail returns a post with one page of its comments
// GET /api/posts/{id}/?page=
func (h *FeedHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.ParseID(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	page, err := pagination.ParseRequest(r.URL.Query(), h.comments)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	detail, err := h.feeds.GetPostDetail(r.Context(), id, page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, h.renderer.For(r).PostDetail(detail, h.renderer.RequestURL(r), "page", page))
}
