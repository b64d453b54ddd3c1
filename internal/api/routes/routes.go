// Package routes wires the HTTP handlers onto a chi router.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Agora/internal/api/handlers"
	"Agora/internal/api/handlers/session"
	"Agora/internal/api/middleware"
	"Agora/internal/core/comments"
	"Agora/internal/core/feeds"
	"Agora/internal/core/likes"
	"Agora/internal/core/pagination"
	"Agora/internal/core/posts"
	"Agora/internal/core/scheduling"
	"Agora/internal/core/users"
)

// Services bundles the core services behind the API
type Services struct {
	Users      users.UserService
	Tokens     session.TokenService
	Posts      posts.Service
	Comments   comments.Service
	Likes      likes.Service
	Feeds      feeds.Service
	Scheduling scheduling.Service
}

// Options holds the request-shaping settings shared by the handlers
type Options struct {
	Renderer       *handlers.Renderer
	MaxUploadBytes int64
	PostPages      pagination.Settings
	CommentPages   pagination.Settings
	UserPages      pagination.Settings
}

// RegisterAPIRoutes mounts every /api endpoint on r
func RegisterAPIRoutes(r chi.Router, svc Services, opts Options, authMiddleware *middleware.AuthMiddleware) {
	r.Route("/api", func(r chi.Router) {
		RegisterUserRoutes(r, svc, opts, authMiddleware)
		RegisterPostRoutes(r, svc, opts, authMiddleware)
		RegisterCommentRoutes(r, svc, opts, authMiddleware)
	})
}

// getOrPost registers fn for both methods. Like and subscribe toggles
// historically answered GET, so both stay routable.
func getOrPost(r chi.Router, pattern string, fn func(w http.ResponseWriter, r *http.Request)) {
	r.Get(pattern, fn)
	r.Post(pattern, fn)
}
