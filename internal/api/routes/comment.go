package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Agora/internal/api/handlers/comments"
	"Agora/internal/api/handlers/like"
	"Agora/internal/api/middleware"
	"Agora/internal/core/likes"
)

// RegisterCommentRoutes registers comment detail, edit, delete and like endpoints.
// Comments are created through /posts/{id}/comment/.
func RegisterCommentRoutes(r chi.Router, svc Services, opts Options, authMiddleware *middleware.AuthMiddleware) {
	getHandler := comments.NewGetCommentHandler(svc.Feeds, opts.Renderer)
	updateHandler := comments.NewUpdateCommentHandler(svc.Comments, opts.Renderer, opts.MaxUploadBytes)
	deleteHandler := comments.NewDeleteCommentHandler(svc.Comments)
	likeHandler := like.NewHandler(svc.Likes, likes.KindComment)

	r.Route("/comments", func(r chi.Router) {
		r.Method(http.MethodGet, "/{id}/", comments.OptionalAuthMiddleware(authMiddleware, getHandler.HandleGet))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Put("/{id}/", updateHandler.HandleUpdate)
			r.Patch("/{id}/", updateHandler.HandleUpdate)
			r.Delete("/{id}/", deleteHandler.HandleDelete)

			getOrPost(r, "/{id}/like/", likeHandler.HandleLike)
			getOrPost(r, "/{id}/unlike/", likeHandler.HandleUnlike)
		})
	})
}
