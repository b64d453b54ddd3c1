package routes

import (
	"github.com/go-chi/chi/v5"

	"Agora/internal/api/handlers/comments"
	"Agora/internal/api/handlers/like"
	"Agora/internal/api/handlers/post"
	"Agora/internal/api/middleware"
	"Agora/internal/core/likes"
)

// RegisterPostRoutes registers feeds, post CRUD, likes, comments and scheduling
func RegisterPostRoutes(r chi.Router, svc Services, opts Options, authMiddleware *middleware.AuthMiddleware) {
	feedHandler := post.NewFeedHandler(svc.Feeds, opts.Renderer, opts.PostPages, opts.CommentPages)
	createHandler := post.NewCreateHandler(svc.Posts, opts.Renderer, opts.MaxUploadBytes)
	updateHandler := post.NewUpdateHandler(svc.Posts, opts.Renderer, opts.MaxUploadBytes)
	deleteHandler := post.NewDeleteHandler(svc.Posts)
	scheduleHandler := post.NewScheduleHandler(svc.Scheduling, opts.MaxUploadBytes)
	commentHandler := comments.NewCreateCommentHandler(svc.Comments, opts.Renderer, opts.MaxUploadBytes)
	likeHandler := like.NewHandler(svc.Likes, likes.KindPost)

	r.Route("/posts", func(r chi.Router) {
		// Read endpoints are open to anonymous callers
		r.With(authMiddleware.OptionalAuth).Get("/", feedHandler.HandleList)
		r.With(authMiddleware.OptionalAuth).Get("/{id}/", feedHandler.HandleDetail)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Post("/", createHandler.HandleCreate)
			r.Put("/{id}/", updateHandler.HandleUpdate)
			r.Patch("/{id}/", updateHandler.HandleUpdate)
			r.Delete("/{id}/", deleteHandler.HandleDelete)

			r.Get("/my-feed/", feedHandler.HandleMyFeed)
			r.Get("/liked/", feedHandler.HandleLiked)

			getOrPost(r, "/{id}/like/", likeHandler.HandleLike)
			getOrPost(r, "/{id}/unlike/", likeHandler.HandleUnlike)
			r.Post("/{id}/comment/", commentHandler.HandleCreate)

			r.Post("/schedule/", scheduleHandler.HandleSchedule)
			r.Get("/scheduled/", scheduleHandler.HandleList)
			r.Delete("/scheduled/{jobID}/", scheduleHandler.HandleCancel)
		})
	})
}
