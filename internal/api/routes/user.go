package routes

import (
	"github.com/go-chi/chi/v5"

	"Agora/internal/api/handlers/session"
	"Agora/internal/api/handlers/user"
	"Agora/internal/api/middleware"
)

// RegisterUserRoutes registers account, token and user directory endpoints
func RegisterUserRoutes(r chi.Router, svc Services, opts Options, authMiddleware *middleware.AuthMiddleware) {
	sessionHandler := session.NewHandler(svc.Users, svc.Tokens, opts.Renderer)
	meHandler := user.NewMeHandler(svc.Users, opts.Renderer, opts.MaxUploadBytes)
	directoryHandler := user.NewDirectoryHandler(svc.Users, opts.Renderer, opts.UserPages)

	r.Route("/user", func(r chi.Router) {
		r.Post("/register/", sessionHandler.HandleRegister)
		r.Post("/login/", sessionHandler.HandleLogin)
		r.Post("/token/refresh/", sessionHandler.HandleRefresh)
		r.Post("/token/verify/", sessionHandler.HandleVerify)
		r.Post("/logout/", sessionHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/me/", meHandler.HandleGet)
			r.Put("/me/", meHandler.HandleUpdate)
			r.Patch("/me/", meHandler.HandleUpdate)
			r.Put("/me/update-password/", meHandler.HandleUpdatePassword)
			r.Patch("/me/update-password/", meHandler.HandleUpdatePassword)
			r.Put("/me/update-picture/", meHandler.HandleUpdatePicture)
			r.Patch("/me/update-picture/", meHandler.HandleUpdatePicture)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.With(authMiddleware.OptionalAuth).Get("/", directoryHandler.HandleList)
		r.With(authMiddleware.OptionalAuth).Get("/{id}/", directoryHandler.HandleDetail)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			getOrPost(r, "/{id}/subscribe/", directoryHandler.HandleSubscribe)
			getOrPost(r, "/{id}/unsubscribe/", directoryHandler.HandleUnsubscribe)
		})
	})
}
