// Package session serves registration and the token endpoints.
package session

import (
	"context"
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/auth"
	"Agora/internal/core/users"
)

// TokenService issues, refreshes, verifies and revokes tokens
type TokenService interface {
	Login(userID int64) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Verify(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Handler serves the session endpoints
type Handler struct {
	users    users.UserService
	tokens   TokenService
	renderer *handlers.Renderer
}

// NewHandler creates a session handler
func NewHandler(userService users.UserService, tokens TokenService, renderer *handlers.Renderer) *Handler {
	return &Handler{
		users:    userService,
		tokens:   tokens,
		renderer: renderer,
	}
}

// HandleRegister creates an account
// POST /api/user/register/
//
// Request body: { "email": "...", "username": "...", "password": "...", "date_of_birth": "YYYY-MM-DD" }
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, h.renderer.For(r).Account(user))
}

// HandleLogin exchanges credentials for an access and refresh token
// POST /api/user/login/
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req users.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	pair, err := h.tokens.Login(user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (req refreshRequest) check(w http.ResponseWriter) bool {
	if req.Refresh == "" {
		handlers.WriteValidationError(w, "refresh", "This field is required.")
		return false
	}
	return true
}

// HandleRefresh issues a new access token
// POST /api/user/token/refresh/
//
// Request body: { "refresh": "<token>" }
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}
	if !req.check(w) {
		return
	}

	access, err := h.tokens.Refresh(r.Context(), req.Refresh)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"access": access})
}

// HandleVerify checks a token of either type
// POST /api/user/token/verify/
//
// Request body: { "token": "<token>" }
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}
	if req.Token == "" {
		handlers.WriteValidationError(w, "token", "This field is required.")
		return
	}

	if _, err := h.tokens.Verify(r.Context(), req.Token); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, struct{}{})
}

// HandleLogout blacklists a refresh token
// POST /api/user/logout/
//
// Request body: { "refresh": "<token>" }
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}
	if !req.check(w) {
		return
	}

	if err := h.tokens.Logout(r.Context(), req.Refresh); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteMessage(w, http.StatusOK, "Token invalidated")
}
