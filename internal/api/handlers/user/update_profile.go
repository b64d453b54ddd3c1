package user

import (
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/users"
)

// MeHandler serves the caller's own account
// GET|PUT|PATCH /api/user/me/
// PUT /api/user/me/update-password/
// PUT /api/user/me/update-picture/
type MeHandler struct {
	service        users.UserService
	renderer       *handlers.Renderer
	maxUploadBytes int64
}

// NewMeHandler creates a new account handler
func NewMeHandler(service users.UserService, renderer *handlers.Renderer, maxUploadBytes int64) *MeHandler {
	return &MeHandler{
		service:        service,
		renderer:       renderer,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleGet returns the caller's account
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetMe(r.Context(), actorID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, h.renderer.For(r).Account(user))
}

// HandleUpdate edits the caller's profile. PUT requires a username; PATCH
// changes only the fields present. Email and password are not writable here.
func (h *MeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	form, err := handlers.ReadForm(w, r, "", h.maxUploadBytes)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	req := users.UpdateProfileRequest{
		Username:    form.StringPtr("username"),
		FullName:    form.StringPtr("full_name"),
		DateOfBirth: form.StringPtr("date_of_birth"),
		Bio:         form.StringPtr("bio"),
		Location:    form.StringPtr("location"),
		Website:     form.StringPtr("website"),
		Partial:     r.Method == http.MethodPatch,
	}

	user, err := h.service.UpdateProfile(r.Context(), actorID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, h.renderer.For(r).Account(user))
}

// HandleUpdatePassword changes the caller's password
//
// Request body: { "old_password": "...", "password": "...", "password2": "..." }
func (h *MeHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	var req users.ChangePasswordRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), actorID, req); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteMessage(w, http.StatusOK, "Password updated")
}

// HandleUpdatePicture replaces the caller's profile picture.
// The image arrives as the multipart file "profile_picture".
func (h *MeHandler) HandleUpdatePicture(w http.ResponseWriter, r *http.Request) {
	actorID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	form, err := handlers.ReadForm(w, r, "profile_picture", h.maxUploadBytes)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if form.File == nil {
		handlers.WriteValidationError(w, "profile_picture", "No file was submitted.")
		return
	}

	user, err := h.service.UpdateProfilePicture(r.Context(), actorID, *form.File)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, h.renderer.For(r).Account(user))
}
