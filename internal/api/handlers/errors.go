package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Agora/internal/core/media"
	"Agora/internal/core/pagination"
)

// errorResponse is the body of every error response
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteError writes a standardized JSON error response
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	WriteJSON(w, statusCode, errorResponse{Error: errorType, Message: message})
}

// WriteValidationError writes a 400 naming the offending field
func WriteValidationError(w http.ResponseWriter, field, message string) {
	WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "ValidationError", Message: message, Field: field})
}

// WriteJSON encodes v with the given status
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// WriteInternalError logs err and hides it from the client
func WriteInternalError(w http.ResponseWriter, where string, err error) {
	log.Printf("Unexpected error in %s handler: %v", where, err)
	WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
}

// HandleCommonError writes responses for errors every handler shares.
// It returns false when err is not one of them.
func HandleCommonError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, pagination.ErrInvalidPage):
		WriteError(w, http.StatusNotFound, "NotFound", "Invalid page.")
	case errors.Is(err, ErrBadRequest):
		WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, media.ErrTooLarge), errors.Is(err, ErrBodyTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "PayloadTooLarge", err.Error())
	case media.IsValidationError(err):
		WriteValidationError(w, "media", err.Error())
	default:
		return false
	}
	return true
}

// messageResponse is the body of plain success responses
type messageResponse struct {
	Message string `json:"message"`
}

// WriteMessage writes a plain success message
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, messageResponse{Message: message})
}
