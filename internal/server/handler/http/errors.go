// Package http provides the HTTP handlers and routing for the
// noteshare API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"noteshare/internal/models"
)

// errorResponse is the uniform error body. The message is a stable
// reason, never an internal path or stack detail.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to its status code and stable reason.
func writeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	var serr *models.StorageError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
	case errors.Is(err, models.ErrWrongKind):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "not a file note"})
	case errors.Is(err, models.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, models.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not authorized to delete this note"})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, models.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage failure"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
