package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmarquez/inkwell-be/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, models.ErrNotAuthorized):
		http.Error(w, "You do not own this resource", http.StatusForbidden)
	case errors.Is(err, models.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrDuplicateSlug):
		http.Error(w, "Slug already in use", http.StatusConflict)
	case errors.Is(err, models.ErrLikesUnavailable):
		http.Error(w, "Likes are not available", http.StatusServiceUnavailable)
	default:
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
