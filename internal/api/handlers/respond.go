package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"agenda/internal/apperrors"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError maps a service error onto the HTTP status taxonomy. Anything
// outside the known sentinels becomes a generic 500 so internal detail never
// reaches the client.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrDuplicate):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
