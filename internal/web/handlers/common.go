package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mvillareal/lumina/internal/ai"
	"github.com/mvillareal/lumina/internal/gallery"
	"github.com/mvillareal/lumina/internal/imaging"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondIngestError maps pipeline failures to HTTP statuses: client
// mistakes are 4xx, upstream model failures are 502.
func respondIngestError(w http.ResponseWriter, err error) {
	var dup *gallery.DuplicateError
	var dim *ai.DimensionError

	switch {
	case errors.As(err, &dup):
		respondJSON(w, http.StatusConflict, map[string]any{
			"error":    "duplicate image",
			"match_id": dup.MatchID,
			"distance": dup.Distance,
		})
	case errors.Is(err, imaging.ErrImageDecode):
		respondError(w, http.StatusBadRequest, "unsupported or corrupt image")
	case errors.Is(err, gallery.ErrManualNoteTooLong),
		errors.Is(err, gallery.ErrBatchTooLarge):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ai.ErrInvalidModelResponse),
		errors.Is(err, ai.ErrEmptyCaption),
		errors.As(err, &dim):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusBadGateway, "photo processing failed")
	}
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
