package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

// errorBody is the uniform error payload. Details carries the individual
// validation messages when present.
type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, details ...string) {
	writeJSON(w, status, errorBody{Error: message, Details: details})
}

// writeDomainError translates a service error into a response. Validation
// failures carry their messages; everything else collapses to a generic 500
// so internal details never reach the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := core.AsValidationError(err); ok {
		writeError(w, http.StatusBadRequest, "validation failed", ve.Messages...)
		return
	}
	if errors.Is(err, core.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	slog.ErrorContext(r.Context(), "Request failed",
		"method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
