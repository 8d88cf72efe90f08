package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// GenericErrorResponse for API errors.
type GenericErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

// Helper to respond with an error message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, GenericErrorResponse{Error: message})
}

// mapDomainErrorToHTTPStatus converts the backend error taxonomy to HTTP
// status codes at the UI-facing boundary.
func mapDomainErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondWithDomainError maps err and surfaces the backend's message verbatim
// (conflict messages like "cannot remove last admin" must reach the user).
func respondWithDomainError(w http.ResponseWriter, err error) {
	respondWithError(w, mapDomainErrorToHTTPStatus(err), err.Error())
}
