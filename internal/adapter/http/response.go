package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/simaogato/portfolio-tracker/internal/domain"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response with an explicit status
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps a use case error onto its HTTP status.
// Unclassified errors are logged and reported as 500 without details.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		s.writeError(w, status, "internal server error")
		return
	}

	s.writeError(w, status, err.Error())
}

// statusFor returns the HTTP status for a domain error
func statusFor(err error) int {
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAssetNotProvisioned),
		errors.Is(err, domain.ErrInvalidTicker),
		errors.Is(err, domain.ErrInvalidDate),
		errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProviderThrottled):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrDuplicateTicker),
		errors.Is(err, domain.ErrDuplicateAllocation),
		errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
