package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// ErrorEnvelope is the uniform shape of every error response.
type ErrorEnvelope struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUpstream),
		errors.Is(err, domain.ErrAuthFailed),
		errors.Is(err, domain.ErrMalformedTweet):
		// The remote API, not the caller, is at fault.
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as the standard envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	//nolint:errcheck // nothing left to do if the client went away
	json.NewEncoder(w).Encode(ErrorEnvelope{
		Name:    s.name,
		Status:  http.StatusText(code),
		Code:    code,
		Message: err.Error(),
	})
}

// writeJSON renders v with status 200.
func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck
	json.NewEncoder(w).Encode(v)
}
