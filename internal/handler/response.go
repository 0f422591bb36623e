// Package handler is the HTTP edge: it decodes requests, calls the service
// layer, and encodes responses. All status-code decisions live in
// writeError so the mapping from domain errors to HTTP exists in exactly
// one place.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/todolist-api/internal/apperror"
)

// errorResponse is the uniform error envelope. Errors is only present for
// validation failures, keyed by field name.
type errorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// writeJSON encodes v as the response body with the given status. An
// encoding failure after the header is sent cannot be recovered, so it is
// only logged.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError translates a domain error to an HTTP response.
//
// The mapping:
//
//	ValidationError / ErrValidation  → 400 with per-field messages
//	ErrInvalidCredentials            → 400 (unknown login identity)
//	ErrConflict                      → 400 (duplicate email)
//	ErrUnauthorized                  → 401
//	ErrNotFound                      → 404
//	anything else                    → 500, message withheld
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, logger, http.StatusBadRequest, errorResponse{
			Error:   "validation_error",
			Message: "One or more validation errors occurred",
			Errors:  verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		writeJSON(w, logger, http.StatusBadRequest, errorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, apperror.ErrInvalidCredentials):
		writeJSON(w, logger, http.StatusBadRequest, errorResponse{
			Error:   "invalid_credentials",
			Message: err.Error(),
		})
	case errors.Is(err, apperror.ErrConflict):
		writeJSON(w, logger, http.StatusBadRequest, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case errors.Is(err, apperror.ErrUnauthorized):
		writeJSON(w, logger, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: err.Error(),
		})
	case errors.Is(err, apperror.ErrNotFound):
		writeJSON(w, logger, http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	default:
		// Internal details stay in the log, never in the response.
		logger.Error("internal error", slog.String("error", err.Error()))
		writeJSON(w, logger, http.StatusInternalServerError, errorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// decodeJSON reads the request body into v. A malformed body is reported
// as a validation error so it surfaces as 400, not 500.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.ValidationFailed("body", "Request body is not valid JSON")
	}
	return nil
}
