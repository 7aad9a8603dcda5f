package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"shelfapi/internal/apperr"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func JSONSuccess(w http.ResponseWriter, data interface{}, meta interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func JSONSuccessCreated(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SuccessResponse{
		Success: true,
		Data:    data,
	})
}

func JSONSuccessNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, statusCode int, code string, message string, details []ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteError maps domain errors onto the response envelope. Unrecognized
// errors are reported as opaque 500s; their text never reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, apperr.ErrAlreadyAttached):
		JSONError(w, http.StatusConflict, "ALREADY_ATTACHED", err.Error(), nil)
	case errors.Is(err, apperr.ErrNotAttached):
		JSONError(w, http.StatusConflict, "NOT_ATTACHED", err.Error(), nil)
	case errors.Is(err, apperr.ErrQuotaExceeded):
		JSONError(w, http.StatusUnprocessableEntity, "QUOTA_EXCEEDED", err.Error(), nil)
	case errors.Is(err, apperr.ErrNotFoundInSource):
		JSONError(w, http.StatusNotFound, "SOURCE_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, apperr.ErrNotFound):
		JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, apperr.ErrForbidden):
		JSONError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	case errors.Is(err, apperr.ErrSourceUnavailable):
		JSONError(w, http.StatusBadGateway, "SOURCE_UNAVAILABLE", "External catalog is unavailable", nil)
	case errors.Is(err, apperr.ErrProfileNotFound):
		// A missing profile for an authenticated user is a provisioning
		// bug, not a client error.
		JSONError(w, http.StatusInternalServerError, "PROFILE_MISSING", "User profile is not provisioned", nil)
	default:
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
