package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ferndale/console-edge/internal/platform/apperror"
	"github.com/ferndale/console-edge/internal/platform/logger"
)

// response is the envelope every endpoint answers with, the same shape
// the console already consumes from the backend.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger logger.Logger
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// WriteData writes a successful envelope response
func (h *BaseHandler) WriteData(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response{Success: true, Data: data}); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// WriteError writes a failure envelope response
func (h *BaseHandler) WriteError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response{Success: false, Message: message}); err != nil {
		h.logger.Error(r.Context(), "failed to encode error response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// WriteAppError maps an error to the envelope, honoring AppError status
// codes and hiding internal detail otherwise.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		h.WriteError(w, r, appErr.Message, appErr.HTTPStatus)
		return
	}
	h.logger.Error(r.Context(), "unhandled error", "error", err)
	h.WriteError(w, r, "internal error", http.StatusInternalServerError)
}

// DecodeJSON parses a request body, answering a 400 on malformed input.
// The bool result reports whether the handler should continue.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.WriteError(w, r, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
