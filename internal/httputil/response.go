// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/coursehook/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// errorMapping translates one sentinel into a response. An empty message echoes the error.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings is checked in order; the first sentinel found in the chain wins.
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "The resource is not in a state that allows this operation"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrStorage, http.StatusServiceUnavailable, "storage_unavailable", "The event store is temporarily unavailable, retry later"},
}

func resolveError(err error) (int, ErrorResponse) {
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		message := m.message
		if message == "" {
			message = err.Error()
		}
		return m.status, ErrorResponse{Error: m.code, Message: message}
	}
	return http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}
}

// HandleErrorGin maps domain errors to HTTP status codes and returns a JSON response using Gin.
// Unmapped errors become a 500 whose body carries no detail; the full chain is only logged.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, errorResponse := resolveError(err)

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c, level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusBadRequest, "bad_request", err, logger)
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors using Gin.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusUnprocessableEntity, "validation_error", err, logger)
}

func writeClientError(c *gin.Context, status int, code string, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("request rejected",
			slog.String("error_code", code),
			slog.Any("error", err),
		)
	}

	c.JSON(status, ErrorResponse{Error: code, Message: err.Error()})
}
