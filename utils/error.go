package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// AppError carries an HTTP status alongside a user-facing message so
// handlers can map service failures without inspecting strings.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError flags missing or malformed input (400).
func NewValidationError(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

// NewConflictError flags a business-rule violation (400).
func NewConflictError(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

// NewNotFoundError flags an absent resource (404).
func NewNotFoundError(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

// NewForbiddenError flags an authorization failure (403).
func NewForbiddenError(msg string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: msg}
}

// NewUnauthorizedError flags a failed authentication or signature check (401).
func NewUnauthorizedError(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondError maps a service error onto the JSON error envelope. Typed
// AppErrors keep their status; anything else is a 500.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		JSONError(c, appErr.Status, appErr.Message, "")
		return
	}
	Logger := GetLogger()
	Logger.Error("Unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal Server Error",
	})
}
