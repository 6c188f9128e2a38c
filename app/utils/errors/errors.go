package errors

import (
	"errors"
	"fmt"
	"net/http"

	"postboard/app/domain"
)

// ErrorCode represents specific error types
type ErrorCode string

const (
	// Authentication and session errors
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeCSRFTokenInvalid   ErrorCode = "CSRF_TOKEN_INVALID"

	// Validation errors
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeConflict ErrorCode = "CONFLICT"

	// System errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeBackendError  ErrorCode = "BACKEND_ERROR"
)

// AppError represents an application error with additional context.
// Backend failures of every shape are normalized into this one type at
// the boundary where they are received.
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with an explicit code and status
func New(code ErrorCode, message string, statusCode int, cause error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// NewUnauthorized creates an unauthorized error
func NewUnauthorized(message string, cause error) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized, cause)
}

// NewForbidden creates a forbidden error
func NewForbidden(message string, cause error) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden, cause)
}

// NewNotFound creates a not-found error
func NewNotFound(message string, cause error) *AppError {
	return New(ErrCodeNotFound, message, http.StatusNotFound, cause)
}

// NewValidationFailed creates a validation error
func NewValidationFailed(message string, cause error) *AppError {
	return New(ErrCodeValidationFailed, message, http.StatusBadRequest, cause)
}

// NewBackendError creates an error describing an auth backend failure.
// The description is the best-effort extraction already performed by the
// gateway boundary.
func NewBackendError(description string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeBackendError,
		Message:    "auth backend request failed",
		Details:    description,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewDatabaseError creates an error describing a data store failure
func NewDatabaseError(message string, cause error) *AppError {
	return New(ErrCodeDatabaseError, message, http.StatusInternalServerError, cause)
}

// FromError maps domain sentinel errors to AppErrors; unknown errors
// become internal errors
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return New(ErrCodeInvalidCredentials, "invalid credentials", http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return New(ErrCodeConflict, "user already exists", http.StatusConflict, err)
	case errors.Is(err, domain.ErrSessionExpired):
		return New(ErrCodeSessionExpired, "session expired", http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrInvalidSession):
		return New(ErrCodeSessionNotFound, "session not found", http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrUnauthorized):
		return NewUnauthorized("unauthorized", err)
	case errors.Is(err, domain.ErrForbidden):
		return NewForbidden("forbidden", err)
	case errors.Is(err, domain.ErrInvalidCSRFToken):
		return New(ErrCodeCSRFTokenInvalid, "invalid CSRF token", http.StatusForbidden, err)
	case errors.Is(err, domain.ErrPostNotFound):
		return NewNotFound("post not found", err)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrValidationFailed):
		return NewValidationFailed("invalid input", err)
	case errors.Is(err, domain.ErrBackendUnavailable):
		return NewBackendError("auth backend unavailable", err)
	default:
		return New(ErrCodeInternalError, "internal error", http.StatusInternalServerError, err)
	}
}

// Description returns the user-facing description of an error: the
// normalized details when present, the message otherwise
func Description(err error) string {
	appErr := FromError(err)
	if appErr.Details != "" {
		return appErr.Details
	}
	return appErr.Message
}
