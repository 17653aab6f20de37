// Package errors provides standardized error handling for the HTTP API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden      ErrorCode = "FORBIDDEN"
	ErrCodeNotFound       ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeConflict       ErrorCode = "CONFLICT"

	ErrCodeUpstreamReadFailure ErrorCode = "UPSTREAM_READ_FAILURE"
	ErrCodeDatabaseWriteFailed ErrorCode = "DATABASE_WRITE_FAILED"
	ErrCodeQueryTimeout        ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchUnavailable ErrorCode = "SEARCH_UNAVAILABLE"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error. Message is safe
// to return to callers; Details is for logs only.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError creates a non-retryable validation error. The
// message is returned to the caller verbatim.
func NewInvalidRequestError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnauthorizedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Unauthorized",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewForbiddenError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeForbidden,
		Message:   "Forbidden",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResourceNotFoundError creates a non-retryable not-found error.
func NewResourceNotFoundError(resource, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewConflictError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConflict,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamReadFailureError wraps a failed store read. The caller only
// ever sees the generic message.
func NewUpstreamReadFailureError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamReadFailure,
		Message:   "Internal Server Error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, errString(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDatabaseWriteFailedError creates a retryable database write error.
func NewDatabaseWriteFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseWriteFailed,
		Message:   "Internal Server Error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, errString(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Request timed out",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Internal Server Error",
		Details:   fmt.Sprintf("index: %s, error: %s", index, errString(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, errString(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal Server Error",
		Details:   errString(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatus maps an error code to the response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeQueryTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeSearchUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// AsStandard extracts a *StandardError from err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

// IsClientError reports whether the code describes a caller mistake.
func IsClientError(code ErrorCode) bool {
	return HTTPStatus(code) < http.StatusInternalServerError
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "UPSTREAM"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case code == ErrCodeUnauthorized || code == ErrCodeForbidden:
		return "AUTH"
	case strings.Contains(codeStr, "INVALID") || code == ErrCodeNotFound || code == ErrCodeConflict:
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
