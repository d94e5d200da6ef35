// Package errors provides standardized error handling for the wizard service.
package errors

import (
	stderrors "errors"
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
	ErrCodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeUnknownField      ErrorCode = "UNKNOWN_FIELD"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"

	ErrCodeStoreAppendFailed ErrorCode = "STORE_APPEND_FAILED"
	ErrCodeStoreReadFailed   ErrorCode = "STORE_READ_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeReviewStartFailed      ErrorCode = "REVIEW_START_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Form session not found",
		Details:   fmt.Sprintf("no session with id %q", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError reports an operation the session cannot perform
// in its current state.
func NewInvalidTransitionError(operation, state string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   fmt.Sprintf("Cannot %s while session is %s", operation, state),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Metadata: map[string]interface{}{
			"operation": operation,
			"state":     state,
		},
	}
}

func NewUnknownFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownField,
		Message:   "Unknown form field",
		Details:   field,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewStoreAppendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreAppendFailed,
		Message:   "Failed to record application",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewStoreReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreReadFailed,
		Message:   "Failed to read applications",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   fmt.Sprintf("Failed to send %s notification", channel),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewReviewStartFailedError(reference string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReviewStartFailed,
		Message:   "Failed to start application review",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Metadata:  map[string]interface{}{"reference": reference},
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

var httpStatusMapping = map[ErrorCode]int{
	ErrCodeSessionNotFound:        http.StatusNotFound,
	ErrCodeInvalidTransition:      http.StatusConflict,
	ErrCodeUnknownField:           http.StatusBadRequest,
	ErrCodeInvalidRequest:         http.StatusBadRequest,
	ErrCodeStoreAppendFailed:      http.StatusServiceUnavailable,
	ErrCodeStoreReadFailed:        http.StatusServiceUnavailable,
	ErrCodeNotificationSendFailed: http.StatusBadGateway,
	ErrCodeReviewStartFailed:      http.StatusBadGateway,
	ErrCodeExternalService:        http.StatusBadGateway,
	ErrCodeTimeout:                http.StatusGatewayTimeout,
	ErrCodeInternal:               http.StatusInternalServerError,
}

// GetHTTPStatus returns the response status for code.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// AsStandardError unwraps err to a StandardError, if it carries one.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a StandardError with code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeStoreAppendFailed,
		ErrCodeStoreReadFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeReviewStartFailed,
		ErrCodeExternalService,
		ErrCodeTimeout:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "TRANSITION"):
		return "SESSION"
	case strings.Contains(codeStr, "STORE"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "REVIEW"):
		return "POST_SUBMIT"
	case strings.Contains(codeStr, "FIELD") || strings.Contains(codeStr, "REQUEST"):
		return "VALIDATION"
	case strings.Contains(codeStr, "EXTERNAL") || strings.Contains(codeStr, "TIMEOUT"):
		return "EXTERNAL"
	default:
		return "OTHER"
	}
}
