// Package errors provides standardized error handling for the HTTP API.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Application submission errors
const (
	ErrCodeMissingRequiredFields     ErrorCode = "MISSING_REQUIRED_FIELDS"
	ErrCodeInvalidApplicationPayload ErrorCode = "INVALID_APPLICATION_PAYLOAD"
	ErrCodeAttachmentDecodeFailed    ErrorCode = "ATTACHMENT_DECODE_FAILED"
	ErrCodeCredentialsNotConfigured  ErrorCode = "CREDENTIALS_NOT_CONFIGURED"

	ErrCodeEmailServerConnectionFailed ErrorCode = "EMAIL_SERVER_CONNECTION_FAILED"
	ErrCodeEmailAuthFailed             ErrorCode = "EMAIL_AUTH_FAILED"
	ErrCodeEmailTimeout                ErrorCode = "EMAIL_TIMEOUT"
	ErrCodeEmailNetworkError           ErrorCode = "EMAIL_NETWORK_ERROR"
	ErrCodeEmailSendFailed             ErrorCode = "EMAIL_SEND_FAILED"
)

// Job listing errors
const (
	ErrCodeJobNotFound     ErrorCode = "JOB_NOT_FOUND"
	ErrCodeJobSourceFailed ErrorCode = "JOB_SOURCE_FAILED"
)

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

// User-facing messages. These strings are part of the public API contract.
const (
	MsgMissingRequiredFields     = "Missing required fields"
	MsgInvalidApplicationPayload = "Invalid application payload"
	MsgInvalidAttachment         = "Invalid attachment encoding"
	MsgCredentialsNotConfigured  = "Email credentials not configured"
	MsgEmailServerConnection     = "Email server connection failed"
	MsgEmailAuthFailed           = "Email authentication failed. Please check credentials."
	MsgEmailTimeout              = "Email server connection timeout. Please try again."
	MsgEmailNetworkError         = "Network error. Please check your connection."
	MsgEmailSendFailed           = "Failed to send email"
	MsgJobNotFound               = "Job not found"
	MsgJobSourceFailed           = "Failed to fetch job listings"
	MsgInternal                  = "Internal server error"
)

// StandardError represents a structured application error. Message is the
// text returned to the client; Details stays in the logs.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// ==========================
// 2. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// NewMissingRequiredFieldsError creates a client-correctable validation error.
func NewMissingRequiredFieldsError(details string) *StandardError {
	err := newError(ErrCodeMissingRequiredFields, MsgMissingRequiredFields, nil, false)
	err.Details = details
	return err
}

// NewInvalidApplicationPayloadError is returned when the body is not JSON or
// a present field has the wrong JSON type.
func NewInvalidApplicationPayloadError(cause error) *StandardError {
	return newError(ErrCodeInvalidApplicationPayload, MsgInvalidApplicationPayload, cause, false)
}

// NewAttachmentDecodeFailedError creates a non-retryable attachment error.
func NewAttachmentDecodeFailedError(cause error) *StandardError {
	return newError(ErrCodeAttachmentDecodeFailed, MsgInvalidAttachment, cause, false)
}

// NewCredentialsNotConfiguredError is operator-correctable; no detail is exposed.
func NewCredentialsNotConfiguredError() *StandardError {
	return newError(ErrCodeCredentialsNotConfigured, MsgCredentialsNotConfigured, nil, false)
}

// NewEmailServerConnectionFailedError wraps a failed verification round trip.
func NewEmailServerConnectionFailedError(cause error) *StandardError {
	return newError(ErrCodeEmailServerConnectionFailed, MsgEmailServerConnection, cause, true)
}

func NewEmailAuthFailedError(cause error) *StandardError {
	return newError(ErrCodeEmailAuthFailed, MsgEmailAuthFailed, cause, false)
}

func NewEmailTimeoutError(cause error) *StandardError {
	return newError(ErrCodeEmailTimeout, MsgEmailTimeout, cause, true)
}

func NewEmailNetworkError(cause error) *StandardError {
	return newError(ErrCodeEmailNetworkError, MsgEmailNetworkError, cause, true)
}

// NewEmailSendFailedError passes the provider's message through verbatim.
func NewEmailSendFailedError(cause error) *StandardError {
	msg := MsgEmailSendFailed
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	return newError(ErrCodeEmailSendFailed, msg, cause, true)
}

func NewJobNotFoundError(slug string) *StandardError {
	err := newError(ErrCodeJobNotFound, MsgJobNotFound, nil, false)
	err.Details = fmt.Sprintf("slug: %s", slug)
	return err
}

func NewJobSourceFailedError(cause error) *StandardError {
	return newError(ErrCodeJobSourceFailed, MsgJobSourceFailed, cause, true)
}

func NewInternalError(cause error) *StandardError {
	return newError(ErrCodeInternal, MsgInternal, cause, false)
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps error codes to response status codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeMissingRequiredFields:       http.StatusBadRequest,
	ErrCodeInvalidApplicationPayload:   http.StatusBadRequest,
	ErrCodeAttachmentDecodeFailed:      http.StatusBadRequest,
	ErrCodeCredentialsNotConfigured:    http.StatusInternalServerError,
	ErrCodeEmailServerConnectionFailed: http.StatusInternalServerError,
	ErrCodeEmailAuthFailed:             http.StatusInternalServerError,
	ErrCodeEmailTimeout:                http.StatusInternalServerError,
	ErrCodeEmailNetworkError:           http.StatusInternalServerError,
	ErrCodeEmailSendFailed:             http.StatusInternalServerError,
	ErrCodeJobNotFound:                 http.StatusNotFound,
	ErrCodeJobSourceFailed:             http.StatusBadGateway,
	ErrCodeInternal:                    http.StatusInternalServerError,
}

// GetHTTPStatus returns the response status for a code, 500 when unknown.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeMissingRequiredFields, ErrCodeInvalidApplicationPayload, ErrCodeAttachmentDecodeFailed:
		return "validation"
	case ErrCodeCredentialsNotConfigured:
		return "configuration"
	case ErrCodeEmailServerConnectionFailed:
		return "connectivity"
	case ErrCodeEmailAuthFailed, ErrCodeEmailTimeout, ErrCodeEmailNetworkError, ErrCodeEmailSendFailed:
		return "send"
	case ErrCodeJobNotFound, ErrCodeJobSourceFailed:
		return "upstream"
	default:
		return "internal"
	}
}

// IsClientError reports whether the code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}
