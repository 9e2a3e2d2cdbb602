package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultMessage is used when the backend returns no readable message
const DefaultMessage = "Request failed"

// Common errors
var (
	// Session errors
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidOTP       = errors.New("otp must be exactly 6 digits")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrEmptyReview      = errors.New("review text is required")

	// Flow errors
	ErrReadOnly       = errors.New("lesson is opened in view-only mode")
	ErrResendCooldown = errors.New("resend is not available yet")
	ErrNoReplyTarget  = errors.New("no comment selected for reply")

	// Storage errors
	ErrKeyNotFound = errors.New("key not found")

	// Backend errors surfaced by status
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("permission denied")
	ErrBadRequest       = errors.New("bad request")

	// Backend-side auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotVerified = errors.New("account is not verified")
	ErrOTPMismatch        = errors.New("verification code is incorrect or expired")
)

// APIError is returned for every non-2xx response
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return DefaultMessage
}

// Unwrap implements errors.Unwrap interface
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError builds an APIError and attaches the sentinel matching the status
func NewAPIError(status int, message string) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    message,
		Err:        sentinelForStatus(status),
	}
}

func sentinelForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrSessionExpired
	case http.StatusNotFound:
		return ErrResourceNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrBadRequest
	default:
		return nil
	}
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// FieldError describes one rejected form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a form is rejected locally, before any request is sent
type ValidationError struct {
	Fields []FieldError
	Err    error
}

// Error implements error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Err != nil {
			return e.Err.Error()
		}
		return ErrValidationFailed.Error()
	}
	if len(e.Fields) == 1 {
		return e.Fields[0].Message
	}
	return fmt.Sprintf("%s (and %d more)", e.Fields[0].Message, len(e.Fields)-1)
}

// Unwrap lets errors.Is match both the specific cause and ErrValidationFailed
func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Err, ErrValidationFailed}
	}
	return []error{ErrValidationFailed}
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{
		Fields: []FieldError{{Field: field, Message: err.Error()}},
		Err:    err,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
