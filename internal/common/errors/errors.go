// Package errors provides the structured error type returned by the
// service's collaborators and stores.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

const (
	ErrCodePincodeLookupFailed ErrorCode = "PINCODE_LOOKUP_FAILED"
	ErrCodeVerifyDetailsFailed ErrorCode = "VERIFY_DETAILS_FAILED"
	ErrCodeConsentInsertFailed ErrorCode = "CONSENT_INSERT_FAILED"
	ErrCodeStateLoadFailed     ErrorCode = "STATE_LOAD_FAILED"
	ErrCodeStateSaveFailed     ErrorCode = "STATE_SAVE_FAILED"
	ErrCodeInvalidField        ErrorCode = "INVALID_FIELD"
	ErrCodeFieldConfigInvalid  ErrorCode = "FIELD_CONFIG_INVALID"
)

// StandardError is a structured application error.
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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

// WithMetadata returns e after recording key=value.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, retryable bool, cause error) *StandardError {
	e := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// ==========================
// Constructors
// ==========================

func NewPincodeLookupFailedError(pincode string, err error) *StandardError {
	return newError(ErrCodePincodeLookupFailed, "Pincode lookup failed", true, err).
		WithMetadata("pincode", pincode)
}

func NewVerifyDetailsFailedError(err error) *StandardError {
	return newError(ErrCodeVerifyDetailsFailed, "Verification request failed", true, err)
}

func NewConsentInsertFailedError(err error) *StandardError {
	return newError(ErrCodeConsentInsertFailed, "Consent insert failed", true, err)
}

func NewStateLoadFailedError(sessionID string, err error) *StandardError {
	return newError(ErrCodeStateLoadFailed, "Failed to load form state", true, err).
		WithMetadata("session_id", sessionID)
}

func NewStateSaveFailedError(sessionID string, err error) *StandardError {
	return newError(ErrCodeStateSaveFailed, "Failed to save form state", true, err).
		WithMetadata("session_id", sessionID)
}

func NewInvalidFieldError(name string) *StandardError {
	e := newError(ErrCodeInvalidField, "Unknown form field", false, nil)
	e.Details = name
	return e
}

func NewFieldConfigInvalidError(details string) *StandardError {
	e := newError(ErrCodeFieldConfigInvalid, "Invalid field configuration", false, nil)
	e.Details = details
	return e
}

// ==========================
// Helpers
// ==========================

// CodeOf returns the code of the first StandardError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	var se *StandardError
	return errors.As(err, &se) && se.Retryable
}

// Is reports whether err carries a StandardError with code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
