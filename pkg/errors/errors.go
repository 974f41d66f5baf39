package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Document errors
	ErrMalformedInput ErrorCode = "MALFORMED_INPUT"
	ErrSourceMissing  ErrorCode = "SOURCE_MISSING"

	// Artifact errors
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAmbiguousState ErrorCode = "AMBIGUOUS_STATE"
	ErrBackupFailed   ErrorCode = "BACKUP_FAILED"
	ErrWriteFailed    ErrorCode = "WRITE_FAILED"

	// Profile errors
	ErrProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"
	ErrProfileExists   ErrorCode = "PROFILE_EXISTS"
	ErrRegistryInvalid ErrorCode = "REGISTRY_INVALID"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Housekeeping errors
	ErrArchiveFailed ErrorCode = "ARCHIVE_FAILED"

	// User aborts (declined confirmation; reported, not retried)
	ErrDeclined ErrorCode = "DECLINED"
)

// VivError represents a structured error with code and details
type VivError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *VivError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *VivError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *VivError) Is(target error) bool {
	var targetErr *VivError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new VivError with the given code and message
func New(code ErrorCode, message string) *VivError {
	return &VivError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new VivError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *VivError {
	return &VivError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a VivError
func Wrap(err error, code ErrorCode, message string) *VivError {
	if err == nil {
		return nil
	}
	return &VivError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *VivError {
	if err == nil {
		return nil
	}
	return &VivError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *VivError) WithDetail(key string, value interface{}) *VivError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var vivErr *VivError
	if errors.As(err, &vivErr) {
		return vivErr.Code == code
	}
	return false
}

// CodeOf returns the error code from an error, or ErrUnknown if not a VivError
func CodeOf(err error) ErrorCode {
	var vivErr *VivError
	if errors.As(err, &vivErr) {
		return vivErr.Code
	}
	return ErrUnknown
}

// IsDeclined reports whether err is a declined-confirmation abort.
// Declines are aborts, not failures, and are rendered differently.
func IsDeclined(err error) bool {
	return IsCode(err, ErrDeclined)
}
