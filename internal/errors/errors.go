// Package errors provides error types and handling for cfnopts.
// It includes a custom error type carrying an error code, the offending raw input
// and a canonical example of valid syntax.
package errors

import (
	"errors"
	"fmt"
)

// AppError represents an application error raised while decoding or applying options.
type AppError struct {
	// Code is an error code string for programmatic handling
	Code string
	// Message is a user-friendly error message
	Message string
	// Value is the raw input that could not be decoded
	Value string
	// Example is a canonical example of valid syntax, if any
	Example string
	// Cause is the underlying error (for error wrapping)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	msg := e.Message
	if e.Example != "" {
		msg = fmt.Sprintf("%s. It must look something like '%s'", msg, e.Example)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to work with AppError.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// Predefined error codes.
const (
	ErrCodeMalformedFormat          = "MALFORMED_FORMAT"
	ErrCodeNestedValueRejected      = "NESTED_VALUE_REJECTED"
	ErrCodeInvalidProfileColonCount = "INVALID_PROFILE_COLON_COUNT"
	ErrCodeMissingProfileName       = "MISSING_PROFILE_NAME"
	ErrCodeInsufficientPairLength   = "INSUFFICIENT_PAIR_LENGTH"
	ErrCodeInvalidConfig            = "INVALID_CONFIG"
)

// Sentinels usable as errors.Is targets.
var (
	ErrMalformed         = &AppError{Code: ErrCodeMalformedFormat}
	ErrNestedValue       = &AppError{Code: ErrCodeNestedValueRejected}
	ErrProfileColonCount = &AppError{Code: ErrCodeInvalidProfileColonCount}
	ErrNoProfileName     = &AppError{Code: ErrCodeMissingProfileName}
	ErrPairLength        = &AppError{Code: ErrCodeInsufficientPairLength}
	ErrConfig            = &AppError{Code: ErrCodeInvalidConfig}
)

// ErrMalformedFormat creates an error for input that matches none of the known grammars.
func ErrMalformedFormat(value, example string) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedFormat,
		Message: fmt.Sprintf("%s is not in valid format", value),
		Value:   value,
		Example: example,
	}
}

// ErrNestedValueRejected creates an error for a metadata object holding a list or object value.
func ErrNestedValueRejected(value, example string) *AppError {
	return &AppError{
		Code:    ErrCodeNestedValueRejected,
		Message: fmt.Sprintf("%s is not in valid format, nested values are not supported", value),
		Value:   value,
		Example: example,
	}
}

// ErrInvalidProfileColonCount creates an error for a signing profile with more than one colon.
func ErrInvalidProfileColonCount(value, example string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidProfileColonCount,
		Message: fmt.Sprintf("signer profile option %s has invalid format, expected at most one ':'", value),
		Value:   value,
		Example: example,
	}
}

// ErrMissingProfileName creates an error for a signing profile without a profile name.
func ErrMissingProfileName(value, example string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingProfileName,
		Message: fmt.Sprintf("signer profile option %s has no profile name", value),
		Value:   value,
		Example: example,
	}
}

// ErrInsufficientPairLength creates an error for a fixed-delimiter split with the wrong number of parts.
func ErrInsufficientPairLength(value, example string) *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientPairLength,
		Message: fmt.Sprintf("%s is not a valid format", value),
		Value:   value,
		Example: example,
	}
}

// ErrInvalidConfig creates a configuration error.
func ErrInvalidConfig(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidConfig,
		Message: message,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error.
// Returns empty string if the error is not an AppError.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetErrorMessage extracts a user-friendly message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetErrorValue returns the offending raw input carried by an AppError, or "".
func GetErrorValue(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Value
	}
	return ""
}
