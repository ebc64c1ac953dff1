package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "error with example",
			err: &AppError{
				Code:    ErrCodeMalformedFormat,
				Message: "a b is not in valid format",
				Example: "KeyName1=string KeyName2=string",
			},
			expected: "a b is not in valid format. It must look something like 'KeyName1=string KeyName2=string'",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInvalidConfig,
				Message: "failed to read samconfig",
				Cause:   errors.New("file not found"),
			},
			expected: "failed to read samconfig: file not found",
		},
		{
			name: "plain message",
			err: &AppError{
				Code:    ErrCodeMissingProfileName,
				Message: "signer profile option :owner has no profile name",
			},
			expected: "signer profile option :owner has no profile name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := ErrInvalidConfig("bad config", cause)

	assert.Equal(t, cause, err.Unwrap())
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		target   error
		expected bool
	}{
		{
			name:     "same error code matches",
			err:      ErrMalformedFormat("x", "y"),
			target:   ErrMalformed,
			expected: true,
		},
		{
			name:     "different error codes don't match",
			err:      ErrMalformedFormat("x", "y"),
			target:   ErrNestedValue,
			expected: false,
		},
		{
			name:     "empty code doesn't match",
			err:      &AppError{Message: "error"},
			target:   &AppError{Message: "error"},
			expected: false,
		},
		{
			name:     "non-AppError doesn't match",
			err:      ErrMalformedFormat("x", "y"),
			target:   errors.New("some other error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Is(tt.target))
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		sentinel error
	}{
		{"malformed format", ErrMalformedFormat("v", "ex"), ErrCodeMalformedFormat, ErrMalformed},
		{"nested value", ErrNestedValueRejected("v", "ex"), ErrCodeNestedValueRejected, ErrNestedValue},
		{"colon count", ErrInvalidProfileColonCount("v", "ex"), ErrCodeInvalidProfileColonCount, ErrProfileColonCount},
		{"missing profile", ErrMissingProfileName("v", "ex"), ErrCodeMissingProfileName, ErrNoProfileName},
		{"pair length", ErrInsufficientPairLength("v", "ex"), ErrCodeInsufficientPairLength, ErrPairLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, "v", tt.err.Value)
			assert.Equal(t, "ex", tt.err.Example)
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "AppError returns its error code",
			err:      ErrMalformedFormat("x", ""),
			expected: ErrCodeMalformedFormat,
		},
		{
			name:     "wrapped AppError returns its error code",
			err:      fmt.Errorf("decoding --tags: %w", ErrNestedValueRejected("x", "")),
			expected: ErrCodeNestedValueRejected,
		},
		{
			name:     "non-AppError returns empty string",
			err:      errors.New("generic error"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCode(tt.err))
		})
	}
}

func TestGetErrorMessageAndValue(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrMalformedFormat("a=b=c d", "K=V"))

	assert.Equal(t, "a=b=c d is not in valid format", GetErrorMessage(err))
	assert.Equal(t, "a=b=c d", GetErrorValue(err))

	plain := errors.New("generic error")
	assert.Equal(t, "generic error", GetErrorMessage(plain))
	assert.Empty(t, GetErrorValue(plain))
}

func TestErrorWrapping(t *testing.T) {
	baseErr := errors.New("base error")
	appErr := ErrInvalidConfig("wrapped error", baseErr)

	require.True(t, errors.Is(appErr, baseErr))

	var targetErr *AppError
	require.True(t, errors.As(appErr, &targetErr))
	assert.Equal(t, ErrCodeInvalidConfig, targetErr.Code)
}
