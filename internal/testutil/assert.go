package testutil

import (
	"testing"

	apperrors "github.com/runvoy/cfnopts/internal/errors"

	"github.com/stretchr/testify/assert"
)

// AssertErrorCode checks if the error carries a specific application error code.
func AssertErrorCode(t *testing.T, err error, expectedCode string, _ ...any) bool {
	t.Helper()
	code := apperrors.GetErrorCode(err)
	if code != expectedCode {
		return assert.Fail(t, "Error code mismatch", "Expected error code %q, got %q (%v)", expectedCode, code, err)
	}
	return true
}

// AssertErrorValue checks that the error carries the offending raw value.
func AssertErrorValue(t *testing.T, err error, expectedValue string, _ ...any) bool {
	t.Helper()
	value := apperrors.GetErrorValue(err)
	if value != expectedValue {
		return assert.Fail(t, "Error value mismatch", "Expected error value %q, got %q", expectedValue, value)
	}
	return true
}
