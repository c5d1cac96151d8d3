package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationError(t *testing.T) {
	cause := errors.New("title is required")
	err := NewValidationError("task validation failed", cause)

	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "task validation failed", err.Message)
	assert.Equal(t, "VALIDATION_FAILED", err.Code)
	assert.Same(t, cause, err.Cause)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("subject", "abc")

	assert.Equal(t, ErrorTypeNotFound, err.Type)
	assert.Equal(t, "subject not found: abc", err.Message)
	assert.Equal(t, "NOT_FOUND", err.Code)

	resource, ok := err.GetContext("resource")
	require.True(t, ok)
	assert.Equal(t, "subject", resource)

	identifier, ok := err.GetContext("identifier")
	require.True(t, ok)
	assert.Equal(t, "abc", identifier)
}

func TestNewDatabaseError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewDatabaseError("create session", cause)

	assert.Equal(t, ErrorTypeDatabase, err.Type)
	assert.Equal(t, "database operation failed: create session", err.Message)
	assert.Equal(t, "DATABASE_ERROR", err.Code)
	assert.ErrorIs(t, err, cause)

	op, ok := err.GetContext("operation")
	require.True(t, ok)
	assert.Equal(t, "create session", op)
}

func TestNewInvalidInputError(t *testing.T) {
	err := NewInvalidInputError("seconds", 75, "must be between 0 and 59")

	assert.Equal(t, ErrorTypeInvalidInput, err.Type)
	assert.Equal(t, "invalid input for seconds: must be between 0 and 59", err.Message)
	value, _ := err.GetContext("value")
	assert.Equal(t, 75, value)
}

func TestNewTimeoutError(t *testing.T) {
	err := NewTimeoutError("load snapshot", "5s")

	assert.Equal(t, ErrorTypeTimeout, err.Type)
	assert.Equal(t, "TIMEOUT", err.Code)
	assert.Equal(t, "operation timed out: load snapshot", err.Message)
}

func TestNewUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUnavailableError("report cache", cause)

	assert.Equal(t, ErrorTypeUnavailable, err.Type)
	assert.Equal(t, "report cache is unavailable", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestWrapError(t *testing.T) {
	cause := errors.New("boom")
	err := WrapError(cause, ErrorTypeDatabase, "listing tasks")

	assert.Equal(t, "database", err.Code)
	assert.Equal(t, "database: listing tasks (caused by: boom)", err.Error())
}

func TestIsErrorType(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewNotFoundError("task", "1"))

	assert.True(t, IsErrorType(wrapped, ErrorTypeNotFound))
	assert.False(t, IsErrorType(wrapped, ErrorTypeDatabase))
	assert.False(t, IsErrorType(errors.New("plain"), ErrorTypeNotFound))
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(fmt.Errorf("ctx: %w", NewTimeoutError("x", 1)))
	require.True(t, ok)
	assert.Equal(t, ErrorTypeTimeout, appErr.Type)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsAppError(nil))
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation", NewValidationError("name is required", nil), "name is required"},
		{"not found", NewNotFoundError("subject", "42"), "subject not found: 42"},
		{"database", NewDatabaseError("insert", errors.New("x")), "Could not read or write your study data. Please try again."},
		{"timeout", NewTimeoutError("load", "1s"), "The operation timed out. Please try again."},
		{"unavailable", NewUnavailableError("redis", nil), "redis is unavailable. Please try again later."},
		{"plain", errors.New("something odd"), "something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetUserMessage(tt.err))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", GetErrorCode(NewNotFoundError("a", "b")))
	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(errors.New("x")))
}

func TestShouldLogError(t *testing.T) {
	assert.False(t, ShouldLogError(NewValidationError("x", nil)))
	assert.False(t, ShouldLogError(NewNotFoundError("a", "b")))
	assert.False(t, ShouldLogError(NewInvalidInputError("f", 1, "r")))
	assert.True(t, ShouldLogError(NewDatabaseError("op", nil)))
	assert.True(t, ShouldLogError(NewUnavailableError("redis", nil)))
	assert.True(t, ShouldLogError(errors.New("plain")))
}
