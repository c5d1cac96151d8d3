// Package errors defines the typed errors shared by the store, services and
// CLI. The CLI shows GetUserMessage; logs get the full Error text.
package errors

import (
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypeUnavailable
)

// typeInfo describes how one ErrorType is coded and shown
type typeInfo struct {
	name string
	code string
	// caused by the person at the terminal, not by the system
	userFault bool
	// shown instead of the message; empty shows the message itself
	userMessage string
}

var typeInfos = map[ErrorType]typeInfo{
	ErrorTypeValidation:   {name: "validation", code: "VALIDATION_FAILED", userFault: true},
	ErrorTypeNotFound:     {name: "not_found", code: "NOT_FOUND", userFault: true},
	ErrorTypeInvalidInput: {name: "invalid_input", code: "INVALID_INPUT", userFault: true},
	ErrorTypeDatabase: {
		name:        "database",
		code:        "DATABASE_ERROR",
		userMessage: "Could not read or write your study data. Please try again.",
	},
	ErrorTypeTimeout: {
		name:        "timeout",
		code:        "TIMEOUT",
		userMessage: "The operation timed out. Please try again.",
	},
	ErrorTypeUnavailable: {name: "unavailable", code: "UNAVAILABLE"},
}

// String returns the string representation of the error type
func (et ErrorType) String() string {
	if info, ok := typeInfos[et]; ok {
		return info.name
	}
	return "unknown"
}

// AppError is the error value returned across package boundaries.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]any
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another *AppError with the same type and code.
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && e.Type == other.Type && e.Code == other.Code
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext attaches a key/value pair and returns the receiver for chaining.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// GetContext retrieves context information from the error
func (e *AppError) GetContext(key string) (any, bool) {
	value, ok := e.Context[key]
	return value, ok
}
