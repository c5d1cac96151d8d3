package errors

import (
	"errors"
	"fmt"
)

// newError builds an AppError coded after its type. keyvals are alternating
// context keys and values.
func newError(t ErrorType, message string, cause error, keyvals ...any) *AppError {
	e := &AppError{
		Type:    t,
		Message: message,
		Code:    typeInfos[t].code,
		Cause:   cause,
		Context: make(map[string]any, len(keyvals)/2),
	}
	for i := 0; i+1 < len(keyvals); i += 2 {
		e.Context[fmt.Sprint(keyvals[i])] = keyvals[i+1]
	}
	return e
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, message, cause)
}

// NewNotFoundError reports a subject, task or session missing for this user
func NewNotFoundError(resource string, identifier string) *AppError {
	return newError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier), nil,
		"resource", resource, "identifier", identifier)
}

// NewDatabaseError wraps a failed store operation
func NewDatabaseError(operation string, cause error) *AppError {
	return newError(ErrorTypeDatabase, "database operation failed: "+operation, cause,
		"operation", operation)
}

// NewInvalidInputError reports a single bad field
func NewInvalidInputError(field string, value any, reason string) *AppError {
	return newError(ErrorTypeInvalidInput, fmt.Sprintf("invalid input for %s: %s", field, reason), nil,
		"field", field, "value", value, "reason", reason)
}

// NewTimeoutError reports an operation that ran past its deadline
func NewTimeoutError(operation string, timeout any) *AppError {
	return newError(ErrorTypeTimeout, "operation timed out: "+operation, nil,
		"operation", operation, "timeout", timeout)
}

// NewUnavailableError reports a backing service (cache, notifier, remote
// store) that could not be reached.
func NewUnavailableError(service string, cause error) *AppError {
	return newError(ErrorTypeUnavailable, service+" is unavailable", cause, "service", service)
}

// WrapError wraps err under the given type. The code is the type name.
func WrapError(err error, errorType ErrorType, message string) *AppError {
	e := newError(errorType, message, err)
	e.Code = errorType.String()
	return e
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

// GetUserMessage returns the message shown to the person at the terminal.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	info, known := typeInfos[appErr.Type]
	switch {
	case !known:
		return "An unexpected error occurred. Please try again."
	case appErr.Type == ErrorTypeUnavailable:
		return appErr.Message + ". Please try again later."
	case info.userMessage != "":
		return info.userMessage
	default:
		return appErr.Message
	}
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError reports whether err is a system fault worth logging.
// Mistakes made by the user are only shown.
func ShouldLogError(err error) bool {
	appErr, ok := AsAppError(err)
	return !ok || !typeInfos[appErr.Type].userFault
}
