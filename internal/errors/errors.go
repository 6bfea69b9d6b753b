package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found (or is not visible to the caller).
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeBadRequest indicates a structurally incomplete request, such as a missing parameter.
	ErrCodeBadRequest ErrorCode = "bad_request"
	// ErrCodeInvalidCredentials indicates a username/password pair did not match.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeInvalidAPIKey indicates an API key was presented but did not match.
	ErrCodeInvalidAPIKey ErrorCode = "invalid_api_key"
	// ErrCodeUnauthenticated indicates no usable credential was presented.
	ErrCodeUnauthenticated ErrorCode = "unauthenticated"
	// ErrCodeDelegationFailed indicates the orchestrator rejected or failed a subject handoff.
	ErrCodeDelegationFailed ErrorCode = "delegation_failed"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError { return newError(ErrCodeNotFound, message) }

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError { return newError(ErrCodeConflict, message) }

// Validation creates a new Validation error.
func Validation(message string) *AppError { return newError(ErrCodeValidation, message) }

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// BadRequest creates a new BadRequest error.
func BadRequest(message string) *AppError { return newError(ErrCodeBadRequest, message) }

// InvalidCredentials creates the error returned for any failed username/password check.
// The message never says which of the two was wrong.
func InvalidCredentials() *AppError {
	return newError(ErrCodeInvalidCredentials, "invalid username or password")
}

// InvalidAPIKey creates the error returned when a presented API key does not match.
func InvalidAPIKey() *AppError { return newError(ErrCodeInvalidAPIKey, "invalid API key") }

// Unauthenticated creates the error returned when a request carries no usable credential.
func Unauthenticated() *AppError { return newError(ErrCodeUnauthenticated, "authentication required") }

// DelegationFailed wraps an orchestrator failure.
func DelegationFailed(err error) *AppError {
	return Wrap(err, ErrCodeDelegationFailed, "failed to complete authentication with the orchestrator")
}

// Internal creates a new Internal error.
func Internal(message string) *AppError { return newError(ErrCodeInternal, message) }

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsBadRequest checks if an error is a BadRequest error.
func IsBadRequest(err error) bool { return isCode(err, ErrCodeBadRequest) }

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool { return isCode(err, ErrCodeInvalidCredentials) }

// IsInvalidAPIKey checks if an error is an InvalidAPIKey error.
func IsInvalidAPIKey(err error) bool { return isCode(err, ErrCodeInvalidAPIKey) }

// IsUnauthenticated checks if an error is an Unauthenticated error.
func IsUnauthenticated(err error) bool { return isCode(err, ErrCodeUnauthenticated) }

// IsDelegationFailed checks if an error is a DelegationFailed error.
func IsDelegationFailed(err error) bool { return isCode(err, ErrCodeDelegationFailed) }

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool { return isCode(err, ErrCodeTimeout) }

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool { return isCode(err, ErrCodeCanceled) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// PublicMessage returns the AppError message without its cause, for display to clients.
// Non-AppErrors yield the fallback.
func PublicMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
