package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Catalog errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrOccurrenceNotFound = errors.New("occurrence not found")
)

// Registration errors
var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("already registered for this occurrence")
	ErrOccurrenceFull       = errors.New("occurrence has no available seats")
	ErrOccurrenceEnded      = errors.New("occurrence has already ended")
	ErrLessonCompleted      = errors.New("lesson already completed")
	ErrOccurrenceRequired   = errors.New("recurring events require a concrete occurrence")
)

// Content generation errors
var (
	ErrGenerationFailed     = errors.New("content generation failed")
	ErrProviderUnavailable  = errors.New("generation provider unavailable")
	ErrMalformedModelOutput = errors.New("model returned malformed output")
)

// CustomError pairs a sentinel with a caller-supplied message. The sentinel
// keeps errors.Is classification working while the message replaces the
// generic default in API responses.
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewForbiddenError creates a permission denied error with a message
func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}
