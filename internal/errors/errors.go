package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Convivio client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Request errors
	ErrValidation = errors.New("validation failed")
	ErrNetwork    = errors.New("network error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Session errors
	ErrCorruptState = errors.New("corrupt persisted state")
	ErrSuperseded   = errors.New("login superseded by a later transition")
)

// ValidationError carries the message that explains why a request was rejected.
// The message is meant to be shown to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidation returns a ValidationError with the given message
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
