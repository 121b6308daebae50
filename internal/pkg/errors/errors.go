package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation failed")
	ErrBadRequest         = errors.New("bad request")
	ErrAlreadyConfirmed   = errors.New("order already confirmed")
	ErrChannelUnavailable = errors.New("channel not available")
	ErrConflict           = errors.New("conflict: resource already exists")
	ErrInternal           = errors.New("internal server error")
	ErrTokenExpired       = errors.New("token expired")
)

// ValidationError carries the list of webhook/request fields that failed
// validation so handlers can report them back to the caller.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %v", e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for the given field names.
func NewValidationError(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
