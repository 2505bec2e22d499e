// Package apperror defines the domain errors shared by the service, repository
// and HTTP layers. Services return these; handlers map them to responses.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // human-readable, safe to show to the user
	Field   string // form field the error belongs to; "" means the whole form
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: notFoundMessage(resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden reports that the caller is not the author of the record.
//
// The message is the same one NotFound produces, and HTTP handlers render
// ErrForbidden exactly like ErrNotFound (404), so a caller cannot tell
// another user's record apart from a missing one.
func Forbidden(resource, id string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: notFoundMessage(resource, id),
	}
}

// IsNotFound reports whether err should be presented as a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden)
}

func notFoundMessage(resource, id string) string {
	return fmt.Sprintf("%s not found with id %s", resource, id)
}
