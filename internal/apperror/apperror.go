// Package apperror defines the domain error kinds shared by every layer.
//
// Services return these; the HTTP layer maps them to status codes. Callers
// check the kind with errors.Is against the sentinels below.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrForbidden   = errors.New("forbidden")
	ErrNotShared   = errors.New("not shared")
	ErrPersistence = errors.New("persistence failure")
)

type AppError struct {
	Err     error  // sentinel (possibly wrapping an underlying cause)
	Message string // human-readable error message
	Field   string // optional: field causing the error
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
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// NotShared indicates the caller has no sharing relationship with a
// snippet: no status row exists for the (snippet, caller) pair. Kept
// distinct from Forbidden so "not yours" and "never shared with you"
// remain distinguishable to the caller.
func NotShared(snippetID, identity string) *AppError {
	return &AppError{
		Err:     ErrNotShared,
		Message: fmt.Sprintf("snippet %s was never shared with %s", snippetID, identity),
	}
}

// Persistence wraps an underlying store failure. The cause stays in the
// error chain, so errors.Is(err, ErrPersistence) and errors.Is(err, cause)
// both hold.
func Persistence(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrPersistence, cause),
		Message: fmt.Sprintf("storage failure while %s: %v", op, cause),
	}
}
