// Package apperror defines the application's error taxonomy.
//
// Services return these errors; the HTTP layer maps them to status codes
// with errors.Is/errors.As. None of them is fatal — a bad credential or a
// bad token is a normal outcome, not a reason to crash.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict signals a uniqueness collision (duplicate email or CPF).
	// The message deliberately does not say which field collided.
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")
	// ErrInvalidCredentials is the single, uniform login failure. Unknown
	// email and wrong password both map here so a caller cannot probe
	// which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

// AppError carries a sentinel (for errors.Is dispatch) plus a message safe
// to show to the caller. Field optionally names the offending input.
type AppError struct {
	Err     error  // sentinel from the set above
	Message string // human-readable, safe for the response body
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

// Duplicate reports a uniqueness collision on account registration.
// One combined message for both email and CPF collisions — naming the
// colliding field would leak which value is already registered.
func Duplicate() *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: "email or CPF already registered",
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidCredentials is returned for every login failure, whatever the
// actual cause.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid credentials",
	}
}

// Unauthorized returns an AppError for requests with no usable token.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller is authenticated but
// lacks the required role. HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
