// Package apperr defines the error taxonomy used across services and
// translated centrally into the HTTP error envelope.
package apperr

import (
	"fmt"
	"net/http"
)

// Error is an application error carrying the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
	Details []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Validation reports malformed or missing client input.
func Validation(message string, details ...string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Details: details}
}

// Unauthorized reports missing or invalid credentials or tokens.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// NotFound reports a missing resource.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Conflict reports a duplicate unique field.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// Internal reports an unexpected store or service failure.
func Internal(message string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, cause: cause}
}
