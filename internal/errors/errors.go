package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUserNotFound is returned when no usuario matches the requested id.
var ErrUserNotFound = errors.New("usuario no encontrado")

// ValidationError is returned when a field is missing, malformed or out of
// range. The message identifies the offending field and rule.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidation builds a ValidationError from a format string.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError is returned when another usuario already owns the email.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("ya existe un usuario con el email %s", e.Email)
}

// ErrorResponse is the body for validation and server errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NotFoundResponse is the body for missing resources. The legacy API used a
// different key here, so it stays distinct from ErrorResponse.
type NotFoundResponse struct {
	Message string `json:"message"`
}

// HTTPError pairs an HTTP status with the response body to send.
type HTTPError struct {
	StatusCode int
	Body       interface{}
}

// MapErrorToHTTP maps a domain error to an HTTP status and body.
//
// When hideDetail is true, unexpected errors are replaced by genericMsg so
// that persistence internals never reach the client; the caller is expected
// to log the original error.
func MapErrorToHTTP(err error, hideDetail bool, genericMsg string) *HTTPError {
	var ve *ValidationError
	var ce *ConflictError
	switch {
	case errors.As(err, &ve):
		return &HTTPError{http.StatusBadRequest, ErrorResponse{Error: ve.Msg}}
	case errors.As(err, &ce):
		return &HTTPError{http.StatusBadRequest, ErrorResponse{Error: ce.Error()}}
	case errors.Is(err, ErrUserNotFound):
		return &HTTPError{http.StatusNotFound, NotFoundResponse{Message: ErrUserNotFound.Error()}}
	default:
		if hideDetail {
			return &HTTPError{http.StatusInternalServerError, ErrorResponse{Error: genericMsg}}
		}
		return &HTTPError{http.StatusInternalServerError, ErrorResponse{Error: err.Error()}}
	}
}
