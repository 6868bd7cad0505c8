package site

import (
	"errors"
	"net/http"
)

// InvalidRequestError rejects caller input before any work is done.
type InvalidRequestError struct{ msg string }

func (e *InvalidRequestError) Error() string { return e.msg }

// StatusCode maps the error to 422 Unprocessable Entity.
func (e *InvalidRequestError) StatusCode() int { return http.StatusUnprocessableEntity }

// ErrInvalidRequest constructs an InvalidRequestError.
func ErrInvalidRequest(msg string) error { return &InvalidRequestError{msg: msg} }

// IsInvalidRequest reports whether err is a validation failure.
func IsInvalidRequest(err error) bool {
	var ie *InvalidRequestError
	return errors.As(err, &ie)
}
