package llm

import "errors"

// unavailableError signals that the backend could not be reached at all, as
// opposed to answering with an error.
type unavailableError struct {
	url string
	err error
}

func (e *unavailableError) Error() string {
	return "cannot connect to text-generation backend at " + e.url + ": " + e.err.Error()
}

func (e *unavailableError) Unwrap() error { return e.err }

// IsUnavailable reports whether err indicates the backend is unreachable.
func IsUnavailable(err error) bool {
	var ue *unavailableError
	return errors.As(err, &ue)
}

// statusError is a non-2xx answer from the backend.
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return e.msg }

// StatusCode reports the backend's HTTP status for err, or 0.
func StatusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}
