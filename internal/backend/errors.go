package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport is returned when the backend could not be reached (connection failure, timeout)
	ErrTransport = errors.New("backend unreachable")

	// ErrServer is wrapped by every non-success response
	ErrServer = errors.New("backend error")

	// ErrNotFound is returned when the dispute is not found (HTTP 404)
	ErrNotFound = errors.New("dispute not found")

	// ErrBadRequest is returned when the backend rejects the input (HTTP 400)
	ErrBadRequest = errors.New("bad request")

	// ErrDecode is returned when a success response cannot be decoded
	ErrDecode = errors.New("malformed backend response")
)

// ServerError is a non-success status code returned by the backend.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

func (e *ServerError) Unwrap() []error {
	errs := []error{ErrServer}
	switch e.StatusCode {
	case http.StatusBadRequest:
		errs = append(errs, ErrBadRequest)
	case http.StatusNotFound:
		errs = append(errs, ErrNotFound)
	}
	return errs
}

// Temporary reports whether the request may succeed when repeated.
func (e *ServerError) Temporary() bool {
	return e.StatusCode >= 500
}

func retryable(err error) bool {
	if errors.Is(err, ErrTransport) {
		return true
	}
	var se *ServerError
	return errors.As(err, &se) && se.Temporary()
}
