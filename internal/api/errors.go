package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized covers bad credentials and invalid or expired tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when the email is already registered.
	ErrConflict = errors.New("already exists")
	// ErrNotFound is returned when the resource does not exist upstream.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable wraps transport-level failures reaching the backend.
	ErrUnavailable = errors.New("backend unavailable")
)

// StatusError is a non-2xx response from the backend, keeping the HTTP
// status and whatever message the server attached to the rejection.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

// Unwrap maps well-known status codes onto the sentinel errors so callers
// can branch with errors.Is without inspecting codes themselves.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case 401:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	}
	return nil
}

// Message returns the server-supplied message for err if it carries one.
func Message(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
