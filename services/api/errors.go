package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport marks a request that never produced an HTTP response.
	ErrTransport = errors.New("backend unreachable")
	// ErrUnauthorized marks a 401/403 from the backend.
	ErrUnauthorized = errors.New("backend rejected credentials")
	// ErrConflict marks a 409 from the backend.
	ErrConflict = errors.New("backend reported a conflict")
	// ErrValidation marks a 400/422 from the backend.
	ErrValidation = errors.New("backend rejected the input")
	// ErrNotFound marks a 404 from the backend.
	ErrNotFound = errors.New("backend resource not found")
	// ErrRejected marks a 2xx answer whose envelope says success:false.
	ErrRejected = errors.New("backend reported failure")
)

// Error is a completed backend call that did not succeed.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Is maps the status code onto the package's sentinel errors.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrRejected:
		return e.Status >= 200 && e.Status < 300
	}
	return false
}

// Message extracts the backend's human-readable message from err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
