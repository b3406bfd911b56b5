package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches an APIError for a 404 response, e.g. an unknown date.
var ErrNotFound = errors.New("remote: not found")

// APIError is an application level failure: the server answered with a
// non-2xx status and, usually, an {"error": "..."} payload.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("remote: %d: %s", e.StatusCode, msg)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsCanceled reports whether err came from a request whose context was
// cancelled. Cancellation is a benign outcome, not a failure.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
