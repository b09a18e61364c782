package services

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized means the backend rejected the session's credential,
	// or there was no credential to send. The session has been cleared.
	ErrUnauthorized = errors.New("session expired")
	// ErrTransport wraps failures to reach the backend at all.
	ErrTransport      = errors.New("marketplace backend unreachable")
	ErrInvalidID      = errors.New("invalid id")
	ErrSuperseded     = errors.New("submission superseded by a newer one")
	ErrUnknownListing = errors.New("listing not found")
	ErrUnknownRequest = errors.New("request is not in the moderation queue")
	ErrUnknownSpot    = errors.New("camping spot not found")
	// ErrTooManyAttempts stops code verification before the backend is asked.
	ErrTooManyAttempts = errors.New("too many verification attempts, try again later")
)

// APIError is a non-2xx answer from the backend. Message is the backend's
// own text when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace backend returned %d: %s", e.Status, e.Message)
}

// Validation reports whether the backend refused the input itself.
func (e *APIError) Validation() bool {
	return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
}

// ValidationError is input rejected before any call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
