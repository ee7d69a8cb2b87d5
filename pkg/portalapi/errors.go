package portalapi

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a 404 from a single-entity endpoint. Terminal: a
// definite answer from the server is never retried.
var ErrNotFound = errors.New("portalapi: not found")

// StatusError is any other non-2xx response. Terminal for the same reason.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("portalapi: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("portalapi: server returned %d: %s", e.StatusCode, e.Body)
}

// transientError wraps connection-level failures and attempt timeouts, the
// only conditions the retry loop is allowed to act on.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// IsRetryable reports whether err was a transient network failure or an
// attempt timeout, as opposed to a definite server answer.
func IsRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
