package hub

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the hub responds with a non-2xx HTTP status.
// A typed error lets callers distinguish "not found" from other failures
// without string matching.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hub returned status %d", e.StatusCode)
}

// IsNotFound reports whether err is a StatusError with HTTP 404.
func IsNotFound(err error) bool {
	var e *StatusError
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a StatusError with HTTP 401 or 403.
// This usually means the repository is gated and no (or an invalid) token
// was provided.
func IsUnauthorized(err error) bool {
	var e *StatusError
	return errors.As(err, &e) && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}
