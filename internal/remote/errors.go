package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyBody is recorded when a success response carries no record.
var ErrEmptyBody = errors.New("empty response body")

// TransportError means the HTTP exchange never completed: connection
// refused, DNS failure, timeout, cancelled context.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: cannot reach %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError means the exchange completed with a status that is neither
// a success nor, for exists, a 404. The status is kept opaque.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// StatusCode extracts the HTTP status from err when it wraps a
// RemoteError, or returns 0.
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// IsTransport reports whether err wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
