package kroki

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for a backend or output format Kroki is not
// known to serve.
var ErrUnsupported = errors.New("unsupported")

// HTTPError is a non-2xx answer from the Kroki server. Body holds the
// server's explanation, usually the diagram syntax error.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("kroki returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("kroki returned HTTP %d: %s", e.StatusCode, e.Body)
}

// ConnectionError means the server could not be reached at all.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to kroki at %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
