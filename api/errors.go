package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingAccessKey is returned by New when the access key is empty.
var ErrMissingAccessKey = errors.New("api: access key is missing")

// APIError is the terminal failure of a request: the last attempt, after any
// retries, completed with a non-2xx status. It carries the final response's
// status and (truncated) body for caller inspection. Nothing is swallowed on
// the way here: retry exhaustion itself is what propagates the last failure.
type APIError struct {
	Method string
	URL    string
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	text := http.StatusText(e.Status)
	if text == "" {
		text = "unknown status"
	}
	return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.URL, e.Status, text)
}

// AsAPIError extracts an *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
