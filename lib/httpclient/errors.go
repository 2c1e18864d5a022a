package httpclient

import (
	"fmt"
	"net/http"
)

// ConfigurationError is returned by NewClient when the client cannot be set
// up. It is never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid http client configuration: %s: %s", e.Field, e.Reason)
}

// RequestError is returned when the final attempt of a call completed with a
// non-2xx status.
type RequestError struct {
	Method     string
	Url        string
	StatusCode int
	Header     http.Header
	Body       string
	Attempts   int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf(
		"%s %s failed with code: %d, message: %s",
		e.Method, e.Url, e.StatusCode, e.Body,
	)
}

// TransportError is returned when no HTTP response could be obtained on the
// final attempt (connection refused, reset, read timeout, ...). The cause is
// available through errors.Unwrap / errors.As.
type TransportError struct {
	Method   string
	Url      string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempt(s): %s", e.Method, e.Url, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
