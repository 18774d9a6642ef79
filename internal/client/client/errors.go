package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable wraps transport failures: DNS, refused connections,
	// timeouts, truncated bodies.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized is returned for HTTP 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMalformedResponse means the body was not the expected envelope.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a response the server produced on purpose: either a 2xx
// envelope with success=false or a non-2xx status other than 401.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Rejected reports whether the server answered 2xx with success=false.
func (e *APIError) Rejected() bool {
	return e.StatusCode >= http.StatusOK && e.StatusCode < http.StatusMultipleChoices
}

// MessageOf returns the server-provided message carried by err, or fallback
// when err carries none.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
