package statusapi

import (
	"errors"
	"fmt"
)

// Base errors for status queries.
var (
	ErrNoServer        = errors.New("server url is required")
	ErrUnauthenticated = errors.New("not authenticated with the server")
	ErrJobNotFound     = errors.New("job not found")
	ErrMalformedReport = errors.New("malformed status report")
)

// HTTPError is returned for unexpected HTTP status codes.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status request returned %d", e.StatusCode)
	}
	return fmt.Sprintf("status request returned %d: %s", e.StatusCode, e.Body)
}
