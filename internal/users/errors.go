package users

import (
	"fmt"
)

// NetworkError reports a transport-level failure: the request could not be
// sent or the response body could not be read.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("users: %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("users: %s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("users: %s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

// DecodeError reports a response body that does not match the collection
// envelope.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("users: %s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
