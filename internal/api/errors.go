package api

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a 404 response. Callers that model absence as a normal
// state (bookmarks, reading progress) translate it into a nil record.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the platform.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}
