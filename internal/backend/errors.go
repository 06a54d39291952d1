package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNotFound = errors.New("backend: resource not found")

// APIError is returned for non-2xx responses from the bot backend.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: remote error %d on %s: %s", e.StatusCode, e.Path, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}
