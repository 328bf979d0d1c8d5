package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates a request was rejected with 401 and could
	// not be recovered by the refresh protocol (basic-auth sessions, or a
	// second 401 after replay).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired indicates the refresh-token grant itself failed.
	// The session has been cleared; the operator must log in again.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotAuthenticated indicates no credential record exists yet.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError wraps a non-2xx platform response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}
