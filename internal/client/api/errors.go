package api

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the boundary client. Match with errors.Is.
var (
	// ErrUnavailable covers connection failures and timeouts.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is any 401 on an authenticated call. The transport has
	// already invoked the forced-logout hook by the time callers see it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is a rejected login attempt.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrConflict is a 409, e.g. a taken username or duplicate domain name.
	ErrConflict = errors.New("conflict")
)

// APIError carries the status and the server-supplied message of a rejected
// request, for display inside the form that caused it.
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

// Unwrap lets errors.Is see through to the matching sentinel, so callers can
// branch on conflicts without losing the server message.
func (e *APIError) Unwrap() error {
	if e.StatusCode == 409 {
		return ErrConflict
	}
	return nil
}

// Message extracts the server-supplied message from err when present, falling
// back to the given default. Used by forms to decide what to show the user.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
