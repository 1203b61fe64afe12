package arr

import "errors"

// Sentinel errors for the arr package.
var (
	// ErrUnavailable is returned when the backend cannot be reached.
	ErrUnavailable = errors.New("arr backend unavailable")

	// ErrUnauthorized is returned when the API key is rejected.
	ErrUnauthorized = errors.New("arr api key rejected")

	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("not found in arr backend")
)
