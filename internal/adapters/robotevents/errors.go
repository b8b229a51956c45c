package robotevents

import "errors"

var (
	// ErrNotFound is returned when the API answers 404 or the team is unknown.
	ErrNotFound = errors.New("robotevents: not found")
	// ErrStatus wraps any other non-200 response.
	ErrStatus = errors.New("robotevents: unexpected status")
	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("robotevents: decode response")
)
