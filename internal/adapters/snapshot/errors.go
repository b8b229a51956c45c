package snapshot

import "errors"

var (
	// ErrNotFound is returned when no snapshot exists for a document.
	ErrNotFound = errors.New("snapshot: not found")
	// ErrDriver is returned for drivers other than sqlite and postgres.
	ErrDriver = errors.New("snapshot: unsupported driver")
)
