package service

import "errors"

var (
	// ErrBusy is returned when a collection is already in progress.
	ErrBusy = errors.New("collection already running")
	// ErrPublish wraps sink failures.
	ErrPublish = errors.New("publish failed")
	// ErrNoFetcher is returned when the service was built without a fetcher.
	ErrNoFetcher = errors.New("no skills fetcher configured")
)
