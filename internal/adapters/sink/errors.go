package sink

import "errors"

var (
	// ErrEncode is returned when a value cannot be marshalled to JSON.
	ErrEncode = errors.New("sink: encode document")
	// ErrWrite wraps backend failures.
	ErrWrite = errors.New("sink: write document")
	// ErrNoSinks is returned by NewMulti without sinks.
	ErrNoSinks = errors.New("sink: no sinks configured")
)
