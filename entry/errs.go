package entry

import "errors"

var (
	// ErrUnsupported is returned by read-only sources for mutations.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrUnavailable marks a resource open or read failure. It is
	// surfaced, never silently swallowed.
	ErrUnavailable = errors.New("backend unavailable")
)
