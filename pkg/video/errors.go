package video

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceOpen is returned when a capture source cannot be opened.
	ErrSourceOpen = errors.New("video: could not open source")

	// ErrNoSource is returned when neither a path nor a device was given.
	ErrNoSource = errors.New("video: no source configured")
)

// OpenError describes which source failed to open.
type OpenError struct {
	Source Source
	Err    error
}

// Error implements the error interface.
func (e *OpenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video: could not open source %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("video: could not open source %s", e.Source)
}

// Unwrap returns the underlying error.
func (e *OpenError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSourceOpen.
func (e *OpenError) Is(target error) bool {
	return target == ErrSourceOpen
}
