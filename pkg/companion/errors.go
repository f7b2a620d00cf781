package companion

import "errors"

var (
	// ErrStopped is returned by Run once the app has already run.
	ErrStopped = errors.New("companion: already stopped")

	// ErrMissingDependency is returned by New when a collaborator is nil.
	ErrMissingDependency = errors.New("companion: missing dependency")

	// ErrPanic wraps a panic recovered from the processing loop.
	ErrPanic = errors.New("companion: panic in processing loop")
)
