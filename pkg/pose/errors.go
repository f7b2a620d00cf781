package pose

import "errors"

// Sentinel errors for common conditions.
var (
	// ErrModelNotFound is returned when the model file does not exist.
	ErrModelNotFound = errors.New("pose: model file not found")

	// ErrModelLoad is returned when the model file exists but could not be loaded.
	ErrModelLoad = errors.New("pose: model load failed")

	// ErrEmptyFrame is returned when Detect is handed an empty frame.
	ErrEmptyFrame = errors.New("pose: empty frame")

	// ErrUnexpectedOutput is returned when the model output has an unknown shape.
	ErrUnexpectedOutput = errors.New("pose: unexpected model output")
)
