package mirror

import "errors"

var (
	// ErrShapeMismatch is returned when a frame and canvas differ in size or type.
	ErrShapeMismatch = errors.New("mirror: frame and canvas shapes differ")

	// ErrInvalidStyle is returned by Style.Validate.
	ErrInvalidStyle = errors.New("mirror: invalid style")
)
