package mirror

import (
	"fmt"
	"image/color"
)

// MaxLineThickness is OpenCV's drawing limit; larger values abort in native code.
const MaxLineThickness = 32767

// Style is the render configuration for the mirrored skeleton.
// It is fixed for the lifetime of a Compositor.
type Style struct {
	LandmarkColor   color.RGBA // Fill color of keypoint circles
	ConnectionColor color.RGBA // Color of skeleton lines
	CircleRadius    int        // Keypoint circle radius in pixels
	LineThickness   int        // Skeleton line thickness in pixels
	OffsetX         int        // Shift applied after mirroring, in pixels
}

// DefaultStyle returns blue landmarks, red connections, radius 3,
// thickness 2 and a 150px offset.
func DefaultStyle() Style {
	return Style{
		LandmarkColor:   color.RGBA{R: 0, G: 0, B: 255, A: 0},
		ConnectionColor: color.RGBA{R: 255, G: 0, B: 0, A: 0},
		CircleRadius:    3,
		LineThickness:   2,
		OffsetX:         150,
	}
}

// BGR builds a color from OpenCV channel order.
func BGR(b, g, r uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b}
}

// Validate checks that radius and thickness are drawable.
func (s Style) Validate() error {
	if s.CircleRadius < 1 {
		return fmt.Errorf("%w: circle radius must be >= 1, got %d", ErrInvalidStyle, s.CircleRadius)
	}
	if s.LineThickness < 1 || s.LineThickness > MaxLineThickness {
		return fmt.Errorf("%w: line thickness must be in [1,%d], got %d", ErrInvalidStyle, MaxLineThickness, s.LineThickness)
	}
	return nil
}
