// Package display shows composited frames and reports cancel key presses.
package display

import (
	"time"

	"gocv.io/x/gocv"
)

// KeyQuit is the key that asks the loop to stop.
const KeyQuit = 'q'

// NoKey is returned by PollKey when nothing was pressed.
const NoKey = -1

// DefaultWindowName is the title of the on-screen window.
const DefaultWindowName = "Dance Companion - Pose Mirroring"

// Display is an output surface updated once per frame.
type Display interface {
	// Show presents img. The display does not keep a reference to img.
	Show(img gocv.Mat) error

	// PollKey waits up to wait for a key press and returns it, or NoKey.
	PollKey(wait time.Duration) int

	// Close releases the surface
	Close() error
}
