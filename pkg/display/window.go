package display

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Window is a resizable OpenCV window.
type Window struct {
	win  *gocv.Window
	once sync.Once
	err  error
}

// NewWindow opens a named window.
func NewWindow(name string) *Window {
	win := gocv.NewWindow(name)
	win.SetWindowProperty(gocv.WindowPropertyAutosize, gocv.WindowNormal)
	return &Window{win: win}
}

// Show draws img in the window.
func (w *Window) Show(img gocv.Mat) error {
	w.win.IMShow(img)
	return nil
}

// PollKey waits for a key; OpenCV's WaitKey also pumps the window's event loop.
func (w *Window) PollKey(wait time.Duration) int {
	ms := int(wait.Milliseconds())
	if ms < 1 {
		ms = 1
	}
	key := w.win.WaitKey(ms)
	if key < 0 {
		return NoKey
	}
	return key & 0xFF
}

// Close destroys the window. Safe to call more than once.
func (w *Window) Close() error {
	w.once.Do(func() {
		w.err = w.win.Close()
	})
	return w.err
}
