// Package video provides frame capture from video files and camera devices.
package video

import (
	"fmt"
	"log/slog"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/dance-companion/internal/log"
)

// NoDevice marks a Source that reads from a file.
const NoDevice = -1

// Source selects where frames come from: a file path or a device index.
type Source struct {
	Path   string // Video file path or stream URL
	Device int    // Camera index, NoDevice when Path is used

	// Requested capture size and rate for devices. Zero keeps the driver default.
	Width  int
	Height int
	FPS    float64
}

// File returns a Source reading from path.
func File(path string) Source {
	return Source{Path: path, Device: NoDevice}
}

// Webcam returns a Source reading from camera index.
func Webcam(index int) Source {
	return Source{Device: index}
}

// IsDevice reports whether the source is a camera.
func (s Source) IsDevice() bool {
	return s.Path == "" && s.Device >= 0
}

// String implements fmt.Stringer.
func (s Source) String() string {
	if s.IsDevice() {
		return fmt.Sprintf("webcam:%d", s.Device)
	}
	return fmt.Sprintf("%q", s.Path)
}

// capture is the subset of gocv.VideoCapture used here.
type capture interface {
	IsOpened() bool
	Read(m *gocv.Mat) bool
	Close() error
}

// Capture reads frames from an opened source.
type Capture struct {
	source Source
	cap    capture
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open opens src. The returned error wraps ErrSourceOpen on failure.
func Open(src Source) (*Capture, error) {
	var (
		vc  *gocv.VideoCapture
		err error
	)

	switch {
	case src.Path != "":
		vc, err = gocv.VideoCaptureFile(src.Path)
	case src.Device >= 0:
		vc, err = gocv.VideoCaptureDevice(src.Device)
	default:
		return nil, &OpenError{Source: src, Err: ErrNoSource}
	}
	if err != nil {
		if vc != nil {
			vc.Close()
		}
		return nil, &OpenError{Source: src, Err: err}
	}

	c, err := newCapture(src, vc)
	if err != nil {
		vc.Close()
		return nil, err
	}

	if src.IsDevice() {
		if src.Width > 0 {
			vc.Set(gocv.VideoCaptureFrameWidth, float64(src.Width))
		}
		if src.Height > 0 {
			vc.Set(gocv.VideoCaptureFrameHeight, float64(src.Height))
		}
		if src.FPS > 0 {
			vc.Set(gocv.VideoCaptureFPS, src.FPS)
		}
	}

	c.logger.Info("source opened",
		"width", int(vc.Get(gocv.VideoCaptureFrameWidth)),
		"height", int(vc.Get(gocv.VideoCaptureFrameHeight)),
		"fps", vc.Get(gocv.VideoCaptureFPS))
	return c, nil
}

func newCapture(src Source, vc capture) (*Capture, error) {
	if !vc.IsOpened() {
		return nil, &OpenError{Source: src}
	}

	return &Capture{
		source: src,
		cap:    vc,
		logger: log.With("component", "video", "source", src.String()),
	}, nil
}

// Source returns the source this capture was opened with.
func (c *Capture) Source() Source {
	return c.source
}

// Read decodes the next frame into dst. It returns false at end of stream or
// on a read failure; the two are not distinguished.
func (c *Capture) Read(dst *gocv.Mat) bool {
	if ok := c.cap.Read(dst); !ok {
		return false
	}
	return !dst.Empty()
}

// Close releases the underlying capture. Safe to call more than once.
func (c *Capture) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.cap.Close()
		c.logger.Info("source released")
	})
	return c.closeErr
}
