package display

import (
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/dance-companion/pkg/web"
)

// DefaultJPEGQuality is used when encoding frames for the browser.
const DefaultJPEGQuality = 80

// frameSink receives encoded frames and signals stop requests.
type frameSink interface {
	SendFrame(jpeg []byte)
	StopRequested() <-chan struct{}
	Shutdown() error
}

// Web streams frames to browsers through the preview server.
// A stop request from a viewer is reported as KeyQuit.
type Web struct {
	sink    frameSink
	quality int
}

// NewWeb wraps a started preview server.
func NewWeb(server *web.Server, quality int) *Web {
	return newWeb(server, quality)
}

func newWeb(sink frameSink, quality int) *Web {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Web{sink: sink, quality: quality}
}

// Show encodes img as JPEG and broadcasts it.
func (w *Web) Show(img gocv.Mat) error {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{int(gocv.IMWriteJpegQuality), w.quality})
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// Copy out of native memory; the hub sends asynchronously.
	data := append([]byte(nil), buf.GetBytes()...)
	w.sink.SendFrame(data)
	return nil
}

// PollKey waits up to wait for a viewer stop request.
func (w *Web) PollKey(wait time.Duration) int {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-w.sink.StopRequested():
		return KeyQuit
	case <-timer.C:
		return NoKey
	}
}

// Close shuts the preview server down.
func (w *Web) Close() error {
	return w.sink.Shutdown()
}
