package display

import (
	"bytes"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

type fakeSink struct {
	frames   [][]byte
	stop     chan struct{}
	shutdown int
}

func newFakeSink() *fakeSink {
	return &fakeSink{stop: make(chan struct{})}
}

func (f *fakeSink) SendFrame(jpeg []byte)          { f.frames = append(f.frames, jpeg) }
func (f *fakeSink) StopRequested() <-chan struct{} { return f.stop }
func (f *fakeSink) Shutdown() error                { f.shutdown++; return nil }

func TestWeb_ShowEncodesJPEG(t *testing.T) {
	sink := newFakeSink()
	w := newWeb(sink, 90)

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 200, 30, 0), 32, 48, gocv.MatTypeCV8UC3)
	defer img.Close()

	if err := w.Show(img); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if len(sink.frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(sink.frames))
	}
	if !bytes.HasPrefix(sink.frames[0], []byte{0xFF, 0xD8}) {
		t.Error("frame is not a JPEG")
	}

	decoded, err := gocv.IMDecode(sink.frames[0], gocv.IMReadColor)
	if err != nil {
		t.Fatalf("IMDecode failed: %v", err)
	}
	defer decoded.Close()
	if decoded.Cols() != 48 || decoded.Rows() != 32 {
		t.Errorf("decoded %dx%d, want 48x32", decoded.Cols(), decoded.Rows())
	}
}

func TestWeb_PollKey(t *testing.T) {
	sink := newFakeSink()
	w := newWeb(sink, 0)

	if w.quality != DefaultJPEGQuality {
		t.Errorf("quality = %d, want default %d", w.quality, DefaultJPEGQuality)
	}

	start := time.Now()
	if key := w.PollKey(20 * time.Millisecond); key != NoKey {
		t.Errorf("PollKey = %d, want NoKey", key)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("PollKey returned after %v, expected to wait", elapsed)
	}

	close(sink.stop)
	if key := w.PollKey(time.Second); key != KeyQuit {
		t.Errorf("PollKey after stop = %d, want KeyQuit", key)
	}
}

func TestWeb_Close(t *testing.T) {
	sink := newFakeSink()
	w := newWeb(sink, 80)

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if sink.shutdown != 1 {
		t.Errorf("shutdown called %d times", sink.shutdown)
	}
}
