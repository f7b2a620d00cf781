// Package companion runs the capture, detect, mirror and display loop.
package companion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/teslashibe/dance-companion/internal/log"
	"github.com/teslashibe/dance-companion/pkg/display"
	"github.com/teslashibe/dance-companion/pkg/mirror"
	"github.com/teslashibe/dance-companion/pkg/pose"
)

// FrameSource yields frames until the stream ends.
type FrameSource interface {
	// Read decodes the next frame into dst. False means end of stream or a
	// read failure; both stop the loop.
	Read(dst *gocv.Mat) bool

	// Close releases the source
	Close() error
}

// App owns the source, detector and display for one run.
// The loop is single goroutine; only Stats is safe to call concurrently.
type App struct {
	config     Config
	source     FrameSource
	detector   pose.Provider
	display    display.Display
	compositor *mirror.Compositor
	logger     *slog.Logger
	runID      string

	started atomic.Bool
	state   atomic.Int32
	reason  atomic.Int32

	framesRead     atomic.Uint64
	framesWithPose atomic.Uint64
	startedAt      atomic.Int64
	stoppedAt      atomic.Int64

	releaseOnce sync.Once
	releaseErr  error
}

// New wires the collaborators together. The App takes ownership of all three
// and releases them when the loop exits or Shutdown is called.
func New(cfg Config, src FrameSource, det pose.Provider, disp display.Display) (*App, error) {
	switch {
	case src == nil:
		return nil, fmt.Errorf("%w: frame source", ErrMissingDependency)
	case det == nil:
		return nil, fmt.Errorf("%w: pose provider", ErrMissingDependency)
	case disp == nil:
		return nil, fmt.Errorf("%w: display", ErrMissingDependency)
	}

	compositor, err := mirror.NewCompositor(cfg.Style)
	if err != nil {
		return nil, err
	}
	if cfg.WaitBudget <= 0 {
		cfg.WaitBudget = DefaultWaitBudget
	}

	runID := uuid.NewString()
	return &App{
		config:     cfg,
		source:     src,
		detector:   det,
		display:    disp,
		compositor: compositor,
		logger:     log.With("component", "companion", "run_id", runID),
		runID:      runID,
	}, nil
}

// RunID identifies this run in logs and status.
func (a *App) RunID() string {
	return a.runID
}

// State returns the current loop state.
func (a *App) State() State {
	return State(a.state.Load())
}

// Run processes frames until the stream ends, the quit key is pressed, ctx is
// done, or a step fails. ctx is only checked between iterations. Resources are
// released on every exit path. Run may be called once; later calls return
// ErrStopped.
func (a *App) Run(ctx context.Context) (err error) {
	if !a.started.CompareAndSwap(false, true) {
		return ErrStopped
	}
	a.startedAt.Store(time.Now().UnixNano())
	a.logger.Info("loop started", "offset", a.config.Style.OffsetX, "wait", a.config.WaitBudget)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
		if err != nil {
			a.reason.Store(int32(ReasonError))
			a.logger.Error("loop failed", "error", err)
		}

		a.stoppedAt.Store(time.Now().UnixNano())
		a.state.Store(int32(StateStopped))

		if rerr := a.release(); rerr != nil {
			a.logger.Warn("release failed", "error", rerr)
		}

		stats := a.Stats()
		a.logger.Info("loop stopped",
			"reason", stats.StopReason,
			"frames", stats.FramesRead,
			"frames_with_pose", stats.FramesWithPose,
			"fps", fmt.Sprintf("%.1f", stats.FPS))
	}()

	for {
		if ctx.Err() != nil {
			a.reason.Store(int32(ReasonContext))
			return nil
		}

		reason, err := a.step()
		if err != nil {
			return err
		}
		if reason != ReasonNone {
			a.reason.Store(int32(reason))
			return nil
		}
	}
}

// step runs one iteration. It returns a non-zero reason when the loop should stop.
func (a *App) step() (StopReason, error) {
	frame := gocv.NewMat()
	defer frame.Close()

	if !a.source.Read(&frame) {
		return ReasonEndOfStream, nil
	}
	n := a.framesRead.Add(1)

	kps, err := a.detector.Detect(frame)
	if err != nil {
		return ReasonError, fmt.Errorf("detect frame %d: %w", n, err)
	}

	if len(kps) > 0 {
		a.framesWithPose.Add(1)

		out, err := a.compositor.Apply(frame, kps, a.detector.Connections())
		if err != nil {
			return ReasonError, fmt.Errorf("composite frame %d: %w", n, err)
		}
		defer out.Close()

		if err := a.display.Show(out); err != nil {
			return ReasonError, fmt.Errorf("show frame %d: %w", n, err)
		}
	} else if err := a.display.Show(frame); err != nil {
		return ReasonError, fmt.Errorf("show frame %d: %w", n, err)
	}

	a.logger.Debug("frame processed", "frame", n, "keypoints", len(kps))

	if key := a.display.PollKey(a.config.WaitBudget); key == a.config.QuitKey {
		a.logger.Info("quit key pressed")
		return ReasonCancelKey, nil
	}
	return ReasonNone, nil
}

// Shutdown releases the source, detector and display. It is safe to call
// before, during cleanup of, or after Run, and more than once.
func (a *App) Shutdown() error {
	a.started.Store(true)
	a.state.Store(int32(StateStopped))
	return a.release()
}

func (a *App) release() error {
	a.releaseOnce.Do(func() {
		var errs []error
		if err := a.source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close source: %w", err))
		}
		if err := a.display.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close display: %w", err))
		}
		if err := a.detector.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close detector: %w", err))
		}
		a.releaseErr = errors.Join(errs...)
	})
	return a.releaseErr
}
