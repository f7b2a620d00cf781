package companion

import "time"

// State is the loop state. RUNNING until the loop exits, then STOPPED for good.
type State int32

const (
	StateRunning State = iota
	StateStopped
)

func (s State) String() string {
	if s == StateStopped {
		return "stopped"
	}
	return "running"
}

// StopReason records why the loop exited.
type StopReason int32

const (
	ReasonNone StopReason = iota
	ReasonEndOfStream
	ReasonCancelKey
	ReasonContext
	ReasonError
)

func (r StopReason) String() string {
	switch r {
	case ReasonEndOfStream:
		return "end_of_stream"
	case ReasonCancelKey:
		return "cancel_key"
	case ReasonContext:
		return "context_done"
	case ReasonError:
		return "error"
	default:
		return ""
	}
}

// Stats is a snapshot of the run, served by the preview status endpoint.
type Stats struct {
	RunID          string     `json:"run_id"`
	State          string     `json:"state"`
	StopReason     string     `json:"stop_reason,omitempty"`
	FramesRead     uint64     `json:"frames_read"`
	FramesWithPose uint64     `json:"frames_with_pose"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FPS            float64    `json:"fps"`
}

// Stats returns a snapshot. Safe to call from any goroutine.
func (a *App) Stats() Stats {
	s := Stats{
		RunID:          a.runID,
		State:          a.State().String(),
		StopReason:     StopReason(a.reason.Load()).String(),
		FramesRead:     a.framesRead.Load(),
		FramesWithPose: a.framesWithPose.Load(),
	}

	if started := a.startedAt.Load(); started != 0 {
		startedAt := time.Unix(0, started)
		s.StartedAt = &startedAt
		end := time.Now()
		if stopped := a.stoppedAt.Load(); stopped != 0 {
			end = time.Unix(0, stopped)
		}
		if elapsed := end.Sub(startedAt).Seconds(); elapsed > 0 {
			s.FPS = float64(s.FramesRead) / elapsed
		}
	}
	return s
}
