package pose

import (
	"sync"

	"gocv.io/x/gocv"
)

// Mock implements Provider for testing.
type Mock struct {
	// DetectFunc is called when Detect is invoked. Nil means "no person".
	DetectFunc func(frame gocv.Mat) ([]Keypoint, error)

	// Topology is returned by Connections. Defaults to COCOTopology.
	Topology Topology

	mu     sync.Mutex
	calls  int
	closed int
}

// NewMock creates a mock that always returns kps.
func NewMock(kps ...Keypoint) *Mock {
	return &Mock{
		DetectFunc: func(gocv.Mat) ([]Keypoint, error) {
			return kps, nil
		},
		Topology: COCOTopology,
	}
}

// Detect records the call and delegates to DetectFunc.
func (m *Mock) Detect(frame gocv.Mat) ([]Keypoint, error) {
	m.mu.Lock()
	m.calls++
	fn := m.DetectFunc
	m.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(frame)
}

// Connections returns the configured topology.
func (m *Mock) Connections() Topology {
	if m.Topology == nil {
		return COCOTopology
	}
	return m.Topology
}

// Close records the call.
func (m *Mock) Close() error {
	m.mu.Lock()
	m.closed++
	m.mu.Unlock()
	return nil
}

// Calls returns how many times Detect was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed returns how many times Close was invoked.
func (m *Mock) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
