// Package pose provides human pose landmark detection.
//
// A Provider turns a BGR frame into a set of normalized keypoints plus the
// fixed connection topology used to draw a skeleton between them.
package pose

import "gocv.io/x/gocv"

// Keypoint is a single detected body landmark.
type Keypoint struct {
	Index      int     // Stable identity within the provider's topology
	X, Y       float64 // Position (0-1 normalized)
	Visibility float64 // Model confidence for this landmark (0-1)
}

// Connection links two keypoint indices with a line.
type Connection struct {
	A, B int
}

// Topology is the fixed, ordered set of connections for a provider.
type Topology []Connection

// Provider detects pose landmarks in frames.
type Provider interface {
	// Detect returns the keypoints of the most prominent person in a BGR frame.
	// An empty slice means no person was found; that is not an error.
	Detect(frame gocv.Mat) ([]Keypoint, error)

	// Connections returns the topology. It is constant for the provider's lifetime.
	Connections() Topology

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float32 // Minimum person score (default 0.5)
	NMSThresh        float32 // Box overlap threshold for NMS
	KeypointThresh   float32 // Keypoints below this visibility are dropped
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YOLOv8n-pose
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/yolov8n-pose.onnx",
		ConfidenceThresh: 0.5,
		NMSThresh:        0.45,
		KeypointThresh:   0.5,
		InputWidth:       640,
		InputHeight:      640,
	}
}
