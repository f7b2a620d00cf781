package pose

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/dance-companion/internal/log"
)

// YOLOv8-pose output rows: 4 box values, 1 person score, then x/y/visibility per keypoint.
const (
	yoloScoreField = 4
	yoloKptOffset  = 5
	yoloRows       = yoloKptOffset + NumKeypoints*3
)

// YOLOPose runs a YOLOv8-pose ONNX model through OpenCV DNN.
type YOLOPose struct {
	net       gocv.Net
	config    Config
	inputSize image.Point
	logger    *slog.Logger
	mu        sync.Mutex
}

// NewYOLOPose loads the pose model described by cfg.
func NewYOLOPose(cfg Config) (*YOLOPose, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrModelLoad, cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLOPose{
		net:       net,
		config:    cfg,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
		logger:    log.With("component", "pose"),
	}, nil
}

// Detect finds the highest scoring person in a BGR frame.
func (d *YOLOPose) Detect(frame gocv.Mat) ([]Keypoint, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame.Empty() {
		return nil, ErrEmptyFrame
	}

	// The model wants RGB; swapRB converts from OpenCV's BGR order.
	blob := gocv.BlobFromImage(frame, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	// Output shape: [1, 56, anchors]
	sizes := output.Size()
	if len(sizes) != 3 || sizes[1] != yoloRows {
		return nil, fmt.Errorf("%w: shape %v", ErrUnexpectedOutput, sizes)
	}

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	kps := parsePoseOutput(data, sizes[2], d.config, nmsBoxes)
	if len(kps) > 0 && d.logger.Enabled(context.Background(), slog.LevelDebug) {
		d.logger.Debug("pose detected", "keypoints", keypointNames(kps))
	}
	return kps, nil
}

// Connections returns the COCO skeleton.
func (d *YOLOPose) Connections() Topology {
	return COCOTopology
}

// Close releases the detector resources
func (d *YOLOPose) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// keypointNames lists the COCO names of kps in order, for logging.
func keypointNames(kps []Keypoint) []string {
	names := make([]string, 0, len(kps))
	for _, kp := range kps {
		if kp.Index >= 0 && kp.Index < NumKeypoints {
			names = append(names, KeypointNames[kp.Index])
		} else {
			names = append(names, fmt.Sprintf("#%d", kp.Index))
		}
	}
	return names
}

// nmsFunc filters overlapping boxes and returns the indices to keep.
type nmsFunc func(boxes []image.Rectangle, scores []float32, scoreThresh, nmsThresh float32) []int

func nmsBoxes(boxes []image.Rectangle, scores []float32, scoreThresh, nmsThresh float32) []int {
	return gocv.NMSBoxes(boxes, scores, scoreThresh, nmsThresh)
}

// parsePoseOutput decodes a channel-major YOLOv8-pose tensor and returns the
// keypoints of the best person. Coordinates are normalized by the model input size.
func parsePoseOutput(data []float32, anchors int, cfg Config, nms nmsFunc) []Keypoint {
	if anchors <= 0 || len(data) < yoloRows*anchors {
		return nil
	}
	at := func(row, i int) float32 { return data[row*anchors+i] }

	var (
		boxes      []image.Rectangle
		scores     []float32
		candidates []int
	)
	for i := 0; i < anchors; i++ {
		score := at(yoloScoreField, i)
		if score < cfg.ConfidenceThresh {
			continue
		}

		cx, cy := at(0, i), at(1, i)
		w, h := at(2, i), at(3, i)
		boxes = append(boxes, image.Rect(int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2)))
		scores = append(scores, score)
		candidates = append(candidates, i)
	}

	if len(boxes) == 0 {
		return nil
	}

	keep := nms(boxes, scores, cfg.ConfidenceThresh, cfg.NMSThresh)
	best := -1
	for _, k := range keep {
		if best < 0 || scores[k] > scores[best] {
			best = k
		}
	}
	if best < 0 {
		return nil
	}

	anchor := candidates[best]
	kps := make([]Keypoint, 0, NumKeypoints)
	for k := 0; k < NumKeypoints; k++ {
		row := yoloKptOffset + k*3
		vis := at(row+2, anchor)
		if vis < cfg.KeypointThresh {
			continue
		}
		kps = append(kps, Keypoint{
			Index:      k,
			X:          float64(at(row, anchor)) / float64(cfg.InputWidth),
			Y:          float64(at(row+1, anchor)) / float64(cfg.InputHeight),
			Visibility: float64(vis),
		})
	}
	return kps
}
