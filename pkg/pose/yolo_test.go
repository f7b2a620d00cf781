package pose

import (
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

// keepAll skips NMS so parsing can be tested without OpenCV.
func keepAll(boxes []image.Rectangle, _ []float32, _, _ float32) []int {
	idx := make([]int, len(boxes))
	for i := range boxes {
		idx[i] = i
	}
	return idx
}

// person describes one anchor of a synthetic model output.
type person struct {
	score float32
	box   [4]float32 // cx, cy, w, h in input pixels
	kpts  [NumKeypoints][3]float32
}

func buildOutput(anchors int, people map[int]person) []float32 {
	data := make([]float32, yoloRows*anchors)
	for i, p := range people {
		for r := 0; r < 4; r++ {
			data[r*anchors+i] = p.box[r]
		}
		data[yoloScoreField*anchors+i] = p.score
		for k := 0; k < NumKeypoints; k++ {
			for f := 0; f < 3; f++ {
				data[(yoloKptOffset+k*3+f)*anchors+i] = p.kpts[k][f]
			}
		}
	}
	return data
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.InputWidth = 100
	cfg.InputHeight = 200
	return cfg
}

func TestParsePoseOutput_PicksBestPerson(t *testing.T) {
	var weak, strong person
	weak.score = 0.6
	strong.score = 0.9
	for k := 0; k < NumKeypoints; k++ {
		weak.kpts[k] = [3]float32{10, 20, 0.9}
		strong.kpts[k] = [3]float32{50, 100, 0.9}
	}

	data := buildOutput(4, map[int]person{1: weak, 3: strong})
	kps := parsePoseOutput(data, 4, testConfig(), keepAll)

	if len(kps) != NumKeypoints {
		t.Fatalf("expected %d keypoints, got %d", NumKeypoints, len(kps))
	}
	for i, kp := range kps {
		if kp.Index != i {
			t.Errorf("keypoint %d: index %d", i, kp.Index)
		}
		if math.Abs(kp.X-0.5) > 1e-6 || math.Abs(kp.Y-0.5) > 1e-6 {
			t.Errorf("keypoint %d: got (%.3f, %.3f), want (0.5, 0.5)", i, kp.X, kp.Y)
		}
	}
}

func TestParsePoseOutput_DropsLowVisibilityKeypoints(t *testing.T) {
	var p person
	p.score = 0.8
	p.kpts[Nose] = [3]float32{10, 10, 0.95}
	p.kpts[LeftWrist] = [3]float32{20, 20, 0.1}
	p.kpts[RightWrist] = [3]float32{30, 30, 0.7}

	kps := parsePoseOutput(buildOutput(2, map[int]person{0: p}), 2, testConfig(), keepAll)

	got := keypointNames(kps)
	if len(got) != 2 || got[0] != "nose" || got[1] != "right_wrist" {
		t.Errorf("expected nose and right wrist only, got %v", got)
	}
}

func TestParsePoseOutput_NoPerson(t *testing.T) {
	var p person
	p.score = 0.2

	tests := []struct {
		name    string
		data    []float32
		anchors int
	}{
		{"below threshold", buildOutput(3, map[int]person{0: p}), 3},
		{"all zeros", make([]float32, yoloRows*5), 5},
		{"short buffer", make([]float32, 10), 5},
		{"zero anchors", nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if kps := parsePoseOutput(tc.data, tc.anchors, testConfig(), keepAll); len(kps) != 0 {
				t.Errorf("expected no keypoints, got %d", len(kps))
			}
		})
	}
}

func TestParsePoseOutput_NMSRejectsAll(t *testing.T) {
	var p person
	p.score = 0.9
	p.kpts[Nose] = [3]float32{1, 1, 1}

	none := func([]image.Rectangle, []float32, float32, float32) []int { return nil }
	if kps := parsePoseOutput(buildOutput(1, map[int]person{0: p}), 1, testConfig(), none); kps != nil {
		t.Errorf("expected nil when NMS keeps nothing, got %v", kps)
	}
}

func TestNewYOLOPose_InvalidPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = "/nonexistent/path/model.onnx"

	_, err := NewYOLOPose(cfg)
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestYOLOPose_Detect(t *testing.T) {
	modelPath := findModelPath()
	if modelPath == "" {
		t.Skip("pose model not found, skipping test")
	}

	cfg := DefaultConfig()
	cfg.ModelPath = modelPath

	detector, err := NewYOLOPose(cfg)
	if err != nil {
		t.Fatalf("NewYOLOPose failed: %v", err)
	}
	defer detector.Close()

	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := detector.Detect(empty); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame, got %v", err)
	}

	// Solid frame has nobody in it
	solid := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(120, 60, 30, 0), 240, 320, gocv.MatTypeCV8UC3)
	defer solid.Close()

	kps, err := detector.Detect(solid)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(kps) != 0 {
		t.Errorf("expected no keypoints on a solid frame, got %d", len(kps))
	}

	if len(detector.Connections()) != len(COCOTopology) {
		t.Error("Connections should return the COCO topology")
	}
}

func findModelPath() string {
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != "/"; dir = filepath.Dir(dir) {
			modelPath := filepath.Join(dir, "models", "yolov8n-pose.onnx")
			if _, err := os.Stat(modelPath); err == nil {
				return modelPath
			}
		}
	}
	return ""
}
