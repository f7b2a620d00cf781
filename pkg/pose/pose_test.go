package pose

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ModelPath == "" {
		t.Error("DefaultConfig: ModelPath should not be empty")
	}
	if cfg.ConfidenceThresh <= 0 || cfg.ConfidenceThresh > 1 {
		t.Errorf("DefaultConfig: ConfidenceThresh should be 0-1, got %f", cfg.ConfidenceThresh)
	}
	if cfg.KeypointThresh < 0 || cfg.KeypointThresh > 1 {
		t.Errorf("DefaultConfig: KeypointThresh should be 0-1, got %f", cfg.KeypointThresh)
	}
	if cfg.InputWidth <= 0 || cfg.InputHeight <= 0 {
		t.Errorf("DefaultConfig: input size should be positive, got %dx%d", cfg.InputWidth, cfg.InputHeight)
	}
}

func TestCOCOTopology(t *testing.T) {
	if len(COCOTopology) != 19 {
		t.Fatalf("expected 19 COCO edges, got %d", len(COCOTopology))
	}

	seen := make(map[Connection]bool)
	for _, c := range COCOTopology {
		if c.A < 0 || c.A >= NumKeypoints || c.B < 0 || c.B >= NumKeypoints {
			t.Errorf("edge %v references unknown keypoint", c)
		}
		if c.A == c.B {
			t.Errorf("edge %v is a self loop", c)
		}
		if seen[c] || seen[Connection{c.B, c.A}] {
			t.Errorf("duplicate edge %v", c)
		}
		seen[c] = true
	}
}

func TestKeypointNames(t *testing.T) {
	if KeypointNames[Nose] != "nose" || KeypointNames[RightAnkle] != "right_ankle" {
		t.Errorf("unexpected names: %q, %q", KeypointNames[Nose], KeypointNames[RightAnkle])
	}
}

func TestKeypointNames_ForLogging(t *testing.T) {
	got := keypointNames([]Keypoint{{Index: LeftShoulder}, {Index: RightKnee}, {Index: 42}})
	want := []string{"left_shoulder", "right_knee", "#42"}
	if len(got) != len(want) {
		t.Fatalf("keypointNames: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keypointNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := keypointNames(nil); len(got) != 0 {
		t.Errorf("keypointNames(nil): expected empty, got %v", got)
	}
}
