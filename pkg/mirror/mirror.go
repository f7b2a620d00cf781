// Package mirror reflects a detected skeleton horizontally, draws it on a
// blank canvas and overlays that canvas on the source frame.
package mirror

import (
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"

	"github.com/teslashibe/dance-companion/pkg/pose"
)

// Points maps keypoint index to its mirrored pixel position.
type Points map[int]image.Point

// Transform converts normalized keypoints to pixels, reflects x about the
// frame's vertical center and shifts it right by offsetX. Results are not
// clamped to the frame. Pixel conversion truncates toward zero.
func Transform(kps []pose.Keypoint, width, height, offsetX int) Points {
	pts := make(Points, len(kps))
	for _, kp := range kps {
		x := int(kp.X * float64(width))
		y := int(kp.Y * float64(height))
		pts[kp.Index] = image.Pt(width-x+offsetX, y)
	}
	return pts
}

// Render draws pts and the connections between them on a zeroed canvas of the
// given size and type. Circles go first in index order, then lines in topology
// order. Connections with a missing endpoint are skipped. The caller owns the
// returned Mat.
func Render(pts Points, topo pose.Topology, rows, cols int, mt gocv.MatType, style Style) gocv.Mat {
	canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, mt)

	indices := make([]int, 0, len(pts))
	for idx := range pts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	for _, idx := range indices {
		gocv.Circle(&canvas, pts[idx], style.CircleRadius, style.LandmarkColor, -1)
	}

	for _, c := range topo {
		a, okA := pts[c.A]
		b, okB := pts[c.B]
		if !okA || !okB {
			continue
		}
		gocv.Line(&canvas, a, b, style.ConnectionColor, style.LineThickness)
	}

	return canvas
}

// add is the saturating per-channel sum; replaced in tests.
var add = gocv.Add

// Composite returns the per-channel saturating sum of frame and canvas.
// Neither input is modified. The caller owns the returned Mat.
func Composite(frame, canvas gocv.Mat) (gocv.Mat, error) {
	if frame.Rows() != canvas.Rows() || frame.Cols() != canvas.Cols() || frame.Type() != canvas.Type() {
		return gocv.NewMat(), fmt.Errorf("%w: %dx%d/%v vs %dx%d/%v", ErrShapeMismatch,
			frame.Cols(), frame.Rows(), frame.Type(), canvas.Cols(), canvas.Rows(), canvas.Type())
	}

	out := gocv.NewMat()
	if err := add(frame, canvas, &out); err != nil {
		out.Close()
		return gocv.NewMat(), fmt.Errorf("composite: %w", err)
	}
	return out, nil
}

// Compositor runs transform, render and composite with a fixed style.
type Compositor struct {
	style Style
}

// NewCompositor validates style and returns a compositor using it.
func NewCompositor(style Style) (*Compositor, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	return &Compositor{style: style}, nil
}

// Style returns the compositor's render configuration.
func (c *Compositor) Style() Style {
	return c.style
}

// Apply mirrors kps onto frame. The caller owns the returned Mat.
func (c *Compositor) Apply(frame gocv.Mat, kps []pose.Keypoint, topo pose.Topology) (gocv.Mat, error) {
	pts := Transform(kps, frame.Cols(), frame.Rows(), c.style.OffsetX)

	canvas := Render(pts, topo, frame.Rows(), frame.Cols(), frame.Type(), c.style)
	defer canvas.Close()

	return Composite(frame, canvas)
}
