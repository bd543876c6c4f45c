package shape

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrDegenerateFrame is returned when the frame axes are zero or parallel.
var ErrDegenerateFrame = errors.New("shape: frame axes must be non-zero and non-parallel")

// Frame is a right-handed coordinate frame with orthonormal axes.
type Frame struct {
	Point mgl32.Vec3
	XAxis mgl32.Vec3
	YAxis mgl32.Vec3
}

// NewFrame builds a frame from an origin and two direction vectors.
// The y axis is re-orthogonalised against x.
func NewFrame(point, xaxis, yaxis mgl32.Vec3) (Frame, error) {
	if xaxis.Len() == 0 || yaxis.Len() == 0 {
		return Frame{}, ErrDegenerateFrame
	}
	x := xaxis.Normalize()
	z := x.Cross(yaxis)
	if z.Len() < 1e-6 {
		return Frame{}, ErrDegenerateFrame
	}
	z = z.Normalize()
	y := z.Cross(x)
	return Frame{Point: point, XAxis: x, YAxis: y}, nil
}

// WorldXY returns the frame at the origin aligned with the world axes.
func WorldXY() Frame {
	return Frame{
		Point: mgl32.Vec3{0, 0, 0},
		XAxis: mgl32.Vec3{1, 0, 0},
		YAxis: mgl32.Vec3{0, 1, 0},
	}
}

// ZAxis returns the cross product of the x and y axes.
func (f Frame) ZAxis() mgl32.Vec3 {
	return f.XAxis.Cross(f.YAxis)
}
