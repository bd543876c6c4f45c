// Package buffers flattens mesh topology into position/color arrays and uploads them.
package buffers

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/pkg/mesh"
	"github.com/Faultbox/meshview/pkg/shape"
)

// ErrUnsupportedTopology is returned for faces that are neither triangles nor quads.
var ErrUnsupportedTopology = errors.New("unsupported face topology")

// Color is a normalized RGB triple.
type Color [3]float32

var (
	Red   = Color{1, 0, 0}
	Green = Color{0, 1, 0}
	Blue  = Color{0, 0, 1}
)

// Geometry is a flat, non-indexed vertex stream.
// Positions and Colors hold 3 floats per vertex instance; Count is the number of instances.
type Geometry struct {
	Positions []float32
	Colors    []float32
	Count     int
}

func newGeometry(capacity int) Geometry {
	return Geometry{
		Positions: make([]float32, 0, capacity*3),
		Colors:    make([]float32, 0, capacity*3),
	}
}

func (g *Geometry) push(p [3]float64, c Color) {
	g.Positions = append(g.Positions, float32(p[0]), float32(p[1]), float32(p[2]))
	g.Colors = append(g.Colors, c[0], c[1], c[2])
	g.Count++
}

func (g *Geometry) pushVec(p mgl32.Vec3, c Color) {
	g.Positions = append(g.Positions, p[0], p[1], p[2])
	g.Colors = append(g.Colors, c[0], c[1], c[2])
	g.Count++
}

// Position returns the i-th position.
func (g Geometry) Position(i int) [3]float32 {
	return [3]float32{g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2]}
}

// Color returns the i-th color.
func (g Geometry) Color(i int) Color {
	return Color{g.Colors[3*i], g.Colors[3*i+1], g.Colors[3*i+2]}
}

// Colors are the per-feature defaults applied while building.
type Colors struct {
	Vertices Color
	Edges    Color
	Front    Color
	Back     Color
}

// DefaultColors returns the grey palette used for unstyled meshes.
func DefaultColors() Colors {
	return Colors{
		Vertices: Color{0.2, 0.2, 0.2},
		Edges:    Color{0.4, 0.4, 0.4},
		Front:    Color{0.8, 0.8, 0.8},
		Back:     Color{0.8, 0.8, 0.8},
	}
}

// Set holds the four geometries derived from one mesh.
type Set struct {
	Vertices Geometry
	Edges    Geometry
	Front    Geometry
	Back     Geometry
}

// BuildVertices emits one point per vertex in mesh order.
func BuildVertices(src mesh.Source, color Color) Geometry {
	ids := src.Vertices()
	g := newGeometry(len(ids))
	for _, v := range ids {
		g.push(src.VertexXYZ(v), color)
	}
	return g
}

// BuildEdges emits two points per edge.
func BuildEdges(src mesh.Source, color Color) Geometry {
	edges := src.Edges()
	g := newGeometry(2 * len(edges))
	for _, e := range edges {
		g.push(src.VertexXYZ(e[0]), color)
		g.push(src.VertexXYZ(e[1]), color)
	}
	return g
}

// BuildFaces emits triangles for every face. Quads are fan split from their
// first vertex. With reversed set each face loop is walked backwards, giving
// the opposite winding. Any other face size fails the whole build. The
// loops returned by src are never written to.
func BuildFaces(src mesh.Source, color Color, reversed bool) (Geometry, error) {
	faces := src.Faces()
	g := newGeometry(6 * len(faces))
	for _, f := range faces {
		loop := src.FaceVertices(f)
		if reversed {
			loop = slices.Clone(loop)
			slices.Reverse(loop)
		}

		switch len(loop) {
		case 3:
			for _, v := range loop {
				g.push(src.VertexXYZ(v), color)
			}
		case 4:
			a, b, c, d := loop[0], loop[1], loop[2], loop[3]
			for _, v := range [6]int{a, b, c, a, c, d} {
				g.push(src.VertexXYZ(v), color)
			}
		default:
			return Geometry{}, fmt.Errorf("face %d has %d vertices: %w", f, len(loop), ErrUnsupportedTopology)
		}
	}
	return g, nil
}

// TriangleCount returns how many triangles BuildFaces would emit, or an error
// for the first face that is neither a triangle nor a quad.
func TriangleCount(src mesh.Source) (int, error) {
	n := 0
	for _, f := range src.Faces() {
		switch k := len(src.FaceVertices(f)); k {
		case 3:
			n++
		case 4:
			n += 2
		default:
			return 0, fmt.Errorf("face %d has %d vertices: %w", f, k, ErrUnsupportedTopology)
		}
	}
	return n, nil
}

// BuildMesh derives all four geometries. Nothing is returned on failure.
func BuildMesh(src mesh.Source, colors Colors) (Set, error) {
	front, err := BuildFaces(src, colors.Front, false)
	if err != nil {
		return Set{}, fmt.Errorf("front faces: %w", err)
	}
	back, err := BuildFaces(src, colors.Back, true)
	if err != nil {
		return Set{}, fmt.Errorf("back faces: %w", err)
	}
	return Set{
		Vertices: BuildVertices(src, colors.Vertices),
		Edges:    BuildEdges(src, colors.Edges),
		Front:    front,
		Back:     back,
	}, nil
}

// BuildFrame emits the frame origin as a single point and its axes, scaled by
// size, as red, green and blue segments.
func BuildFrame(f shape.Frame, size float32, pointColor Color) (points, lines Geometry) {
	points = newGeometry(1)
	points.pushVec(f.Point, pointColor)

	lines = newGeometry(6)
	axes := [3]mgl32.Vec3{f.XAxis, f.YAxis, f.ZAxis()}
	colors := [3]Color{Red, Green, Blue}
	for i, axis := range axes {
		lines.pushVec(f.Point, colors[i])
		lines.pushVec(f.Point.Add(axis.Mul(size)), colors[i])
	}
	return points, lines
}
