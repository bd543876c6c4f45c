// Package shape turns parametric shape descriptions into polygon meshes.
package shape

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshview/pkg/mesh"
)

// Producer builds a mesh from a shape description.
type Producer interface {
	Mesh() (*mesh.Mesh, error)
}

// ProducerFunc adapts a plain function to Producer.
type ProducerFunc func() (*mesh.Mesh, error)

// Mesh calls f.
func (f ProducerFunc) Mesh() (*mesh.Mesh, error) { return f() }

// ErrInvalidSize is returned for non-positive dimensions.
var ErrInvalidSize = errors.New("shape: size must be positive")

// Box is an axis-aligned box made of six quads with outward winding.
type Box struct {
	Center [3]float64
	Size   [3]float64
}

// Mesh builds the box mesh.
func (b Box) Mesh() (*mesh.Mesh, error) {
	if b.Size[0] <= 0 || b.Size[1] <= 0 || b.Size[2] <= 0 {
		return nil, fmt.Errorf("box %v: %w", b.Size, ErrInvalidSize)
	}
	hx, hy, hz := b.Size[0]/2, b.Size[1]/2, b.Size[2]/2
	cx, cy, cz := b.Center[0], b.Center[1], b.Center[2]

	vertices := [][3]float64{
		{cx - hx, cy - hy, cz - hz}, // 0
		{cx + hx, cy - hy, cz - hz}, // 1
		{cx + hx, cy + hy, cz - hz}, // 2
		{cx - hx, cy + hy, cz - hz}, // 3
		{cx - hx, cy - hy, cz + hz}, // 4
		{cx + hx, cy - hy, cz + hz}, // 5
		{cx + hx, cy + hy, cz + hz}, // 6
		{cx - hx, cy + hy, cz + hz}, // 7
	}
	faces := [][]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 1, 5, 4}, // -Y
		{3, 7, 6, 2}, // +Y
		{0, 4, 7, 3}, // -X
		{1, 2, 6, 5}, // +X
	}
	return mesh.FromVerticesAndFaces(vertices, faces)
}

// Plane is a grid of quads in the XY plane centred at the origin.
type Plane struct {
	Size      [2]float64
	Divisions int
}

// Mesh builds the plane mesh.
func (p Plane) Mesh() (*mesh.Mesh, error) {
	if p.Size[0] <= 0 || p.Size[1] <= 0 {
		return nil, fmt.Errorf("plane %v: %w", p.Size, ErrInvalidSize)
	}
	n := p.Divisions
	if n < 1 {
		n = 1
	}

	m := mesh.New()
	ids := make([][]int, n+1)
	for j := 0; j <= n; j++ {
		ids[j] = make([]int, n+1)
		y := -p.Size[1]/2 + p.Size[1]*float64(j)/float64(n)
		for i := 0; i <= n; i++ {
			x := -p.Size[0]/2 + p.Size[0]*float64(i)/float64(n)
			ids[j][i] = m.AddVertex([3]float64{x, y, 0})
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if _, err := m.AddFace(ids[j][i], ids[j][i+1], ids[j+1][i+1], ids[j+1][i]); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Tetrahedron is a regular tetrahedron inscribed in a sphere of the given radius.
type Tetrahedron struct {
	Center [3]float64
	Radius float64
}

// Mesh builds the tetrahedron mesh.
func (t Tetrahedron) Mesh() (*mesh.Mesh, error) {
	if t.Radius <= 0 {
		return nil, fmt.Errorf("tetrahedron radius %g: %w", t.Radius, ErrInvalidSize)
	}
	// corners of a cube, scaled so they sit on the sphere
	s := t.Radius / 1.7320508075688772
	c := t.Center
	vertices := [][3]float64{
		{c[0] + s, c[1] + s, c[2] + s},
		{c[0] + s, c[1] - s, c[2] - s},
		{c[0] - s, c[1] + s, c[2] - s},
		{c[0] - s, c[1] - s, c[2] + s},
	}
	faces := [][]int{
		{0, 1, 2},
		{0, 3, 1},
		{0, 2, 3},
		{1, 3, 2},
	}
	return mesh.FromVerticesAndFaces(vertices, faces)
}
