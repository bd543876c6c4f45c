package shape

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Faultbox/meshview/pkg/mesh"
)

// DefaultCells is the marching cubes resolution along the longest bounding box axis.
const DefaultCells = 48

// SDF tessellates a signed distance field into a triangle mesh.
type SDF struct {
	Solid sdf.SDF3
	Cells int
}

// Mesh runs marching cubes over the solid and welds the resulting soup.
func (s SDF) Mesh() (*mesh.Mesh, error) {
	if s.Solid == nil {
		return nil, fmt.Errorf("sdf: nil solid")
	}
	cells := s.Cells
	if cells <= 0 {
		cells = DefaultCells
	}

	triangles := render.ToTriangles(s.Solid, render.NewMarchingCubesUniform(cells))
	soup := make([][3][3]float64, 0, len(triangles))
	for _, tri := range triangles {
		var t [3][3]float64
		for j := 0; j < 3; j++ {
			v := tri[j]
			t[j] = [3]float64{v.X, v.Y, v.Z}
		}
		soup = append(soup, t)
	}

	// weld at a fraction of the cell size so neighbouring cells share corners
	bb := s.Solid.BoundingBox()
	size := bb.Size()
	longest := size.X
	if size.Y > longest {
		longest = size.Y
	}
	if size.Z > longest {
		longest = size.Z
	}
	return mesh.Weld(soup, longest/float64(cells)*1e-3), nil
}

// Sphere returns an SDF producer for a sphere.
func Sphere(center [3]float64, radius float64, cells int) (SDF, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return SDF{}, fmt.Errorf("sphere: %w", err)
	}
	return SDF{Solid: translate(s, center), Cells: cells}, nil
}

// Cylinder returns an SDF producer for a Z-aligned cylinder.
func Cylinder(center [3]float64, height, radius float64, cells int) (SDF, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return SDF{}, fmt.Errorf("cylinder: %w", err)
	}
	return SDF{Solid: translate(s, center), Cells: cells}, nil
}

// Capsule returns an SDF producer for a Z-aligned capsule.
func Capsule(center [3]float64, height, radius float64, cells int) (SDF, error) {
	s, err := sdf.Capsule3D(height, radius)
	if err != nil {
		return SDF{}, fmt.Errorf("capsule: %w", err)
	}
	return SDF{Solid: translate(s, center), Cells: cells}, nil
}

// RoundedBox returns an SDF producer for a box with rounded edges.
func RoundedBox(center, size [3]float64, round float64, cells int) (SDF, error) {
	s, err := sdf.Box3D(v3.Vec{X: size[0], Y: size[1], Z: size[2]}, round)
	if err != nil {
		return SDF{}, fmt.Errorf("rounded box: %w", err)
	}
	return SDF{Solid: translate(s, center), Cells: cells}, nil
}

func translate(s sdf.SDF3, c [3]float64) sdf.SDF3 {
	if c == [3]float64{} {
		return s
	}
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: c[0], Y: c[1], Z: c[2]}))
}
