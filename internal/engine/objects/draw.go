// Package objects provides renderable scene objects built from meshes, shapes and frames.
package objects

import (
	"errors"

	"github.com/Faultbox/meshview/internal/engine/buffers"
	"github.com/Faultbox/meshview/internal/engine/gfx"
)

// Attribute and uniform names shared with the mesh shader.
const (
	AttrPosition      = "position"
	AttrColor         = "color"
	UniformIsSelected = "is_selected"
)

const (
	DefaultPointSize     = 10
	DefaultFrameSize     = 1.0
	DefaultBoundsPadding = 0.05
)

// Display toggles which features of an object are drawn.
type Display struct {
	ShowVertices bool
	ShowEdges    bool
	ShowFaces    bool
	// ShowBounds draws a box around the object while it is selected.
	ShowBounds bool
	PointSize  float32
}

// DefaultDisplay shows vertices, edges and faces.
func DefaultDisplay() Display {
	return Display{
		ShowVertices: true,
		ShowEdges:    true,
		ShowFaces:    true,
		PointSize:    DefaultPointSize,
	}
}

// Drawer is the part of *shader.Shader used to draw bundles.
type Drawer interface {
	EnableAttribute(name string)
	DisableAttribute(name string) error
	BindAttribute(name string, buffer gfx.Buffer) error
	UniformBool(name string, v bool)
	DrawPoints(count int, size float32)
	DrawLines(count int)
	DrawTriangles(count int)
}

func bind(sh Drawer, b buffers.Bundle) error {
	if err := sh.BindAttribute(AttrPosition, b.Positions); err != nil {
		return err
	}
	return sh.BindAttribute(AttrColor, b.Colors)
}

// withAttributes enables position and color around fn and always disables them again.
func withAttributes(sh Drawer, fn func() error) error {
	sh.EnableAttribute(AttrPosition)
	sh.EnableAttribute(AttrColor)
	err := fn()
	return errors.Join(err,
		sh.DisableAttribute(AttrPosition),
		sh.DisableAttribute(AttrColor),
	)
}

// DrawBundles draws faces (front then back), edges and vertices in that order,
// skipping features hidden by d. The selection flag is only raised while faces draw.
func DrawBundles(b buffers.Bundles, d Display, selected bool, sh Drawer) error {
	return withAttributes(sh, func() error {
		if d.ShowFaces {
			sh.UniformBool(UniformIsSelected, selected)
			if err := bind(sh, b.Front); err != nil {
				return err
			}
			sh.DrawTriangles(b.Front.Count)
			if err := bind(sh, b.Back); err != nil {
				return err
			}
			sh.DrawTriangles(b.Back.Count)
			sh.UniformBool(UniformIsSelected, false)
		}
		if d.ShowEdges {
			if err := bind(sh, b.Edges); err != nil {
				return err
			}
			sh.DrawLines(b.Edges.Count)
		}
		if d.ShowVertices {
			if err := bind(sh, b.Vertices); err != nil {
				return err
			}
			sh.DrawPoints(b.Vertices.Count, pointSize(d))
		}
		return nil
	})
}

func pointSize(d Display) float32 {
	if d.PointSize <= 0 {
		return DefaultPointSize
	}
	return d.PointSize
}
