// Package scene owns the mesh shader and the list of objects drawn each frame.
package scene

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/gfx"
	"github.com/Faultbox/meshview/internal/engine/objects"
	"github.com/Faultbox/meshview/internal/engine/picking"
	"github.com/Faultbox/meshview/internal/engine/scene/shaders"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/logger"
)

// Uniform names set once per frame.
const (
	UniformProjection = "projection"
	UniformView       = "view"
	UniformModel      = "model"
	UniformOpacity    = "opacity"
)

// ErrDuplicateName is returned by Add when a named object already exists.
var ErrDuplicateName = errors.New("scene: duplicate object name")

// Scene manages the shader and a list of objects.
type Scene struct {
	dev     gfx.Device
	shader  *shader.Shader
	objects []objects.Object

	// Opacity applies to every fragment.
	Opacity float32

	log *zap.Logger
}

// New compiles the mesh shader.
func New(dev gfx.Device) (*Scene, error) {
	sh, err := shader.New(dev, shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	return &Scene{
		dev:     dev,
		shader:  sh,
		Opacity: 1,
		log:     logger.Named("scene"),
	}, nil
}

// Shader returns the mesh shader.
func (s *Scene) Shader() *shader.Shader { return s.shader }

// Add uploads the object's buffers and appends it to the draw list.
func (s *Scene) Add(o objects.Object) error {
	if name := o.Name(); name != "" {
		if _, ok := s.Object(name); ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	if err := o.Init(s.dev); err != nil {
		return err
	}
	s.objects = append(s.objects, o)
	s.log.Debug("object added", zap.String("name", o.Name()), zap.Int("count", len(s.objects)))
	return nil
}

// Remove releases and drops the named object.
func (s *Scene) Remove(name string) bool {
	for i, o := range s.objects {
		if o.Name() == name {
			o.Close(s.dev)
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Objects returns the objects in draw order.
func (s *Scene) Objects() []objects.Object { return s.objects }

// Object finds an object by name.
func (s *Scene) Object(name string) (objects.Object, bool) {
	for _, o := range s.objects {
		if o.Name() == name {
			return o, true
		}
	}
	return nil, false
}

// Selected returns the first selected object, or nil.
func (s *Scene) Selected() objects.Object {
	for _, o := range s.objects {
		if o.Selected() {
			return o
		}
	}
	return nil
}

// Select selects the named object and deselects all others.
// An unknown name clears the selection and returns false.
func (s *Scene) Select(name string) bool {
	found := false
	for _, o := range s.objects {
		hit := name != "" && o.Name() == name && !found
		o.SetSelected(hit)
		found = found || hit
	}
	return found
}

// SelectNext moves the selection to the next object, wrapping around.
// With nothing selected the first object is picked.
func (s *Scene) SelectNext() objects.Object {
	if len(s.objects) == 0 {
		return nil
	}
	next := 0
	for i, o := range s.objects {
		if o.Selected() {
			next = (i + 1) % len(s.objects)
			break
		}
	}
	for i, o := range s.objects {
		o.SetSelected(i == next)
	}
	return s.objects[next]
}

// UpdateDisplay applies fn to the display settings of every object.
func (s *Scene) UpdateDisplay(fn func(d *objects.Display)) {
	for _, o := range s.objects {
		d := o.Display()
		fn(&d)
		o.SetDisplay(d)
	}
}

// Bounds returns the union of the mesh object boxes.
func (s *Scene) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	for _, o := range s.objects {
		box, has := objectBounds(o)
		if !has {
			continue
		}
		if !ok {
			lo, hi, ok = box.Min, box.Max, true
			continue
		}
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], box.Min[i])
			hi[i] = max(hi[i], box.Max[i])
		}
	}
	return lo, hi, ok
}

// Pick returns the object whose bounding box the ray enters first, or nil.
func (s *Scene) Pick(r picking.Ray) objects.Object {
	var best objects.Object
	bestT := float32(gomath.MaxFloat32)
	for _, o := range s.objects {
		box, ok := objectBounds(o)
		if !ok {
			continue
		}
		if t, hit := r.IntersectAABB(box.Pad(objects.DefaultBoundsPadding)); hit && t < bestT {
			best, bestT = o, t
		}
	}
	return best
}

func objectBounds(o objects.Object) (picking.AABB, bool) {
	b, ok := o.(interface {
		Bounds() (min, max [3]float64, ok bool)
	})
	if !ok {
		return picking.AABB{}, false
	}
	lo, hi, ok := b.Bounds()
	if !ok {
		return picking.AABB{}, false
	}
	return picking.NewAABB(
		mgl32.Vec3{float32(lo[0]), float32(lo[1]), float32(lo[2])},
		mgl32.Vec3{float32(hi[0]), float32(hi[1]), float32(hi[2])},
	), true
}

// Draw renders every object with the given camera matrices. An object that
// fails to draw does not stop the others; all errors are returned joined.
func (s *Scene) Draw(projection, view mgl32.Mat4) error {
	s.shader.Bind()
	defer s.shader.Release()

	s.shader.Uniform4x4(UniformProjection, projection)
	s.shader.Uniform4x4(UniformView, view)
	s.shader.Uniform4x4(UniformModel, mgl32.Ident4())
	s.shader.Uniform1f(UniformOpacity, s.Opacity)

	var errs []error
	for _, o := range s.objects {
		if err := o.Draw(s.shader); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases every object and the shader.
func (s *Scene) Close() {
	for _, o := range s.objects {
		o.Close(s.dev)
	}
	s.objects = nil
	s.shader.Close()
}
