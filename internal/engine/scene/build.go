package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/buffers"
	"github.com/Faultbox/meshview/internal/engine/objects"
	"github.com/Faultbox/meshview/pkg/mesh"
	"github.com/Faultbox/meshview/pkg/shape"
)

// ErrUnknownType is returned for an object type the builder does not know.
var ErrUnknownType = errors.New("scene: unknown object type")

// Options converts render and display settings into object options.
func Options(render config.RenderConfig, display config.DisplayConfig) []objects.Option {
	d := objects.Display{
		ShowVertices: display.ShowVertices,
		ShowEdges:    display.ShowEdges,
		ShowFaces:    display.ShowFaces,
		ShowBounds:   display.ShowBounds,
		PointSize:    render.PointSize,
	}
	c := buffers.Colors{
		Vertices: buffers.Color(render.Colors.Vertices),
		Edges:    buffers.Color(render.Colors.Edges),
		Front:    buffers.Color(render.Colors.Front),
		Back:     buffers.Color(render.Colors.Back),
	}
	return []objects.Option{objects.WithDisplay(d), objects.WithColors(c)}
}

// Build creates one object from its config entry. Relative obj paths are
// resolved against baseDir. The object is not uploaded.
func Build(oc config.ObjectConfig, baseDir string, opts ...objects.Option) (objects.Object, error) {
	name := oc.Name
	if name == "" {
		name = oc.Type
	}
	opts = append(opts, objects.WithName(name), objects.WithSelected(oc.Selected))
	if oc.Color != nil {
		opts = append(opts, objects.WithFaceColor(buffers.Color(*oc.Color)))
	}

	var p shape.Producer
	var err error
	switch strings.ToLower(oc.Type) {
	case "frame":
		return buildFrame(name, oc, opts)
	case "box":
		p = shape.Box{Center: oc.Center, Size: orOnes(oc.Size)}
	case "plane":
		p = shape.Plane{Size: [2]float64{or(oc.Size[0], 1), or(oc.Size[1], 1)}, Divisions: oc.Divisions}
	case "tetrahedron":
		p = shape.Tetrahedron{Center: oc.Center, Radius: or(oc.Radius, 1)}
	case "sphere":
		p, err = shape.Sphere(oc.Center, or(oc.Radius, 1), oc.Cells)
	case "cylinder":
		p, err = shape.Cylinder(oc.Center, or(oc.Height, 1), or(oc.Radius, 0.5), oc.Cells)
	case "capsule":
		p, err = shape.Capsule(oc.Center, or(oc.Height, 2), or(oc.Radius, 0.5), oc.Cells)
	case "rounded_box":
		p, err = shape.RoundedBox(oc.Center, orOnes(oc.Size), oc.Round, oc.Cells)
	case "obj":
		if oc.Path == "" {
			return nil, fmt.Errorf("object %q: obj needs a path", name)
		}
		path := oc.Path
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		p = shape.ProducerFunc(func() (*mesh.Mesh, error) { return mesh.LoadOBJ(path) })
	default:
		return nil, fmt.Errorf("object %q: %w: %q", name, ErrUnknownType, oc.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", name, err)
	}

	o, err := objects.NewShapeObject(p, opts...)
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", name, err)
	}
	return o, nil
}

func buildFrame(name string, oc config.ObjectConfig, opts []objects.Option) (objects.Object, error) {
	f := shape.WorldXY()
	f.Point = vec3(oc.Center)
	if oc.XAxis != ([3]float32{}) || oc.YAxis != ([3]float32{}) {
		xaxis, yaxis := mgl32.Vec3(oc.XAxis), mgl32.Vec3(oc.YAxis)
		if xaxis.Len() == 0 {
			xaxis = f.XAxis
		}
		if yaxis.Len() == 0 {
			yaxis = f.YAxis
		}
		var err error
		if f, err = shape.NewFrame(f.Point, xaxis, yaxis); err != nil {
			return nil, fmt.Errorf("object %q: %w", name, err)
		}
	}
	size := float32(or(oc.Size[0], objects.DefaultFrameSize))
	return objects.NewFrameObject(f, size, opts...), nil
}

// FromConfig builds every object of cfg.Scene in order.
func FromConfig(cfg *config.Config, baseDir string) ([]objects.Object, error) {
	opts := Options(cfg.Render, cfg.Display)
	out := make([]objects.Object, 0, len(cfg.Scene))
	for _, oc := range cfg.Scene {
		o, err := Build(oc, baseDir, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func or(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orOnes(v [3]float64) [3]float64 {
	if v == ([3]float64{}) {
		return [3]float64{1, 1, 1}
	}
	return v
}

func vec3(v [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
