package objects

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/buffers"
	"github.com/Faultbox/meshview/internal/engine/gfx"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/mesh"
	"github.com/Faultbox/meshview/pkg/shape"
)

// ErrNotInitialized is returned when drawing an object whose buffers were never built.
var ErrNotInitialized = errors.New("object not initialized")

// Object is anything the scene can upload and draw.
type Object interface {
	Name() string
	Init(dev gfx.Device) error
	Draw(sh Drawer) error
	Close(dev gfx.Device)
	Selected() bool
	SetSelected(selected bool)
	Display() Display
	SetDisplay(d Display)
}

type settings struct {
	name     string
	selected bool
	display  Display
	colors   buffers.Colors
}

func newSettings(opts []Option) settings {
	s := settings{
		display: DefaultDisplay(),
		colors:  buffers.DefaultColors(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures an object at construction.
type Option func(*settings)

// WithName sets the object name.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithSelected sets the initial selection state.
func WithSelected(selected bool) Option {
	return func(s *settings) { s.selected = selected }
}

// WithDisplay replaces the default visibility flags.
func WithDisplay(d Display) Option {
	return func(s *settings) { s.display = d }
}

// WithColors replaces the default palette.
func WithColors(c buffers.Colors) Option {
	return func(s *settings) { s.colors = c }
}

// WithFaceColor overrides front and back face colors.
func WithFaceColor(c buffers.Color) Option {
	return func(s *settings) {
		s.colors.Front = c
		s.colors.Back = c
	}
}

// MeshObject draws a mesh as points, lines and two-sided triangles.
type MeshObject struct {
	settings
	src     mesh.Source
	bundles buffers.Bundles
	bounds  buffers.Bundle
	ready   bool
}

var _ Object = (*MeshObject)(nil)

// NewMeshObject wraps a mesh. Buffers are not built until Init.
func NewMeshObject(src mesh.Source, opts ...Option) *MeshObject {
	return &MeshObject{
		settings: newSettings(opts),
		src:      src,
	}
}

// NewShapeObject builds the mesh from p right away and wraps it.
func NewShapeObject(p shape.Producer, opts ...Option) (*MeshObject, error) {
	m, err := p.Mesh()
	if err != nil {
		return nil, fmt.Errorf("shape to mesh: %w", err)
	}
	return NewMeshObject(m, opts...), nil
}

func (o *MeshObject) Name() string              { return o.name }
func (o *MeshObject) Selected() bool            { return o.selected }
func (o *MeshObject) SetSelected(selected bool) { o.selected = selected }
func (o *MeshObject) Display() Display          { return o.display }
func (o *MeshObject) SetDisplay(d Display)      { o.display = d }

// Colors returns the palette used on the next Init.
func (o *MeshObject) Colors() buffers.Colors { return o.colors }

// Ready reports whether Init succeeded.
func (o *MeshObject) Ready() bool { return o.ready }

// Bundles returns the uploaded buffers. Zero until Init succeeds.
func (o *MeshObject) Bundles() buffers.Bundles { return o.bundles }

// Bounds returns the axis-aligned box of the mesh when the source can report one.
func (o *MeshObject) Bounds() (min, max [3]float64, ok bool) {
	b, ok := o.src.(interface{ Bounds() (min, max [3]float64) })
	if !ok || len(o.src.Vertices()) == 0 {
		return min, max, false
	}
	min, max = b.Bounds()
	return min, max, true
}

// Init builds and uploads all buffers. Calling it again rebuilds from the
// current mesh and releases the previous buffers. On failure the object is
// left without buffers.
func (o *MeshObject) Init(dev gfx.Device) error {
	o.Close(dev)

	set, err := buffers.BuildMesh(o.src, o.colors)
	if err != nil {
		return fmt.Errorf("object %q: %w", o.name, err)
	}
	bundles, err := buffers.UploadSet(dev, set)
	if err != nil {
		return fmt.Errorf("object %q: upload: %w", o.name, err)
	}

	min, max, _ := o.Bounds()
	bounds, err := buffers.Upload(dev, buffers.BuildBounds(min, max, DefaultBoundsPadding, o.colors.Edges))
	if err != nil {
		bundles.Release(dev)
		return fmt.Errorf("object %q: bounds: %w", o.name, err)
	}

	o.bundles = bundles
	o.bounds = bounds
	o.ready = true

	logger.Named("objects").Debug("mesh object initialized",
		zap.String("name", o.name),
		zap.Int("vertices", bundles.Vertices.Count),
		zap.Int("edges", bundles.Edges.Count),
		zap.Int("front", bundles.Front.Count),
		zap.Int("back", bundles.Back.Count),
	)
	return nil
}

// Draw issues the draw calls for the visible features.
func (o *MeshObject) Draw(sh Drawer) error {
	if !o.ready {
		return fmt.Errorf("object %q: %w", o.name, ErrNotInitialized)
	}
	if err := DrawBundles(o.bundles, o.display, o.selected, sh); err != nil {
		return err
	}
	if o.selected && o.display.ShowBounds {
		return withAttributes(sh, func() error {
			if err := bind(sh, o.bounds); err != nil {
				return err
			}
			sh.DrawLines(o.bounds.Count)
			return nil
		})
	}
	return nil
}

// Close releases all GPU buffers. The object can be re-initialized afterwards.
func (o *MeshObject) Close(dev gfx.Device) {
	o.bundles.Release(dev)
	o.bounds.Release(dev)
	o.ready = false
}
