package objects

import (
	"fmt"

	"github.com/Faultbox/meshview/internal/engine/buffers"
	"github.com/Faultbox/meshview/internal/engine/gfx"
	"github.com/Faultbox/meshview/pkg/shape"
)

// FrameObject draws a coordinate frame as its origin point and three colored axes.
// Faces are never drawn; ShowVertices and ShowEdges control the point and the axes.
type FrameObject struct {
	settings
	frame  shape.Frame
	size   float32
	points buffers.Bundle
	lines  buffers.Bundle
	ready  bool
}

var _ Object = (*FrameObject)(nil)

// NewFrameObject wraps a frame whose axes are drawn size units long.
func NewFrameObject(f shape.Frame, size float32, opts ...Option) *FrameObject {
	if size <= 0 {
		size = DefaultFrameSize
	}
	return &FrameObject{
		settings: newSettings(opts),
		frame:    f,
		size:     size,
	}
}

func (o *FrameObject) Name() string              { return o.name }
func (o *FrameObject) Selected() bool            { return o.selected }
func (o *FrameObject) SetSelected(selected bool) { o.selected = selected }
func (o *FrameObject) Display() Display          { return o.display }
func (o *FrameObject) SetDisplay(d Display)      { o.display = d }

// Points returns the uploaded origin bundle.
func (o *FrameObject) Points() buffers.Bundle { return o.points }

// Lines returns the uploaded axes bundle.
func (o *FrameObject) Lines() buffers.Bundle { return o.lines }

// Init builds and uploads the point and line buffers.
func (o *FrameObject) Init(dev gfx.Device) error {
	o.Close(dev)

	pg, lg := buffers.BuildFrame(o.frame, o.size, o.colors.Vertices)
	points, err := buffers.Upload(dev, pg)
	if err != nil {
		return fmt.Errorf("frame %q: points: %w", o.name, err)
	}
	lines, err := buffers.Upload(dev, lg)
	if err != nil {
		points.Release(dev)
		return fmt.Errorf("frame %q: lines: %w", o.name, err)
	}
	o.points, o.lines, o.ready = points, lines, true
	return nil
}

// Draw draws the axes, then the origin.
func (o *FrameObject) Draw(sh Drawer) error {
	if !o.ready {
		return fmt.Errorf("frame %q: %w", o.name, ErrNotInitialized)
	}
	return withAttributes(sh, func() error {
		if o.display.ShowEdges {
			if err := bind(sh, o.lines); err != nil {
				return err
			}
			sh.DrawLines(o.lines.Count)
		}
		if o.display.ShowVertices {
			if err := bind(sh, o.points); err != nil {
				return err
			}
			sh.DrawPoints(o.points.Count, pointSize(o.display))
		}
		return nil
	})
}

// Close releases the GPU buffers.
func (o *FrameObject) Close(dev gfx.Device) {
	o.points.Release(dev)
	o.lines.Release(dev)
	o.ready = false
}
