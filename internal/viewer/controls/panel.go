package controls

import (
	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/objects"
	"github.com/Faultbox/meshview/internal/engine/scene"
)

// Row is one entry of the object list.
type Row struct {
	Name     string
	Selected bool
}

// Panel is the state behind the object panel: one set of visibility flags
// for the whole scene and the selectable object list.
type Panel struct {
	Display objects.Display
	Rows    []Row
}

// Sync reads the object list and the flags of the first object.
func (p *Panel) Sync(s *scene.Scene) {
	objs := s.Objects()
	p.Rows = p.Rows[:0]
	for _, o := range objs {
		p.Rows = append(p.Rows, Row{Name: o.Name(), Selected: o.Selected()})
	}
	if len(objs) > 0 {
		p.Display = objs[0].Display()
	}
}

// Commit writes the visibility flags to every object. Point sizes are kept.
func (p *Panel) Commit(s *scene.Scene) {
	s.UpdateDisplay(func(d *objects.Display) {
		d.ShowVertices = p.Display.ShowVertices
		d.ShowEdges = p.Display.ShowEdges
		d.ShowFaces = p.Display.ShowFaces
		d.ShowBounds = p.Display.ShowBounds
	})
}

// Toggle selects name, or clears the selection if name is already selected.
func (p *Panel) Toggle(s *scene.Scene, name string) {
	if o := s.Selected(); o != nil && o.Name() == name {
		s.Select("")
	} else {
		s.Select(name)
	}
	p.Sync(s)
}

// DisplayConfig returns the flags in config form.
func (p *Panel) DisplayConfig() config.DisplayConfig {
	return config.DisplayConfig{
		ShowVertices: p.Display.ShowVertices,
		ShowEdges:    p.Display.ShowEdges,
		ShowFaces:    p.Display.ShowFaces,
		ShowBounds:   p.Display.ShowBounds,
	}
}

// DisplayOf returns the flags the panel would show for s.
func DisplayOf(s *scene.Scene) config.DisplayConfig {
	var p Panel
	p.Sync(s)
	return p.DisplayConfig()
}
