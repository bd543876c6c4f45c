// Package controls maps keys to viewer actions and applies them to a scene.
package controls

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/objects"
	"github.com/Faultbox/meshview/internal/engine/scene"
	"github.com/Faultbox/meshview/internal/logger"
)

// Action is something the user can trigger from the keyboard.
type Action int

const (
	None Action = iota
	Quit
	ToggleVertices
	ToggleEdges
	ToggleFaces
	ToggleBounds
	SelectNext
	FitView
	Screenshot
	SaveSettings
	OpenFile
)

var actionNames = [...]string{"none", "quit", "toggle-vertices", "toggle-edges", "toggle-faces", "toggle-bounds", "select-next", "fit-view", "screenshot", "save-settings", "open-file"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Key codes as reported by SDL for the keys we use.
const (
	keyTab    = '\t'
	keyEscape = 0x1b
)

// ForKey returns the action bound to an SDL key code.
func ForKey(key rune) Action {
	switch key {
	case keyEscape:
		return Quit
	case 'v':
		return ToggleVertices
	case 'e':
		return ToggleEdges
	case 'f':
		return ToggleFaces
	case 'b':
		return ToggleBounds
	case keyTab:
		return SelectNext
	case 'r':
		return FitView
	case 'p':
		return Screenshot
	case 's':
		return SaveSettings
	case 'o':
		return OpenFile
	}
	return None
}

// Apply runs a on the scene and camera. It reports whether the viewer should quit.
// Screenshot, SaveSettings and OpenFile need the front end and are left to
// the caller.
func Apply(a Action, s *scene.Scene, cam *camera.OrbitCamera) bool {
	switch a {
	case Quit:
		return true
	case ToggleVertices:
		s.UpdateDisplay(func(d *objects.Display) { d.ShowVertices = !d.ShowVertices })
	case ToggleEdges:
		s.UpdateDisplay(func(d *objects.Display) { d.ShowEdges = !d.ShowEdges })
	case ToggleFaces:
		s.UpdateDisplay(func(d *objects.Display) { d.ShowFaces = !d.ShowFaces })
	case ToggleBounds:
		s.UpdateDisplay(func(d *objects.Display) { d.ShowBounds = !d.ShowBounds })
	case SelectNext:
		if o := s.SelectNext(); o != nil {
			logger.Named("controls").Info("selected", zap.String("name", o.Name()))
		}
	case FitView:
		if min, max, ok := s.Bounds(); ok {
			cam.FitToBounds(min, max)
		}
	}
	return false
}
