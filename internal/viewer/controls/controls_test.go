package controls

import (
	"testing"

	"github.com/Faultbox/meshview/internal/engine/camera"
	"github.com/Faultbox/meshview/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/meshview/internal/engine/objects"
	"github.com/Faultbox/meshview/internal/engine/scene"
	"github.com/Faultbox/meshview/pkg/shape"
)

func newScene(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.New(gfxtest.NewDefault())
	if err != nil {
		t.Fatalf("scene.New: %v", err)
	}
	for _, b := range []struct {
		name   string
		center [3]float64
	}{{"a", [3]float64{}}, {"b", [3]float64{10, 0, 0}}} {
		o, err := objects.NewShapeObject(shape.Box{Center: b.center, Size: [3]float64{1, 1, 1}}, objects.WithName(b.name))
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Add(o); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestForKey(t *testing.T) {
	tests := []struct {
		key  rune
		want Action
	}{
		{0x1b, Quit},
		{'v', ToggleVertices},
		{'e', ToggleEdges},
		{'f', ToggleFaces},
		{'b', ToggleBounds},
		{'\t', SelectNext},
		{'r', FitView},
		{'p', Screenshot},
		{'s', SaveSettings},
		{'o', OpenFile},
		{'x', None},
	}
	for _, tt := range tests {
		if got := ForKey(tt.key); got != tt.want {
			t.Errorf("ForKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestApplyToggles(t *testing.T) {
	tests := []struct {
		action Action
		get    func(objects.Display) bool
	}{
		{ToggleVertices, func(d objects.Display) bool { return d.ShowVertices }},
		{ToggleEdges, func(d objects.Display) bool { return d.ShowEdges }},
		{ToggleFaces, func(d objects.Display) bool { return d.ShowFaces }},
		{ToggleBounds, func(d objects.Display) bool { return d.ShowBounds }},
	}
	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			s := newScene(t)
			before := tt.get(s.Objects()[0].Display())

			if Apply(tt.action, s, camera.NewOrbitCamera()) {
				t.Fatal("toggle should not quit")
			}
			for _, o := range s.Objects() {
				if tt.get(o.Display()) == before {
					t.Errorf("%s: flag not toggled", o.Name())
				}
			}

			Apply(tt.action, s, camera.NewOrbitCamera())
			if tt.get(s.Objects()[0].Display()) != before {
				t.Error("second toggle should restore the flag")
			}
		})
	}
}

func TestApplyQuitSelectFit(t *testing.T) {
	s := newScene(t)
	cam := camera.NewOrbitCamera()

	if !Apply(Quit, s, cam) {
		t.Error("Quit should report true")
	}

	Apply(SelectNext, s, cam)
	if sel := s.Selected(); sel == nil || sel.Name() != "a" {
		t.Errorf("selected = %v, want a", sel)
	}

	Apply(FitView, s, cam)
	if cam.Target.X() < 4.9 || cam.Target.X() > 5.1 {
		t.Errorf("camera target = %v, want centred between the boxes", cam.Target)
	}
}

func TestActionString(t *testing.T) {
	if FitView.String() != "fit-view" {
		t.Errorf("FitView.String() = %q", FitView.String())
	}
	if Action(99).String() != "unknown" {
		t.Error("out of range action should be unknown")
	}
}
