package controls

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/objects"
	"github.com/Faultbox/meshview/pkg/shape"
)

func TestPanelSyncAndCommit(t *testing.T) {
	s := newScene(t)
	var p Panel
	p.Sync(s)

	if len(p.Rows) != 2 || p.Rows[0].Name != "a" || p.Rows[1].Name != "b" {
		t.Fatalf("rows = %+v, want a, b", p.Rows)
	}
	if p.Display != s.Objects()[0].Display() {
		t.Errorf("display = %+v, want first object's", p.Display)
	}

	sizeBefore := s.Objects()[1].Display().PointSize
	p.Display.ShowVertices = false
	p.Display.ShowBounds = true
	p.Display.PointSize = 99
	p.Commit(s)

	for _, o := range s.Objects() {
		d := o.Display()
		if d.ShowVertices || !d.ShowBounds {
			t.Errorf("%s: display = %+v, want vertices off and bounds on", o.Name(), d)
		}
	}
	if got := s.Objects()[1].Display().PointSize; got != sizeBefore {
		t.Errorf("point size = %v, want %v kept", got, sizeBefore)
	}

	p.Sync(s)
	if got := p.DisplayConfig(); got.ShowVertices || !got.ShowBounds || !got.ShowFaces {
		t.Errorf("DisplayConfig = %+v", got)
	}
	if got := DisplayOf(s); got != p.DisplayConfig() {
		t.Errorf("DisplayOf = %+v, want %+v", got, p.DisplayConfig())
	}
}

func TestPanelToggle(t *testing.T) {
	s := newScene(t)
	var p Panel

	p.Toggle(s, "b")
	if sel := s.Selected(); sel == nil || sel.Name() != "b" {
		t.Fatalf("selected = %v, want b", sel)
	}
	if p.Rows[0].Selected || !p.Rows[1].Selected {
		t.Errorf("rows = %+v, want only b selected", p.Rows)
	}

	p.Toggle(s, "a")
	if sel := s.Selected(); sel == nil || sel.Name() != "a" {
		t.Errorf("selected = %v, want a", sel)
	}

	p.Toggle(s, "a")
	if sel := s.Selected(); sel != nil {
		t.Errorf("selected = %v, want none after second click", sel.Name())
	}
	for _, r := range p.Rows {
		if r.Selected {
			t.Errorf("row %s still selected", r.Name)
		}
	}
}

func TestOpenOBJ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := newScene(t)
	first, err := OpenOBJ(s, path)
	if err != nil {
		t.Fatalf("OpenOBJ: %v", err)
	}
	if first.Name() != "tri" {
		t.Errorf("name = %q, want tri", first.Name())
	}

	second, err := OpenOBJ(s, path, objects.WithDisplay(objects.Display{ShowFaces: true}))
	if err != nil {
		t.Fatalf("OpenOBJ again: %v", err)
	}
	if second.Name() != "tri-2" {
		t.Errorf("name = %q, want tri-2", second.Name())
	}
	if sel := s.Selected(); sel != second {
		t.Errorf("selected = %v, want the second copy", sel)
	}
	if d := second.Display(); d.ShowVertices || !d.ShowFaces {
		t.Errorf("display = %+v, want options applied", d)
	}
	if m := second.(*objects.MeshObject); m.Bundles().Front.Count != 3 {
		t.Errorf("front count = %d, want 3", m.Bundles().Front.Count)
	}
	if n := len(s.Objects()); n != 4 {
		t.Errorf("objects = %d, want 4", n)
	}

	if _, err := OpenOBJ(s, filepath.Join(dir, "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
	if n := len(s.Objects()); n != 4 {
		t.Errorf("objects = %d after failed open, want 4", n)
	}
}

func TestOpenOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Display.ShowBounds = true

	s := newScene(t)
	Apply(ToggleFaces, s, nil)

	o, err := objects.NewShapeObject(shape.Tetrahedron{Radius: 1}, OpenOptions(cfg, s)...)
	if err != nil {
		t.Fatal(err)
	}
	if d := o.Display(); d.ShowFaces || d.ShowBounds {
		t.Errorf("display = %+v, want the scene's flags", d)
	}

	for len(s.Objects()) > 0 {
		s.Remove(s.Objects()[0].Name())
	}
	o, err = objects.NewShapeObject(shape.Tetrahedron{Radius: 1}, OpenOptions(cfg, s)...)
	if err != nil {
		t.Fatal(err)
	}
	if d := o.Display(); !d.ShowBounds || !d.ShowFaces {
		t.Errorf("display = %+v, want configured flags for an empty scene", d)
	}
}

func TestSaveSettings(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir ignores XDG_CONFIG_HOME here")
	}
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	s := newScene(t)
	Apply(ToggleVertices, s, nil)
	Apply(ToggleBounds, s, nil)

	cfg := config.Default()
	path, err := SaveSettings(cfg, DisplayOf(s))
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if want := filepath.Join(home, "meshview", "config.yaml"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	loaded := config.Default()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		t.Fatal(err)
	}
	if loaded.Display.ShowVertices || !loaded.Display.ShowBounds || !loaded.Display.ShowEdges {
		t.Errorf("saved display = %+v, want vertices off, bounds and edges on", loaded.Display)
	}
	if cfg.Display != loaded.Display {
		t.Errorf("cfg display = %+v, want %+v", cfg.Display, loaded.Display)
	}
}
