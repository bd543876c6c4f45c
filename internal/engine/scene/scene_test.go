package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/gfx"
	"github.com/Faultbox/meshview/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/meshview/internal/engine/objects"
	"github.com/Faultbox/meshview/internal/engine/picking"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/pkg/shape"
)

func newScene(t *testing.T) (*Scene, *gfxtest.Recorder) {
	t.Helper()
	dev := gfxtest.NewDefault()
	s, err := New(dev)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, dev
}

func addBox(t *testing.T, s *Scene, name string, center [3]float64) *objects.MeshObject {
	t.Helper()
	o, err := objects.NewShapeObject(shape.Box{Center: center, Size: [3]float64{1, 1, 1}}, objects.WithName(name))
	if err != nil {
		t.Fatalf("NewShapeObject: %v", err)
	}
	if err := s.Add(o); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return o
}

func TestNewShaderFailure(t *testing.T) {
	dev := gfxtest.NewDefault()
	dev.FailLink = "missing main"

	_, err := New(dev)
	if !errors.Is(err, shader.ErrLink) {
		t.Fatalf("New error = %v, want ErrLink", err)
	}
}

func TestAddUploadsAndRejectsDuplicates(t *testing.T) {
	s, dev := newScene(t)
	o := addBox(t, s, "a", [3]float64{})

	if !o.Ready() {
		t.Error("object not initialized by Add")
	}
	if len(dev.Buffers) == 0 {
		t.Error("no buffers uploaded")
	}

	dup, _ := objects.NewShapeObject(shape.Box{Size: [3]float64{1, 1, 1}}, objects.WithName("a"))
	if err := s.Add(dup); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Add duplicate = %v, want ErrDuplicateName", err)
	}
	if len(s.Objects()) != 1 {
		t.Errorf("objects = %d, want 1", len(s.Objects()))
	}
}

func TestDrawSetsUniformsAndDrawsAll(t *testing.T) {
	s, dev := newScene(t)
	addBox(t, s, "a", [3]float64{})
	addBox(t, s, "b", [3]float64{3, 0, 0})
	dev.Reset()

	proj := mgl32.Perspective(1, 1, 0.1, 10)
	if err := s.Draw(proj, mgl32.Ident4()); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	var sawProjection, sawOpacity bool
	for _, u := range dev.Uniforms {
		switch u.Loc {
		case dev.UniformLoc(UniformProjection):
			sawProjection = u.Value == [16]float32(proj)
		case dev.UniformLoc(UniformOpacity):
			sawOpacity = u.Value == float32(1)
		}
	}
	if !sawProjection {
		t.Error("projection uniform not set")
	}
	if !sawOpacity {
		t.Error("opacity uniform not set")
	}

	// front, back, edges, vertices per box
	if len(dev.Draws) != 8 {
		t.Errorf("draws = %d, want 8", len(dev.Draws))
	}
	if dev.Current != 0 {
		t.Error("program still bound after Draw")
	}
}

func TestDrawCollectsErrors(t *testing.T) {
	s, _ := newScene(t)
	addBox(t, s, "a", [3]float64{})
	s.Objects()[0].Close(s.dev)

	err := s.Draw(mgl32.Ident4(), mgl32.Ident4())
	if !errors.Is(err, objects.ErrNotInitialized) {
		t.Errorf("Draw error = %v, want ErrNotInitialized", err)
	}
}

func TestSelection(t *testing.T) {
	s, _ := newScene(t)
	if s.SelectNext() != nil {
		t.Error("SelectNext on empty scene should return nil")
	}

	a := addBox(t, s, "a", [3]float64{})
	b := addBox(t, s, "b", [3]float64{2, 0, 0})

	if got := s.SelectNext(); got != a {
		t.Error("first SelectNext should pick a")
	}
	if got := s.SelectNext(); got != b || a.Selected() {
		t.Error("second SelectNext should move selection to b only")
	}
	if got := s.SelectNext(); got != a {
		t.Error("SelectNext should wrap around")
	}

	if !s.Select("b") || s.Selected() != b {
		t.Error("Select(b) failed")
	}
	if s.Select("missing") || s.Selected() != nil {
		t.Error("Select of unknown name should clear selection")
	}
}

func TestUpdateDisplay(t *testing.T) {
	s, _ := newScene(t)
	a := addBox(t, s, "a", [3]float64{})
	b := addBox(t, s, "b", [3]float64{2, 0, 0})

	s.UpdateDisplay(func(d *objects.Display) { d.ShowFaces = !d.ShowFaces })

	if a.Display().ShowFaces || b.Display().ShowFaces {
		t.Error("faces should be hidden on every object")
	}
}

func TestRemoveAndClose(t *testing.T) {
	s, dev := newScene(t)
	addBox(t, s, "a", [3]float64{})
	addBox(t, s, "b", [3]float64{2, 0, 0})

	if !s.Remove("a") || len(s.Objects()) != 1 {
		t.Fatal("Remove(a) failed")
	}
	if s.Remove("a") {
		t.Error("second Remove(a) should report false")
	}

	s.Close()
	if len(dev.Buffers) != 0 {
		t.Errorf("%d buffers leaked after Close", len(dev.Buffers))
	}
	if len(dev.Programs) != 0 {
		t.Error("program not deleted on Close")
	}
}

func TestBounds(t *testing.T) {
	s, _ := newScene(t)
	if _, _, ok := s.Bounds(); ok {
		t.Error("empty scene should have no bounds")
	}
	if err := s.Add(objects.NewFrameObject(shape.WorldXY(), 1, objects.WithName("world"))); err != nil {
		t.Fatal(err)
	}
	addBox(t, s, "a", [3]float64{})
	addBox(t, s, "b", [3]float64{4, 0, 0})

	min, max, ok := s.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if !min.ApproxEqual(mgl32.Vec3{-0.5, -0.5, -0.5}) || !max.ApproxEqual(mgl32.Vec3{4.5, 0.5, 0.5}) {
		t.Errorf("bounds = %v %v", min, max)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		oc      config.ObjectConfig
		wantErr error
	}{
		{oc: config.ObjectConfig{Type: "box"}},
		{oc: config.ObjectConfig{Type: "plane", Divisions: 2}},
		{oc: config.ObjectConfig{Type: "tetrahedron"}},
		{oc: config.ObjectConfig{Type: "sphere", Cells: 8}},
		{oc: config.ObjectConfig{Type: "cylinder", Cells: 8}},
		{oc: config.ObjectConfig{Type: "capsule", Cells: 8}},
		{oc: config.ObjectConfig{Type: "rounded_box", Round: 0.1, Cells: 8}},
		{oc: config.ObjectConfig{Type: "frame", XAxis: [3]float32{0, 1, 0}, YAxis: [3]float32{-1, 0, 0}}},
		{oc: config.ObjectConfig{Type: "torus"}, wantErr: ErrUnknownType},
		{oc: config.ObjectConfig{Type: "box", Size: [3]float64{-1, 1, 1}}, wantErr: shape.ErrInvalidSize},
		{oc: config.ObjectConfig{Type: "frame", XAxis: [3]float32{1, 0, 0}, YAxis: [3]float32{2, 0, 0}}, wantErr: shape.ErrDegenerateFrame},
	}

	for _, tt := range tests {
		t.Run(tt.oc.Type, func(t *testing.T) {
			o, err := Build(tt.oc, "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Build error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if o.Name() != tt.oc.Type {
				t.Errorf("name = %q, want type as fallback", o.Name())
			}
			if err := o.Init(gfxtest.NewDefault()); err != nil {
				t.Errorf("Init: %v", err)
			}
		})
	}
}

func TestBuildErrorsNameTheObject(t *testing.T) {
	tests := []struct {
		oc   config.ObjectConfig
		want string
	}{
		{config.ObjectConfig{Type: "frame", XAxis: [3]float32{1, 0, 0}, YAxis: [3]float32{2, 0, 0}}, `object "frame"`},
		{config.ObjectConfig{Name: "axes", Type: "frame", XAxis: [3]float32{1, 0, 0}, YAxis: [3]float32{2, 0, 0}}, `object "axes"`},
		{config.ObjectConfig{Type: "box", Size: [3]float64{-1, 1, 1}}, `object "box"`},
	}
	for _, tt := range tests {
		_, err := Build(tt.oc, "")
		if err == nil {
			t.Fatalf("Build(%+v) succeeded, want error", tt.oc)
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("error = %q, want it to contain %s", err, tt.want)
		}
	}
}

func TestBuildOBJRelativePath(t *testing.T) {
	dir := t.TempDir()
	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(obj), 0644); err != nil {
		t.Fatal(err)
	}

	o, err := Build(config.ObjectConfig{Name: "tri", Type: "obj", Path: "tri.obj"}, dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m := o.(*objects.MeshObject)
	dev := gfxtest.NewDefault()
	if err := m.Init(dev); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := m.Bundles().Front.Count; got != 3 {
		t.Errorf("front count = %d, want 3", got)
	}

	if _, err := Build(config.ObjectConfig{Type: "obj"}, dir); err == nil {
		t.Error("expected error for obj without path")
	}
	if _, err := Build(config.ObjectConfig{Type: "obj", Path: "missing.obj"}, dir); err == nil {
		t.Error("expected error for missing obj file")
	}
}

func TestBuildFaceColor(t *testing.T) {
	red := [3]float32{1, 0, 0}
	o, err := Build(config.ObjectConfig{Name: "r", Type: "box", Color: &red, Selected: true}, "")
	if err != nil {
		t.Fatal(err)
	}
	m := o.(*objects.MeshObject)
	if m.Colors().Front != red || m.Colors().Back != red {
		t.Errorf("colors = %+v, want red faces", m.Colors())
	}
	if !m.Selected() {
		t.Error("expected selected")
	}
}

func TestFromConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Display.ShowVertices = false
	cfg.Render.PointSize = 3

	objs, err := FromConfig(cfg, "")
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if len(objs) != len(cfg.Scene) {
		t.Fatalf("objects = %d, want %d", len(objs), len(cfg.Scene))
	}
	for _, o := range objs {
		d := o.Display()
		if d.ShowVertices || d.PointSize != 3 {
			t.Errorf("%s: display %+v not taken from config", o.Name(), d)
		}
	}
	if _, ok := objs[0].(*objects.FrameObject); !ok {
		t.Errorf("first default object is %T, want frame", objs[0])
	}

	dev := gfxtest.NewDefault()
	s, err := New(dev)
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range objs {
		if err := s.Add(o); err != nil {
			t.Fatalf("Add %s: %v", o.Name(), err)
		}
	}
	if err := s.Draw(mgl32.Ident4(), mgl32.Ident4()); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(dev.DrawsOf(gfx.Points)) != 0 {
		t.Error("points drawn although vertices are hidden")
	}
}

func TestPick(t *testing.T) {
	s, _ := newScene(t)
	if err := s.Add(objects.NewFrameObject(shape.WorldXY(), 1, objects.WithName("world"))); err != nil {
		t.Fatal(err)
	}
	near := addBox(t, s, "near", [3]float64{0, 0, 0})
	addBox(t, s, "far", [3]float64{0, 5, 0})

	r := picking.Ray{Origin: mgl32.Vec3{0, -10, 0}, Direction: mgl32.Vec3{0, 1, 0}}
	if got := s.Pick(r); got != near {
		t.Errorf("Pick = %v, want near box", got)
	}

	miss := picking.Ray{Origin: mgl32.Vec3{0, -10, 5}, Direction: mgl32.Vec3{0, 1, 0}}
	if got := s.Pick(miss); got != nil {
		t.Errorf("Pick = %v, want nil", got.Name())
	}
}
