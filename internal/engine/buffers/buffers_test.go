package buffers

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/gfx"
	"github.com/Faultbox/meshview/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/meshview/pkg/mesh"
	"github.com/Faultbox/meshview/pkg/shape"
)

// mixedMesh has one triangle and one quad sharing the edge 1-2.
func mixedMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.FromVerticesAndFaces(
		[][3]float64{
			{0, 0, 0}, // a
			{1, 0, 0}, // b
			{1, 1, 0}, // c
			{0, 1, 0}, // d
			{2, 0, 0}, // e
		},
		[][]int{
			{0, 1, 2, 3},
			{1, 4, 2},
		},
	)
	if err != nil {
		t.Fatalf("FromVerticesAndFaces: %v", err)
	}
	return m
}

func positions(g Geometry) [][3]float32 {
	out := make([][3]float32, g.Count)
	for i := range out {
		out[i] = g.Position(i)
	}
	return out
}

func xyz(m *mesh.Mesh, id int) [3]float32 {
	p := m.VertexXYZ(id)
	return [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
}

func checkInvariant(t *testing.T, name string, g Geometry) {
	t.Helper()
	if len(g.Positions) != 3*g.Count || len(g.Colors) != 3*g.Count {
		t.Errorf("%s: len(positions)=%d len(colors)=%d count=%d",
			name, len(g.Positions), len(g.Colors), g.Count)
	}
}

func TestBuildMeshCounts(t *testing.T) {
	producers := map[string]shape.Producer{
		"box":         shape.Box{Size: [3]float64{1, 1, 1}},
		"plane":       shape.Plane{Size: [2]float64{2, 2}, Divisions: 4},
		"tetrahedron": shape.Tetrahedron{Radius: 1},
		"mixed": shape.ProducerFunc(func() (*mesh.Mesh, error) {
			return mixedMesh(t), nil
		}),
	}

	for name, p := range producers {
		t.Run(name, func(t *testing.T) {
			m, err := p.Mesh()
			if err != nil {
				t.Fatalf("Mesh: %v", err)
			}
			set, err := BuildMesh(m, DefaultColors())
			if err != nil {
				t.Fatalf("BuildMesh: %v", err)
			}

			triangles, err := TriangleCount(m)
			if err != nil {
				t.Fatalf("TriangleCount: %v", err)
			}

			if set.Vertices.Count != m.NumberOfVertices() {
				t.Errorf("vertices count = %d, want %d", set.Vertices.Count, m.NumberOfVertices())
			}
			if set.Edges.Count != 2*m.NumberOfEdges() {
				t.Errorf("edges count = %d, want %d", set.Edges.Count, 2*m.NumberOfEdges())
			}
			if set.Front.Count != 3*triangles {
				t.Errorf("front count = %d, want %d", set.Front.Count, 3*triangles)
			}
			if set.Back.Count != set.Front.Count {
				t.Errorf("back count = %d, want %d", set.Back.Count, set.Front.Count)
			}

			checkInvariant(t, "vertices", set.Vertices)
			checkInvariant(t, "edges", set.Edges)
			checkInvariant(t, "front", set.Front)
			checkInvariant(t, "back", set.Back)
		})
	}
}

func TestTriangleCountMixed(t *testing.T) {
	n, err := TriangleCount(mixedMesh(t))
	if err != nil {
		t.Fatalf("TriangleCount: %v", err)
	}
	if n != 3 {
		t.Errorf("TriangleCount = %d, want 3", n)
	}
}

func TestBuildFacesQuadFanAndMirror(t *testing.T) {
	m, err := mesh.FromVerticesAndFaces(
		[][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		[][]int{{0, 1, 2, 3}},
	)
	if err != nil {
		t.Fatalf("FromVerticesAndFaces: %v", err)
	}
	a, b, c, d := xyz(m, 0), xyz(m, 1), xyz(m, 2), xyz(m, 3)

	front, err := BuildFaces(m, Red, false)
	if err != nil {
		t.Fatalf("BuildFaces(front): %v", err)
	}
	back, err := BuildFaces(m, Blue, true)
	if err != nil {
		t.Fatalf("BuildFaces(back): %v", err)
	}

	wantFront := [][3]float32{a, b, c, a, c, d}
	wantBack := [][3]float32{d, c, b, d, b, a}

	gotFront := positions(front)
	gotBack := positions(back)
	for i := range wantFront {
		if gotFront[i] != wantFront[i] {
			t.Errorf("front[%d] = %v, want %v", i, gotFront[i], wantFront[i])
		}
		if gotBack[i] != wantBack[i] {
			t.Errorf("back[%d] = %v, want %v", i, gotBack[i], wantBack[i])
		}
	}

	for i := 0; i < front.Count; i++ {
		if front.Color(i) != Red {
			t.Errorf("front color[%d] = %v, want red", i, front.Color(i))
		}
		if back.Color(i) != Blue {
			t.Errorf("back color[%d] = %v, want blue", i, back.Color(i))
		}
	}
}

func TestBuildFacesDoesNotMutateMesh(t *testing.T) {
	m := mixedMesh(t)
	if _, err := BuildFaces(m, Red, true); err != nil {
		t.Fatalf("BuildFaces: %v", err)
	}
	if got := m.FaceVertices(0); got[0] != 0 || got[3] != 3 {
		t.Errorf("face loop changed to %v", got)
	}
}

// sharedSource hands out its stored face loops without copying.
type sharedSource struct {
	xyz   [][3]float64
	loops [][]int
}

func (s *sharedSource) Vertices() []int {
	ids := make([]int, len(s.xyz))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

func (s *sharedSource) VertexXYZ(id int) [3]float64 { return s.xyz[id] }

func (s *sharedSource) Edges() [][2]int {
	var edges [][2]int
	for _, l := range s.loops {
		for i := range l {
			edges = append(edges, [2]int{l[i], l[(i+1)%len(l)]})
		}
	}
	return edges
}

func (s *sharedSource) Faces() []int {
	ids := make([]int, len(s.loops))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

func (s *sharedSource) FaceVertices(face int) []int { return s.loops[face] }

func TestBuildMeshLeavesSourceLoopsAlone(t *testing.T) {
	src := &sharedSource{
		xyz:   [][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {2, 0, 0}},
		loops: [][]int{{0, 1, 2, 3}, {1, 4, 2}},
	}

	first, err := BuildMesh(src, DefaultColors())
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}
	second, err := BuildMesh(src, DefaultColors())
	if err != nil {
		t.Fatalf("BuildMesh again: %v", err)
	}

	if got := src.loops[0]; got[0] != 0 || got[1] != 1 || got[2] != 2 || got[3] != 3 {
		t.Errorf("quad loop = %v, want [0 1 2 3]", got)
	}
	if got := src.loops[1]; got[0] != 1 || got[1] != 4 || got[2] != 2 {
		t.Errorf("triangle loop = %v, want [1 4 2]", got)
	}

	a, b := positions(first.Front), positions(second.Front)
	if len(a) != len(b) {
		t.Fatalf("front lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("front[%d] = %v on second build, want %v", i, b[i], a[i])
		}
	}
	c, d := positions(first.Back), positions(second.Back)
	for i := range c {
		if c[i] != d[i] {
			t.Errorf("back[%d] = %v on second build, want %v", i, d[i], c[i])
		}
	}
}

func TestBuildMeshRejectsPentagon(t *testing.T) {
	m, err := mesh.FromVerticesAndFaces(
		[][3]float64{{0, 0, 0}, {1, 0, 0}, {1.5, 1, 0}, {0.5, 1.5, 0}, {-0.5, 1, 0}, {3, 0, 0}},
		[][]int{{0, 1, 5}, {0, 1, 2, 3, 4}},
	)
	if err != nil {
		t.Fatalf("FromVerticesAndFaces: %v", err)
	}

	set, err := BuildMesh(m, DefaultColors())
	if !errors.Is(err, ErrUnsupportedTopology) {
		t.Fatalf("BuildMesh error = %v, want ErrUnsupportedTopology", err)
	}
	if set.Front.Count != 0 || set.Vertices.Count != 0 || set.Edges.Count != 0 || set.Back.Count != 0 {
		t.Errorf("expected empty set on failure, got %+v", set)
	}

	if _, err := TriangleCount(m); !errors.Is(err, ErrUnsupportedTopology) {
		t.Errorf("TriangleCount error = %v, want ErrUnsupportedTopology", err)
	}
}

func TestBuildVerticesAndEdgesOrder(t *testing.T) {
	m := mixedMesh(t)
	colors := DefaultColors()

	verts := BuildVertices(m, colors.Vertices)
	for i, id := range m.Vertices() {
		if verts.Position(i) != xyz(m, id) {
			t.Errorf("vertex %d at %v, want %v", i, verts.Position(i), xyz(m, id))
		}
		if verts.Color(i) != colors.Vertices {
			t.Errorf("vertex color %d = %v", i, verts.Color(i))
		}
	}

	edges := BuildEdges(m, colors.Edges)
	for i, e := range m.Edges() {
		if edges.Position(2*i) != xyz(m, e[0]) || edges.Position(2*i+1) != xyz(m, e[1]) {
			t.Errorf("edge %d = %v-%v, want %v", i, edges.Position(2*i), edges.Position(2*i+1), e)
		}
	}
}

func TestBuildFrame(t *testing.T) {
	f, err := shape.NewFrame(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	points, lines := BuildFrame(f, 2.0, Color{0.1, 0.1, 0.1})

	if points.Count != 1 {
		t.Fatalf("points count = %d, want 1", points.Count)
	}
	if points.Position(0) != [3]float32{0, 0, 0} {
		t.Errorf("point = %v, want origin", points.Position(0))
	}

	want := []struct {
		from, to [3]float32
		color    Color
	}{
		{[3]float32{0, 0, 0}, [3]float32{2, 0, 0}, Red},
		{[3]float32{0, 0, 0}, [3]float32{0, 2, 0}, Green},
		{[3]float32{0, 0, 0}, [3]float32{0, 0, 2}, Blue},
	}
	if lines.Count != 2*len(want) {
		t.Fatalf("lines count = %d, want %d", lines.Count, 2*len(want))
	}
	for i, w := range want {
		if lines.Position(2*i) != w.from || lines.Position(2*i+1) != w.to {
			t.Errorf("segment %d = %v-%v, want %v-%v", i, lines.Position(2*i), lines.Position(2*i+1), w.from, w.to)
		}
		if lines.Color(2*i) != w.color || lines.Color(2*i+1) != w.color {
			t.Errorf("segment %d color = %v/%v, want %v", i, lines.Color(2*i), lines.Color(2*i+1), w.color)
		}
	}
}

func TestUploadSetAndRelease(t *testing.T) {
	dev := gfxtest.NewDefault()
	m := mixedMesh(t)
	set, err := BuildMesh(m, DefaultColors())
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}

	b, err := UploadSet(dev, set)
	if err != nil {
		t.Fatalf("UploadSet: %v", err)
	}
	if len(dev.Buffers) != 8 {
		t.Errorf("live buffers = %d, want 8", len(dev.Buffers))
	}
	if got := dev.Buffers[b.Front.Positions]; len(got) != len(set.Front.Positions) {
		t.Errorf("front positions uploaded %d floats, want %d", len(got), len(set.Front.Positions))
	}
	if b.Edges.Count != set.Edges.Count {
		t.Errorf("edges count = %d, want %d", b.Edges.Count, set.Edges.Count)
	}

	b.Release(dev)
	if len(dev.Buffers) != 0 {
		t.Errorf("live buffers after release = %d, want 0", len(dev.Buffers))
	}
	if b.Front != (Bundle{}) {
		t.Errorf("bundle not zeroed: %+v", b.Front)
	}
	// second release is harmless
	b.Release(dev)
}

// failingDevice fails CreateBuffer after a fixed number of successes.
type failingDevice struct {
	*gfxtest.Recorder
	remaining int
}

func (d *failingDevice) CreateBuffer(data []float32) (gfx.Buffer, error) {
	if d.remaining == 0 {
		return 0, errors.New("out of memory")
	}
	d.remaining--
	return d.Recorder.CreateBuffer(data)
}

func TestUploadSetRollsBack(t *testing.T) {
	for _, successes := range []int{0, 1, 3, 6, 7} {
		dev := &failingDevice{Recorder: gfxtest.NewDefault(), remaining: successes}
		set, err := BuildMesh(mixedMesh(t), DefaultColors())
		if err != nil {
			t.Fatalf("BuildMesh: %v", err)
		}

		if _, err := UploadSet(dev, set); err == nil {
			t.Fatalf("successes=%d: expected error", successes)
		}
		if len(dev.Buffers) != 0 {
			t.Errorf("successes=%d: %d buffers leaked", successes, len(dev.Buffers))
		}
	}
}

func TestUploadRejectsInconsistentGeometry(t *testing.T) {
	dev := gfxtest.NewDefault()
	g := Geometry{Positions: []float32{0, 0, 0}, Colors: nil, Count: 1}
	if _, err := Upload(dev, g); err == nil {
		t.Error("expected error for mismatched colors")
	}
	if len(dev.Buffers) != 0 {
		t.Errorf("buffers created for invalid geometry: %d", len(dev.Buffers))
	}
}
