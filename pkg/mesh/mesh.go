// Package mesh provides a minimal polygon mesh with vertex, edge and face queries.
package mesh

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownVertex is returned when a face references a vertex that does not exist.
var ErrUnknownVertex = errors.New("unknown vertex")

// ErrDegenerateFace is returned for faces with fewer than three vertices.
var ErrDegenerateFace = errors.New("face needs at least 3 vertices")

// Source is the read-only view of a mesh consumed by renderers.
// Vertices must return ids in the same order on every call.
type Source interface {
	Vertices() []int
	VertexXYZ(id int) [3]float64
	Edges() [][2]int
	Faces() []int
	FaceVertices(face int) []int
}

// Mesh stores vertex positions and ordered face loops.
// Edges are derived from the face loops in first-seen order.
type Mesh struct {
	xyz   map[int][3]float64
	faces map[int][]int

	nextVertex int
	nextFace   int

	edges    [][2]int
	edgeSeen map[[2]int]struct{}
}

var _ Source = (*Mesh)(nil)

// New creates an empty mesh.
func New() *Mesh {
	return &Mesh{
		xyz:      make(map[int][3]float64),
		faces:    make(map[int][]int),
		edgeSeen: make(map[[2]int]struct{}),
	}
}

// FromVerticesAndFaces builds a mesh from a position list and faces indexing into it.
func FromVerticesAndFaces(vertices [][3]float64, faces [][]int) (*Mesh, error) {
	m := New()
	for _, v := range vertices {
		m.AddVertex(v)
	}
	for i, f := range faces {
		if _, err := m.AddFace(f...); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
	}
	return m, nil
}

// AddVertex adds a vertex and returns its id.
func (m *Mesh) AddVertex(xyz [3]float64) int {
	id := m.nextVertex
	m.nextVertex++
	m.xyz[id] = xyz
	return id
}

// AddFace adds a face with the given vertex loop and returns its id.
func (m *Mesh) AddFace(vertices ...int) (int, error) {
	if len(vertices) < 3 {
		return 0, ErrDegenerateFace
	}
	for _, v := range vertices {
		if _, ok := m.xyz[v]; !ok {
			return 0, fmt.Errorf("%w: %d", ErrUnknownVertex, v)
		}
	}

	loop := make([]int, len(vertices))
	copy(loop, vertices)

	id := m.nextFace
	m.nextFace++
	m.faces[id] = loop

	for i, u := range loop {
		m.addEdge(u, loop[(i+1)%len(loop)])
	}
	return id, nil
}

func (m *Mesh) addEdge(u, v int) {
	key := [2]int{u, v}
	if u > v {
		key = [2]int{v, u}
	}
	if _, ok := m.edgeSeen[key]; ok {
		return
	}
	m.edgeSeen[key] = struct{}{}
	m.edges = append(m.edges, [2]int{u, v})
}

// NumberOfVertices returns the vertex count.
func (m *Mesh) NumberOfVertices() int { return len(m.xyz) }

// NumberOfEdges returns the edge count.
func (m *Mesh) NumberOfEdges() int { return len(m.edges) }

// NumberOfFaces returns the face count.
func (m *Mesh) NumberOfFaces() int { return len(m.faces) }

// Vertices returns vertex ids in ascending order.
func (m *Mesh) Vertices() []int {
	return sortedKeys(m.xyz)
}

// VertexXYZ returns the position of a vertex. Unknown ids yield the origin.
func (m *Mesh) VertexXYZ(id int) [3]float64 {
	return m.xyz[id]
}

// Edges returns each undirected edge once, oriented as first seen.
func (m *Mesh) Edges() [][2]int {
	out := make([][2]int, len(m.edges))
	copy(out, m.edges)
	return out
}

// Faces returns face ids in ascending order.
func (m *Mesh) Faces() []int {
	return sortedKeys(m.faces)
}

// FaceVertices returns a copy of the face's vertex loop.
func (m *Mesh) FaceVertices(face int) []int {
	loop := m.faces[face]
	out := make([]int, len(loop))
	copy(out, loop)
	return out
}

// Bounds returns the axis-aligned bounding box of all vertices.
// An empty mesh returns zero bounds.
func (m *Mesh) Bounds() (min, max [3]float64) {
	first := true
	for _, p := range m.xyz {
		if first {
			min, max = p, p
			first = false
			continue
		}
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
