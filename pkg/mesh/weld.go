package mesh

import "math"

// Weld builds a mesh from a triangle soup, merging vertices that fall into the
// same tolerance-sized grid cell. Triangles that collapse after merging are dropped.
func Weld(triangles [][3][3]float64, tolerance float64) *Mesh {
	if tolerance <= 0 {
		tolerance = 1e-9
	}

	m := New()
	index := make(map[[3]int64]int)

	vertexID := func(p [3]float64) int {
		key := [3]int64{
			int64(math.Round(p[0] / tolerance)),
			int64(math.Round(p[1] / tolerance)),
			int64(math.Round(p[2] / tolerance)),
		}
		if id, ok := index[key]; ok {
			return id
		}
		id := m.AddVertex(p)
		index[key] = id
		return id
	}

	for _, tri := range triangles {
		a := vertexID(tri[0])
		b := vertexID(tri[1])
		c := vertexID(tri[2])
		if a == b || b == c || a == c {
			continue
		}
		// ids come from vertexID, so AddFace cannot fail here
		_, _ = m.AddFace(a, b, c)
	}
	return m
}
