package buffers

// BuildBounds emits the 12 edges of an axis-aligned box as line segments,
// grown by padding on every side.
func BuildBounds(min, max [3]float64, padding float64, color Color) Geometry {
	x0, y0, z0 := min[0]-padding, min[1]-padding, min[2]-padding
	x1, y1, z1 := max[0]+padding, max[1]+padding, max[2]+padding

	segments := [12][2][3]float64{
		// y = min
		{{x0, y0, z0}, {x1, y0, z0}},
		{{x1, y0, z0}, {x1, y0, z1}},
		{{x1, y0, z1}, {x0, y0, z1}},
		{{x0, y0, z1}, {x0, y0, z0}},
		// y = max
		{{x0, y1, z0}, {x1, y1, z0}},
		{{x1, y1, z0}, {x1, y1, z1}},
		{{x1, y1, z1}, {x0, y1, z1}},
		{{x0, y1, z1}, {x0, y1, z0}},
		// parallel to y
		{{x0, y0, z0}, {x0, y1, z0}},
		{{x1, y0, z0}, {x1, y1, z0}},
		{{x1, y0, z1}, {x1, y1, z1}},
		{{x0, y0, z1}, {x0, y1, z1}},
	}

	g := newGeometry(24)
	for _, s := range segments {
		g.push(s[0], color)
		g.push(s[1], color)
	}
	return g
}

// BoundsVertexCount is the vertex count of BuildBounds output (12 edges x 2).
const BoundsVertexCount = 24
