package buffers

import (
	"fmt"

	"github.com/Faultbox/meshview/internal/engine/gfx"
)

// Bundle is a geometry resident on the GPU.
type Bundle struct {
	Positions gfx.Buffer
	Colors    gfx.Buffer
	Count     int
}

// Upload copies g into two new array buffers.
func Upload(dev gfx.Device, g Geometry) (Bundle, error) {
	if len(g.Positions) != 3*g.Count || len(g.Colors) != 3*g.Count {
		return Bundle{}, fmt.Errorf("geometry has %d positions and %d colors for %d vertices",
			len(g.Positions), len(g.Colors), g.Count)
	}

	positions, err := dev.CreateBuffer(g.Positions)
	if err != nil {
		return Bundle{}, fmt.Errorf("positions: %w", err)
	}
	colors, err := dev.CreateBuffer(g.Colors)
	if err != nil {
		dev.DeleteBuffer(positions)
		return Bundle{}, fmt.Errorf("colors: %w", err)
	}
	return Bundle{Positions: positions, Colors: colors, Count: g.Count}, nil
}

// Release deletes the buffers and zeroes the bundle. Safe to call twice.
func (b *Bundle) Release(dev gfx.Device) {
	if b.Positions != 0 {
		dev.DeleteBuffer(b.Positions)
	}
	if b.Colors != 0 {
		dev.DeleteBuffer(b.Colors)
	}
	*b = Bundle{}
}

// Bundles is the uploaded form of a Set.
type Bundles struct {
	Vertices Bundle
	Edges    Bundle
	Front    Bundle
	Back     Bundle
}

// UploadSet uploads all four geometries. On failure nothing stays allocated.
func UploadSet(dev gfx.Device, s Set) (Bundles, error) {
	var out Bundles
	steps := []struct {
		name string
		geom Geometry
		dst  *Bundle
	}{
		{"vertices", s.Vertices, &out.Vertices},
		{"edges", s.Edges, &out.Edges},
		{"front", s.Front, &out.Front},
		{"back", s.Back, &out.Back},
	}
	for _, st := range steps {
		b, err := Upload(dev, st.geom)
		if err != nil {
			out.Release(dev)
			return Bundles{}, fmt.Errorf("%s: %w", st.name, err)
		}
		*st.dst = b
	}
	return out, nil
}

// Release deletes every buffer in the set.
func (b *Bundles) Release(dev gfx.Device) {
	b.Vertices.Release(dev)
	b.Edges.Release(dev)
	b.Front.Release(dev)
	b.Back.Release(dev)
}
