package meshio

import (
	"fmt"
	"io"

	"github.com/unixpickle/model3d/model3d"

	"img2mesh/internal/mesh"
)

// Triangles converts b into model3d triangles, preserving winding.
func Triangles(b *mesh.Buffers) []*model3d.Triangle {
	coord := func(i uint32) model3d.Coord3D {
		p := b.Positions[i]
		return model3d.XYZ(float64(p[0]), float64(p[1]), float64(p[2]))
	}
	tris := make([]*model3d.Triangle, b.TriangleCount())
	for t := range tris {
		idx := b.Triangle(t)
		tris[t] = &model3d.Triangle{coord(idx[0]), coord(idx[1]), coord(idx[2])}
	}
	return tris
}

// WriteSTL writes b as binary STL. UVs and colors are dropped.
func WriteSTL(w io.Writer, b *mesh.Buffers) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := model3d.WriteSTL(w, Triangles(b)); err != nil {
		return fmt.Errorf("meshio: write stl: %w", err)
	}
	return nil
}
