package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is a projected vertex: X/Y in pixels, Z larger-is-closer, and a
// linear [0,1] color.
type Vertex struct {
	Pos   mgl64.Vec3
	Color mgl64.Vec3
}

// RasterizeTriangle fills one triangle into fb with a z-test, Gouraud
// interpolated vertex colors and a single flat shade for the face.
//
// Both windings are drawn; preview meshes are open surfaces.
func RasterizeTriangle(fb *FrameBuffer, v [3]Vertex, shade float64, lc *LightConfig) {
	x0, y0, z0 := v[0].Pos[0], v[0].Pos[1], v[0].Pos[2]
	x1, y1, z1 := v[1].Pos[0], v[1].Pos[1], v[1].Pos[2]
	x2, y2, z2 := v[2].Pos[0], v[2].Pos[1], v[2].Pos[2]

	minX := max(int(math.Floor(min(x0, x1, x2))), 0)
	maxX := min(int(math.Ceil(max(x0, x1, x2))), fb.Width-1)
	minY := max(int(math.Floor(min(y0, y1, y2))), 0)
	maxY := min(int(math.Ceil(max(y0, y1, y2))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if math.Abs(det) < 1e-12 {
		return
	}
	invDet := 1.0 / det
	dy12, dx21 := y1-y2, x2-x1
	dy20, dx02 := y2-y0, x0-x2

	scale := shade * lc.Exposure

	for sy := minY; sy <= maxY; sy++ {
		// Sample at pixel centers.
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			c := v[0].Color.Mul(w0).Add(v[1].Color.Mul(w1)).Add(v[2].Color.Mul(w2))
			px := zIdx * 4
			for k := 0; k < 3; k++ {
				lin := srgbToLinear[clamp255(c[k]*255)] * scale
				fb.Color[px+k] = clamp255(math.Pow(ACESTonemap(lin), lc.InvGamma) * 255)
			}
			fb.Color[px+3] = 255
		}
	}
}

// FaceNormal returns the unit normal of a triangle in view space, or false
// for degenerate triangles.
func FaceNormal(a, b, c mgl64.Vec3) (mgl64.Vec3, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}, false
	}
	return n.Mul(1 / l), true
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
