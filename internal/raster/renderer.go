// Package raster renders mesh buffers to a shaded preview image.
package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"

	"img2mesh/internal/mesh"
	"img2mesh/internal/postprocess"
)

// Options configures RenderMesh.
type Options struct {
	Size        int     // output width and height in pixels
	Supersample int     // render at Size*Supersample, then downsample
	Yaw         float64 // degrees around +Y
	Pitch       float64 // degrees around +X
	Margin      int     // border in output pixels
}

// DefaultOptions returns a three-quarter view.
func DefaultOptions() Options {
	return Options{Size: 256, Supersample: 2, Yaw: -25, Pitch: 15, Margin: 8}
}

// defaultColor is used for untextured meshes.
var defaultColor = mgl64.Vec3{0.63, 0.63, 0.67}

// RenderMesh draws b from the configured viewpoint with an orthographic
// camera looking down -Z.
func RenderMesh(b *mesh.Buffers, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	renderSize := opts.Size * opts.Supersample
	margin := float64(opts.Margin * opts.Supersample)

	rot := mgl64.Rotate3DX(mgl64.DegToRad(opts.Pitch)).Mul3(mgl64.Rotate3DY(mgl64.DegToRad(opts.Yaw)))

	// The unit cube rotated arbitrarily stays inside a sphere of radius sqrt(3).
	half := (float64(renderSize) - 2*margin) / 2
	scale := half / 1.7320508075688772
	center := float64(renderSize) / 2

	view := make([]mgl64.Vec3, len(b.Positions))
	screen := make([]mgl64.Vec3, len(b.Positions))
	for i, p := range b.Positions {
		v := rot.Mul3x1(mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
		view[i] = v
		// Flip Y: image rows grow downward.
		screen[i] = mgl64.Vec3{center + v[0]*scale, center - v[1]*scale, v[2]}
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	for t := 0; t < b.TriangleCount(); t++ {
		idx := b.Triangle(t)
		n, ok := FaceNormal(view[idx[0]], view[idx[1]], view[idx[2]])
		if !ok {
			continue
		}
		var tri [3]Vertex
		for k, i := range idx {
			tri[k].Pos = screen[i]
			tri[k].Color = defaultColor
			if b.Textured() {
				c := b.Colors[i]
				tri[k].Color = mgl64.Vec3{float64(c[0]), float64(c[1]), float64(c[2])}
			}
		}
		RasterizeTriangle(fb, tri, lc.ComputeShade(n), &lc)
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	copy(img.Pix, fb.Color)

	return postprocess.Downsample(img, opts.Supersample)
}
