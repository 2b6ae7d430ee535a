package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"img2mesh/internal/compute"
	"img2mesh/internal/depth"
)

// Emit writes the vertex of pixel (x, y) and, for interior pixels, its two
// triangles. tex may be nil for untextured buffers.
func Emit(b *Buffers, field *depth.Field, tex *depth.Texture, x, y int) {
	w, h := b.Width, b.Height
	i := y*w + x

	u := float32(x) / float32(w-1)
	v := float32(y) / float32(h-1)
	b.Positions[i] = mgl32.Vec3{
		u*2 - 1,
		(1-v)*2 - 1,
		field.Values[i]*2 - 1,
	}
	b.UVs[i] = mgl32.Vec2{u, v}
	if b.Colors != nil && tex != nil {
		b.Colors[i] = tex.Texels[i].Vec3()
	}

	if x >= w-1 || y >= h-1 {
		return
	}
	i0 := uint32(i)
	i1 := i0 + 1
	i2 := i0 + uint32(w)
	i3 := i2 + 1
	off := 6 * (y*(w-1) + x)
	tri := b.Indices[off : off+6 : off+6]
	tri[0], tri[1], tri[2] = i0, i2, i1
	tri[3], tri[4], tri[5] = i1, i2, i3
}

// Kernel returns the 1D mesh kernel over the linear pixel index.
func Kernel(b *Buffers, field *depth.Field, tex *depth.Texture) compute.Kernel {
	w, n := b.Width, b.Width*b.Height
	return func(id compute.ID) {
		if id.X >= n {
			return
		}
		Emit(b, field, tex, id.X%w, id.X/w)
	}
}

// BuildSerial fills b sequentially from field.
func BuildSerial(b *Buffers, field *depth.Field, tex *depth.Texture) {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			Emit(b, field, tex, x, y)
		}
	}
}

// SyntheticField samples the analytic fallback surface
// z = 0.5 + 0.3*sin(6π·xn)*cos(6π·yn) on a w×h grid.
func SyntheticField(w, h int) *depth.Field {
	f := depth.NewField(w, h)
	for y := 0; y < h; y++ {
		yn := float64(y) / float64(h-1)
		for x := 0; x < w; x++ {
			xn := float64(x) / float64(w-1)
			f.Values[y*w+x] = float32(0.5 + 0.3*math.Sin(6*math.Pi*xn)*math.Cos(6*math.Pi*yn))
		}
	}
	return f
}
