// Package depth estimates a per-pixel depth field from local image cues.
//
// The estimator is a pure function of a pixel and its clamped
// 8-neighbourhood, so it runs as one kernel invocation per pixel. All
// arithmetic is float32 to match a shader implementation.
package depth

import (
	"img2mesh/internal/compute"
	"img2mesh/internal/mathutil"
)

// Params tunes the estimator.
type Params struct {
	Scale          float32 // edge-strength multiplier
	NoiseAmplitude float32 // 0 disables the hash noise
	Gamma          float32 // contrast exponent
}

// DefaultParams returns the standard estimator settings.
func DefaultParams() Params {
	return Params{Scale: 3.0, NoiseAmplitude: 0.05, Gamma: 1.1}
}

// Noise is a deterministic hash of the pixel coordinate in [0,1).
func Noise(x, y int) float32 {
	dot := float32(x)*12.9898 + float32(y)*78.233
	return mathutil.Fract32(mathutil.Sin32(dot) * 43758.5453)
}

var neighbours = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Estimate returns the depth of pixel (x, y).
func Estimate(tex *Texture, x, y int, p Params) float32 {
	c := tex.Load(x, y)
	lc := mathutil.Luminance(c[0], c[1], c[2])

	var sum float32
	for _, o := range neighbours {
		n := tex.Load(x+o[0], y+o[1])
		d := mathutil.Luminance(n[0], n[1], n[2]) - lc
		if d < 0 {
			d = -d
		}
		sum += d
	}
	variance := sum / 8

	colorDepth := 0.6*c[0] + 0.3*c[1] + 0.1*c[2]

	du := float32(x)/float32(tex.Width) - 0.5
	dv := float32(y)/float32(tex.Height) - 0.5
	positionDepth := 1 - mathutil.Sqrt32(du*du+dv*dv)

	edge := variance * 3.0
	depth := 0.5*(1-mathutil.Saturate(edge*p.Scale)) + 0.3*colorDepth + 0.2*positionDepth

	if p.NoiseAmplitude != 0 {
		depth += p.NoiseAmplitude * Noise(x, y)
	}
	depth = mathutil.Saturate(depth)

	return mathutil.Pow32(depth, p.Gamma)
}

// Kernel returns the 2D estimator kernel writing into out. When mask is
// non-nil the depth is scaled by it, pushing masked-out pixels to the far
// plane.
func Kernel(tex *Texture, mask, out *Field, p Params) compute.Kernel {
	w, h := tex.Width, tex.Height
	return func(id compute.ID) {
		if id.X >= w || id.Y >= h {
			return
		}
		i := id.Y*w + id.X
		d := Estimate(tex, id.X, id.Y, p)
		if mask != nil {
			d *= mathutil.Saturate(mask.Values[i])
		}
		out.Values[i] = d
	}
}

// EstimateSerial is the fallback estimator: inverted luminance, computed
// sequentially. It does not reproduce Estimate.
func EstimateSerial(tex *Texture, mask, out *Field) {
	for i, c := range tex.Texels {
		d := 1 - mathutil.Saturate(mathutil.Luminance(c[0], c[1], c[2]))
		if mask != nil {
			d *= mathutil.Saturate(mask.Values[i])
		}
		out.Values[i] = d
	}
}
