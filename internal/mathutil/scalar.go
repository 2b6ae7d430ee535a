package mathutil

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Saturate clamps v to [0, 1].
func Saturate[T constraints.Float](v T) T {
	return Clamp(v, 0, 1)
}

// Fract32 returns the fractional part of v, always in [0, 1) like the shader builtin.
func Fract32(v float32) float32 {
	return v - float32(math.Floor(float64(v)))
}

// Sin32 evaluates sine in float64 and rounds back to float32.
func Sin32(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

// Pow32 raises a non-negative base to p in float32 precision.
func Pow32(base, p float32) float32 {
	return float32(math.Pow(float64(base), float64(p)))
}

// Luminance returns Rec.601 luma for linear [0,1] channels.
func Luminance(r, g, b float32) float32 {
	return 0.299*r + 0.587*g + 0.114*b
}

// ToByte scales a [0,1] value to a rounded byte.
func ToByte(v float64) uint8 {
	return uint8(Clamp(v, 0, 1)*255 + 0.5)
}

// Sqrt32 is math.Sqrt in float32 precision.
func Sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
