package postprocess

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// headroom scales premultiplied values down before filtering so CatmullRom
// overshoot is not clipped; clipping alpha alone would shift colors.
const headroom = 0.75

// Resize scales img to w×h with premultiplied-alpha-aware CatmullRom
// filtering at 16 bits per channel.
func Resize(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}

	// Premultiply alpha
	premul := image.NewRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			a := float64(c.A) / 255 * headroom
			premul.SetRGBA64(x, y, color.RGBA64{
				R: uint16(float64(c.R)*257*a + 0.5),
				G: uint16(float64(c.G)*257*a + 0.5),
				B: uint16(float64(c.B)*257*a + 0.5),
				A: uint16(0xffff*a + 0.5),
			})
		}
	}

	dst := image.NewRGBA64(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	// Unpremultiply alpha
	result := image.NewNRGBA(dst.Bounds())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := dst.RGBA64At(x, y)
			a := float64(c.A)
			if a < 257*headroom {
				continue
			}
			inv := 255.0 / a
			result.SetNRGBA(x, y, color.NRGBA{
				R: clamp8(float64(c.R) * inv),
				G: clamp8(float64(c.G) * inv),
				B: clamp8(float64(c.B) * inv),
				A: clamp8(a / headroom / 257),
			})
		}
	}

	return result
}

// Downsample shrinks a supersampled render by factor on both axes.
func Downsample(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	return Resize(img, max(1, b.Dx()/factor), max(1, b.Dy()/factor))
}

// Fit shrinks img so neither side exceeds maxDim, keeping the aspect ratio.
// Images already within bounds, or maxDim <= 0, are returned unchanged. A
// short side of at least two pixels keeps at least two.
func Fit(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	if w >= h {
		return Resize(img, maxDim, shortSide(h, maxDim, w))
	}
	return Resize(img, shortSide(w, maxDim, h), maxDim)
}

// shortSide scales side by num/den. A side of two or more pixels never
// collapses to one, which would leave no triangles to build.
func shortSide(side, num, den int) int {
	floor := 1
	if side >= 2 {
		floor = 2
	}
	return max(floor, side*num/den)
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
