// Package mask produces subject masks for depth estimation.
//
// The generator does not segment anything: it assumes the subject
// sits in the middle of the frame and returns a soft-edged ellipse.
package mask

import (
	"image"

	"img2mesh/internal/depth"
	"img2mesh/internal/mathutil"
)

// Ellipse returns a w×h mask that is 1 inside an axis-aligned ellipse with
// semi-axes 0.4w and 0.45h and 0 outside, softened by a box blur.
func Ellipse(w, h int) *depth.Field {
	f := depth.NewField(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	rx, ry := 0.4*float64(w), 0.45*float64(h)
	for y := 0; y < h; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			if dx*dx+dy*dy <= 1 {
				f.Values[y*w+x] = 1
			}
		}
	}
	return BoxBlur(f, max(1, min(w, h)/50))
}

// BoxBlur averages every cell over a (2r+1)² window clamped to the field.
// It runs as two separable passes.
func BoxBlur(f *depth.Field, r int) *depth.Field {
	if r <= 0 {
		return f
	}
	w, h := f.Width, f.Height
	tmp := depth.NewField(w, h)
	for y := 0; y < h; y++ {
		row := f.Values[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			lo, hi := max(0, x-r), min(w-1, x+r)
			var sum float32
			for k := lo; k <= hi; k++ {
				sum += row[k]
			}
			tmp.Values[y*w+x] = sum / float32(hi-lo+1)
		}
	}

	out := depth.NewField(w, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			lo, hi := max(0, y-r), min(h-1, y+r)
			var sum float32
			for k := lo; k <= hi; k++ {
				sum += tmp.Values[k*w+x]
			}
			out.Values[y*w+x] = sum / float32(hi-lo+1)
		}
	}
	return out
}

// FromImage reads an externally supplied mask. Luminance is the mask value,
// scaled by alpha so transparent pixels are masked out.
func FromImage(img *image.NRGBA) *depth.Field {
	b := img.Bounds()
	f := depth.NewField(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < f.Width; x++ {
			p := img.Pix[off+x*4 : off+x*4+4 : off+x*4+4]
			l := mathutil.Luminance(float32(p[0])/255, float32(p[1])/255, float32(p[2])/255)
			f.Values[y*f.Width+x] = mathutil.Saturate(l * float32(p[3]) / 255)
		}
	}
	return f
}
