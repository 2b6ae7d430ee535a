package depth

import (
	"fmt"
	"image"

	"img2mesh/internal/mathutil"
)

// Field is a W×H grid of depth values in [0,1], row-major. Higher is closer.
type Field struct {
	Width  int
	Height int
	Values []float32
}

// NewField allocates a zeroed field.
func NewField(w, h int) *Field {
	return &Field{Width: w, Height: h, Values: make([]float32, w*h)}
}

// At returns the value at (x, y).
func (f *Field) At(x, y int) float32 {
	return f.Values[y*f.Width+x]
}

// Image renders the field as gray replicated to RGB, scaled to [0,255].
func (f *Field) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, v := range f.Values {
		g := mathutil.ToByte(float64(v))
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2], p[3] = g, g, g, 255
	}
	return img
}

// CheckSize reports whether f matches w×h.
func (f *Field) CheckSize(w, h int) error {
	if f.Width != w || f.Height != h {
		return fmt.Errorf("depth: field is %dx%d, want %dx%d", f.Width, f.Height, w, h)
	}
	return nil
}
