package depth

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture is a W×H color image in [0,1] RGBA, row-major.
type Texture struct {
	Width  int
	Height int
	Texels []mgl32.Vec4
}

// Upload converts img into texels, which must hold W*H entries.
func Upload(img *image.NRGBA, texels []mgl32.Vec4) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		row := texels[y*w : (y+1)*w]
		for x := range row {
			p := img.Pix[off+x*4 : off+x*4+4 : off+x*4+4]
			row[x] = mgl32.Vec4{
				float32(p[0]) / 255,
				float32(p[1]) / 255,
				float32(p[2]) / 255,
				float32(p[3]) / 255,
			}
		}
	}
	return &Texture{Width: w, Height: h, Texels: texels}
}

// NewTexture allocates and fills a texture on the heap.
func NewTexture(img *image.NRGBA) *Texture {
	b := img.Bounds()
	return Upload(img, make([]mgl32.Vec4, b.Dx()*b.Dy()))
}

// Load returns the texel at (x, y) with coordinates clamped to the edge.
func (t *Texture) Load(x, y int) mgl32.Vec4 {
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return t.Texels[y*t.Width+x]
}
