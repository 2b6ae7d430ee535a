package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestFit(t *testing.T) {
	img := solid(400, 100, color.NRGBA{200, 100, 50, 255})

	out := Fit(img, 200)
	assert.Equal(t, image.Rect(0, 0, 200, 50), out.Bounds())
	assert.Equal(t, color.NRGBA{200, 100, 50, 255}, out.NRGBAAt(100, 25))

	tall := Fit(solid(10, 40, color.NRGBA{A: 255}), 20)
	assert.Equal(t, image.Rect(0, 0, 5, 20), tall.Bounds())

	assert.Same(t, img, Fit(img, 0))
	assert.Same(t, img, Fit(img, 400))
}

func TestDownsampleKeepsColorUnderTransparency(t *testing.T) {
	img := solid(8, 8, color.NRGBA{10, 220, 30, 255})
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{})
		}
	}
	out := Downsample(img, 2)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())

	// Opaque side keeps its color without darkening or overshoot, including
	// the column next to the alpha edge.
	for _, x := range []int{2, 3} {
		c := out.NRGBAAt(x, 2)
		assert.InDelta(t, 220, int(c.G), 1, "x=%d", x)
		assert.InDelta(t, 10, int(c.R), 1, "x=%d", x)
	}
	assert.InDelta(t, 255, int(out.NRGBAAt(3, 2).A), 1)
	assert.Equal(t, uint8(0), out.NRGBAAt(0, 2).A)

	assert.Same(t, img, Downsample(img, 1))
}

func TestFitKeepsTwoPixelShortSide(t *testing.T) {
	wide := Fit(solid(3000, 2, color.NRGBA{90, 90, 90, 255}), 1024)
	assert.Equal(t, image.Rect(0, 0, 1024, 2), wide.Bounds())

	tall := Fit(solid(3, 900, color.NRGBA{A: 255}), 300)
	assert.Equal(t, image.Rect(0, 0, 2, 300), tall.Bounds())

	line := Fit(solid(3000, 1, color.NRGBA{A: 255}), 1024)
	assert.Equal(t, image.Rect(0, 0, 1024, 1), line.Bounds())
}
