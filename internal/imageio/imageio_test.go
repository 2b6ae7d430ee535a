package imageio

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 20), uint8(y * 30), 77, 255})
		}
	}
	return img
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := gradient(6, 4)

	for _, name := range []string{"a.png", "sub/b.webp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, src))

		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, src.Bounds(), got.Bounds(), name)
		assert.Equal(t, src.Pix, got.Pix, name)
	}

	assert.Error(t, Save(filepath.Join(dir, "c.jpg"), src))
	_, err := Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func writeWith(t *testing.T, path string, img image.Image, enc func(io.Writer, image.Image) error) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, enc(f, img))
	require.NoError(t, f.Close())
}

func TestLoadEveryInputFormat(t *testing.T) {
	dir := t.TempDir()
	src := gradient(6, 4)

	cases := []struct {
		name  string
		enc   func(io.Writer, image.Image) error
		exact bool
	}{
		{"a.png", png.Encode, true},
		{"a.tga", tga.Encode, true},
		{"a.jpg", func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, &jpeg.Options{Quality: 95}) }, false},
		{"a.gif", func(w io.Writer, m image.Image) error { return gif.Encode(w, m, nil) }, false},
		{"a.bmp", bmp.Encode, false},
		{"a.tiff", func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			writeWith(t, path, src, tc.enc)

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), got.Bounds())
			if tc.exact {
				assert.Equal(t, src.Pix, got.Pix)
			}
			c := got.NRGBAAt(2, 1)
			assert.Equal(t, uint8(255), c.A)
		})
	}

	// A PNG named .tga is read by the TGA codec and rejected.
	writeWith(t, filepath.Join(dir, "wrong.tga"), src, png.Encode)
	_, err := Load(filepath.Join(dir, "wrong.tga"))
	assert.Error(t, err)

	writeWith(t, filepath.Join(dir, "a.xyz"), src, png.Encode)
	_, err = Load(filepath.Join(dir, "a.xyz"))
	assert.Error(t, err)
}

func TestToNRGBA(t *testing.T) {
	src := gradient(4, 4)
	assert.Same(t, src, ToNRGBA(src))

	sub := src.SubImage(image.Rect(1, 1, 3, 4)).(*image.NRGBA)
	out := ToNRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 3), out.Bounds())
	assert.Equal(t, src.NRGBAAt(1, 1), out.NRGBAAt(0, 0))

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 90})
	assert.Equal(t, color.NRGBA{90, 90, 90, 255}, ToNRGBA(gray).NRGBAAt(1, 1))
}

func TestSupportedExt(t *testing.T) {
	assert.True(t, SupportedExt("x.TGA"))
	assert.True(t, SupportedExt("x.webp"))
	assert.False(t, SupportedExt("x.obj"))
}
