package convert

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"img2mesh/internal/compute"
	"img2mesh/internal/depth"
	"img2mesh/internal/mesh"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}
	return img
}

func TestConvertParallel(t *testing.T) {
	c, err := New(WithWorkers(4), WithStrict(true))
	require.NoError(t, err)
	require.Equal(t, ModeParallel, c.Mode())
	require.NotNil(t, c.Device())

	img := testImage(37, 21)
	res, err := c.Convert(img, nil)
	require.NoError(t, err)

	assert.Equal(t, ModeParallel, res.Mode)
	assert.NotEmpty(t, res.RunID)
	require.NoError(t, res.Mesh.Validate())
	assert.False(t, res.Mesh.Textured())
	assert.Equal(t, mesh.MetricsFor(37, 21, false), res.Metrics)
	assert.Equal(t, 2, c.Device().Dispatches())

	tex := depth.NewTexture(img)
	for _, p := range [][2]int{{0, 0}, {36, 20}, {18, 10}, {5, 17}} {
		want := depth.Estimate(tex, p[0], p[1], depth.DefaultParams())
		assert.Equal(t, want, res.Depth.At(p[0], p[1]))
		pos := res.Mesh.Positions[p[1]*37+p[0]]
		assert.InDelta(t, want*2-1, pos[2], 1e-6)
	}
}

func TestConvertTexturedWithMask(t *testing.T) {
	c, err := New(WithTextured(true))
	require.NoError(t, err)

	img := testImage(8, 8)
	mask := depth.NewField(8, 8)
	mask.Values[3*8+3] = 1

	res, err := c.Convert(img, mask)
	require.NoError(t, err)
	require.True(t, res.Mesh.Textured())
	assert.InDelta(t, float32(img.Pix[4*9])/255, res.Mesh.Colors[9][0], 1e-6)

	for i, v := range res.Depth.Values {
		if i == 3*8+3 {
			assert.Greater(t, v, float32(0))
		} else {
			assert.Equal(t, float32(0), v)
		}
	}

	_, err = c.Convert(img, depth.NewField(4, 4))
	assert.Error(t, err)
}

func TestConvertRejectsDegenerate(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	for _, size := range [][2]int{{1, 9}, {9, 1}, {1, 1}} {
		_, err := c.Convert(testImage(size[0], size[1]), nil)
		assert.True(t, errors.Is(err, mesh.ErrDegenerate), "%v", size)
	}
}

func TestSerialFallback(t *testing.T) {
	c, err := New(WithBackend(compute.BackendNone))
	require.NoError(t, err)
	require.Equal(t, ModeSerial, c.Mode())
	assert.Nil(t, c.Device())

	res, err := c.Convert(testImage(9, 6), nil)
	require.NoError(t, err)
	assert.Equal(t, ModeSerial, res.Mode)
	require.NoError(t, res.Mesh.Validate())

	// Depth is inverted luminance; the mesh follows the synthetic surface.
	tex := depth.NewTexture(testImage(9, 6))
	want := depth.NewField(9, 6)
	depth.EstimateSerial(tex, nil, want)
	assert.Equal(t, want.Values, res.Depth.Values)

	ref := mesh.NewBuffers(9, 6, false)
	mesh.BuildSerial(ref, mesh.SyntheticField(9, 6), nil)
	assert.Equal(t, ref.Positions, res.Mesh.Positions)
	assert.Equal(t, ref.Indices, res.Mesh.Indices)
}

func TestFallbackMatchesParallelTopology(t *testing.T) {
	serial, err := New(WithBackend(compute.BackendNone))
	require.NoError(t, err)
	parallel, err := New()
	require.NoError(t, err)

	img := testImage(20, 11)
	sres, err := serial.Convert(img, nil)
	require.NoError(t, err)

	// Feed the parallel mesh pipeline the same synthetic depth.
	buf, err := parallel.build(mesh.SyntheticField(20, 11), nil)
	require.NoError(t, err)

	assert.Equal(t, sres.Mesh.Positions, buf.Positions)
	assert.Equal(t, sres.Mesh.UVs, buf.UVs)
	assert.Equal(t, sres.Mesh.Indices, buf.Indices)
}

func TestSetupFailuresDegradeOrFail(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
		is   error
	}{
		{"no device", []Option{WithBackend("quantum")}, compute.ErrNoDevice},
		{"missing entry point", []Option{withEntryPoints(EntryDepth)}, compute.ErrUnknownEntryPoint},
		{"workgroup too large", []Option{WithLimits(compute.Limits{
			MaxBufferSize:              1 << 20,
			MaxTextureDimension2D:      64,
			MaxInvocationsPerWorkgroup: 64,
		})}, compute.ErrWorkgroupTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.opts...)
			require.NoError(t, err)
			assert.Equal(t, ModeSerial, c.Mode())

			_, err = New(append(tc.opts, WithStrict(true))...)
			assert.True(t, errors.Is(err, tc.is), "got %v", err)
		})
	}
}

func TestAllocationFailureIsPerCall(t *testing.T) {
	c, err := New(WithStrict(true), WithLimits(compute.Limits{
		MaxBufferSize:              4096,
		MaxTextureDimension2D:      64,
		MaxInvocationsPerWorkgroup: 256,
	}))
	require.NoError(t, err)

	_, err = c.Convert(testImage(100, 4), nil)
	var allocErr *compute.AllocError
	require.True(t, errors.As(err, &allocErr))
	assert.Contains(t, allocErr.Resource, "color texture")

	// 16x16 fits every buffer except the 5400-byte index buffer.
	_, err = c.Convert(testImage(16, 16), nil)
	require.True(t, errors.As(err, &allocErr))
	assert.Equal(t, "index buffer", allocErr.Resource)

	res, err := c.Convert(testImage(8, 8), nil)
	require.NoError(t, err)
	assert.NoError(t, res.Mesh.Validate())
}

func TestSharedDevice(t *testing.T) {
	dev, err := compute.Open(compute.Options{Workers: 2})
	require.NoError(t, err)
	a, err := New(WithDevice(dev))
	require.NoError(t, err)
	b, err := New(WithDevice(dev), WithTextured(true))
	require.NoError(t, err)

	_, err = a.Convert(testImage(5, 5), nil)
	require.NoError(t, err)
	_, err = b.Convert(testImage(5, 5), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, dev.Dispatches())
	assert.Equal(t, "serial", ModeSerial.String())
}
