package mesh

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"img2mesh/internal/compute"
	"img2mesh/internal/depth"
)

func buildParallel(t *testing.T, w, h int, field *depth.Field, tex *depth.Texture) *Buffers {
	t.Helper()
	dev, err := compute.Open(compute.Options{Workers: 3})
	require.NoError(t, err)
	prog, err := dev.Compile("mesh", "build_mesh")
	require.NoError(t, err)
	p, err := prog.Pipeline("build_mesh", compute.Linear(256))
	require.NoError(t, err)

	b := NewBuffers(w, h, tex != nil)
	require.NoError(t, p.Dispatch(compute.Linear(w*h), Kernel(b, field, tex)))
	return b
}

func TestBufferInvariants(t *testing.T) {
	sizes := [][2]int{{2, 2}, {2, 7}, {9, 2}, {16, 16}, {17, 31}, {300, 3}}
	for _, s := range sizes {
		w, h := s[0], s[1]
		b := buildParallel(t, w, h, SyntheticField(w, h), nil)

		require.NoError(t, b.Validate(), "%dx%d", w, h)
		assert.Len(t, b.Positions, w*h)
		assert.Len(t, b.UVs, w*h)
		assert.Len(t, b.Indices, 6*(w-1)*(h-1))
		assert.Nil(t, b.Colors)
		for _, p := range b.Positions {
			for k := 0; k < 3; k++ {
				require.GreaterOrEqual(t, p[k], float32(-1))
				require.LessOrEqual(t, p[k], float32(1))
			}
		}
		for _, uv := range b.UVs {
			for k := 0; k < 2; k++ {
				require.GreaterOrEqual(t, uv[k], float32(0))
				require.LessOrEqual(t, uv[k], float32(1))
			}
		}
	}
}

func TestWinding(t *testing.T) {
	const w, h = 5, 4
	b := buildParallel(t, w, h, SyntheticField(w, h), nil)

	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			i0 := uint32(y*w + x)
			i1, i2 := i0+1, i0+w
			i3 := i2 + 1
			q := 2 * (y*(w-1) + x)
			assert.Equal(t, [3]uint32{i0, i2, i1}, b.Triangle(q), "quad (%d,%d)", x, y)
			assert.Equal(t, [3]uint32{i1, i2, i3}, b.Triangle(q+1), "quad (%d,%d)", x, y)
		}
	}
}

func TestSmallestGrid(t *testing.T) {
	field := &depth.Field{Width: 2, Height: 2, Values: []float32{0, 1, 0.5, 0.25}}
	b := NewBuffers(2, 2, false)
	BuildSerial(b, field, nil)

	assert.Equal(t, 2, b.TriangleCount())
	assert.Equal(t, []uint32{0, 2, 1, 1, 2, 3}, b.Indices)
	assert.Equal(t, []mgl32.Vec3{
		{-1, 1, -1},
		{1, 1, 1},
		{-1, -1, 0},
		{1, -1, -0.5},
	}, b.Positions)
	assert.Equal(t, []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, b.UVs)
}

func TestSerialParallelParity(t *testing.T) {
	for _, s := range [][2]int{{2, 2}, {13, 9}, {64, 40}} {
		w, h := s[0], s[1]
		field := SyntheticField(w, h)

		serial := NewBuffers(w, h, false)
		BuildSerial(serial, field, nil)
		parallel := buildParallel(t, w, h, field, nil)

		assert.Equal(t, serial.Positions, parallel.Positions, "%dx%d", w, h)
		assert.Equal(t, serial.UVs, parallel.UVs, "%dx%d", w, h)
		assert.Equal(t, serial.Indices, parallel.Indices, "%dx%d", w, h)
	}
}

func TestVertexColors(t *testing.T) {
	tex := &depth.Texture{Width: 2, Height: 2, Texels: []mgl32.Vec4{
		{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}, {0.5, 0.5, 0.5, 0},
	}}
	b := buildParallel(t, 2, 2, depth.NewField(2, 2), tex)
	require.True(t, b.Textured())
	assert.Equal(t, []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0.5, 0.5, 0.5}}, b.Colors)
}

func TestSyntheticField(t *testing.T) {
	f := SyntheticField(13, 13)
	assert.InDelta(t, 0.5, f.At(0, 0), 1e-6)
	assert.InDelta(t, 0.8, f.At(1, 0), 1e-6)
	for _, v := range f.Values {
		assert.GreaterOrEqual(t, v, float32(0.2)-1e-6)
		assert.LessOrEqual(t, v, float32(0.8)+1e-6)
	}
}

func TestSizeChecksAndMetrics(t *testing.T) {
	assert.True(t, errors.Is(CheckSize(1, 5), ErrDegenerate))
	assert.True(t, errors.Is(CheckSize(5, 1), ErrDegenerate))
	assert.NoError(t, CheckSize(2, 2))
	assert.Equal(t, 0, IndexCount(1, 9))

	m := MetricsFor(4, 3, false)
	assert.Equal(t, 12, m.Vertices)
	assert.Equal(t, 12, m.Triangles)
	assert.EqualValues(t, 12*(4+16+12+8)+36*4, m.MemoryBytes)
	assert.EqualValues(t, 12*12, MetricsFor(4, 3, true).MemoryBytes-m.MemoryBytes)

	bad := NewBuffers(3, 3, false)
	bad.Indices[4] = 9
	assert.Error(t, bad.Validate())
	bad.Indices = bad.Indices[:6]
	assert.Error(t, bad.Validate())
}
