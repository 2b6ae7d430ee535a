// Package mesh lifts a depth field into a grid triangle mesh.
//
// Every pixel (x, y) owns vertex i = y*W + x. Interior pixels additionally
// own the six indices of the quad to their lower right, written at offset
// 6*(y*(W-1) + x), so every invocation writes a disjoint range.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrDegenerate is returned for images with a single row or column.
var ErrDegenerate = errors.New("mesh: image must be at least 2x2")

// Buffers holds the vertex, UV, color and index data of one grid mesh.
type Buffers struct {
	Width     int
	Height    int
	Positions []mgl32.Vec3 // in [-1,1]^3
	UVs       []mgl32.Vec2 // in [0,1]^2
	Colors    []mgl32.Vec3 // linear [0,1]; nil for untextured meshes
	Indices   []uint32     // triangle list
}

// CheckSize rejects sizes the mesh kernel cannot normalize.
func CheckSize(w, h int) error {
	if w < 2 || h < 2 {
		return fmt.Errorf("%w: got %dx%d", ErrDegenerate, w, h)
	}
	return nil
}

// VertexCount returns W*H.
func VertexCount(w, h int) int { return w * h }

// IndexCount returns 6*(W-1)*(H-1).
func IndexCount(w, h int) int {
	if w < 2 || h < 2 {
		return 0
	}
	return 6 * (w - 1) * (h - 1)
}

// NewBuffers allocates buffers on the heap.
func NewBuffers(w, h int, textured bool) *Buffers {
	n := VertexCount(w, h)
	b := &Buffers{
		Width:     w,
		Height:    h,
		Positions: make([]mgl32.Vec3, n),
		UVs:       make([]mgl32.Vec2, n),
		Indices:   make([]uint32, IndexCount(w, h)),
	}
	if textured {
		b.Colors = make([]mgl32.Vec3, n)
	}
	return b
}

// Textured reports whether the buffers carry vertex colors.
func (b *Buffers) Textured() bool { return b.Colors != nil }

// TriangleCount returns len(Indices)/3.
func (b *Buffers) TriangleCount() int { return len(b.Indices) / 3 }

// Triangle returns the vertex indices of triangle t.
func (b *Buffers) Triangle(t int) [3]uint32 {
	return [3]uint32{b.Indices[3*t], b.Indices[3*t+1], b.Indices[3*t+2]}
}

// Validate checks buffer lengths and index bounds.
func (b *Buffers) Validate() error {
	n := VertexCount(b.Width, b.Height)
	if len(b.Positions) != n || len(b.UVs) != n {
		return fmt.Errorf("mesh: %d positions and %d uvs for %d vertices", len(b.Positions), len(b.UVs), n)
	}
	if b.Colors != nil && len(b.Colors) != n {
		return fmt.Errorf("mesh: %d colors for %d vertices", len(b.Colors), n)
	}
	if want := IndexCount(b.Width, b.Height); len(b.Indices) != want {
		return fmt.Errorf("mesh: %d indices, want %d", len(b.Indices), want)
	}
	for i, idx := range b.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh: index %d at %d out of range [0,%d)", idx, i, n)
		}
	}
	return nil
}

// Metrics summarizes a mesh and its device footprint.
type Metrics struct {
	Width       int
	Height      int
	Vertices    int
	Triangles   int
	MemoryBytes int64
}

// Per-element byte sizes of device resources.
const (
	depthTexelBytes = 4  // r32float
	colorTexelBytes = 16 // rgba32float
	positionBytes   = 12
	uvBytes         = 8
	colorBytes      = 12
	indexBytes      = 4
)

// MetricsFor estimates the mesh and device memory for a w×h image.
func MetricsFor(w, h int, textured bool) Metrics {
	n := int64(VertexCount(w, h))
	mem := n*(depthTexelBytes+colorTexelBytes+positionBytes+uvBytes) +
		int64(IndexCount(w, h))*indexBytes
	if textured {
		mem += n * colorBytes
	}
	return Metrics{
		Width:       w,
		Height:      h,
		Vertices:    int(n),
		Triangles:   IndexCount(w, h) / 3,
		MemoryBytes: mem,
	}
}
