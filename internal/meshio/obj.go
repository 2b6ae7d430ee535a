// Package meshio serializes mesh buffers to interchange formats.
//
// The OBJ layout is a versioned contract with downstream viewers and is
// independent of the in-memory buffer layout.
package meshio

import (
	"bufio"
	"fmt"
	"io"

	"img2mesh/internal/mesh"
)

// FormatVersion identifies the OBJ/MTL layout written by this package.
const FormatVersion = 1

// MaterialName is the single material referenced by textured meshes.
const MaterialName = "img2mesh_material"

// Header carries the metadata written as OBJ comments.
type Header struct {
	Generator string
	RunID     string
	Source    string
}

// OBJOptions configures WriteOBJ.
type OBJOptions struct {
	Header      Header
	MaterialLib string // companion .mtl file name, used when the mesh is textured
}

// WriteOBJ writes b as Wavefront OBJ. Texture V is flipped to the OBJ
// convention; faces are 1-based vertex/uv pairs in buffer order.
func WriteOBJ(w io.Writer, b *mesh.Buffers, opts OBJOptions) error {
	if err := b.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)

	gen := opts.Header.Generator
	if gen == "" {
		gen = "img2mesh"
	}
	fmt.Fprintf(bw, "# %s OBJ export (format v%d)\n", gen, FormatVersion)
	if opts.Header.RunID != "" {
		fmt.Fprintf(bw, "# Run: %s\n", opts.Header.RunID)
	}
	if opts.Header.Source != "" {
		fmt.Fprintf(bw, "# Source: %s\n", opts.Header.Source)
	}
	fmt.Fprintf(bw, "# Resolution: %dx%d\n", b.Width, b.Height)
	fmt.Fprintf(bw, "# Vertices: %d\n", len(b.Positions))
	fmt.Fprintf(bw, "# Triangles: %d\n", b.TriangleCount())

	textured := b.Textured() && opts.MaterialLib != ""
	if textured {
		fmt.Fprintf(bw, "mtllib %s\n", opts.MaterialLib)
	}
	fmt.Fprintf(bw, "o img2mesh\n")

	for _, p := range b.Positions {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", p[0], p[1], p[2])
	}
	for _, uv := range b.UVs {
		fmt.Fprintf(bw, "vt %.6f %.6f\n", uv[0], 1-uv[1])
	}
	if b.Textured() {
		for _, c := range b.Colors {
			fmt.Fprintf(bw, "vc %.6f %.6f %.6f\n", c[0], c[1], c[2])
		}
	}
	if textured {
		fmt.Fprintf(bw, "usemtl %s\n", MaterialName)
	}

	for t := 0; t < b.TriangleCount(); t++ {
		tri := b.Triangle(t)
		a, c, d := tri[0]+1, tri[1]+1, tri[2]+1
		fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, c, c, d, d)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("meshio: write obj: %w", err)
	}
	return nil
}

// materialTemplate is the fixed companion material.
const materialTemplate = `# img2mesh material (format v%d)
newmtl %s
Ka 0.200000 0.200000 0.200000
Kd 0.800000 0.800000 0.800000
Ks 0.100000 0.100000 0.100000
Ns 10.000000
d 1.000000
illum 2
`

// WriteMTL writes the companion material definition.
func WriteMTL(w io.Writer) error {
	if _, err := fmt.Fprintf(w, materialTemplate, FormatVersion, MaterialName); err != nil {
		return fmt.Errorf("meshio: write mtl: %w", err)
	}
	return nil
}
