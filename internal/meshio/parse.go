package meshio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// OBJData is the subset of an OBJ file this package writes.
type OBJData struct {
	Positions   []mgl32.Vec3
	UVs         []mgl32.Vec2 // as stored, V flipped
	Colors      []mgl32.Vec3
	Faces       [][3]uint32 // 0-based vertex indices
	FaceUVs     [][3]uint32 // 0-based uv indices
	MaterialLib string
	Material    string
}

// Bounds returns the axis-aligned bounding box of the positions.
func (d *OBJData) Bounds() (lo, hi mgl32.Vec3) {
	if len(d.Positions) == 0 {
		return
	}
	inf := float32(math.Inf(1))
	lo = mgl32.Vec3{inf, inf, inf}
	hi = mgl32.Vec3{-inf, -inf, -inf}
	for _, p := range d.Positions {
		for k := 0; k < 3; k++ {
			if p[k] < lo[k] {
				lo[k] = p[k]
			}
			if p[k] > hi[k] {
				hi[k] = p[k]
			}
		}
	}
	return lo, hi
}

// ParseOBJ reads v, vt, vc, f, mtllib and usemtl lines. Faces must be
// triangles whose references exist in the file.
func ParseOBJ(r io.Reader) (*OBJData, error) {
	d := &OBJData{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		var err error
		switch fields[0] {
		case "v":
			var v []float32
			if v, err = parseFloats(fields[1:], 3); err == nil {
				d.Positions = append(d.Positions, mgl32.Vec3{v[0], v[1], v[2]})
			}
		case "vt":
			var v []float32
			if v, err = parseFloats(fields[1:], 2); err == nil {
				d.UVs = append(d.UVs, mgl32.Vec2{v[0], v[1]})
			}
		case "vc":
			var v []float32
			if v, err = parseFloats(fields[1:], 3); err == nil {
				d.Colors = append(d.Colors, mgl32.Vec3{v[0], v[1], v[2]})
			}
		case "f":
			err = d.parseFace(fields[1:])
		case "mtllib":
			if len(fields) > 1 {
				d.MaterialLib = fields[1]
			}
		case "usemtl":
			if len(fields) > 1 {
				d.Material = fields[1]
			}
		}
		if err != nil {
			return nil, fmt.Errorf("meshio: parse obj line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("meshio: read obj: %w", err)
	}
	if err := d.checkRefs(); err != nil {
		return nil, fmt.Errorf("meshio: parse obj: %w", err)
	}
	return d, nil
}

// checkRefs rejects faces that point past the vertices or UVs read. UV
// references are only checked when the file has vt lines.
func (d *OBJData) checkRefs() error {
	nv, nt := uint32(len(d.Positions)), uint32(len(d.UVs))
	for i, f := range d.Faces {
		for k := 0; k < 3; k++ {
			if f[k] >= nv {
				return fmt.Errorf("face %d: vertex %d out of range (%d vertices)", i+1, f[k]+1, nv)
			}
			if nt > 0 && d.FaceUVs[i][k] >= nt {
				return fmt.Errorf("face %d: uv %d out of range (%d uvs)", i+1, d.FaceUVs[i][k]+1, nt)
			}
		}
	}
	return nil
}

func (d *OBJData) parseFace(fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("face has %d vertices, want 3", len(fields))
	}
	var vi, ti [3]uint32
	for k, f := range fields {
		parts := strings.Split(f, "/")
		v, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil || v == 0 {
			return fmt.Errorf("bad vertex reference %q", f)
		}
		vi[k] = uint32(v - 1)
		ti[k] = vi[k]
		if len(parts) > 1 && parts[1] != "" {
			t, err := strconv.ParseUint(parts[1], 10, 32)
			if err != nil || t == 0 {
				return fmt.Errorf("bad uv reference %q", f)
			}
			ti[k] = uint32(t - 1)
		}
	}
	d.Faces = append(d.Faces, vi)
	d.FaceUVs = append(d.FaceUVs, ti)
	return nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}
