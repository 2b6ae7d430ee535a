package meshio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"img2mesh/internal/mesh"
)

// Format names a mesh encoding.
type Format string

const (
	FormatOBJ Format = "obj"
	FormatSTL Format = "stl"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return FormatOBJ, nil
	case ".stl":
		return FormatSTL, nil
	default:
		return "", fmt.Errorf("meshio: unsupported mesh extension %q", ext)
	}
}

// Save writes b to path in the format implied by its extension. Textured
// OBJ output also writes a companion .mtl next to it. It returns every file
// written.
func Save(path string, b *mesh.Buffers, header Header) ([]string, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatSTL:
		if err := writeFile(path, func(w io.Writer) error { return WriteSTL(w, b) }); err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		opts := OBJOptions{Header: header}
		written := []string{path}
		if b.Textured() {
			mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
			opts.MaterialLib = filepath.Base(mtlPath)
			if err := writeFile(mtlPath, WriteMTL); err != nil {
				return nil, err
			}
			written = append(written, mtlPath)
		}
		if err := writeFile(path, func(w io.Writer) error { return WriteOBJ(w, b, opts) }); err != nil {
			return nil, err
		}
		return written, nil
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("meshio: create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("meshio: create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("meshio: close %s: %w", path, err)
	}
	return nil
}
