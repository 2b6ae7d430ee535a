package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Config holds output paths and conversion settings.
type Config struct {
	// Paths
	OutputDir string `json:"output_dir"`
	Mask      string `json:"mask"` // "", "ellipse", or a mask image path

	// Compute settings
	Backend        string `json:"backend"`
	ComputeWorkers int    `json:"compute_workers"`
	Strict         bool   `json:"strict"`

	// Output settings
	MeshFormat   string `json:"mesh_format"`  // obj | stl
	DepthFormat  string `json:"depth_format"` // png | webp
	Textured     bool   `json:"textured"`
	MaxDimension int    `json:"max_dimension"`
	PreviewSize  int    `json:"preview_size"` // 0 disables previews
	Supersample  int    `json:"supersample"`

	// Batch settings
	Workers int `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir   string
	Mask        string
	Backend     string
	MeshFormat  string
	DepthFormat string
	Textured    bool
	Strict      bool
	Workers     int
	PreviewSize int
}

// Resolve applies CLI overrides and fills empty fields with defaults.
// inputPath is the image or directory being converted.
func (c *Config) Resolve(flags Flags, inputPath string) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Mask != "" {
		c.Mask = flags.Mask
	}
	if flags.Backend != "" {
		c.Backend = flags.Backend
	}
	if flags.MeshFormat != "" {
		c.MeshFormat = flags.MeshFormat
	}
	if flags.DepthFormat != "" {
		c.DepthFormat = flags.DepthFormat
	}
	if flags.Textured {
		c.Textured = true
	}
	if flags.Strict {
		c.Strict = true
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.PreviewSize > 0 {
		c.PreviewSize = flags.PreviewSize
	}

	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir(inputPath)
	}

	c.MeshFormat = strings.ToLower(strings.TrimPrefix(c.MeshFormat, "."))
	if c.MeshFormat != "stl" {
		c.MeshFormat = "obj"
	}
	c.DepthFormat = strings.ToLower(strings.TrimPrefix(c.DepthFormat, "."))
	if c.DepthFormat != "webp" {
		c.DepthFormat = "png"
	}

	if c.MaxDimension <= 0 {
		c.MaxDimension = 1024
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = max(1, runtime.NumCPU()/2)
	}
}

// defaultOutputDir places results in "<input>-mesh" next to a directory
// input, or next to the file for a single image.
func defaultOutputDir(inputPath string) string {
	if inputPath == "" {
		return "mesh-output"
	}
	clean := filepath.Clean(inputPath)
	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		return clean + "-mesh"
	}
	return filepath.Join(filepath.Dir(clean), "mesh-output")
}
