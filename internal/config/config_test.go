package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"output_dir": "out",
		"mesh_format": ".STL",
		"depth_format": "webp",
		"textured": true,
		"max_dimension": 512,
		"workers": 3
	}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Resolve(Flags{Workers: 5, Backend: "none"}, filepath.Join(dir, "cat.png"))

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "stl", cfg.MeshFormat)
	assert.Equal(t, "webp", cfg.DepthFormat)
	assert.True(t, cfg.Textured)
	assert.Equal(t, 512, cfg.MaxDimension)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, "none", cfg.Backend)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, 0, cfg.PreviewSize)
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()

	var cfg Config
	cfg.Resolve(Flags{}, dir)
	assert.Equal(t, filepath.Clean(dir)+"-mesh", cfg.OutputDir)
	assert.Equal(t, "obj", cfg.MeshFormat)
	assert.Equal(t, "png", cfg.DepthFormat)
	assert.Equal(t, 1024, cfg.MaxDimension)
	assert.GreaterOrEqual(t, cfg.Workers, 1)

	var single Config
	single.Resolve(Flags{OutputDir: "x", PreviewSize: 128, Textured: true}, filepath.Join(dir, "a.png"))
	assert.Equal(t, "x", single.OutputDir)
	assert.Equal(t, 128, single.PreviewSize)
	assert.True(t, single.Textured)

	var file Config
	file.Resolve(Flags{}, filepath.Join(dir, "a.png"))
	assert.Equal(t, filepath.Join(dir, "mesh-output"), file.OutputDir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
