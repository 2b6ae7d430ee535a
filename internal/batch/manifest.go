package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one converted image in the output manifest.
type ManifestEntry struct {
	Source    string `json:"source"`
	Mesh      string `json:"mesh"`
	Depth     string `json:"depth"`
	Preview   string `json:"preview,omitempty"`
	Vertices  int    `json:"vertices"`
	Triangles int    `json:"triangles"`
	Mode      string `json:"mode"`
	RunID     string `json:"run_id"`
}

// WriteManifest writes the successful results to path as JSON. Output
// names are relative to the manifest's directory.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Source:    filepath.Base(r.Source),
			Mesh:      r.Mesh,
			Depth:     r.Depth,
			Preview:   r.Preview,
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
			Mode:      r.Mode,
			RunID:     r.RunID,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
