package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one job in the output manifest.
type ManifestEntry struct {
	ID           string `json:"id"`
	Depth        string `json:"depth"`
	Texture      string `json:"texture"`
	Image        string `json:"image,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	ElapsedMS    int64  `json:"elapsed_ms"`
	HiddenPoints int64  `json:"hidden_points"`
	Error        string `json:"error,omitempty"`
}

// WriteManifest writes the results as JSON to path. Image paths are stored
// relative to the manifest's directory when possible.
func WriteManifest(path string, results []Result) error {
	dir := filepath.Dir(path)
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		e := ManifestEntry{
			ID:           r.ID,
			Depth:        r.Depth,
			Texture:      r.Texture,
			ElapsedMS:    r.Elapsed.Milliseconds(),
			HiddenPoints: r.HiddenPoints,
			Error:        r.Error,
		}
		if r.Success {
			e.Image = r.Output
			if rel, err := filepath.Rel(dir, r.Output); err == nil {
				e.Image = filepath.ToSlash(rel)
			}
			e.Width = r.Width
			e.Height = r.Height
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
