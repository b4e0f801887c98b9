package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Job describes one stereogram to generate.
type Job struct {
	ID string `json:"id"`
	// Depth is the depth map path, relative paths resolve against the
	// configured depth directory.
	Depth string `json:"depth"`
	// Merge lists further depth maps combined with Depth by taking the
	// nearest point of each.
	Merge  []string `json:"merge,omitempty"`
	Invert bool     `json:"invert,omitempty"`
	// Texture is a texture name or path, or one of the generated textures
	// "@greydots" and "@colourdots". Empty selects "@greydots".
	Texture string `json:"texture"`
	Seed    uint64 `json:"seed,omitempty"`
	// Output defaults to <id>.webp in the output directory.
	Output string `json:"output,omitempty"`
}

// LoadJobs reads a JSON array of jobs. Jobs without an ID get a random one.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}

	var jobs []Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("batch: parse %s: %w", path, err)
	}

	for i := range jobs {
		if jobs[i].Depth == "" {
			return nil, fmt.Errorf("batch: job %d: no depth map", i)
		}
		if jobs[i].ID == "" {
			jobs[i].ID = uuid.NewString()
		}
	}
	return jobs, nil
}
