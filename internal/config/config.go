package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"stereogrammer/internal/postprocess"
	"stereogrammer/internal/stereo"
)

// Config holds all configurable paths and generation settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir"`
	TextureDir string `json:"texture_dir"`
	DepthDir   string `json:"depth_dir"`
	OutputDir  string `json:"output_dir"`

	// Generation settings
	Width                int      `json:"width"`
	Height               int      `json:"height"`
	Separation           float64  `json:"separation"`
	FieldDepth           *float64 `json:"field_depth"`
	RemoveHiddenSurfaces bool     `json:"remove_hidden_surfaces"`
	ConvergenceDots      bool     `json:"convergence_dots"`
	PreserveAspectRatio  *bool    `json:"preserve_aspect_ratio"`
	InterpolateDepthMap  *bool    `json:"interpolate_depth_map"`
	Oversample           int      `json:"oversample"`
	Algorithm            string   `json:"algorithm"`
	Filter               string   `json:"filter"`

	// Output settings
	Quality    int `json:"quality"`
	Workers    int `json:"workers"`
	RowWorkers int `json:"row_workers"`
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

// Flags holds CLI flag values that override config file settings. Zero
// values and empty strings mean "not given"; FieldDepth uses a negative
// value for that since 0 is meaningful.
type Flags struct {
	DataDir    string
	TextureDir string
	OutputDir  string
	Quality    int
	Workers    int
	RowWorkers int

	Width                int
	Height               int
	Separation           float64
	FieldDepth           float64
	Oversample           int
	Algorithm            string
	Filter               string
	RemoveHiddenSurfaces bool
	ConvergenceDots      bool
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.DataDir != "" {
		c.BaseDir = flags.DataDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Quality > 0 {
		c.Quality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.RowWorkers > 0 {
		c.RowWorkers = flags.RowWorkers
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Separation > 0 {
		c.Separation = flags.Separation
	}
	if flags.FieldDepth >= 0 {
		fd := flags.FieldDepth
		c.FieldDepth = &fd
	}
	if flags.Oversample > 0 {
		c.Oversample = flags.Oversample
	}
	if flags.Algorithm != "" {
		c.Algorithm = flags.Algorithm
	}
	if flags.Filter != "" {
		c.Filter = flags.Filter
	}
	if flags.RemoveHiddenSurfaces {
		c.RemoveHiddenSurfaces = true
	}
	if flags.ConvergenceDots {
		c.ConvergenceDots = true
	}

	// Auto-detect base dir if still empty
	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Resolve relative paths against base dir
	c.TextureDir = resolvePath(c.BaseDir, c.TextureDir, "textures")
	c.DepthDir = resolvePath(c.BaseDir, c.DepthDir, "depthmaps")
	c.OutputDir = resolvePath(c.BaseDir, c.OutputDir, "output")

	// Defaults for generation settings
	def := stereo.DefaultOptions()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.Separation <= 0 {
		c.Separation = def.Separation
	}
	if c.FieldDepth == nil {
		fd := def.FieldDepth
		c.FieldDepth = &fd
	}
	if c.PreserveAspectRatio == nil {
		v := def.PreserveAspectRatio
		c.PreserveAspectRatio = &v
	}
	if c.InterpolateDepthMap == nil {
		v := def.InterpolateDepthMap
		c.InterpolateDepthMap = &v
	}
	if c.Oversample <= 0 {
		c.Oversample = int(def.Oversample)
	}
	if c.Algorithm == "" {
		c.Algorithm = def.Algorithm.String()
	}
	if c.Filter == "" {
		c.Filter = string(def.Filter)
	}
	if c.Quality <= 0 {
		c.Quality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	// Jobs already run in parallel, so rows default to one goroutine each.
	if c.RowWorkers <= 0 && c.Workers > 1 {
		c.RowWorkers = 1
	}
}

// Options converts the generation settings to engine options. Call Resolve
// first; unset fields otherwise fall back to the engine defaults.
func (c *Config) Options() (stereo.Options, error) {
	o := stereo.DefaultOptions()

	alg, err := stereo.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return o, fmt.Errorf("config: %w", err)
	}
	filter, err := postprocess.ParseFilter(c.Filter)
	if err != nil {
		return o, fmt.Errorf("config: %w: %w", stereo.ErrInvalidFilter, err)
	}

	if c.Width > 0 {
		o.Width = c.Width
	}
	if c.Height > 0 {
		o.Height = c.Height
	}
	if c.Separation > 0 {
		o.Separation = c.Separation
	}
	if c.FieldDepth != nil {
		o.FieldDepth = *c.FieldDepth
	}
	if c.PreserveAspectRatio != nil {
		o.PreserveAspectRatio = *c.PreserveAspectRatio
	}
	if c.InterpolateDepthMap != nil {
		o.InterpolateDepthMap = *c.InterpolateDepthMap
	}
	if c.Oversample > 0 {
		o.Oversample = stereo.Oversample(c.Oversample)
	}
	o.RemoveHiddenSurfaces = c.RemoveHiddenSurfaces
	o.AddConvergenceDots = c.ConvergenceDots
	o.Algorithm = alg
	o.Filter = filter
	o.Workers = c.RowWorkers
	return o, nil
}

func resolvePath(base, p, fallback string) string {
	if base == "" {
		if p == "" {
			return fallback
		}
		return p
	}
	if p == "" {
		return filepath.Join(base, fallback)
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(base, p)
	}
	return p
}

func detectBaseDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if _, err := os.Stat(filepath.Join(base, "textures")); err == nil {
				return base
			}
		}
	}

	// Fall back to the working directory
	cwd, _ := os.Getwd()
	return cwd
}
