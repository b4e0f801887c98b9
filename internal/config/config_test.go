package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"stereogrammer/internal/postprocess"
	"stereogrammer/internal/stereo"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"base_dir": "/data",
		"width": 800,
		"field_depth": 0,
		"preserve_aspect_ratio": false,
		"algorithm": "horoptic",
		"oversample": 4
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseDir != "/data" || cfg.Width != 800 || cfg.Oversample != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.FieldDepth == nil || *cfg.FieldDepth != 0 {
		t.Errorf("FieldDepth = %v; want explicit 0", cfg.FieldDepth)
	}
	if cfg.PreserveAspectRatio == nil || *cfg.PreserveAspectRatio {
		t.Errorf("PreserveAspectRatio = %v; want explicit false", cfg.PreserveAspectRatio)
	}
	if cfg.InterpolateDepthMap != nil {
		t.Errorf("InterpolateDepthMap = %v; want unset", *cfg.InterpolateDepthMap)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
	if _, err := Load(writeConfig(t, `{"width": "wide"}`)); err == nil {
		t.Error("bad JSON: no error")
	}
}

func TestResolveDefaults(t *testing.T) {
	base := t.TempDir()
	var cfg Config
	cfg.Resolve(Flags{DataDir: base, FieldDepth: -1})

	def := stereo.DefaultOptions()
	if cfg.Width != def.Width || cfg.Height != def.Height || cfg.Separation != def.Separation {
		t.Errorf("resolution defaults = %dx%d sep %v", cfg.Width, cfg.Height, cfg.Separation)
	}
	if *cfg.FieldDepth != def.FieldDepth || !*cfg.PreserveAspectRatio || !*cfg.InterpolateDepthMap {
		t.Errorf("depth defaults = %v %v %v", *cfg.FieldDepth, *cfg.PreserveAspectRatio, *cfg.InterpolateDepthMap)
	}
	if cfg.Oversample != 2 || cfg.Algorithm != "horoptic" || cfg.Filter != "catmullrom" {
		t.Errorf("engine defaults = %d %q %q", cfg.Oversample, cfg.Algorithm, cfg.Filter)
	}
	if cfg.Quality != 90 || cfg.Workers != runtime.NumCPU() {
		t.Errorf("output defaults = %d %d", cfg.Quality, cfg.Workers)
	}
	if cfg.TextureDir != filepath.Join(base, "textures") || cfg.OutputDir != filepath.Join(base, "output") {
		t.Errorf("paths = %q %q", cfg.TextureDir, cfg.OutputDir)
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	fd := 0.6
	cfg := Config{
		BaseDir:    "/srv",
		TextureDir: "tex",
		OutputDir:  "/abs/out",
		Width:      640,
		FieldDepth: &fd,
		Algorithm:  "horoptic",
	}
	cfg.Resolve(Flags{
		Width:                320,
		FieldDepth:           0,
		Oversample:           6,
		Filter:               "lanczos",
		RemoveHiddenSurfaces: true,
	})

	if cfg.TextureDir != filepath.Join("/srv", "tex") {
		t.Errorf("TextureDir = %q", cfg.TextureDir)
	}
	if cfg.OutputDir != "/abs/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Width != 320 || *cfg.FieldDepth != 0 || cfg.Oversample != 6 || cfg.Filter != "lanczos" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.RemoveHiddenSurfaces || cfg.ConvergenceDots {
		t.Errorf("bools = %v %v", cfg.RemoveHiddenSurfaces, cfg.ConvergenceDots)
	}
}

func TestOptions(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{
		DataDir:    t.TempDir(),
		Width:      300,
		Height:     200,
		FieldDepth: 0.25,
		Oversample: 3,
		Filter:     "nearest",
		Workers:    1,
	})
	o, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if o.Width != 300 || o.Height != 200 || o.FieldDepth != 0.25 || o.Oversample != 3 {
		t.Errorf("options = %+v", o)
	}
	if o.Filter != postprocess.FilterNearest || o.Algorithm != stereo.Horoptic {
		t.Errorf("filter/algorithm = %v %v", o.Filter, o.Algorithm)
	}
	if o.Workers != 0 {
		t.Errorf("row workers = %d; want engine default with a single job worker", o.Workers)
	}
	if _, err := stereo.NewGenerator(o); err != nil {
		t.Errorf("options rejected by engine: %v", err)
	}
}

func TestOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"algorithm", Config{Algorithm: "sirds"}, stereo.ErrUnknownAlgorithm},
		{"filter", Config{Filter: "box"}, stereo.ErrInvalidFilter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Options()
			if !errors.Is(err, tt.want) || !errors.Is(err, stereo.ErrInvalidOptions) {
				t.Errorf("err = %v; want %v", err, tt.want)
			}
		})
	}
}

func TestResolveRowWorkers(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		flags Flags
		want  int
	}{
		{"file value kept without flag", Config{RowWorkers: 3}, Flags{Workers: 1, FieldDepth: -1}, 3},
		{"flag overrides file", Config{RowWorkers: 3}, Flags{Workers: 1, RowWorkers: 5, FieldDepth: -1}, 5},
		{"single job leaves engine default", Config{}, Flags{Workers: 1, FieldDepth: -1}, 0},
		{"parallel jobs run rows sequentially", Config{}, Flags{Workers: 4, FieldDepth: -1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.BaseDir = t.TempDir()
			cfg.Resolve(tt.flags)
			if cfg.RowWorkers != tt.want {
				t.Errorf("RowWorkers = %d; want %d", cfg.RowWorkers, tt.want)
			}
			o, err := cfg.Options()
			if err != nil {
				t.Fatal(err)
			}
			if o.Workers != tt.want {
				t.Errorf("Options().Workers = %d; want %d", o.Workers, tt.want)
			}
		})
	}
}
