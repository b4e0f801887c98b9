package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"stereogrammer/internal/batch"
	"stereogrammer/internal/config"
	"stereogrammer/internal/stereo"
	"stereogrammer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	jobsFile := flag.String("jobs", "", "Path to jobs.json (required)")
	testN := flag.Int("test", 0, "Render only first N jobs for testing")
	workers := flag.Int("workers", 0, "Number of jobs rendered at once (default: NumCPU)")
	dataDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	textureDir := flag.String("textures", "", "Texture directory (default: <data>/textures)")
	outputDir := flag.String("output", "", "Output directory (default: <data>/output)")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 (default: 90)")
	verbose := flag.Bool("v", false, "Log engine details to stderr")

	flag.Parse()

	if *jobsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -jobs is required.")
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		stereo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		DataDir:    *dataDir,
		TextureDir: *textureDir,
		OutputDir:  *outputDir,
		Quality:    *quality,
		Workers:    *workers,
		FieldDepth: -1,
	})

	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if _, err := stereo.NewGenerator(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	jobs, err := batch.LoadJobs(*jobsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading jobs: %v\n", err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs to render.")
		os.Exit(0)
	}

	// Build texture index
	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Stereogram batch renderer%s\n", mode)
	fmt.Printf("Jobs: %d, Workers: %d, %dx%d ×%d %s\n", len(jobs), cfg.Workers, opts.Width, opts.Height, opts.Oversample, opts.Algorithm)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		DepthDir:    cfg.DepthDir,
		OutputDir:   cfg.OutputDir,
		TexResolver: texCache,
		Options:     opts,
		Quality:     cfg.Quality,
		Workers:     cfg.Workers,
		Progress:    os.Stdout,
	}

	results := batch.Run(ctx, batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(len(errors), 20)
		for _, e := range errors[:limit] {
			fmt.Printf("  %s (%s): %s\n", e.ID, e.Depth, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
