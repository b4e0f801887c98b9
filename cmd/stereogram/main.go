package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"stereogrammer/internal/config"
	"stereogrammer/internal/depthmap"
	"stereogrammer/internal/imageio"
	"stereogrammer/internal/stereo"
	"stereogrammer/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	depthPath := flag.String("depth", "", "Depth map image (required)")
	texName := flag.String("texture", "@greydots", "Texture image, or @greydots / @colourdots")
	seed := flag.Uint64("seed", 1, "Seed for generated textures")
	outPath := flag.String("out", "stereogram.png", "Output file (.png, .jpg, .webp, .bmp, .tga)")
	invert := flag.Bool("invert", false, "Invert the depth map")

	width := flag.Int("width", 0, "Output width (default: 1024)")
	height := flag.Int("height", 0, "Output height (default: 768)")
	separation := flag.Float64("sep", 0, "Eye separation in pixels (default: 128)")
	fieldDepth := flag.Float64("fielddepth", -1, "Field depth 0..1 (default: 0.3333)")
	oversample := flag.Int("oversample", 0, "Oversampling factor 1, 2, 3, 4, 6 or 8 (default: 2)")
	algorithm := flag.String("algorithm", "", "Row algorithm (default: horoptic)")
	filter := flag.String("filter", "", "Downscale filter: catmullrom, bilinear, nearest, lanczos")
	hidden := flag.Bool("hidden", false, "Remove hidden surfaces")
	dots := flag.Bool("dots", false, "Add convergence dots")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 (default: 90)")
	workers := flag.Int("workers", 0, "Row workers (default: GOMAXPROCS)")
	verbose := flag.Bool("v", false, "Log engine details to stderr")

	flag.Parse()

	if *depthPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -depth is required.")
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		stereo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	// A single image is one job, so rows get the parallelism.
	cfg.Resolve(config.Flags{
		Workers:              1,
		RowWorkers:           *workers,
		Quality:              *quality,
		Width:                *width,
		Height:               *height,
		Separation:           *separation,
		FieldDepth:           *fieldDepth,
		Oversample:           *oversample,
		Algorithm:            *algorithm,
		Filter:               *filter,
		RemoveHiddenSurfaces: *hidden,
		ConvergenceDots:      *dots,
	})

	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	src, err := imageio.Load(*depthPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading depth map: %v\n", err)
		os.Exit(1)
	}
	depth := depthmap.FromImage(src)
	if *invert {
		depth = depthmap.Invert(depth)
	}

	tex, err := loadTexture(*texName, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading texture: %v\n", err)
		os.Exit(1)
	}

	gen, err := stereo.NewGenerator(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Ctrl-C stops the run at the next row.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		fmt.Fprintln(os.Stderr, "\nCancelling...")
		gen.Cancel()
	}()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if total := gen.TotalRows(); total > 0 {
					fmt.Printf("\r  %5.1f%% (%d/%d rows)", gen.Progress()*100, gen.RowsCompleted(), total)
				}
			}
		}
	}()

	res, err := gen.Generate(context.Background(), depth, tex)
	close(done)
	fmt.Print("\r")
	if errors.Is(err, stereo.ErrCancelled) {
		fmt.Println("Cancelled.")
		os.Exit(130)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := imageio.Save(*outPath, res.Image, cfg.Quality); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%dx%d ×%d in %.2fs, %d hidden points\n", res.Width, res.Height, res.Oversample, res.Elapsed.Seconds(), res.HiddenPoints)
	fmt.Printf("Output: %s\n", *outPath)
}

func loadTexture(name string, seed uint64) (image.Image, error) {
	switch strings.ToLower(name) {
	case "@greydots":
		return texture.GreyDots(128, 128, seed), nil
	case "@colourdots":
		return texture.ColourDots(128, 128, seed), nil
	}
	return imageio.Load(name)
}
