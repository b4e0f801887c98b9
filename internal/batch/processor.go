package batch

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"stereogrammer/internal/depthmap"
	"stereogrammer/internal/imageio"
	"stereogrammer/internal/stereo"
	"stereogrammer/internal/texture"
)

// Generated texture names accepted in Job.Texture.
const (
	GreyDots   = "@greydots"
	ColourDots = "@colourdots"
)

// generatedSize is the edge length of generated dot textures.
const generatedSize = 128

// Config holds all shared resources for a batch run.
type Config struct {
	DepthDir    string
	OutputDir   string
	TexResolver texture.Resolver
	Options     stereo.Options
	Quality     int
	Workers     int
	// Progress receives a status line every two seconds when non-nil.
	Progress io.Writer
}

// Result holds the outcome of processing one job.
type Result struct {
	ID           string
	Depth        string
	Texture      string
	Output       string
	Width        int
	Height       int
	HiddenPoints int64
	Elapsed      time.Duration
	Success      bool
	Error        string
}

// Run processes all jobs using a worker pool. A failing job is recorded in
// its Result and does not stop the others. Jobs not started before ctx is
// done are reported as cancelled.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.2f images/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(ctx, cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(ctx context.Context, cfg Config, job Job) Result {
	res := Result{
		ID:      job.ID,
		Depth:   job.Depth,
		Texture: job.Texture,
		Output:  outputPath(cfg, job),
	}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}
	if err := ctx.Err(); err != nil {
		return fail(stereo.ErrCancelled)
	}

	start := time.Now()

	depth, err := loadDepth(cfg, job)
	if err != nil {
		return fail(err)
	}
	tex, err := loadTexture(cfg, job)
	if err != nil {
		return fail(err)
	}

	out, err := stereo.Generate(ctx, cfg.Options, depth, tex)
	if err != nil {
		return fail(err)
	}

	if err := imageio.Save(res.Output, out.Image, cfg.Quality); err != nil {
		return fail(err)
	}

	res.Width = out.Width
	res.Height = out.Height
	res.HiddenPoints = out.HiddenPoints
	res.Elapsed = time.Since(start)
	res.Success = true
	return res
}

func loadDepth(cfg Config, job Job) (*image.Gray, error) {
	primary, err := loadGrey(cfg.DepthDir, job.Depth)
	if err != nil {
		return nil, err
	}

	if len(job.Merge) > 0 {
		others := make([]*image.Gray, 0, len(job.Merge))
		for _, m := range job.Merge {
			g, err := loadGrey(cfg.DepthDir, m)
			if err != nil {
				return nil, err
			}
			others = append(others, g)
		}
		primary = depthmap.Merge(primary, others...)
	}

	if job.Invert {
		primary = depthmap.Invert(primary)
	}
	return primary, nil
}

func loadGrey(dir, name string) (*image.Gray, error) {
	img, err := imageio.Load(resolve(dir, name))
	if err != nil {
		return nil, fmt.Errorf("depth map: %w", err)
	}
	return depthmap.FromImage(img), nil
}

func loadTexture(cfg Config, job Job) (image.Image, error) {
	switch strings.ToLower(job.Texture) {
	case GreyDots, "":
		return texture.GreyDots(generatedSize, generatedSize, job.Seed), nil
	case ColourDots:
		return texture.ColourDots(generatedSize, generatedSize, job.Seed), nil
	}
	if cfg.TexResolver == nil {
		return nil, fmt.Errorf("texture %q: no texture source", job.Texture)
	}
	tex, err := cfg.TexResolver.Resolve(job.Texture)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	return tex, nil
}

func outputPath(cfg Config, job Job) string {
	if job.Output == "" {
		return filepath.Join(cfg.OutputDir, job.ID+".webp")
	}
	return resolve(cfg.OutputDir, job.Output)
}

func resolve(dir, p string) string {
	if dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
