// Package stereo renders single-image random dot stereograms (autostereograms)
// from a depth map and a repeating texture.
//
// Every row is solved independently: the solver links pairs of columns that
// the two eyes must see as the same point, and each column then copies the
// texture sample of the column at the root of its chain. Rows run in
// parallel and write disjoint parts of the output.
package stereo

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"stereogrammer/internal/postprocess"
	"stereogrammer/internal/raster"
)

// Result is a finished stereogram.
type Result struct {
	Image *image.RGBA
	// Width and Height are the final dimensions after any aspect ratio
	// adjustment.
	Width  int
	Height int
	// Oversample is the factor the rows were solved at.
	Oversample int
	Elapsed    time.Duration
	// HiddenPoints counts points dropped by hidden surface removal.
	HiddenPoints int64
}

// Generator runs stereogram generations with fixed options. Progress and
// Cancel may be called from any goroutine while Generate runs. Generate
// itself must not be called concurrently on one Generator. Once cancelled a
// generator stays cancelled.
type Generator struct {
	opts Options

	totalRows     atomic.Int64
	rowsCompleted atomic.Int64
	hidden        atomic.Int64
	cancelled     atomic.Bool
}

// NewGenerator validates opts and returns a generator holding a private,
// normalized copy of them.
func NewGenerator(opts Options) (*Generator, error) {
	o, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	return &Generator{opts: o}, nil
}

// Generate is shorthand for NewGenerator followed by Generator.Generate.
func Generate(ctx context.Context, opts Options, depth, tex image.Image) (*Result, error) {
	g, err := NewGenerator(opts)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, depth, tex)
}

// Cancel asks a running Generate to stop before its next row. Generate then
// returns ErrCancelled.
func (g *Generator) Cancel() { g.cancelled.Store(true) }

// RowsCompleted returns the number of rows finished so far.
func (g *Generator) RowsCompleted() int { return int(g.rowsCompleted.Load()) }

// TotalRows returns the number of rows in the current generation, or 0 before
// Generate has planned it.
func (g *Generator) TotalRows() int { return int(g.totalRows.Load()) }

// Progress returns the completed fraction in [0,1].
func (g *Generator) Progress() float64 {
	total := g.totalRows.Load()
	if total == 0 {
		return 0
	}
	return float64(g.rowsCompleted.Load()) / float64(total)
}

// plan holds the working geometry derived from Options and the inputs.
type plan struct {
	width, height int // final output
	oversample    int
	lineWidth     int // oversampled row width
	separation    float64
	depthWidth    int
	depthScale    int
	texWidth      int
	texHeight     int
}

func newPlan(o Options, depthBounds, texBounds image.Rectangle) plan {
	w, h := o.Width, o.Height
	if o.PreserveAspectRatio {
		dw, dh := depthBounds.Dx(), depthBounds.Dy()
		bmRatio := float64(dw) / float64(dh)
		if bmRatio < float64(w)/float64(h) {
			w = int(float64(h) * bmRatio)
		} else {
			h = int(float64(w) / bmRatio)
		}
		w, h = max(w, 1), max(h, 1)
	}

	over := int(o.Oversample)
	p := plan{
		width:      w,
		height:     h,
		oversample: over,
		lineWidth:  w * over,
		separation: o.Separation * float64(over),
		depthWidth: w,
		depthScale: over,
	}
	if o.InterpolateDepthMap {
		p.depthWidth = p.lineWidth
		p.depthScale = 1
	}

	// One texture tile spans one separation, keeping its aspect ratio.
	tw, th := texBounds.Dx(), texBounds.Dy()
	p.texWidth = max(int(o.Separation)*over, 1)
	p.texHeight = max(int(o.Separation*float64(th)/float64(tw)), 1)
	return p
}

// Generate renders a stereogram of depth using tex. The images are only
// read. On cancellation it returns ErrCancelled and no image.
func (g *Generator) Generate(ctx context.Context, depth, tex image.Image) (*Result, error) {
	start := time.Now()
	log := Logger()

	opts := g.opts
	if depth == nil || depth.Bounds().Empty() {
		return nil, ErrMissingDepthMap
	}
	if tex == nil || tex.Bounds().Empty() {
		return nil, ErrMissingTexture
	}

	p := newPlan(opts, depth.Bounds(), tex.Bounds())
	solver, err := opts.Algorithm.solver(p.lineWidth, p.separation, opts.FieldDepth, opts.RemoveHiddenSurfaces)
	if err != nil {
		return nil, err
	}

	g.rowsCompleted.Store(0)
	g.hidden.Store(0)
	g.totalRows.Store(int64(p.height))

	log.Debug("stereo: planned",
		slog.Int("width", p.width),
		slog.Int("height", p.height),
		slog.Int("lineWidth", p.lineWidth),
		slog.Float64("separation", p.separation),
		slog.Int("texWidth", p.texWidth),
		slog.Int("texHeight", p.texHeight),
		slog.String("algorithm", opts.Algorithm.String()))

	grid := sampleDepth(depth, p.depthWidth, p.height)
	tile := sampleTexture(tex, p.texWidth, p.texHeight)
	buf := raster.NewPixelBuffer(p.lineWidth, p.height)
	midpoint := p.lineWidth / 2

	renderRow := func(y int, sc *scratch) int {
		src := grid.z[y*p.depthWidth : (y+1)*p.depthWidth]
		for i := range sc.depth {
			sc.depth[i] = src[i/p.depthScale]
		}
		n := solver.solve(sc.depth, sc.constraints, nil)

		row := buf.Row(y)
		for i := range sc.constraints {
			copy(row[i*4:i*4+4], tile.at(root(sc.constraints, i)+midpoint, y))
		}
		return n
	}

	if err := g.schedule(ctx, p.height, p.lineWidth, opts.Workers, renderRow); err != nil {
		if errors.Is(err, ErrCancelled) {
			log.Debug("stereo: cancelled", slog.Int("rows", g.RowsCompleted()), slog.Int("total", p.height))
		}
		return nil, err
	}
	solved := time.Since(start)

	img := postprocess.Downsample(buf.Image(), p.oversample, opts.Filter)
	if opts.AddConvergenceDots {
		mid := float64(midpoint / p.oversample)
		postprocess.DrawConvergenceDots(img, mid, opts.Separation)
	}

	r := &Result{
		Image:        img,
		Width:        img.Rect.Dx(),
		Height:       img.Rect.Dy(),
		Oversample:   p.oversample,
		Elapsed:      time.Since(start),
		HiddenPoints: g.hidden.Load(),
	}
	log.Debug("stereo: generated",
		slog.Duration("solve", solved),
		slog.Duration("total", r.Elapsed),
		slog.Int64("hidden", r.HiddenPoints))
	return r, nil
}
