package stereo

import (
	"context"
	"runtime"
	"sync"
)

// scratch is the per-worker working memory for one row.
type scratch struct {
	depth       []float32
	constraints []int
}

func newScratch(width int) *scratch {
	return &scratch{
		depth:       make([]float32, width),
		constraints: make([]int, width),
	}
}

// rowFunc renders row y using the worker's scratch and returns the number of
// hidden points in the row.
type rowFunc func(y int, sc *scratch) int

// schedule runs fn over rows [0, rows). Rows are independent, so workers pull
// row indices from a channel and write straight into their own rows of the
// output. Cancellation is checked before each row starts; a started row
// always finishes.
func (g *Generator) schedule(ctx context.Context, rows, width, workers int, fn rowFunc) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > rows {
		workers = rows
	}

	stopped := func() bool {
		return g.cancelled.Load() || ctx.Err() != nil
	}

	if workers <= 1 {
		sc := newScratch(width)
		for y := 0; y < rows; y++ {
			if stopped() {
				return ErrCancelled
			}
			g.hidden.Add(int64(fn(y, sc)))
			g.rowsCompleted.Add(1)
		}
		return nil
	}

	rowChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sc := newScratch(width)
			for y := range rowChan {
				if stopped() {
					continue // drain
				}
				g.hidden.Add(int64(fn(y, sc)))
				g.rowsCompleted.Add(1)
			}
		}()
	}

	// Send work
	for y := 0; y < rows && !stopped(); y++ {
		rowChan <- y
	}
	close(rowChan)

	wg.Wait()

	if int(g.rowsCompleted.Load()) < rows {
		return ErrCancelled
	}
	return nil
}
