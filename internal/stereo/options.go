package stereo

import (
	"fmt"
	"strings"

	"stereogrammer/internal/postprocess"
)

// Algorithm selects the per-row stereogram algorithm. Only Horoptic is
// implemented; the other variants are kept so that configurations naming
// them fail with ErrUnsupportedAlgorithm rather than as unknown values.
type Algorithm int

const (
	Horoptic Algorithm = iota
	Techmind
	ConstraintSatisfaction
	Lookback
	TylerChang
)

var algorithmNames = [...]string{
	Horoptic:               "horoptic",
	Techmind:               "techmind",
	ConstraintSatisfaction: "constraint-satisfaction",
	Lookback:               "lookback",
	TylerChang:             "tyler-chang",
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm maps a name (case-insensitive) to an Algorithm. The empty
// string selects Horoptic.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return Horoptic, nil
	}
	for i, n := range algorithmNames {
		if strings.EqualFold(n, name) {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownAlgorithm, name)
}

// solver returns the row solver for the variant.
func (a Algorithm) solver(width int, separation, fieldDepth float64, removeHidden bool) (*rowSolver, error) {
	switch a {
	case Horoptic:
		return newRowSolver(width, separation, fieldDepth, removeHidden), nil
	case Techmind, ConstraintSatisfaction, Lookback, TylerChang:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, a)
	}
}

// Oversample is the horizontal supersampling factor.
type Oversample int

// Valid reports whether o is one of the supported factors.
func (o Oversample) Valid() bool {
	switch o {
	case 1, 2, 3, 4, 6, 8:
		return true
	}
	return false
}

// Options configures a generation. NewGenerator copies it, so later changes
// by the caller do not affect a generator.
type Options struct {
	Width  int
	Height int

	// Separation is the base eye separation in pixels at the far plane.
	Separation float64
	// FieldDepth scales perceived depth; clamped to [0,1].
	FieldDepth float64

	RemoveHiddenSurfaces bool
	AddConvergenceDots   bool
	// PreserveAspectRatio shrinks Width or Height to match the depth map.
	PreserveAspectRatio bool
	// InterpolateDepthMap samples the depth map once per oversampled column
	// instead of once per output column.
	InterpolateDepthMap bool

	Oversample Oversample
	Algorithm  Algorithm
	// Filter is the kernel used to collapse oversampled output.
	Filter postprocess.Filter

	// Workers bounds row parallelism. 0 means GOMAXPROCS, 1 runs rows
	// sequentially on the calling goroutine.
	Workers int
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		Width:               1024,
		Height:              768,
		Separation:          128,
		FieldDepth:          0.3333,
		PreserveAspectRatio: true,
		InterpolateDepthMap: true,
		Oversample:          2,
		Algorithm:           Horoptic,
		Filter:              postprocess.FilterCatmullRom,
	}
}

// normalized validates o and returns a copy with numeric fields clamped.
func (o Options) normalized() (Options, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return o, fmt.Errorf("%w: %dx%d", ErrInvalidResolution, o.Width, o.Height)
	}
	if !(o.Separation > 0) {
		return o, fmt.Errorf("%w: %v", ErrInvalidSeparation, o.Separation)
	}
	if !o.Oversample.Valid() {
		return o, fmt.Errorf("%w: got %d", ErrInvalidOversample, int(o.Oversample))
	}
	if o.Algorithm < 0 || int(o.Algorithm) >= len(algorithmNames) {
		return o, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, o.Algorithm)
	}
	f, err := postprocess.ParseFilter(string(o.Filter))
	if err != nil {
		return o, fmt.Errorf("%w: %q", ErrInvalidFilter, o.Filter)
	}
	o.Filter = f

	// NaN compares false both ways and lands on 0.
	if !(o.FieldDepth > 0) {
		o.FieldDepth = 0
	}
	if o.FieldDepth > 1 {
		o.FieldDepth = 1
	}
	if o.Workers < 0 {
		o.Workers = 0
	}
	return o, nil
}
