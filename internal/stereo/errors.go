package stereo

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is wrapped by every configuration error, which are all
// reported before any row is processed.
var ErrInvalidOptions = errors.New("stereo: invalid options")

var (
	ErrMissingDepthMap   = fmt.Errorf("%w: missing depth map", ErrInvalidOptions)
	ErrMissingTexture    = fmt.Errorf("%w: missing texture", ErrInvalidOptions)
	ErrInvalidOversample = fmt.Errorf("%w: oversample must be one of 1, 2, 3, 4, 6, 8", ErrInvalidOptions)
	ErrUnknownAlgorithm  = fmt.Errorf("%w: unknown algorithm", ErrInvalidOptions)
	ErrInvalidResolution = fmt.Errorf("%w: resolution must be positive", ErrInvalidOptions)
	ErrInvalidSeparation = fmt.Errorf("%w: separation must be positive", ErrInvalidOptions)
	ErrInvalidFilter     = fmt.Errorf("%w: unknown downscale filter", ErrInvalidOptions)
)

// ErrUnsupportedAlgorithm is returned for algorithm variants that are named
// but have no implementation.
var ErrUnsupportedAlgorithm = errors.New("stereo: algorithm not supported")

// ErrCancelled is returned by Generate when the run was cancelled. No partial
// image is ever returned alongside it.
var ErrCancelled = errors.New("stereo: generation cancelled")
