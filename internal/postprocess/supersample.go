package postprocess

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// Filter names the resampling kernel used when collapsing an oversampled
// stereogram back to its target width.
type Filter string

const (
	FilterCatmullRom Filter = "catmullrom"
	FilterBiLinear   Filter = "bilinear"
	FilterNearest    Filter = "nearest"
	FilterLanczos    Filter = "lanczos"
)

// ParseFilter maps a name to a Filter. The empty string selects CatmullRom.
func ParseFilter(name string) (Filter, error) {
	switch f := Filter(name); f {
	case "":
		return FilterCatmullRom, nil
	case FilterCatmullRom, FilterBiLinear, FilterNearest, FilterLanczos:
		return f, nil
	default:
		return "", fmt.Errorf("postprocess: unknown filter %q", name)
	}
}

// Downsample collapses an image that was generated at oversample times its
// target width. The width is reduced in steps of at most 2, the height is
// left untouched since oversampling only ever stretches rows.
func Downsample(img *image.RGBA, oversample int, filter Filter) *image.RGBA {
	if oversample <= 1 {
		return img
	}

	b := img.Bounds()
	targetW := float64(b.Dx()) / float64(oversample)
	h := b.Dy()

	over := float64(oversample)
	cur := img
	for over > 1 {
		div := math.Min(over, 2)
		over /= div
		w := int(math.Round(targetW * over))
		if w < 1 {
			w = 1
		}
		cur = scaleWidth(cur, w, h, filter)
	}
	return cur
}

func scaleWidth(src *image.RGBA, w, h int, filter Filter) *image.RGBA {
	if filter == FilterLanczos {
		return toRGBA(resize.Resize(uint(w), uint(h), src, resize.Lanczos3))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	var s xdraw.Scaler
	switch filter {
	case FilterBiLinear:
		s = xdraw.BiLinear
	case FilterNearest:
		s = xdraw.NearestNeighbor
	default:
		s = xdraw.CatmullRom
	}
	s.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func toRGBA(img image.Image) *image.RGBA {
	if r, ok := img.(*image.RGBA); ok && r.Rect.Min == (image.Point{}) {
		return r
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
