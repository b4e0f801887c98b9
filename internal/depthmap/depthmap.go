// Package depthmap holds 8-bit greyscale depth maps: conversion from arbitrary
// images, level adjustment, inversion, z-max merging and a couple of
// procedural generators. White (255) is nearest to the viewer.
package depthmap

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// FromImage converts any image to an 8-bit greyscale depth map whose bounds
// start at the origin. A *image.Gray at the origin is returned as is.
func FromImage(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Levels describes a black/white point and gamma remap, all on a 0..1 scale.
type Levels struct {
	BlackIn  float64
	WhiteIn  float64
	BlackOut float64
	WhiteOut float64
	Gamma    float64
	// HardBlack keeps anything at or under BlackIn at zero instead of
	// lifting it to BlackOut.
	HardBlack bool
}

// DefaultLevels is the identity adjustment.
func DefaultLevels() Levels {
	return Levels{WhiteIn: 1, WhiteOut: 1, Gamma: 1, HardBlack: true}
}

// AdjustLevels returns a copy of dm with lv applied to every sample.
func AdjustLevels(dm *image.Gray, lv Levels) *image.Gray {
	deltaIn := lv.WhiteIn - lv.BlackIn
	deltaOut := lv.WhiteOut - lv.BlackOut

	// Every output depends only on the input byte, so build a lookup table.
	var lut [256]uint8
	for i := range lut {
		src := float64(i) / 255
		dst := math.Min(math.Max(0, src-lv.BlackIn), deltaIn)
		if dst > 0 || !lv.HardBlack {
			if deltaIn > 0 {
				dst /= deltaIn
			} else {
				dst = 0
			}
			dst = math.Pow(dst, lv.Gamma)
			dst = lv.BlackOut + dst*deltaOut
		}
		lut[i] = clamp8(dst * 255)
	}

	out := image.NewGray(dm.Rect)
	for i, v := range dm.Pix {
		out.Pix[i] = lut[v]
	}
	return out
}

// Invert swaps near and far.
func Invert(dm *image.Gray) *image.Gray {
	out := image.NewGray(dm.Rect)
	for i, v := range dm.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// Merge combines depth maps by keeping the nearest (largest) sample at every
// pixel. Others are scaled to the primary's size first.
func Merge(primary *image.Gray, others ...*image.Gray) *image.Gray {
	out := image.NewGray(primary.Rect)
	copy(out.Pix, primary.Pix)

	for _, o := range others {
		if o == nil {
			continue
		}
		scaled := o
		if o.Rect.Size() != primary.Rect.Size() {
			scaled = image.NewGray(primary.Rect)
			xdraw.BiLinear.Scale(scaled, scaled.Rect, o, o.Rect, xdraw.Src, nil)
		}
		for i, v := range scaled.Pix {
			if v > out.Pix[i] {
				out.Pix[i] = v
			}
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
