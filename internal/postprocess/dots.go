package postprocess

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

// DrawConvergenceDots paints two black discs on the line at 1/16 of the image
// height, centred on midX and separation apart, as a viewing aid. Each disc
// has radius separation/16 plus a one pixel half-transparent rim. Pixels
// outside the discs are left untouched.
func DrawConvergenceDots(img *image.RGBA, midX, separation float64) {
	if separation <= 0 {
		return
	}
	b := img.Bounds()
	cy := float64(b.Dy()) / 16
	r := separation / 16

	for _, cx := range []float64{midX - separation/2, midX + separation/2} {
		fillCircle(img, cx, cy, r+0.5, color.RGBA{0, 0, 0, 128})
		fillCircle(img, cx, cy, r, color.RGBA{0, 0, 0, 255})
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	b := img.Bounds()
	minX, minY := int(cx-r)-1, int(cy-r)-1
	maxX, maxY := int(cx+r)+2, int(cy+r)+2
	area := image.Rect(minX, minY, maxX, maxY).Intersect(b)
	if area.Empty() {
		return
	}

	// Rasterise in the local frame of area.
	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	x, y := float32(cx-ox), float32(cy-oy)
	rr := float32(r)
	k := float32(r * kappa)

	z := vector.NewRasterizer(area.Dx(), area.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(x+rr, y)
	z.CubeTo(x+rr, y+k, x+k, y+rr, x, y+rr)
	z.CubeTo(x-k, y+rr, x-rr, y+k, x-rr, y)
	z.CubeTo(x-rr, y-k, x-k, y-rr, x, y-rr)
	z.CubeTo(x+k, y-rr, x+rr, y-k, x+rr, y)
	z.ClosePath()

	dst := img.SubImage(area).(*image.RGBA)
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}
