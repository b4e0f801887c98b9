package depthmap

import (
	"image"
	"math"
)

// Sinus generates concentric ripples around the image centre that fade
// towards the corners. alpha shifts the phase, so stepping it animates the
// ripples outwards.
func Sinus(w, h int, alpha float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	cx, cy := w/2, h/2
	factor := float64(w) / 20
	maxDist := math.Sqrt(float64(cx*cx + cy*cy))
	if maxDist == 0 {
		maxDist = 1
	}

	for y := 0; y < h; y++ {
		off := y * img.Stride
		for x := 0; x < w; x++ {
			xi, yi := float64(x-cx), float64(y-cy)
			dist := math.Sqrt(xi*xi + yi*yi)
			z := 128 * (math.Sin(dist/factor+alpha)*(1-dist/maxDist) + 1)
			img.Pix[off+x] = clamp8(z)
		}
	}
	return img
}

// Box generates a floor: flat at depth 0 above row cutoff, then ramping
// linearly to full depth at the bottom row.
func Box(w, h, cutoff int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		var z uint8
		if y >= cutoff && h > cutoff {
			z = clamp8(float64(y-cutoff) / float64(h-cutoff) * 255)
		}
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x := range row {
			row[x] = z
		}
	}
	return img
}
