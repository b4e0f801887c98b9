package stereo

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"stereogrammer/internal/depthmap"
	"stereogrammer/internal/imageio"
	"stereogrammer/internal/raster"
)

// depthGrid is a row-major grid of depths normalized to [0,1].
type depthGrid struct {
	width  int
	height int
	z      []float32
}

// sampleDepth converts src to greyscale and resamples it to w×h.
func sampleDepth(src image.Image, w, h int) *depthGrid {
	grey := depthmap.FromImage(src)
	if grey.Rect.Dx() != w || grey.Rect.Dy() != h {
		scaled := image.NewGray(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(scaled, scaled.Rect, grey, grey.Rect, xdraw.Src, nil)
		grey = scaled
	}

	g := &depthGrid{width: w, height: h, z: make([]float32, w*h)}
	for y := 0; y < h; y++ {
		row := grey.Pix[y*grey.Stride : y*grey.Stride+w]
		out := g.z[y*w : (y+1)*w]
		for x, v := range row {
			out[x] = float32(v) / 255
		}
	}
	return g
}

// textureGrid is an opaque RGBA tile addressed modulo its size.
type textureGrid struct {
	width  int
	height int
	pix    []uint8 // RGBA interleaved
}

// at returns the 4-byte pixel at (x mod width, y mod height).
func (t *textureGrid) at(x, y int) []uint8 {
	i := ((y%t.height)*t.width + x%t.width) * 4
	return t.pix[i : i+4 : i+4]
}

// sampleTexture scales src to one w×h tile. A shrinking axis is filtered
// with CatmullRom; an enlarging axis wraps around the edges so the tile stays
// seamless.
func sampleTexture(src image.Image, w, h int) *textureGrid {
	tex := imageio.ToNRGBA(src)
	sw, sh := tex.Rect.Dx(), tex.Rect.Dy()

	var tile *image.NRGBA
	switch {
	case sw == w && sh == h:
		tile = tex
	case sw >= w && sh >= h:
		tile = scaleNRGBA(tex, w, h)
	case sw > w:
		tile = raster.ResampleWrap(scaleNRGBA(tex, w, sh), w, h)
	case sh > h:
		tile = raster.ResampleWrap(scaleNRGBA(tex, sw, h), w, h)
	default:
		tile = raster.ResampleWrap(tex, w, h)
	}

	g := &textureGrid{width: w, height: h, pix: make([]uint8, w*h*4)}
	for y := 0; y < h; y++ {
		copy(g.pix[y*w*4:(y+1)*w*4], tile.Pix[y*tile.Stride:y*tile.Stride+w*4])
	}
	// Stereograms are opaque whatever the texture says.
	for i := 3; i < len(g.pix); i += 4 {
		g.pix[i] = 255
	}
	return g
}

func scaleNRGBA(src *image.NRGBA, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Rect, src, src.Rect, xdraw.Src, nil)
	return dst
}
