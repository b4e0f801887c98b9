package raster

import "image"

// SampleWrap performs bilinear filtering at source pixel coordinates (fx, fy),
// wrapping around both edges so that tileable textures stay seamless.
// Accesses tex.Pix directly for performance.
func SampleWrap(tex *image.NRGBA, fx, fy float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	x0 := floorMod(fx, w)
	y0 := floorMod(fy, h)
	dx := fx - floor(fx)
	dy := fy - floor(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	fr := float64(pix[i00])*w00 + float64(pix[i10])*w10 + float64(pix[i01])*w01 + float64(pix[i11])*w11
	fg := float64(pix[i00+1])*w00 + float64(pix[i10+1])*w10 + float64(pix[i01+1])*w01 + float64(pix[i11+1])*w11
	fb := float64(pix[i00+2])*w00 + float64(pix[i10+2])*w10 + float64(pix[i01+2])*w01 + float64(pix[i11+2])*w11
	fa := float64(pix[i00+3])*w00 + float64(pix[i10+3])*w10 + float64(pix[i01+3])*w01 + float64(pix[i11+3])*w11

	return uint8(fr + 0.5), uint8(fg + 0.5), uint8(fb + 0.5), uint8(fa + 0.5)
}

// ResampleWrap scales a tileable texture to w×h using SampleWrap, mapping
// pixel centres onto pixel centres.
func ResampleWrap(tex *image.NRGBA, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	sw := float64(tex.Rect.Dx())
	sh := float64(tex.Rect.Dy())
	kx := sw / float64(w)
	ky := sh / float64(h)

	for y := 0; y < h; y++ {
		fy := (float64(y)+0.5)*ky - 0.5
		off := y * dst.Stride
		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)*kx - 0.5
			r, g, b, a := SampleWrap(tex, fx, fy)
			i := off + x*4
			dst.Pix[i] = r
			dst.Pix[i+1] = g
			dst.Pix[i+2] = b
			dst.Pix[i+3] = a
		}
	}
	return dst
}

func floor(v float64) float64 {
	f := float64(int(v))
	if f > v {
		f--
	}
	return f
}

// floorMod returns floor(v) wrapped into [0, n).
func floorMod(v float64, n int) int {
	i := int(floor(v)) % n
	if i < 0 {
		i += n
	}
	return i
}
