package raster

import "image"

// PixelBuffer holds the stereogram as one flat RGBA slice so that rows are
// contiguous and can be handed to separate workers without locking.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // RGBA interleaved, len = W*H*4
}

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	return &PixelBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*4),
	}
}

// Row returns the slice backing row y. Distinct rows never overlap.
func (b *PixelBuffer) Row(y int) []uint8 {
	off := y * b.Width * 4
	return b.Pix[off : off+b.Width*4 : off+b.Width*4]
}

// Image wraps the buffer as an *image.RGBA without copying.
func (b *PixelBuffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
