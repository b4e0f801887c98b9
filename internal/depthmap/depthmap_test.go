package depthmap

import (
	"image"
	"image/color"
	"testing"
)

func grey(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{255, 255, 255, 255})
	src.SetNRGBA(6, 5, color.NRGBA{0, 0, 0, 255})

	dm := FromImage(src)
	if dm.Rect != image.Rect(0, 0, 2, 1) {
		t.Fatalf("Rect = %v; want origin-based 2x1", dm.Rect)
	}
	if dm.Pix[0] != 255 || dm.Pix[1] != 0 {
		t.Errorf("Pix = %v; want [255 0]", dm.Pix)
	}

	g := grey(3, 3, 9)
	if FromImage(g) != g {
		t.Error("FromImage should return an origin-based *image.Gray unchanged")
	}
}

func TestAdjustLevels(t *testing.T) {
	tests := []struct {
		name string
		lv   Levels
		in   uint8
		want uint8
	}{
		{"identity keeps value", DefaultLevels(), 200, 200},
		{"identity keeps white", DefaultLevels(), 255, 255},
		{"hard black clips under black point", Levels{BlackIn: 0.5, WhiteIn: 1, WhiteOut: 1, Gamma: 1, HardBlack: true}, 100, 0},
		{"soft black lifts to black out", Levels{BlackIn: 0.5, WhiteIn: 1, BlackOut: 0.2, WhiteOut: 1, Gamma: 1}, 100, 51},
		{"white point saturates", Levels{WhiteIn: 0.5, WhiteOut: 1, Gamma: 1, HardBlack: true}, 200, 255},
		{"output range compresses", Levels{WhiteIn: 1, WhiteOut: 0.5, Gamma: 1, HardBlack: true}, 255, 128},
		{"gamma darkens mid tones", Levels{WhiteIn: 1, WhiteOut: 1, Gamma: 2, HardBlack: true}, 128, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := AdjustLevels(grey(1, 1, tt.in), tt.lv)
			if got := out.Pix[0]; got != tt.want {
				t.Errorf("AdjustLevels(%d) = %d; want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestInvert(t *testing.T) {
	dm := grey(2, 2, 10)
	out := Invert(dm)
	for i, v := range out.Pix {
		if v != 245 {
			t.Errorf("Pix[%d] = %d; want 245", i, v)
		}
	}
	if dm.Pix[0] != 10 {
		t.Error("Invert modified its input")
	}
}

func TestMerge(t *testing.T) {
	a := grey(4, 4, 50)
	a.Pix[0] = 200
	b := grey(4, 4, 100)
	c := grey(2, 2, 30) // scaled up, never the max

	out := Merge(a, b, c, nil)
	if out.Pix[0] != 200 {
		t.Errorf("Pix[0] = %d; want 200 from primary", out.Pix[0])
	}
	for i := 1; i < len(out.Pix); i++ {
		if out.Pix[i] != 100 {
			t.Fatalf("Pix[%d] = %d; want 100", i, out.Pix[i])
		}
	}
}

func TestSinusRange(t *testing.T) {
	dm := Sinus(64, 48, 0)
	if dm.Rect.Dx() != 64 || dm.Rect.Dy() != 48 {
		t.Fatalf("size = %v", dm.Rect)
	}
	var lo, hi uint8 = 255, 0
	for _, v := range dm.Pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		t.Error("Sinus produced a flat map")
	}
	// Centre: sin(0)*1 + 1 = 1, so 128.
	if got := dm.GrayAt(32, 24).Y; got != 128 {
		t.Errorf("centre = %d; want 128", got)
	}
}

func TestBox(t *testing.T) {
	dm := Box(8, 10, 5)
	if dm.GrayAt(3, 4).Y != 0 {
		t.Errorf("above cutoff = %d; want 0", dm.GrayAt(3, 4).Y)
	}
	if dm.GrayAt(3, 5).Y != 0 {
		t.Errorf("at cutoff = %d; want 0", dm.GrayAt(3, 5).Y)
	}
	if got := dm.GrayAt(0, 9).Y; got != 204 {
		t.Errorf("bottom row = %d; want 204", got)
	}
	for y := 6; y < 10; y++ {
		if dm.GrayAt(0, y).Y <= dm.GrayAt(0, y-1).Y {
			t.Errorf("row %d not deeper than row %d", y, y-1)
		}
	}
}
