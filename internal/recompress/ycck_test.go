package recompress

import (
	"testing"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

func TestYCCKToCMYKNeutral(t *testing.T) {
	r := filled(3, 2, 4, 128)
	for i := 3; i < len(r.Pix); i += 4 {
		r.Pix[i] = 42
	}
	if err := YCCKToCMYK(r); err != nil {
		t.Fatalf("YCCKToCMYK: %v", err)
	}
	for i := 0; i < len(r.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			if v := int(r.Pix[i+c]); v < 126 || v > 128 {
				t.Fatalf("pixel %d channel %d = %d, want 127±1", i/4, c, v)
			}
		}
		if r.Pix[i+3] != 42 {
			t.Fatalf("pixel %d K = %d, want 42 unchanged", i/4, r.Pix[i+3])
		}
	}
}

func TestYCCKToCMYKClamps(t *testing.T) {
	cases := []struct {
		y, cb, cr byte
		want      [3]byte
	}{
		{255, 0, 255, [3]byte{0, 47, 227}},
		{0, 0, 0, [3]byte{255, 120, 255}},
		{255, 255, 255, [3]byte{0, 134, 0}},
	}
	for _, c := range cases {
		r := &ir.Raster{Width: 1, Height: 1, Channels: 4, Pix: []byte{c.y, c.cb, c.cr, 9}}
		if err := YCCKToCMYK(r); err != nil {
			t.Fatalf("YCCKToCMYK: %v", err)
		}
		got := [3]byte{r.Pix[0], r.Pix[1], r.Pix[2]}
		if got != c.want {
			t.Errorf("YCC(%d,%d,%d) → %v, want %v", c.y, c.cb, c.cr, got, c.want)
		}
	}
}

func TestClamp8Truncates(t *testing.T) {
	cases := []struct {
		in   float64
		want byte
	}{
		{-0.9, 0},
		{-300, 0},
		{0.99, 0},
		{127.5, 127},
		{254.999, 254},
		{255.7, 255},
		{1e9, 255},
	}
	for _, c := range cases {
		if got := clamp8(c.in); got != c.want {
			t.Errorf("clamp8(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestYCCKToCMYKParallelMatchesSerial(t *testing.T) {
	w, h := 512, 300
	big := ir.NewRaster(w, h, 4)
	for i := range big.Pix {
		big.Pix[i] = byte(i * 31 % 256)
	}
	serial := &ir.Raster{Width: w, Height: h, Channels: 4, Pix: append([]byte(nil), big.Pix...)}

	if err := YCCKToCMYK(big); err != nil {
		t.Fatalf("YCCKToCMYK: %v", err)
	}
	ycckRows(serial, 0, h)

	for i := range big.Pix {
		if big.Pix[i] != serial.Pix[i] {
			t.Fatalf("banded result differs at byte %d: %d vs %d", i, big.Pix[i], serial.Pix[i])
		}
	}
}

func TestYCCKToCMYKRejectsNonCMYK(t *testing.T) {
	if err := YCCKToCMYK(filled(2, 2, 3, 0)); err == nil {
		t.Error("expected error for 3-channel raster")
	}
	if err := YCCKToCMYK(&ir.Raster{Width: 2, Height: 2, Channels: 4, Pix: make([]byte, 3)}); err == nil {
		t.Error("expected error for short buffer")
	}
}
