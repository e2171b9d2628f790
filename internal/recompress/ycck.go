package recompress

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

// minBandPixels is the smallest amount of work handed to one goroutine.
const minBandPixels = 1 << 16

// YCCKToCMYK rewrites a 4-channel YCCK raster as Adobe-inverted CMYK in
// place. The K channel is left unchanged.
func YCCKToCMYK(r *ir.Raster) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Channels != 4 {
		return fmt.Errorf("YCCK conversion needs 4 channels, got %d", r.Channels)
	}

	bands := runtime.GOMAXPROCS(0)
	if n := r.Width * r.Height / minBandPixels; n < bands {
		bands = n
	}
	if bands <= 1 {
		ycckRows(r, 0, r.Height)
		return nil
	}

	rowsPerBand := (r.Height + bands - 1) / bands
	var g errgroup.Group
	for y0 := 0; y0 < r.Height; y0 += rowsPerBand {
		y1 := min(y0+rowsPerBand, r.Height)
		g.Go(func() error {
			ycckRows(r, y0, y1)
			return nil
		})
	}
	return g.Wait()
}

func ycckRows(r *ir.Raster, y0, y1 int) {
	for y := y0; y < y1; y++ {
		row := r.Row(y)
		for i := 0; i+3 < len(row); i += 4 {
			yy := float64(row[i])
			cb := float64(row[i+1])
			cr := float64(row[i+2])

			c := clamp8(yy + 1.402*cr - 178.956)
			m := clamp8(yy - 0.34414*cb - 0.71414*cr + 135.95984)
			yt := clamp8(yy + 1.772*cb - 226.316)

			row[i] = 255 - c
			row[i+1] = 255 - m
			row[i+2] = 255 - yt
		}
	}
}

// clamp8 truncates toward zero, then clamps to a byte.
func clamp8(v float64) byte {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return byte(n)
}
