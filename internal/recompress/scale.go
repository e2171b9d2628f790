package recompress

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

// ScaledSize returns the target geometry for a scale factor, truncating
// toward zero.
func ScaledSize(w, h int, factor float64) (int, int) {
	return int(float64(w) * factor), int(float64(h) * factor)
}

// Scale resamples a gray or RGB raster by factor and returns a 3-channel
// raster. A factor of exactly 1 returns the RGB source without resampling.
func Scale(src *ir.Raster, factor float64) (*ir.Raster, error) {
	rgb, err := src.ToRGB()
	if err != nil {
		return nil, err
	}

	w, h := ScaledSize(rgb.Width, rgb.Height, factor)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d at %g gives %dx%d",
			ErrDegenerateGeometry, rgb.Width, rgb.Height, factor, w, h)
	}
	if w == rgb.Width && h == rgb.Height {
		return rgb, nil
	}

	srcImg, err := rgb.RGBA()
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), srcImg, srcImg.Bounds(), draw.Src, nil)
	return ir.FromRGBA(dst), nil
}
