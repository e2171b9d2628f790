package ir

import (
	"errors"
	"fmt"
	"image"
)

// Raster is the intermediate representation passed between the JPEG codec,
// the color stages and the scaler. Pixels are stored as interleaved 8-bit
// samples (Channels bytes per pixel, row-major order).
type Raster struct {
	Width    int
	Height   int
	Channels int    // 1 = gray, 3 = RGB, 4 = CMYK/YCCK
	Pix      []byte // len = Width * Height * Channels
}

// NewRaster allocates a zeroed raster.
func NewRaster(width, height, channels int) *Raster {
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

// Stride returns the number of bytes in one row.
func (r *Raster) Stride() int {
	return r.Width * r.Channels
}

// Row returns the samples of row y.
func (r *Raster) Row(y int) []byte {
	s := r.Stride()
	return r.Pix[y*s : (y+1)*s]
}

// Validate checks geometry, channel count and buffer length.
func (r *Raster) Validate() error {
	if r == nil {
		return errors.New("nil raster")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid raster geometry %dx%d", r.Width, r.Height)
	}
	switch r.Channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("unsupported channel count %d", r.Channels)
	}
	if want := r.Width * r.Height * r.Channels; len(r.Pix) != want {
		return fmt.Errorf("expected %d sample bytes for %dx%dx%d, got %d",
			want, r.Width, r.Height, r.Channels, len(r.Pix))
	}
	return nil
}

// ToRGB returns a 3-channel version of a gray or RGB raster. RGB rasters are
// returned as is.
func (r *Raster) ToRGB() (*Raster, error) {
	switch r.Channels {
	case 3:
		return r, nil
	case 1:
		out := NewRaster(r.Width, r.Height, 3)
		for i, v := range r.Pix {
			out.Pix[i*3] = v
			out.Pix[i*3+1] = v
			out.Pix[i*3+2] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot expand %d-channel raster to RGB", r.Channels)
	}
}

// RGBA copies a 3-channel raster into an opaque *image.RGBA.
func (r *Raster) RGBA() (*image.RGBA, error) {
	if r.Channels != 3 {
		return nil, fmt.Errorf("expected 3-channel raster, got %d", r.Channels)
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	n := r.Width * r.Height
	for i := 0; i < n; i++ {
		img.Pix[i*4] = r.Pix[i*3]
		img.Pix[i*4+1] = r.Pix[i*3+1]
		img.Pix[i*4+2] = r.Pix[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img, nil
}

// FromRGBA copies an *image.RGBA into a new 3-channel raster, dropping alpha.
func FromRGBA(img *image.RGBA) *Raster {
	b := img.Bounds()
	out := NewRaster(b.Dx(), b.Dy(), 3)
	for y := 0; y < out.Height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+out.Width*4]
		dst := out.Row(y)
		for x := 0; x < out.Width; x++ {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return out
}
