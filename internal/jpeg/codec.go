package jpeg

import "github.com/m0rph2us/pdf-file-size-reducer/internal/ir"

// Codec adapts the libjpeg decoder and encoder to the recompressor.
type Codec struct{}

func (Codec) DecodeRaw(data []byte) (*ir.Raster, ir.ColorModel, error) {
	return DecodeRaw(data)
}

func (Codec) EncodeRGB(r *ir.Raster, quality float64) ([]byte, error) {
	return EncodeRGB(r, quality)
}
