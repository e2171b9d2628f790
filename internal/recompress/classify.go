package recompress

import "github.com/m0rph2us/pdf-file-size-reducer/internal/ir"

// IsCMYK reports whether any pixel type the decoder can produce for the
// stream is CMYK.
func IsCMYK(model ir.ColorModel) bool {
	for _, t := range model.Types() {
		if t == ir.SpaceCMYK {
			return true
		}
	}
	return false
}
