package recompress

import (
	"github.com/m0rph2us/pdf-file-size-reducer/internal/icc"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/jfif"
)

// ColorEngine converts CMYK rasters to RGB through an ICC profile.
type ColorEngine interface {
	CMYKToRGB(src *ir.Raster, profile []byte) (*ir.Raster, error)
}

// ProfileSource names which profile a CMYK conversion ended up using.
type ProfileSource string

const (
	ProfileNone     ProfileSource = ""
	ProfileEmbedded ProfileSource = "embedded"
	ProfileFallback ProfileSource = "fallback"
)

// convertCMYK converts src to RGB, preferring the CMYK profile embedded in
// the JPEG stream and falling back to the configured profile.
func (rc *Recompressor) convertCMYK(data []byte, src *ir.Raster) (*ir.Raster, ProfileSource, error) {
	embedded, err := jfif.EmbeddedICC(data)
	switch {
	case err != nil:
		rc.log.Debug("ignoring unreadable embedded profile", "error", err)
	case embedded == nil:
	case !icc.IsCMYK(embedded):
		rc.log.Debug("ignoring embedded profile that is not CMYK", "bytes", len(embedded))
	default:
		rgb, err := rc.engine.CMYKToRGB(src, embedded)
		if err == nil {
			return rgb, ProfileEmbedded, nil
		}
		rc.log.Warn("embedded CMYK profile rejected, using fallback", "error", err)
	}

	if len(rc.opts.FallbackProfile) == 0 {
		return nil, ProfileNone, newError(KindProfile, "%w: no fallback profile configured", ErrProfileLoad)
	}
	rgb, err := rc.engine.CMYKToRGB(src, rc.opts.FallbackProfile)
	if err != nil {
		return nil, ProfileNone, &Error{Kind: KindProfile, Err: err}
	}
	return rgb, ProfileFallback, nil
}
