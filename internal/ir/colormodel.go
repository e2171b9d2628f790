package ir

import "strconv"

// ColorSpace identifies a JPEG color space. The numbering follows libjpeg's
// J_COLOR_SPACE so the codec can convert with a plain cast.
type ColorSpace int

const (
	SpaceUnknown ColorSpace = 0
	SpaceGray    ColorSpace = 1
	SpaceRGB     ColorSpace = 2
	SpaceYCbCr   ColorSpace = 3
	SpaceCMYK    ColorSpace = 4
	SpaceYCCK    ColorSpace = 5
)

func (cs ColorSpace) String() string {
	switch cs {
	case SpaceUnknown:
		return "Unknown"
	case SpaceGray:
		return "Grayscale"
	case SpaceRGB:
		return "RGB"
	case SpaceYCbCr:
		return "YCbCr"
	case SpaceCMYK:
		return "CMYK"
	case SpaceYCCK:
		return "YCCK"
	default:
		return "ColorSpace(" + strconv.Itoa(int(cs)) + ")"
	}
}

// ColorModel describes how a decoded raster's samples are to be interpreted.
type ColorModel struct {
	Native     ColorSpace // color space of the compressed data
	Components int        // components in the compressed data
}

// Types lists the pixel types a decoder can produce for the stream, most
// faithful first. YCCK data can be read raw or as CMYK; luma/chroma data as
// RGB, YCbCr or gray.
func (m ColorModel) Types() []ColorSpace {
	switch m.Native {
	case SpaceCMYK:
		return []ColorSpace{SpaceCMYK}
	case SpaceYCCK:
		return []ColorSpace{SpaceYCCK, SpaceCMYK}
	case SpaceYCbCr:
		return []ColorSpace{SpaceRGB, SpaceYCbCr, SpaceGray}
	case SpaceRGB:
		return []ColorSpace{SpaceRGB}
	case SpaceGray:
		return []ColorSpace{SpaceGray, SpaceRGB}
	default:
		if m.Components == 4 {
			return []ColorSpace{SpaceCMYK}
		}
		return nil
	}
}
