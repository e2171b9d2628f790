package recompress

import (
	"bytes"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/jfif"
)

const adobeTransformYCCK = 2

// AdobeTransform returns the color transform code of the first APP14
// segment before SOS. ok is false when the header cannot be read, when
// there is no APP14 segment, or when the first one is not an Adobe segment
// long enough to carry the code.
func AdobeTransform(data []byte) (code int, ok bool) {
	segs, err := jfif.Headers(data)
	if err != nil {
		return 0, false
	}
	p, found := jfif.First(segs, jfif.APP14)
	if !found || len(p) < 12 || !bytes.HasPrefix(p, []byte("Adobe")) {
		return 0, false
	}
	return int(p[11]), true
}

// IsYCCK reports whether a CMYK JPEG stores its samples YCCK-encoded.
func IsYCCK(data []byte) bool {
	code, ok := AdobeTransform(data)
	return ok && code == adobeTransformYCCK
}
