package recompress

import (
	"encoding/binary"
	"errors"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

// fakeCodec decodes to a fixed raster and "encodes" by recording the
// raster it was given.
type fakeCodec struct {
	raster    *ir.Raster
	model     ir.ColorModel
	decodeErr error
	encodeErr error

	encoded *ir.Raster
	quality float64
}

func (f *fakeCodec) DecodeRaw([]byte) (*ir.Raster, ir.ColorModel, error) {
	if f.decodeErr != nil {
		return nil, ir.ColorModel{}, f.decodeErr
	}
	cp := *f.raster
	cp.Pix = append([]byte(nil), f.raster.Pix...)
	return &cp, f.model, nil
}

func (f *fakeCodec) EncodeRGB(r *ir.Raster, quality float64) ([]byte, error) {
	if f.encodeErr != nil {
		return nil, f.encodeErr
	}
	f.encoded = r
	f.quality = quality
	return []byte{0xff, 0xd8, byte(r.Width), byte(r.Height), 0xff, 0xd9}, nil
}

// fakeEngine performs a naive profile-free CMYK→RGB conversion and records
// which profiles it was asked to use.
type fakeEngine struct {
	reject map[string]bool
	used   []string
	input  *ir.Raster
}

func (f *fakeEngine) CMYKToRGB(src *ir.Raster, profile []byte) (*ir.Raster, error) {
	name := string(profile[:min(len(profile), 8)])
	f.used = append(f.used, name)
	if f.reject[name] {
		return nil, errors.New("profile rejected")
	}
	f.input = src
	out := ir.NewRaster(src.Width, src.Height, 3)
	for i := 0; i < src.Width*src.Height; i++ {
		k := int(src.Pix[i*4+3])
		for c := 0; c < 3; c++ {
			out.Pix[i*3+c] = byte((255 - int(src.Pix[i*4+c])) * (255 - k) / 255)
		}
	}
	return out, nil
}

func filled(w, h, channels int, v byte) *ir.Raster {
	r := ir.NewRaster(w, h, channels)
	for i := range r.Pix {
		r.Pix[i] = v
	}
	return r
}

// jpegHeader builds a marker-only JPEG header with the given segments
// followed by an empty SOS.
func jpegHeader(segs ...[]byte) []byte {
	out := []byte{0xff, 0xd8}
	for _, s := range segs {
		out = append(out, s...)
	}
	return append(out, 0xff, 0xda, 0x00, 0x02, 0xff, 0xd9)
}

func segment(marker byte, payload []byte) []byte {
	out := []byte{0xff, marker, 0, 0}
	binary.BigEndian.PutUint16(out[2:], uint16(len(payload)+2))
	return append(out, payload...)
}

func adobe(transform byte) []byte {
	p := []byte("Adobe")
	p = append(p, 0x00, 0x64, 0x00, 0x00, 0x00, 0x00, transform)
	return segment(0xee, p)
}

// iccProfile builds a minimal ICC header tagged with name in its first bytes.
func iccProfile(name, colorSpace string) []byte {
	p := make([]byte, 128)
	copy(p, name)
	copy(p[12:16], "prtr")
	copy(p[16:20], colorSpace)
	copy(p[20:24], "Lab ")
	copy(p[36:40], "acsp")
	return p
}

func app2ICC(profile []byte) []byte {
	p := append([]byte("ICC_PROFILE\x00"), 1, 1)
	return segment(0xe2, append(p, profile...))
}
