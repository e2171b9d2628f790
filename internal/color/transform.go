package color

/*
#cgo pkg-config: lcms2
#include <lcms2.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

// Lcms2Version returns the encoded CMM version from lcms2.
func Lcms2Version() int {
	return int(C.cmsGetEncodedCMMversion())
}

// Intent constants matching lcms2.
const (
	IntentPerceptual           = 0
	IntentRelativeColorimetric = 1
	IntentSaturation           = 2
	IntentAbsoluteColorimetric = 3
)

// ParseIntent converts a string intent name to an lcms2 intent constant.
func ParseIntent(s string) (int, error) {
	switch s {
	case "perceptual":
		return IntentPerceptual, nil
	case "relative":
		return IntentRelativeColorimetric, nil
	case "saturation":
		return IntentSaturation, nil
	case "absolute":
		return IntentAbsoluteColorimetric, nil
	default:
		return 0, fmt.Errorf("unknown rendering intent: %q", s)
	}
}

// Transform performs CMYK→sRGB color transformations using lcms2.
type Transform struct {
	hSrc       C.cmsHPROFILE
	hDst       C.cmsHPROFILE
	hTransform C.cmsHTRANSFORM
}

// NewTransform creates a CMYK→sRGB color transform from raw CMYK ICC profile data.
func NewTransform(cmykICC []byte, intent int) (*Transform, error) {
	if len(cmykICC) == 0 {
		return nil, fmt.Errorf("lcms2: empty CMYK profile")
	}

	hSrc := C.cmsOpenProfileFromMem(unsafe.Pointer(&cmykICC[0]), C.cmsUInt32Number(len(cmykICC)))
	if hSrc == nil {
		return nil, fmt.Errorf("lcms2: failed to open CMYK profile")
	}
	if uint32(C.cmsGetColorSpace(hSrc)) != uint32(C.cmsSigCmykData) {
		C.cmsCloseProfile(hSrc)
		return nil, fmt.Errorf("lcms2: source profile is not a CMYK profile")
	}

	hDst := C.cmsCreate_sRGBProfile()
	if hDst == nil {
		C.cmsCloseProfile(hSrc)
		return nil, fmt.Errorf("lcms2: failed to create sRGB profile")
	}

	hTransform := C.cmsCreateTransform(
		hSrc, C.TYPE_CMYK_8,
		hDst, C.TYPE_RGB_8,
		C.cmsUInt32Number(intent),
		C.cmsFLAGS_NOCACHE,
	)
	if hTransform == nil {
		C.cmsCloseProfile(hDst)
		C.cmsCloseProfile(hSrc)
		return nil, fmt.Errorf("lcms2: failed to create transform")
	}

	t := &Transform{
		hSrc:       hSrc,
		hDst:       hDst,
		hTransform: hTransform,
	}
	runtime.SetFinalizer(t, (*Transform).Close)
	return t, nil
}

// TransformPixels converts CMYK pixels to RGB row by row.
// src must be width*height*4 bytes (CMYK), returns width*height*3 bytes (RGB).
func (t *Transform) TransformPixels(src []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid geometry %dx%d", width, height)
	}
	expectedSrc := width * height * 4
	if len(src) != expectedSrc {
		return nil, fmt.Errorf("expected %d CMYK bytes, got %d", expectedSrc, len(src))
	}
	if t.hTransform == nil {
		return nil, fmt.Errorf("lcms2: transform is closed")
	}

	dst := make([]byte, width*height*3)

	for y := 0; y < height; y++ {
		srcOff := y * width * 4
		dstOff := y * width * 3
		C.cmsDoTransform(
			t.hTransform,
			unsafe.Pointer(&src[srcOff]),
			unsafe.Pointer(&dst[dstOff]),
			C.cmsUInt32Number(width),
		)
	}
	runtime.KeepAlive(t)

	return dst, nil
}

// Close releases lcms2 resources.
func (t *Transform) Close() {
	if t.hTransform != nil {
		C.cmsDeleteTransform(t.hTransform)
		t.hTransform = nil
	}
	if t.hDst != nil {
		C.cmsCloseProfile(t.hDst)
		t.hDst = nil
	}
	if t.hSrc != nil {
		C.cmsCloseProfile(t.hSrc)
		t.hSrc = nil
	}
}

// Engine converts CMYK rasters to RGB through lcms2. It is safe for
// concurrent use; every call builds its own transform.
type Engine struct {
	Intent int
}

// NewEngine returns an Engine using the given rendering intent.
func NewEngine(intent int) *Engine {
	return &Engine{Intent: intent}
}

// CMYKToRGB converts a 4-channel raster into a new 3-channel sRGB raster
// using profile as the source CMYK profile.
func (e *Engine) CMYKToRGB(src *ir.Raster, profile []byte) (*ir.Raster, error) {
	if src.Channels != 4 {
		return nil, fmt.Errorf("expected 4-channel CMYK raster, got %d channels", src.Channels)
	}

	xform, err := NewTransform(profile, e.Intent)
	if err != nil {
		return nil, err
	}
	defer xform.Close()

	rgb, err := xform.TransformPixels(src.Pix, src.Width, src.Height)
	if err != nil {
		return nil, err
	}
	return &ir.Raster{Width: src.Width, Height: src.Height, Channels: 3, Pix: rgb}, nil
}
