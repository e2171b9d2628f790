package jpeg

/*
#cgo pkg-config: libjpeg
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <jpeglib.h>
#include <setjmp.h>

typedef struct {
    struct jpeg_error_mgr pub;
    jmp_buf               jmpbuf;
    char                  msg[JMSG_LENGTH_MAX];
} decode_err_mgr;

static void decode_error_exit(j_common_ptr cinfo) {
    decode_err_mgr *e = (decode_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

typedef struct {
    int            width;
    int            height;
    int            num_components;   // components in the compressed data
    int            jpeg_color_space; // J_COLOR_SPACE of the compressed data
    int            out_components;   // components in pixels
    unsigned char *pixels;
    unsigned long  pixels_size;
    int            has_error;
    char           error_msg[256];
} decode_result;

// decode_raw_jpeg decodes without color management for 4-component data:
// CMYK and YCCK samples are returned exactly as stored. Everything else is
// converted to RGB by libjpeg.
static decode_result decode_raw_jpeg(const unsigned char *buf, unsigned long buf_size) {
    decode_result res;
    memset(&res, 0, sizeof(res));

    struct jpeg_decompress_struct cinfo;
    decode_err_mgr jerr;
    unsigned char * volatile pixels = NULL;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = decode_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        memset(&res, 0, sizeof(res));
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        free(pixels);
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_mem_src(&cinfo, (unsigned char *)buf, buf_size);
    jpeg_read_header(&cinfo, TRUE);

    res.num_components = cinfo.num_components;
    res.jpeg_color_space = cinfo.jpeg_color_space;

    if (cinfo.jpeg_color_space == JCS_CMYK || cinfo.jpeg_color_space == JCS_YCCK) {
        // Null conversion: out == in skips libjpeg's color deconverter.
        cinfo.out_color_space = cinfo.jpeg_color_space;
    } else {
        cinfo.out_color_space = JCS_RGB;
    }

    jpeg_start_decompress(&cinfo);

    res.width = cinfo.output_width;
    res.height = cinfo.output_height;
    res.out_components = cinfo.output_components;

    res.pixels_size = (unsigned long)res.width * res.height * res.out_components;
    pixels = (unsigned char *)malloc(res.pixels_size);
    if (pixels == NULL) {
        strncpy(res.error_msg, "malloc failed for pixel buffer", sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    int row_stride = res.width * res.out_components;
    while (cinfo.output_scanline < cinfo.output_height) {
        unsigned char *row = pixels + (unsigned long)cinfo.output_scanline * row_stride;
        jpeg_read_scanlines(&cinfo, &row, 1);
    }

    jpeg_finish_decompress(&cinfo);
    jpeg_destroy_decompress(&cinfo);
    res.pixels = pixels;
    return res;
}

static void free_decode_pixels(unsigned char *p) {
    free(p);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

// LibjpegVersion returns the JPEG library version.
func LibjpegVersion() int {
	return int(C.JPEG_LIB_VERSION)
}

// DecodeRaw decodes a JPEG stream from memory. CMYK and YCCK data are
// returned as 4-channel rasters with no color conversion applied; all other
// color spaces are returned as 3-channel RGB.
func DecodeRaw(data []byte) (*ir.Raster, ir.ColorModel, error) {
	if len(data) < 2 {
		return nil, ir.ColorModel{}, fmt.Errorf("data too short for JPEG")
	}

	res := C.decode_raw_jpeg(
		(*C.uchar)(unsafe.Pointer(&data[0])),
		C.ulong(len(data)),
	)

	if res.has_error != 0 {
		return nil, ir.ColorModel{}, fmt.Errorf("libjpeg decode: %s", C.GoString(&res.error_msg[0]))
	}

	model := ir.ColorModel{
		Native:     ir.ColorSpace(res.jpeg_color_space),
		Components: int(res.num_components),
	}

	defer C.free_decode_pixels(res.pixels)

	// Copy pixel data to Go-managed memory
	pixelSize := int(res.pixels_size)
	pixels := make([]byte, pixelSize)
	copy(pixels, unsafe.Slice((*byte)(unsafe.Pointer(res.pixels)), pixelSize))

	raster := &ir.Raster{
		Width:    int(res.width),
		Height:   int(res.height),
		Channels: int(res.out_components),
		Pix:      pixels,
	}
	if err := raster.Validate(); err != nil {
		return nil, model, fmt.Errorf("libjpeg decode: %w", err)
	}
	return raster, model, nil
}
