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
} err_mgr;

static void error_exit_handler(j_common_ptr cinfo) {
    err_mgr *e = (err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

typedef struct {
    int width;
    int height;
    int num_components;
    int color_space;    // J_COLOR_SPACE enum value
    int saw_adobe;
    int adobe_transform;
    int has_error;
    char error_msg[256];
} jpeg_info_result;

static jpeg_info_result get_jpeg_info(const unsigned char *buf, unsigned long buf_size) {
    jpeg_info_result res;
    memset(&res, 0, sizeof(res));

    struct jpeg_decompress_struct cinfo;
    err_mgr jerr;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = error_exit_handler;

    if (setjmp(jerr.jmpbuf)) {
        memset(&res, 0, sizeof(res));
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_mem_src(&cinfo, (unsigned char *)buf, buf_size);
    jpeg_read_header(&cinfo, TRUE);

    res.width = cinfo.image_width;
    res.height = cinfo.image_height;
    res.num_components = cinfo.num_components;
    res.color_space = cinfo.jpeg_color_space;
    res.saw_adobe = cinfo.saw_Adobe_marker;
    res.adobe_transform = cinfo.Adobe_transform;

    jpeg_destroy_decompress(&cinfo);
    return res;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/jfif"
)

// ImageInfo contains metadata about a JPEG file.
type ImageInfo struct {
	Width          int
	Height         int
	NumComponents  int
	ColorSpace     ir.ColorSpace
	AdobeMarker    bool
	AdobeTransform int
	ICC            []byte // extracted ICC profile, nil if absent
}

// Model returns the stream's color model.
func (i *ImageInfo) Model() ir.ColorModel {
	return ir.ColorModel{Native: i.ColorSpace, Components: i.NumComponents}
}

// GetInfo reads JPEG metadata and extracts any ICC profile without fully decoding the image.
func GetInfo(data []byte) (*ImageInfo, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("data too short for JPEG")
	}

	res := C.get_jpeg_info(
		(*C.uchar)(unsafe.Pointer(&data[0])),
		C.ulong(len(data)),
	)
	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg: %s", C.GoString(&res.error_msg[0]))
	}

	icc, err := jfif.EmbeddedICC(data)
	if err != nil {
		return nil, fmt.Errorf("extracting ICC: %w", err)
	}

	return &ImageInfo{
		Width:          int(res.width),
		Height:         int(res.height),
		NumComponents:  int(res.num_components),
		ColorSpace:     ir.ColorSpace(res.color_space),
		AdobeMarker:    res.saw_adobe != 0,
		AdobeTransform: int(res.adobe_transform),
		ICC:            icc,
	}, nil
}
