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
} encode_err_mgr;

static void encode_error_exit(j_common_ptr cinfo) {
    encode_err_mgr *e = (encode_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

typedef struct {
    unsigned char *buf;
    unsigned long  size;
    int            has_error;
    char           error_msg[256];
} encode_result;

#define ICC_TAG "ICC_PROFILE"
#define ICC_TAG_LEN 12
#define ICC_HEADER_LEN 14
#define MAX_CHUNK_DATA (65535 - 2 - ICC_HEADER_LEN)

// write_icc_markers chunks and writes an ICC profile as APP2 markers.
static void write_icc_markers(j_compress_ptr cinfo, const unsigned char *icc, unsigned long icc_len) {
    int num_chunks = (icc_len + MAX_CHUNK_DATA - 1) / MAX_CHUNK_DATA;
    if (num_chunks > 255) num_chunks = 255;

    for (int i = 0; i < num_chunks; i++) {
        unsigned long offset = (unsigned long)i * MAX_CHUNK_DATA;
        unsigned long chunk_data_len = icc_len - offset;
        if (chunk_data_len > MAX_CHUNK_DATA) chunk_data_len = MAX_CHUNK_DATA;

        unsigned long marker_len = ICC_HEADER_LEN + chunk_data_len;
        unsigned char *marker = (unsigned char *)malloc(marker_len);
        if (marker == NULL) return;

        // "ICC_PROFILE\0" = 12 bytes (string literal includes null terminator)
        memcpy(marker, ICC_TAG "\0", ICC_TAG_LEN);
        marker[12] = (unsigned char)(i + 1);         // sequence number (1-based)
        marker[13] = (unsigned char)num_chunks;      // total count
        memcpy(marker + ICC_HEADER_LEN, icc + offset, chunk_data_len);

        jpeg_write_marker(cinfo, JPEG_APP0 + 2, marker, (unsigned int)marker_len);
        free(marker);
    }
}

static void set_quant_tables(j_compress_ptr cinfo, const unsigned int *t0, const unsigned int *t1) {
    if (cinfo->quant_tbl_ptrs[0] == NULL)
        cinfo->quant_tbl_ptrs[0] = jpeg_alloc_quant_table((j_common_ptr)cinfo);
    if (cinfo->quant_tbl_ptrs[1] == NULL)
        cinfo->quant_tbl_ptrs[1] = jpeg_alloc_quant_table((j_common_ptr)cinfo);

    for (int i = 0; i < 64; i++) {
        cinfo->quant_tbl_ptrs[0]->quantval[i] = (UINT16)t0[i];
        cinfo->quant_tbl_ptrs[1]->quantval[i] = (UINT16)t1[i];
    }
    cinfo->quant_tbl_ptrs[0]->sent_table = FALSE;
    cinfo->quant_tbl_ptrs[1]->sent_table = FALSE;
}

// encode_rgb_jpeg encodes RGB pixels to a baseline YCbCr JPEG (4:2:0) with
// explicit luminance/chrominance quantization tables.
static encode_result encode_rgb_jpeg(
    const unsigned char *pixels, int width, int height,
    const unsigned int *luma_qtable, const unsigned int *chroma_qtable
) {
    encode_result res;
    memset(&res, 0, sizeof(res));

    struct jpeg_compress_struct cinfo;
    encode_err_mgr jerr;
    unsigned char * volatile outbuf = NULL;
    unsigned long outsize = 0;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = encode_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        memset(&res, 0, sizeof(res));
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_compress(&cinfo);
        free(outbuf);
        return res;
    }

    jpeg_create_compress(&cinfo);
    jpeg_mem_dest(&cinfo, (unsigned char **)&outbuf, &outsize);

    cinfo.image_width = width;
    cinfo.image_height = height;
    cinfo.input_components = 3;
    cinfo.in_color_space = JCS_RGB;

    jpeg_set_defaults(&cinfo);
    cinfo.optimize_coding = TRUE;

    set_quant_tables(&cinfo, luma_qtable, chroma_qtable);
    cinfo.comp_info[0].quant_tbl_no = 0;
    cinfo.comp_info[1].quant_tbl_no = 1;
    cinfo.comp_info[2].quant_tbl_no = 1;

    jpeg_start_compress(&cinfo, TRUE);

    int row_stride = width * 3;
    while (cinfo.next_scanline < cinfo.image_height) {
        const unsigned char *row = pixels + (unsigned long)cinfo.next_scanline * row_stride;
        jpeg_write_scanlines(&cinfo, (JSAMPARRAY)&row, 1);
    }

    jpeg_finish_compress(&cinfo);
    jpeg_destroy_compress(&cinfo);

    res.buf = outbuf;
    res.size = outsize;
    return res;
}

// encode_cmyk_jpeg encodes CMYK pixels to JPEG with custom quantization tables.
// When ycck is set the data is stored as YCCK (Adobe transform 2).
static encode_result encode_cmyk_jpeg(
    const unsigned char *pixels, int width, int height,
    const unsigned int *cmy_qtable, const unsigned int *k_qtable,
    const unsigned char *icc, unsigned long icc_len, int ycck
) {
    encode_result res;
    memset(&res, 0, sizeof(res));

    struct jpeg_compress_struct cinfo;
    encode_err_mgr jerr;
    unsigned char * volatile outbuf = NULL;
    unsigned long outsize = 0;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = encode_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        memset(&res, 0, sizeof(res));
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_compress(&cinfo);
        free(outbuf);
        return res;
    }

    jpeg_create_compress(&cinfo);
    jpeg_mem_dest(&cinfo, (unsigned char **)&outbuf, &outsize);

    cinfo.image_width = width;
    cinfo.image_height = height;
    cinfo.input_components = 4;
    cinfo.in_color_space = JCS_CMYK;

    jpeg_set_defaults(&cinfo);
    if (ycck) {
        jpeg_set_colorspace(&cinfo, JCS_YCCK);
    }
    cinfo.optimize_coding = TRUE;

    // Set all sampling factors to 1x1 (no subsampling for CMYK)
    for (int i = 0; i < 4; i++) {
        cinfo.comp_info[i].h_samp_factor = 1;
        cinfo.comp_info[i].v_samp_factor = 1;
    }

    // Set quantization tables directly (pre-scaled values).
    set_quant_tables(&cinfo, cmy_qtable, k_qtable);

    cinfo.comp_info[0].quant_tbl_no = 0;
    cinfo.comp_info[1].quant_tbl_no = 0;
    cinfo.comp_info[2].quant_tbl_no = 0;
    cinfo.comp_info[3].quant_tbl_no = 1;

    jpeg_start_compress(&cinfo, TRUE);

    // Write ICC profile as APP2 marker chunks
    if (icc != NULL && icc_len > 0) {
        write_icc_markers(&cinfo, icc, icc_len);
    }

    // Write scanlines
    int row_stride = width * 4;
    while (cinfo.next_scanline < cinfo.image_height) {
        const unsigned char *row = pixels + (unsigned long)cinfo.next_scanline * row_stride;
        jpeg_write_scanlines(&cinfo, (JSAMPARRAY)&row, 1);
    }

    jpeg_finish_compress(&cinfo);
    jpeg_destroy_compress(&cinfo);

    res.buf = outbuf;
    res.size = outsize;
    return res;
}

static void free_encode_buf(unsigned char *buf) {
    free(buf);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

// EncodeRGB encodes a 3-channel raster as a baseline RGB (YCbCr) JPEG.
// quality is the explicit 0.0–1.0 compression quality; it is mapped onto
// IJG-scaled quantization tables rather than the library defaults.
func EncodeRGB(r *ir.Raster, quality float64) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if r.Channels != 3 {
		return nil, fmt.Errorf("expected 3-channel RGB raster, got %d channels", r.Channels)
	}

	luma, chroma := GenerateRGBQuantTables(QualityPercent(quality))

	var lumaC, chromaC [64]C.uint
	for i := 0; i < 64; i++ {
		lumaC[i] = C.uint(luma[i])
		chromaC[i] = C.uint(chroma[i])
	}

	res := C.encode_rgb_jpeg(
		(*C.uchar)(unsafe.Pointer(&r.Pix[0])),
		C.int(r.Width), C.int(r.Height),
		&lumaC[0], &chromaC[0],
	)

	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg encode: %s", C.GoString(&res.error_msg[0]))
	}

	defer C.free_encode_buf(res.buf)

	return C.GoBytes(unsafe.Pointer(res.buf), C.int(res.size)), nil
}

// EncoderOptions controls CMYK JPEG encoding.
type EncoderOptions struct {
	Quality      int  // 1-100, default 85
	CMYReduction int  // quality reduction for CMY vs K, default 15
	YCCK         bool // store as YCCK with an Adobe transform 2 marker
}

// EncodeCMYK encodes CMYK pixel data to JPEG format with channel-aware quantization.
// pixels must be width*height*4 bytes (CMYK interleaved).
// iccProfile is the ICC profile to embed (can be nil).
func EncodeCMYK(pixels []byte, width, height int, iccProfile []byte, opts EncoderOptions) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid geometry %dx%d", width, height)
	}
	expectedSize := width * height * 4
	if len(pixels) != expectedSize {
		return nil, fmt.Errorf("expected %d CMYK bytes, got %d", expectedSize, len(pixels))
	}

	if opts.Quality == 0 {
		opts.Quality = 85
	}
	if opts.CMYReduction == 0 {
		opts.CMYReduction = 15
	}

	cmyTable, kTable := GenerateQuantTables(opts.Quality, opts.CMYReduction)

	var cmyQtableC [64]C.uint
	var kQtableC [64]C.uint
	for i := 0; i < 64; i++ {
		cmyQtableC[i] = C.uint(cmyTable[i])
		kQtableC[i] = C.uint(kTable[i])
	}

	var iccPtr *C.uchar
	var iccLen C.ulong
	if len(iccProfile) > 0 {
		iccPtr = (*C.uchar)(unsafe.Pointer(&iccProfile[0]))
		iccLen = C.ulong(len(iccProfile))
	}

	var ycck C.int
	if opts.YCCK {
		ycck = 1
	}

	res := C.encode_cmyk_jpeg(
		(*C.uchar)(unsafe.Pointer(&pixels[0])),
		C.int(width), C.int(height),
		&cmyQtableC[0], &kQtableC[0],
		iccPtr, iccLen, ycck,
	)

	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg encode: %s", C.GoString(&res.error_msg[0]))
	}

	defer C.free_encode_buf(res.buf)

	output := C.GoBytes(unsafe.Pointer(res.buf), C.int(res.size))
	return output, nil
}
