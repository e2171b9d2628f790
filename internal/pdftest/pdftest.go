// Package pdftest writes small single-page PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Image is an image XObject placed on the test page.
type Image struct {
	Width, Height int
	ColorSpace    string // DeviceRGB, DeviceCMYK, DeviceGray
	Filter        string // DCTDecode, FlateDecode, or a PDF array literal such as "[/FlateDecode /DCTDecode]"
	Data          []byte // stream payload, already encoded
	Extra         string // additional dictionary entries
}

// Flate returns a FlateDecode image of the given size holding flat gray.
func Flate(width, height int) Image {
	raw := bytes.Repeat([]byte{0x80}, width*height*3)
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(raw)
	zw.Close()
	return Image{Width: width, Height: height, ColorSpace: "DeviceRGB", Filter: "FlateDecode", Data: buf.Bytes()}
}

// Build returns a PDF with one page that draws every image.
func Build(images ...Image) []byte {
	var objs []string

	// 1 catalog, 2 pages, 3 page, 4 content, 5.. images
	var xobjs, content strings.Builder
	for i := range images {
		fmt.Fprintf(&xobjs, "/Im%d %d 0 R ", i, 5+i)
		fmt.Fprintf(&content, "q 100 0 0 100 %d 0 cm /Im%d Do Q\n", i*110, i)
	}

	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /XObject << %s>> >> /Contents 4 0 R >>", xobjs.String()),
		stream("", []byte(content.String())),
	)
	for _, im := range images {
		filter := im.Filter
		if !strings.HasPrefix(filter, "[") {
			filter = "/" + filter
		}
		dict := fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /%s /BitsPerComponent 8 /Filter %s %s",
			im.Width, im.Height, im.ColorSpace, filter, im.Extra)
		objs = append(objs, stream(dict, im.Data))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func stream(dict string, data []byte) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}
