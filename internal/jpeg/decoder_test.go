package jpeg

import (
	"os"
	"testing"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

func TestDecodeRawCMYKRoundTrip(t *testing.T) {
	width, height := 16, 8
	pixels := make([]byte, width*height*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i] = 200
		pixels[i+1] = 40
		pixels[i+2] = 90
		pixels[i+3] = 10
	}

	data, err := EncodeCMYK(pixels, width, height, nil, EncoderOptions{Quality: 100, CMYReduction: -1})
	if err != nil {
		t.Fatalf("EncodeCMYK: %v", err)
	}

	r, model, err := DecodeRaw(data)
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	if model.Native != ir.SpaceCMYK || model.Components != 4 {
		t.Errorf("unexpected model %s/%d", model.Native, model.Components)
	}
	if r.Width != width || r.Height != height || r.Channels != 4 {
		t.Fatalf("unexpected raster %dx%dx%d", r.Width, r.Height, r.Channels)
	}

	// flat color survives near-lossless encode
	for i, want := range pixels[:4] {
		got := r.Pix[i]
		if d := int(got) - int(want); d < -3 || d > 3 {
			t.Errorf("channel %d: got %d, want ~%d", i, got, want)
		}
	}
}

func TestDecodeRawYCCKIsUnconverted(t *testing.T) {
	width, height := 8, 8
	pixels := make([]byte, width*height*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i] = 30
		pixels[i+1] = 160
		pixels[i+2] = 220
		pixels[i+3] = 70
	}

	data, err := EncodeCMYK(pixels, width, height, nil, EncoderOptions{Quality: 100, CMYReduction: -1, YCCK: true})
	if err != nil {
		t.Fatalf("EncodeCMYK: %v", err)
	}

	r, model, err := DecodeRaw(data)
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	if model.Native != ir.SpaceYCCK {
		t.Fatalf("expected YCCK model, got %s", model.Native)
	}
	if r.Channels != 4 {
		t.Fatalf("expected 4 channels, got %d", r.Channels)
	}

	// K passes through the YCCK transform untouched
	if d := int(r.Pix[3]) - 70; d < -3 || d > 3 {
		t.Errorf("K: got %d, want ~70", r.Pix[3])
	}
	// C/M/Y are stored as Y/Cb/Cr and must not have been converted back
	if d := int(r.Pix[0]) - 30; d >= -3 && d <= 3 {
		t.Errorf("first channel looks converted to CMYK: %d", r.Pix[0])
	}
}

func TestDecodeRawRGB(t *testing.T) {
	src := ir.NewRaster(10, 6, 3)
	for i := range src.Pix {
		src.Pix[i] = 120
	}
	data, err := EncodeRGB(src, 0.9)
	if err != nil {
		t.Fatalf("EncodeRGB: %v", err)
	}

	r, model, err := DecodeRaw(data)
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	if model.Native != ir.SpaceYCbCr || r.Channels != 3 {
		t.Errorf("expected YCbCr decoded to 3 channels, got %s/%d", model.Native, r.Channels)
	}
	if r.Width != 10 || r.Height != 6 {
		t.Errorf("unexpected dimensions: %dx%d", r.Width, r.Height)
	}
}

func TestDecodeRawGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		{0xff},
		[]byte("not a jpeg at all"),
	}
	for _, data := range cases {
		if _, _, err := DecodeRaw(data); err == nil {
			t.Errorf("expected error decoding %q", data)
		}
	}
}

func TestDecodeRawFile(t *testing.T) {
	path := os.Getenv("PDFREDUCE_TEST_CMYK_JPEG")
	if path == "" {
		t.Skip("PDFREDUCE_TEST_CMYK_JPEG not set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("test file not available: %v", err)
	}

	r, model, err := DecodeRaw(data)
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	t.Logf("%s: %dx%d, %d channels, native %s", path, r.Width, r.Height, r.Channels, model.Native)
}
