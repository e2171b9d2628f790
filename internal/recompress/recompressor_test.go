package recompress

import (
	"errors"
	"testing"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

var (
	fallbackProfile = iccProfile("fallback", "CMYK")
	embeddedProfile = iccProfile("embedded", "CMYK")
)

func defaultOptions() Options {
	return Options{Scale: 0.5, Quality: 0.5, FallbackProfile: fallbackProfile}
}

func newTestRecompressor(t *testing.T, codec Codec, engine ColorEngine, opts Options) *Recompressor {
	t.Helper()
	rc, err := New(codec, engine, opts, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rc
}

func TestRecompressRGBIsNotConverted(t *testing.T) {
	codec := &fakeCodec{
		raster: filled(40, 20, 3, 100),
		model:  ir.ColorModel{Native: ir.SpaceYCbCr, Components: 3},
	}
	engine := &fakeEngine{}
	rc := newTestRecompressor(t, codec, engine, defaultOptions())

	// An Adobe transform 2 marker must not matter for non-CMYK data.
	res, err := rc.Recompress(jpegHeader(adobe(2)))
	if err != nil {
		t.Fatalf("Recompress: %v", err)
	}
	if len(engine.used) != 0 {
		t.Errorf("color engine should not run for RGB input, used %v", engine.used)
	}
	if res.CMYK || res.YCCK {
		t.Errorf("RGB input classified as CMYK=%v YCCK=%v", res.CMYK, res.YCCK)
	}
	if res.Width != 20 || res.Height != 10 {
		t.Errorf("expected 20x10, got %dx%d", res.Width, res.Height)
	}
	if codec.quality != 0.5 {
		t.Errorf("expected quality 0.5, got %g", codec.quality)
	}
}

func TestRecompressYCCKFixedBeforeConversion(t *testing.T) {
	codec := &fakeCodec{
		raster: filled(4, 4, 4, 128),
		model:  ir.ColorModel{Native: ir.SpaceYCCK, Components: 4},
	}
	engine := &fakeEngine{}
	rc := newTestRecompressor(t, codec, engine, Options{Scale: 1, Quality: 0.8, FallbackProfile: fallbackProfile})

	res, err := rc.Recompress(jpegHeader(adobe(2)))
	if err != nil {
		t.Fatalf("Recompress: %v", err)
	}
	if !res.CMYK || !res.YCCK {
		t.Fatalf("expected CMYK and YCCK, got CMYK=%v YCCK=%v", res.CMYK, res.YCCK)
	}
	for c := 0; c < 3; c++ {
		if v := engine.input.Pix[c]; v < 126 || v > 128 {
			t.Errorf("channel %d fed to engine = %d, want 127±1", c, v)
		}
	}
	if engine.input.Pix[3] != 128 {
		t.Errorf("K changed to %d", engine.input.Pix[3])
	}
	if res.Profile != ProfileFallback {
		t.Errorf("expected fallback profile, got %q", res.Profile)
	}
}

func TestRecompressCMYKWithoutYCCKMarker(t *testing.T) {
	for _, data := range [][]byte{jpegHeader(), jpegHeader(adobe(0)), jpegHeader(adobe(1))} {
		codec := &fakeCodec{
			raster: filled(4, 4, 4, 128),
			model:  ir.ColorModel{Native: ir.SpaceCMYK, Components: 4},
		}
		engine := &fakeEngine{}
		rc := newTestRecompressor(t, codec, engine, defaultOptions())

		res, err := rc.Recompress(data)
		if err != nil {
			t.Fatalf("Recompress: %v", err)
		}
		if res.YCCK {
			t.Error("YCCK fix applied without transform 2")
		}
		for i, v := range engine.input.Pix {
			if v != 128 {
				t.Fatalf("engine input modified at %d: %d", i, v)
			}
		}
	}
}

func TestRecompressPrefersEmbeddedProfile(t *testing.T) {
	codec := &fakeCodec{
		raster: filled(4, 4, 4, 0),
		model:  ir.ColorModel{Native: ir.SpaceCMYK, Components: 4},
	}
	engine := &fakeEngine{}
	rc := newTestRecompressor(t, codec, engine, defaultOptions())

	res, err := rc.Recompress(jpegHeader(app2ICC(embeddedProfile)))
	if err != nil {
		t.Fatalf("Recompress: %v", err)
	}
	if res.Profile != ProfileEmbedded {
		t.Errorf("expected embedded profile, got %q", res.Profile)
	}
	if len(engine.used) != 1 || engine.used[0] != "embedded" {
		t.Errorf("unexpected profiles used: %v", engine.used)
	}
}

func TestRecompressFallsBackFromBadEmbeddedProfile(t *testing.T) {
	cases := []struct {
		name   string
		data   []byte
		reject map[string]bool
		used   []string
	}{
		{"rgb profile", jpegHeader(app2ICC(iccProfile("embedded", "RGB "))), nil, []string{"fallback"}},
		{"garbage profile", jpegHeader(app2ICC([]byte("not an icc profile"))), nil, []string{"fallback"}},
		{"rejected by engine", jpegHeader(app2ICC(embeddedProfile)), map[string]bool{"embedded": true}, []string{"embedded", "fallback"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			codec := &fakeCodec{
				raster: filled(4, 4, 4, 0),
				model:  ir.ColorModel{Native: ir.SpaceCMYK, Components: 4},
			}
			engine := &fakeEngine{reject: c.reject}
			rc := newTestRecompressor(t, codec, engine, defaultOptions())

			res, err := rc.Recompress(c.data)
			if err != nil {
				t.Fatalf("Recompress: %v", err)
			}
			if res.Profile != ProfileFallback {
				t.Errorf("expected fallback, got %q", res.Profile)
			}
			if len(engine.used) != len(c.used) {
				t.Fatalf("profiles used %v, want %v", engine.used, c.used)
			}
			for i := range c.used {
				if engine.used[i] != c.used[i] {
					t.Errorf("profiles used %v, want %v", engine.used, c.used)
				}
			}
		})
	}
}

func TestRecompressFallbackFailureIsFatal(t *testing.T) {
	codec := &fakeCodec{
		raster: filled(4, 4, 4, 0),
		model:  ir.ColorModel{Native: ir.SpaceCMYK, Components: 4},
	}
	engine := &fakeEngine{reject: map[string]bool{"fallback": true}}
	rc := newTestRecompressor(t, codec, engine, defaultOptions())

	_, err := rc.Recompress(jpegHeader())
	if KindOf(err) != KindProfile {
		t.Fatalf("expected profile error, got %v", err)
	}
	if IsSkip(err) {
		t.Error("fallback failure must not be skippable")
	}
	if !errors.Is(err, ErrProfileLoad) {
		t.Error("expected errors.Is(err, ErrProfileLoad)")
	}
}

func TestRecompressExemption(t *testing.T) {
	cases := []struct {
		name         string
		w, h         int
		exemptW      int
		exemptH      int
		wantW, wantH int
		wantScale    float64
	}{
		{"larger than both", 2000, 1500, 1024, 768, 1000, 750, 0.5},
		{"narrow enough", 2000, 1500, 2048, 768, 2000, 1500, 1},
		{"short enough", 2000, 700, 1024, 768, 2000, 700, 1},
		{"equal width exempt", 1024, 1500, 1024, 768, 1024, 1500, 1},
		{"no thresholds", 40, 30, 0, 0, 20, 15, 0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			codec := &fakeCodec{
				raster: filled(c.w, c.h, 3, 5),
				model:  ir.ColorModel{Native: ir.SpaceYCbCr, Components: 3},
			}
			opts := Options{Scale: 0.5, Quality: 0.5, ExemptWidth: c.exemptW, ExemptHeight: c.exemptH}
			rc := newTestRecompressor(t, codec, &fakeEngine{}, opts)

			res, err := rc.Recompress(jpegHeader())
			if err != nil {
				t.Fatalf("Recompress: %v", err)
			}
			if res.Width != c.wantW || res.Height != c.wantH || res.Scale != c.wantScale {
				t.Errorf("got %dx%d at %g, want %dx%d at %g",
					res.Width, res.Height, res.Scale, c.wantW, c.wantH, c.wantScale)
			}
		})
	}
}

func TestRecompressSkips(t *testing.T) {
	rgb := ir.ColorModel{Native: ir.SpaceYCbCr, Components: 3}
	cases := []struct {
		name  string
		codec *fakeCodec
		opts  Options
		kind  Kind
	}{
		{"decode", &fakeCodec{decodeErr: errors.New("corrupt")}, defaultOptions(), KindDecode},
		{"degenerate", &fakeCodec{raster: filled(3, 3, 3, 0), model: rgb}, Options{Scale: 0.1}, KindGeometry},
		{"encode", &fakeCodec{raster: filled(4, 4, 3, 0), model: rgb, encodeErr: errors.New("disk full")}, defaultOptions(), KindEncode},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rc := newTestRecompressor(t, c.codec, &fakeEngine{}, c.opts)
			res, err := rc.Recompress(jpegHeader())
			if res != nil {
				t.Errorf("expected no result, got %+v", res)
			}
			if KindOf(err) != c.kind {
				t.Errorf("expected kind %s, got %v", c.kind, err)
			}
			if !IsSkip(err) {
				t.Errorf("expected skippable error, got %v", err)
			}
		})
	}
}

func TestRecompressInvalidRaster(t *testing.T) {
	codec := &fakeCodec{
		raster: &ir.Raster{Width: 4, Height: 4, Channels: 3, Pix: make([]byte, 7)},
		model:  ir.ColorModel{Native: ir.SpaceYCbCr, Components: 3},
	}
	rc := newTestRecompressor(t, codec, &fakeEngine{}, defaultOptions())
	_, err := rc.Recompress(jpegHeader())
	if KindOf(err) != KindInvalidRaster || IsSkip(err) {
		t.Errorf("expected fatal invalid-raster error, got %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	bad := []Options{
		{Scale: 0, Quality: 0.5},
		{Scale: -1, Quality: 0.5},
		{Scale: 0.5, Quality: 1.5},
		{Scale: 0.5, Quality: -0.1},
		{Scale: 0.5, Quality: 0.5, ExemptWidth: -1},
		{Scale: 0.5, Quality: 0.5, ExemptHeight: -1},
	}
	for _, o := range bad {
		if err := o.Validate(); err == nil {
			t.Errorf("expected error for %+v", o)
		}
	}
	if err := (Options{Scale: 2, Quality: 0}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := New(nil, &fakeEngine{}, defaultOptions(), nil); err == nil {
		t.Error("expected error for nil codec")
	}
}
