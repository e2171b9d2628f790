// Package recompress re-encodes JPEG images as smaller RGB JPEGs, converting
// CMYK and YCCK data through ICC profiles on the way.
package recompress

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

// Codec decodes JPEG streams without color management and encodes RGB
// rasters as baseline JPEG.
type Codec interface {
	DecodeRaw(data []byte) (*ir.Raster, ir.ColorModel, error)
	EncodeRGB(r *ir.Raster, quality float64) ([]byte, error)
}

// Options controls a Recompressor.
type Options struct {
	Scale        float64 // resize factor applied to non-exempt images
	Quality      float64 // JPEG quality, 0.0 to 1.0
	ExemptWidth  int     // images this narrow or narrower keep their size
	ExemptHeight int     // images this short or shorter keep their size

	// FallbackProfile is the CMYK ICC profile used when an image carries
	// no usable profile of its own.
	FallbackProfile []byte
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if !(o.Scale > 0) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("scale must be a positive number, got %g", o.Scale)
	}
	if !(o.Quality >= 0 && o.Quality <= 1) {
		return fmt.Errorf("quality must be within [0, 1], got %g", o.Quality)
	}
	if o.ExemptWidth < 0 || o.ExemptHeight < 0 {
		return fmt.Errorf("exempt dimensions must not be negative, got %dx%d", o.ExemptWidth, o.ExemptHeight)
	}
	return nil
}

// Exempt reports whether an image of the given size keeps its dimensions.
// Only images larger than both thresholds are scaled.
func (o Options) Exempt(w, h int) bool {
	return w <= o.ExemptWidth || h <= o.ExemptHeight
}

// Result describes a successful recompression.
type Result struct {
	Data      []byte
	Width     int
	Height    int
	SrcWidth  int
	SrcHeight int
	Model     ir.ColorModel
	CMYK      bool
	YCCK      bool
	Profile   ProfileSource
	Scale     float64 // factor actually applied
}

// Recompressor runs decode, color conversion, scaling and encode for single
// JPEG streams. It holds no per-image state and may be shared between
// goroutines when its Codec and ColorEngine allow it.
type Recompressor struct {
	codec  Codec
	engine ColorEngine
	opts   Options
	log    *slog.Logger
}

// New returns a Recompressor. A nil logger discards log output.
func New(codec Codec, engine ColorEngine, opts Options, logger *slog.Logger) (*Recompressor, error) {
	if codec == nil || engine == nil {
		return nil, errors.New("recompress: codec and color engine are required")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("recompress: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recompressor{codec: codec, engine: engine, opts: opts, log: logger}, nil
}

// Options returns the options the Recompressor was built with.
func (rc *Recompressor) Options() Options { return rc.opts }

// Recompress re-encodes one JPEG stream. Errors for which IsSkip is true
// mean the caller should keep the original bytes.
func (rc *Recompressor) Recompress(data []byte) (*Result, error) {
	raster, model, err := rc.codec.DecodeRaw(data)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	if err := raster.Validate(); err != nil {
		return nil, &Error{Kind: KindInvalidRaster, Err: fmt.Errorf("decoded raster: %w", err)}
	}

	res := &Result{
		SrcWidth:  raster.Width,
		SrcHeight: raster.Height,
		Model:     model,
		CMYK:      IsCMYK(model),
	}

	if res.CMYK {
		if raster.Channels != 4 {
			return nil, newError(KindInvalidRaster, "CMYK stream decoded to %d channels", raster.Channels)
		}
		if IsYCCK(data) {
			if err := YCCKToCMYK(raster); err != nil {
				return nil, &Error{Kind: KindInvalidRaster, Err: err}
			}
			res.YCCK = true
		}

		raster, res.Profile, err = rc.convertCMYK(data, raster)
		if err != nil {
			return nil, err
		}
		if err := raster.Validate(); err != nil {
			return nil, &Error{Kind: KindInvalidRaster, Err: fmt.Errorf("converted raster: %w", err)}
		}
		if raster.Channels != 3 {
			return nil, newError(KindInvalidRaster, "color engine returned %d-channel raster", raster.Channels)
		}
	}

	res.Scale = rc.opts.Scale
	if rc.opts.Exempt(res.SrcWidth, res.SrcHeight) {
		res.Scale = 1
	}

	scaled, err := Scale(raster, res.Scale)
	if err != nil {
		if errors.Is(err, ErrDegenerateGeometry) {
			return nil, &Error{Kind: KindGeometry, Err: err}
		}
		return nil, &Error{Kind: KindInvalidRaster, Err: err}
	}

	out, err := rc.codec.EncodeRGB(scaled, rc.opts.Quality)
	if err != nil {
		return nil, &Error{Kind: KindEncode, Err: fmt.Errorf("%w: %w", ErrEncode, err)}
	}

	res.Data = out
	res.Width = scaled.Width
	res.Height = scaled.Height

	rc.log.Debug("recompressed image",
		"src_width", res.SrcWidth, "src_height", res.SrcHeight,
		"width", res.Width, "height", res.Height,
		"color_space", model.Native.String(), "ycck", res.YCCK, "profile", string(res.Profile),
		"bytes_in", len(data), "bytes_out", len(out))
	return res, nil
}
