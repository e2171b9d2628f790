// Package reducer shrinks PDF documents by recompressing their JPEG images.
package reducer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/color"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/document"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/icc"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/jpeg"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/recompress"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/sweep"
)

// ErrInvalidOptions is returned before any input is read when Options are
// out of range.
var ErrInvalidOptions = errors.New("invalid reduce options")

// Options controls Reduce.
type Options struct {
	Scale        float64
	Quality      float64
	ExemptWidth  int
	ExemptHeight int
	CMYKProfile  string // path to a CMYK ICC profile; empty selects the bundled press profile
	Intent       string // lcms2 rendering intent name; empty means perceptual
	Workers      int

	Logger *slog.Logger
}

// Validate checks option ranges.
func (o Options) Validate() error {
	ro := recompress.Options{Scale: o.Scale, Quality: o.Quality, ExemptWidth: o.ExemptWidth, ExemptHeight: o.ExemptHeight}
	if err := ro.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidOptions)
	}
	if o.Intent != "" {
		if _, err := color.ParseIntent(o.Intent); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
	}
	return nil
}

// Result summarizes a Reduce call.
type Result struct {
	BytesOut int64
	Report   *sweep.Report
}

// FallbackProfile returns the CMYK profile at path, or the bundled SWOP press
// CMYK profile when path is empty.
func FallbackProfile(path string) ([]byte, error) {
	if path == "" {
		return icc.DefaultCMYKProfile(), nil
	}
	return icc.LoadCMYKProfile(path)
}

// NewRecompressor builds the libjpeg/lcms2 recompressor configured by opts.
func NewRecompressor(opts Options) (*recompress.Recompressor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	intent := color.IntentPerceptual
	if opts.Intent != "" {
		intent, _ = color.ParseIntent(opts.Intent)
	}

	profile, err := FallbackProfile(opts.CMYKProfile)
	if err != nil {
		return nil, &recompress.Error{Kind: recompress.KindProfile, Err: fmt.Errorf("%w: %w", recompress.ErrProfileLoad, err)}
	}

	return recompress.New(jpeg.Codec{}, color.NewEngine(intent), recompress.Options{
		Scale:           opts.Scale,
		Quality:         opts.Quality,
		ExemptWidth:     opts.ExemptWidth,
		ExemptHeight:    opts.ExemptHeight,
		FallbackProfile: profile,
	}, opts.Logger)
}

// Reduce reads a PDF from in, recompresses its JPEG images and writes the
// result to out. Nothing is written to out unless the whole document was
// processed and rendered successfully.
func Reduce(ctx context.Context, in io.ReadSeeker, out io.Writer, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rc, err := NewRecompressor(opts)
	if err != nil {
		return nil, err
	}

	store, err := document.OpenPDF(in)
	if err != nil {
		return nil, err
	}

	return ReduceStore(ctx, store, rc, out, opts.Workers, logger)
}

// ReduceStore runs the sweep over an already opened store and persists it.
func ReduceStore(ctx context.Context, store document.Store, rc sweep.Recompressor, out io.Writer, workers int, logger *slog.Logger) (*Result, error) {
	rep, err := sweep.New(rc, workers, logger).Run(ctx, store)
	if err != nil {
		return &Result{Report: rep}, fmt.Errorf("sweep: %w", err)
	}
	return persist(store, out, rep)
}

func persist(store document.Store, out io.Writer, rep *sweep.Report) (*Result, error) {
	if err := store.DropUnused(); err != nil {
		return &Result{Report: rep}, err
	}

	var buf bytes.Buffer
	if err := store.Persist(&buf); err != nil {
		return &Result{Report: rep}, err
	}
	n, err := buf.WriteTo(out)
	if err != nil {
		return &Result{Report: rep, BytesOut: n}, fmt.Errorf("writing output: %w", err)
	}
	return &Result{Report: rep, BytesOut: n}, nil
}
