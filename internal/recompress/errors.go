package recompress

import (
	"errors"
	"fmt"
)

// Kind classifies why a recompression did not produce output.
type Kind int

const (
	KindDecode Kind = iota + 1
	KindGeometry
	KindEncode
	KindProfile
	KindInvalidRaster
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindGeometry:
		return "geometry"
	case KindEncode:
		return "encode"
	case KindProfile:
		return "profile"
	case KindInvalidRaster:
		return "invalid-raster"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by Recompress. Decode, geometry and encode failures mean
// the image should be left as it is; the other kinds abort the whole run.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels matched with errors.Is through an *Error.
var (
	ErrDecode             = errors.New("image could not be decoded")
	ErrDegenerateGeometry = errors.New("scaled geometry is empty")
	ErrEncode             = errors.New("image could not be encoded")
	ErrProfileLoad        = errors.New("fallback CMYK profile unusable")
	ErrInvalidRaster      = errors.New("invalid raster")
)

func (e *Error) Is(target error) bool {
	switch target {
	case ErrDecode:
		return e.Kind == KindDecode
	case ErrDegenerateGeometry:
		return e.Kind == KindGeometry
	case ErrEncode:
		return e.Kind == KindEncode
	case ErrProfileLoad:
		return e.Kind == KindProfile
	case ErrInvalidRaster:
		return e.Kind == KindInvalidRaster
	}
	return false
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of a recompression error, or 0 if err is not one.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

// IsSkip reports whether err means "keep the original image and carry on".
func IsSkip(err error) bool {
	switch KindOf(err) {
	case KindDecode, KindGeometry, KindEncode:
		return true
	}
	return false
}
