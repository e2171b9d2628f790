// Package document gives the sweep indexed access to a document's objects
// and lets it swap image stream payloads.
package document

import (
	"errors"
	"io"
)

var (
	ErrNoObject  = errors.New("no such object")
	ErrNotStream = errors.New("object is not a stream")
)

// Object identifies one object of a document by its index.
type Object struct {
	Index  int
	Stream bool
}

// ImageMeta is the image dictionary written alongside replaced stream data.
type ImageMeta struct {
	Type             string
	Subtype          string
	Filter           string
	Width            int
	Height           int
	BitsPerComponent int
	ColorSpace       string
}

// RGBJPEG returns the metadata of an 8-bit DeviceRGB JPEG image XObject.
func RGBJPEG(width, height int) ImageMeta {
	return ImageMeta{
		Type:             "XObject",
		Subtype:          "Image",
		Filter:           "DCTDecode",
		Width:            width,
		Height:           height,
		BitsPerComponent: 8,
		ColorSpace:       "DeviceRGB",
	}
}

// Store is an indexed, mutable view of a document's objects.
type Store interface {
	// Count returns the size of the object index space. Indexes may be
	// sparse; Object reports false for unused ones.
	Count() int
	Object(i int) (Object, bool)

	// StreamTag returns a name-valued entry of a stream dictionary, without
	// the leading slash. ok is false when the key is absent or not a name.
	StreamTag(obj Object, key string) (string, bool)
	// StreamInt returns an integer-valued entry of a stream dictionary.
	StreamInt(obj Object, key string) (int, bool)
	// StreamRef returns the object index an indirect reference entry of a
	// stream dictionary points to.
	StreamRef(obj Object, key string) (int, bool)
	// StreamBytes returns the stream's payload as stored, still encoded.
	StreamBytes(obj Object) ([]byte, error)
	// ReplaceStream swaps the payload and rewrites the image entries. Entries
	// describing the previous encoding (/Decode, /DecodeParms) are removed.
	ReplaceStream(obj Object, data []byte, meta ImageMeta) error

	// DropUnused removes objects that are no longer referenced.
	DropUnused() error
	// Persist writes the document with maximal structural compression.
	Persist(w io.Writer) error
}
