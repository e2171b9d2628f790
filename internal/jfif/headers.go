// Package jfif reads the header marker segments of JPEG streams without
// decoding image data.
package jfif

import (
	"bufio"
	"bytes"

	jseg "github.com/garyhouston/jpegsegs"
)

// Marker codes used by this package.
const (
	APP2  jseg.Marker = 0xe2
	APP14 jseg.Marker = 0xee
	SOS   jseg.Marker = 0xda
)

// Headers returns the marker segments of a JPEG stream up to and including
// SOS. A stream that is not a JPEG or ends inside its header yields an
// error and no segments.
func Headers(data []byte) ([]jseg.Segment, error) {
	_, segs, err := jseg.ReadAll(bufio.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, err
	}
	return segs, nil
}

// First returns the data of the first segment with the given marker.
func First(segs []jseg.Segment, marker jseg.Marker) ([]byte, bool) {
	for _, s := range segs {
		if s.Marker == marker {
			return s.Data, true
		}
	}
	return nil, false
}

// Find returns the data of all segments with the given marker.
func Find(segs []jseg.Segment, marker jseg.Marker) [][]byte {
	var out [][]byte
	for _, s := range segs {
		if s.Marker == marker {
			out = append(out, s.Data)
		}
	}
	return out
}
