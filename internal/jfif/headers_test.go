package jfif

import (
	"bytes"
	"testing"

	jseg "github.com/garyhouston/jpegsegs"
)

func segment(marker jseg.Marker, payload []byte) []byte {
	n := len(payload) + 2
	out := []byte{0xff, byte(marker), byte(n >> 8), byte(n)}
	return append(out, payload...)
}

func stream(segs ...[]byte) []byte {
	out := []byte{0xff, 0xd8}
	for _, s := range segs {
		out = append(out, s...)
	}
	return out
}

const app0 jseg.Marker = 0xe0

func TestHeadersStopAtSOS(t *testing.T) {
	data := stream(
		segment(app0, []byte("JFIF\x00\x01\x02")),
		segment(APP14, []byte("Adobe\x00\x64\x00\x00\x00\x00\x02")),
		segment(SOS, []byte{1, 0, 0, 0x3f, 0}),
		[]byte{0x12, 0x34, 0xff, 0x00, 0x56}, // entropy-coded data
		segment(APP14, []byte("Adobe\x00\x64\x00\x00\x00\x00\x01")),
		[]byte{0xff, 0xd9},
	)
	segs, err := Headers(data)
	if err != nil {
		t.Fatalf("Headers: %v", err)
	}

	var app14 int
	for _, s := range segs {
		if s.Marker == APP14 {
			app14++
		}
	}
	if app14 != 1 {
		t.Errorf("got %d APP14 segments, want only the one before SOS", app14)
	}

	p, ok := First(segs, APP14)
	if !ok || !bytes.HasPrefix(p, []byte("Adobe")) || p[11] != 2 {
		t.Errorf("APP14 data = %q (found %v)", p, ok)
	}
	if _, ok := First(segs, APP2); ok {
		t.Error("found an APP2 segment that is not there")
	}
}

func TestHeadersRejectBadInput(t *testing.T) {
	full := stream(
		segment(app0, []byte("JFIF\x00")),
		segment(APP14, []byte("Adobe\x00\x64\x00\x00\x00\x00\x02")),
	)
	tests := []struct {
		name string
		data []byte
	}{
		{"not a JPEG", []byte("%PDF-1.7")},
		{"empty", nil},
		{"cut inside payload", full[:len(full)-3]},
		{"cut inside length", full[:2+9+3]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := Headers(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if segs != nil {
				t.Errorf("got %d segments alongside the error", len(segs))
			}
		})
	}
}

func TestFindCollectsInOrder(t *testing.T) {
	segs := []jseg.Segment{
		{Marker: APP2, Data: []byte("a")},
		{Marker: APP14, Data: []byte("x")},
		{Marker: APP2, Data: []byte("b")},
	}
	got := Find(segs, APP2)
	if len(got) != 2 || string(got[0]) != "a" || string(got[1]) != "b" {
		t.Errorf("Find = %q", got)
	}
}
