package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestMemStoreObjects(t *testing.T) {
	m := NewMemStore()
	free := m.AddFree()
	dict := m.AddObject()
	img := m.AddImage("DCTDecode", "DeviceCMYK", 10, 20, []byte{1, 2, 3})

	if m.Count() != 3 {
		t.Fatalf("expected 3 objects, got %d", m.Count())
	}
	if _, ok := m.Object(free); ok {
		t.Error("free index reported as present")
	}
	if o, ok := m.Object(dict); !ok || o.Stream {
		t.Errorf("expected non-stream object, got %+v %v", o, ok)
	}
	o, ok := m.Object(img)
	if !ok || !o.Stream {
		t.Fatalf("expected stream object, got %+v %v", o, ok)
	}
	if f, _ := m.StreamTag(o, "Filter"); f != "DCTDecode" {
		t.Errorf("Filter = %q", f)
	}
	if w, _ := m.StreamInt(o, "Width"); w != 10 {
		t.Errorf("Width = %d", w)
	}
	if _, err := m.StreamBytes(Object{Index: dict}); !errors.Is(err, ErrNotStream) {
		t.Errorf("expected ErrNotStream, got %v", err)
	}
	if _, err := m.StreamBytes(Object{Index: 42}); !errors.Is(err, ErrNoObject) {
		t.Errorf("expected ErrNoObject, got %v", err)
	}
}

func TestMemStoreReplaceStream(t *testing.T) {
	m := NewMemStore()
	i := m.AddStream(
		map[string]string{"Subtype": "Image", "Filter": "DCTDecode", "ColorSpace": "DeviceCMYK", "DecodeParms": "x"},
		map[string]int{"Width": 100, "Height": 50, "BitsPerComponent": 8},
		[]byte("old"),
	)
	o, _ := m.Object(i)

	if err := m.ReplaceStream(o, []byte("new"), RGBJPEG(50, 25)); err != nil {
		t.Fatalf("ReplaceStream: %v", err)
	}

	s := m.Stream(i)
	if string(s.Data) != "new" {
		t.Errorf("data = %q", s.Data)
	}
	if s.Names["ColorSpace"] != "DeviceRGB" || s.Names["Type"] != "XObject" {
		t.Errorf("unexpected names %v", s.Names)
	}
	if _, ok := s.Names["DecodeParms"]; ok {
		t.Error("DecodeParms not removed")
	}
	if s.Ints["Width"] != 50 || s.Ints["Height"] != 25 || s.Ints["BitsPerComponent"] != 8 {
		t.Errorf("unexpected ints %v", s.Ints)
	}

	var buf bytes.Buffer
	if err := m.Persist(&buf); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("persisted output is not JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Errorf("expected 1 persisted entry, got %d", len(decoded))
	}
}

func TestMemStoreStreamRef(t *testing.T) {
	m := NewMemStore()
	img := m.AddImage("DCTDecode", "DeviceRGB", 2, 2, []byte("x"))
	mask := m.AddImage("DCTDecode", "DeviceGray", 2, 2, []byte("y"))
	m.SetRef(img, "SMask", mask)

	obj, _ := m.Object(img)
	if ref, ok := m.StreamRef(obj, "SMask"); !ok || ref != mask {
		t.Errorf("StreamRef = %d %v", ref, ok)
	}
	obj, _ = m.Object(mask)
	if _, ok := m.StreamRef(obj, "SMask"); ok {
		t.Error("unexpected reference on the mask")
	}
}
