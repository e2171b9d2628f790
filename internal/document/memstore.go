package document

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
)

// MemStream is a stream object held by a MemStore.
type MemStream struct {
	Names map[string]string `json:"names,omitempty"`
	Ints  map[string]int    `json:"ints,omitempty"`
	Refs  map[string]int    `json:"refs,omitempty"`
	Data  []byte            `json:"data"`
}

type memEntry struct {
	Stream *MemStream `json:"stream,omitempty"`
}

// MemStore is an in-memory Store. Missing indexes are represented by nil
// entries; non-stream objects by entries without a stream.
type MemStore struct {
	entries []*memEntry

	Dropped  int // DropUnused calls
	Replaced int // ReplaceStream calls
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

// AddStream appends a stream object and returns its index.
func (m *MemStore) AddStream(names map[string]string, ints map[string]int, data []byte) int {
	s := &MemStream{Names: maps.Clone(names), Ints: maps.Clone(ints), Data: data}
	if s.Names == nil {
		s.Names = map[string]string{}
	}
	if s.Ints == nil {
		s.Ints = map[string]int{}
	}
	m.entries = append(m.entries, &memEntry{Stream: s})
	return len(m.entries) - 1
}

// AddImage appends an image XObject stream.
func (m *MemStore) AddImage(filter, colorSpace string, width, height int, data []byte) int {
	return m.AddStream(
		map[string]string{"Type": "XObject", "Subtype": "Image", "Filter": filter, "ColorSpace": colorSpace},
		map[string]int{"Width": width, "Height": height, "BitsPerComponent": 8},
		data,
	)
}

// SetRef makes key of the stream at index i an indirect reference to target.
func (m *MemStore) SetRef(i int, key string, target int) {
	s := m.Stream(i)
	if s.Refs == nil {
		s.Refs = map[string]int{}
	}
	s.Refs[key] = target
}

// AddObject appends a non-stream object.
func (m *MemStore) AddObject() int {
	m.entries = append(m.entries, &memEntry{})
	return len(m.entries) - 1
}

// AddFree appends an unused index.
func (m *MemStore) AddFree() int {
	m.entries = append(m.entries, nil)
	return len(m.entries) - 1
}

// Stream returns the stream at index i, or nil.
func (m *MemStore) Stream(i int) *MemStream {
	if i < 0 || i >= len(m.entries) || m.entries[i] == nil {
		return nil
	}
	return m.entries[i].Stream
}

func (m *MemStore) Count() int { return len(m.entries) }

func (m *MemStore) Object(i int) (Object, bool) {
	if i < 0 || i >= len(m.entries) || m.entries[i] == nil {
		return Object{}, false
	}
	return Object{Index: i, Stream: m.entries[i].Stream != nil}, true
}

func (m *MemStore) stream(obj Object) (*MemStream, error) {
	if obj.Index < 0 || obj.Index >= len(m.entries) || m.entries[obj.Index] == nil {
		return nil, fmt.Errorf("object %d: %w", obj.Index, ErrNoObject)
	}
	s := m.entries[obj.Index].Stream
	if s == nil {
		return nil, fmt.Errorf("object %d: %w", obj.Index, ErrNotStream)
	}
	return s, nil
}

func (m *MemStore) StreamTag(obj Object, key string) (string, bool) {
	s, err := m.stream(obj)
	if err != nil {
		return "", false
	}
	v, ok := s.Names[key]
	return v, ok
}

func (m *MemStore) StreamInt(obj Object, key string) (int, bool) {
	s, err := m.stream(obj)
	if err != nil {
		return 0, false
	}
	v, ok := s.Ints[key]
	return v, ok
}

func (m *MemStore) StreamRef(obj Object, key string) (int, bool) {
	s, err := m.stream(obj)
	if err != nil {
		return 0, false
	}
	v, ok := s.Refs[key]
	return v, ok
}

func (m *MemStore) StreamBytes(obj Object) ([]byte, error) {
	s, err := m.stream(obj)
	if err != nil {
		return nil, err
	}
	return s.Data, nil
}

func (m *MemStore) ReplaceStream(obj Object, data []byte, meta ImageMeta) error {
	s, err := m.stream(obj)
	if err != nil {
		return err
	}
	delete(s.Names, "Decode")
	delete(s.Names, "DecodeParms")
	delete(s.Ints, "Decode")
	delete(s.Ints, "DecodeParms")
	s.Names["Type"] = meta.Type
	s.Names["Subtype"] = meta.Subtype
	s.Names["Filter"] = meta.Filter
	s.Names["ColorSpace"] = meta.ColorSpace
	s.Ints["Width"] = meta.Width
	s.Ints["Height"] = meta.Height
	s.Ints["BitsPerComponent"] = meta.BitsPerComponent
	s.Data = data
	m.Replaced++
	return nil
}

func (m *MemStore) DropUnused() error {
	m.Dropped++
	return nil
}

// Persist writes the objects as JSON.
func (m *MemStore) Persist(w io.Writer) error {
	return json.NewEncoder(w).Encode(m.entries)
}
