package document

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFStore is a Store over a pdfcpu document context.
type PDFStore struct {
	ctx *model.Context
}

// Configuration returns the pdfcpu configuration used to read and write
// documents: relaxed validation, object and xref streams on output.
func Configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = true
	conf.WriteXRefStream = true
	return conf
}

// OpenPDF parses and validates a PDF document.
func OpenPDF(rs io.ReadSeeker) (*PDFStore, error) {
	ctx, err := api.ReadContext(rs, Configuration())
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validating PDF: %w", err)
	}
	return &PDFStore{ctx: ctx}, nil
}

func (s *PDFStore) Count() int {
	if s.ctx.XRefTable.Size == nil {
		return 0
	}
	return *s.ctx.XRefTable.Size
}

func (s *PDFStore) Object(i int) (Object, bool) {
	e, ok := s.ctx.XRefTable.Table[i]
	if !ok || e == nil || e.Free || e.Object == nil {
		return Object{}, false
	}
	_, isStream := e.Object.(types.StreamDict)
	return Object{Index: i, Stream: isStream}, true
}

func (s *PDFStore) streamDict(obj Object) (types.StreamDict, error) {
	e, ok := s.ctx.XRefTable.Table[obj.Index]
	if !ok || e == nil || e.Free || e.Object == nil {
		return types.StreamDict{}, fmt.Errorf("object %d: %w", obj.Index, ErrNoObject)
	}
	sd, ok := e.Object.(types.StreamDict)
	if !ok {
		return types.StreamDict{}, fmt.Errorf("object %d: %w", obj.Index, ErrNotStream)
	}
	return sd, nil
}

func (s *PDFStore) StreamTag(obj Object, key string) (string, bool) {
	sd, err := s.streamDict(obj)
	if err != nil {
		return "", false
	}
	v := sd.NameEntry(key)
	if v == nil {
		return "", false
	}
	return *v, true
}

func (s *PDFStore) StreamInt(obj Object, key string) (int, bool) {
	sd, err := s.streamDict(obj)
	if err != nil {
		return 0, false
	}
	o, found := sd.Find(key)
	if !found {
		return 0, false
	}
	if ref, isRef := o.(types.IndirectRef); isRef {
		if o, err = s.ctx.Dereference(ref); err != nil {
			return 0, false
		}
	}
	switch v := o.(type) {
	case types.Integer:
		return v.Value(), true
	case types.Float:
		return int(v.Value()), true
	}
	return 0, false
}

func (s *PDFStore) StreamRef(obj Object, key string) (int, bool) {
	sd, err := s.streamDict(obj)
	if err != nil {
		return 0, false
	}
	o, found := sd.Find(key)
	if !found {
		return 0, false
	}
	ref, ok := o.(types.IndirectRef)
	if !ok {
		return 0, false
	}
	return ref.ObjectNumber.Value(), true
}

func (s *PDFStore) StreamBytes(obj Object) ([]byte, error) {
	sd, err := s.streamDict(obj)
	if err != nil {
		return nil, err
	}
	if sd.Raw == nil {
		return nil, fmt.Errorf("object %d: stream data not loaded", obj.Index)
	}
	return sd.Raw, nil
}

func (s *PDFStore) ReplaceStream(obj Object, data []byte, meta ImageMeta) error {
	sd, err := s.streamDict(obj)
	if err != nil {
		return err
	}

	d := sd.Dict.Clone().(types.Dict)
	delete(d, "Decode")
	delete(d, "DecodeParms")
	d["Type"] = types.Name(meta.Type)
	d["Subtype"] = types.Name(meta.Subtype)
	d["Filter"] = types.Name(meta.Filter)
	d["Width"] = types.Integer(meta.Width)
	d["Height"] = types.Integer(meta.Height)
	d["BitsPerComponent"] = types.Integer(meta.BitsPerComponent)
	d["ColorSpace"] = types.Name(meta.ColorSpace)

	length := int64(len(data))
	d["Length"] = types.Integer(len(data))

	nsd := types.NewStreamDict(d, sd.StreamOffset, &length, nil,
		[]types.PDFFilter{{Name: meta.Filter}})
	nsd.Raw = data

	s.ctx.XRefTable.Table[obj.Index].Object = nsd
	return nil
}

// DropUnused runs pdfcpu's optimizer, which drops duplicate and
// unreferenced resources.
func (s *PDFStore) DropUnused() error {
	if err := api.OptimizeContext(s.ctx); err != nil {
		return fmt.Errorf("optimizing PDF: %w", err)
	}
	return nil
}

func (s *PDFStore) Persist(w io.Writer) error {
	if err := api.WriteContext(s.ctx, w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}
