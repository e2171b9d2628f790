// Package sweep walks a document's objects and recompresses every eligible
// JPEG image stream in place.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/document"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/recompress"
)

// Recompressor re-encodes one JPEG stream.
type Recompressor interface {
	Recompress(data []byte) (*recompress.Result, error)
}

// Item records what happened to one eligible image.
type Item struct {
	Index       int
	SrcWidth    int
	SrcHeight   int
	Width       int
	Height      int
	ColorSpace  string
	YCCK        bool
	Profile     recompress.ProfileSource
	BytesBefore int
	BytesAfter  int
	Skipped     recompress.Kind // zero when the stream was replaced
	Reason      string
}

// Report summarizes a sweep.
type Report struct {
	Objects      int
	Images       int
	Eligible     int
	Recompressed int
	Skipped      map[recompress.Kind]int
	BytesBefore  int64 // eligible image payloads before
	BytesAfter   int64 // eligible image payloads after
	Items        []Item
}

func (r *Report) add(it Item) {
	r.Items = append(r.Items, it)
	r.BytesBefore += int64(it.BytesBefore)
	r.BytesAfter += int64(it.BytesAfter)
	if it.Skipped != 0 {
		r.Skipped[it.Skipped]++
	} else {
		r.Recompressed++
	}
}

// Sweeper applies a Recompressor to a Store.
type Sweeper struct {
	rc      Recompressor
	workers int
	log     *slog.Logger
}

// New returns a Sweeper. workers <= 1 processes images one at a time.
func New(rc Recompressor, workers int, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if workers < 1 {
		workers = 1
	}
	return &Sweeper{rc: rc, workers: workers, log: logger}
}

type candidate struct {
	obj  document.Object
	data []byte
}

// Eligible reports whether obj is an image stream with a single DCTDecode
// filter. Filter arrays are never eligible.
func Eligible(store document.Store, obj document.Object) (image, eligible bool) {
	if !obj.Stream {
		return false, false
	}
	if st, _ := store.StreamTag(obj, "Subtype"); st != "Image" {
		return false, false
	}
	f, ok := store.StreamTag(obj, "Filter")
	return true, ok && f == "DCTDecode"
}

// SoftMasks returns the indexes of images referenced as another image's
// /SMask. Soft masks must stay DeviceGray, so the sweep leaves them alone.
func SoftMasks(store document.Store) map[int]bool {
	masks := map[int]bool{}
	for i := 0; i < store.Count(); i++ {
		obj, ok := store.Object(i)
		if !ok || !obj.Stream {
			continue
		}
		if st, _ := store.StreamTag(obj, "Subtype"); st != "Image" {
			continue
		}
		if ref, ok := store.StreamRef(obj, "SMask"); ok {
			masks[ref] = true
		}
	}
	return masks
}

// Run recompresses every eligible image of store that is not a soft mask.
// Skipped images are left untouched; any other failure stops the sweep and
// is returned.
func (s *Sweeper) Run(ctx context.Context, store document.Store) (*Report, error) {
	rep := &Report{Objects: store.Count(), Skipped: map[recompress.Kind]int{}}
	masks := SoftMasks(store)

	var cands []candidate
	for i := 0; i < rep.Objects; i++ {
		obj, ok := store.Object(i)
		if !ok {
			continue
		}
		isImage, eligible := Eligible(store, obj)
		if isImage {
			rep.Images++
		}
		if eligible && masks[i] {
			s.log.Debug("soft mask left unchanged", "object", i)
			eligible = false
		}
		if !eligible {
			continue
		}
		data, err := store.StreamBytes(obj)
		if err != nil {
			return rep, fmt.Errorf("reading object %d: %w", i, err)
		}
		rep.Eligible++

		if s.workers == 1 {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			res, err := s.rc.Recompress(data)
			if err := s.apply(store, rep, candidate{obj, data}, res, err); err != nil {
				return rep, err
			}
			continue
		}
		cands = append(cands, candidate{obj: obj, data: data})
	}

	if len(cands) > 0 {
		if err := s.runParallel(ctx, store, rep, cands); err != nil {
			return rep, err
		}
	}

	s.log.Info("sweep finished",
		"objects", rep.Objects, "images", rep.Images, "eligible", rep.Eligible,
		"recompressed", rep.Recompressed, "bytes_before", rep.BytesBefore, "bytes_after", rep.BytesAfter)
	return rep, nil
}

func (s *Sweeper) runParallel(ctx context.Context, store document.Store, rep *Report, cands []candidate) error {
	type outcome struct {
		res  *recompress.Result
		err  error
		done bool
	}
	outcomes := make([]outcome, len(cands))

	var (
		mu     sync.Mutex
		next   int // next candidate to apply, in index order
		failed bool
	)
	// flush applies finished outcomes in order; callers hold mu.
	flush := func() error {
		for !failed && next < len(cands) && outcomes[next].done {
			o := outcomes[next]
			outcomes[next] = outcome{done: true}
			if err := s.apply(store, rep, cands[next], o.res, o.err); err != nil {
				failed = true
				return err
			}
			next++
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range cands {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.rc.Recompress(cands[i].data)

			mu.Lock()
			defer mu.Unlock()
			outcomes[i] = outcome{res: res, err: err, done: true}
			return flush()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// apply records the outcome for one candidate and replaces the stream on
// success.
func (s *Sweeper) apply(store document.Store, rep *Report, c candidate, res *recompress.Result, err error) error {
	it := Item{Index: c.obj.Index, BytesBefore: len(c.data)}

	if err != nil {
		if !recompress.IsSkip(err) {
			return fmt.Errorf("object %d: %w", c.obj.Index, err)
		}
		it.Skipped = recompress.KindOf(err)
		it.Reason = err.Error()
		it.BytesAfter = len(c.data)
		rep.add(it)
		s.log.Warn("image left unchanged", "object", c.obj.Index, "reason", it.Skipped.String(), "error", err)
		return nil
	}

	if err := store.ReplaceStream(c.obj, res.Data, document.RGBJPEG(res.Width, res.Height)); err != nil {
		return fmt.Errorf("replacing object %d: %w", c.obj.Index, err)
	}

	it.SrcWidth, it.SrcHeight = res.SrcWidth, res.SrcHeight
	it.Width, it.Height = res.Width, res.Height
	it.ColorSpace = res.Model.Native.String()
	it.YCCK = res.YCCK
	it.Profile = res.Profile
	it.BytesAfter = len(res.Data)
	rep.add(it)

	s.log.Debug("image replaced", "object", c.obj.Index,
		"width", it.Width, "height", it.Height, "bytes_before", it.BytesBefore, "bytes_after", it.BytesAfter)
	return nil
}
