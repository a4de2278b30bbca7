package host

import (
	"github.com/keiv-fly/kayton-go/internal/kayerr"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
)

// TupleMeta records where a tuple's elements live in the shared items
// arena: a (start, len) run. Tuples are immutable after construction, so
// no in-place mutation is ever needed once a run is recorded.
type TupleMeta struct {
	Start, Len uint32
}

// NewTuple copies items into the flat items arena, records the (start,
// len) run, and returns a handle of kind Tuple whose index is the meta
// arena's index.
func (s *State) NewTuple(items []kayvm.Handle) kayvm.Handle {
	start := uint32(s.TupleItems.Len())
	for _, it := range items {
		s.TupleItems.Append(it)
	}
	idx := s.TupleMeta.Append(TupleMeta{Start: start, Len: uint32(len(items))})
	return kayvm.Pack(kayvm.KindTuple, idx)
}

func (s *State) TupleLen(h kayvm.Handle) (int, error) {
	if h.Kind != kayvm.KindTuple {
		return 0, kayvm.ErrWrongKind(h.Kind, kayvm.KindTuple)
	}
	m, err := s.TupleMeta.Get(h.Index)
	if err != nil {
		return 0, err
	}
	return int(m.Len), nil
}

func (s *State) TupleItem(h kayvm.Handle, i int) (kayvm.Handle, error) {
	if h.Kind != kayvm.KindTuple {
		return kayvm.Handle{}, kayvm.ErrWrongKind(h.Kind, kayvm.KindTuple)
	}
	m, err := s.TupleMeta.Get(h.Index)
	if err != nil {
		return kayvm.Handle{}, err
	}
	if i < 0 || uint32(i) >= m.Len {
		return kayvm.Handle{}, kayerr.New(kayerr.NotFound, "tuple index %d out of range (len %d)", i, m.Len)
	}
	return s.TupleItems.Get(m.Start + uint32(i))
}

// ReadTupleInto copies a tuple's elements into a caller-provided slice,
// capped at len(dst). Returns the number of elements written.
func (s *State) ReadTupleInto(h kayvm.Handle, dst []kayvm.Handle) (int, error) {
	n, err := s.TupleLen(h)
	if err != nil {
		return 0, err
	}
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		item, err := s.TupleItem(h, i)
		if err != nil {
			return i, err
		}
		dst[i] = item
	}
	return n, nil
}
