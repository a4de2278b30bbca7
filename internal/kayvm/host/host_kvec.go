package host

import (
	"encoding/binary"
	"math"

	"github.com/keiv-fly/kayton-go/internal/kayerr"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
)

// KVec is a typed, homogeneous, POD-element byte vector. Its length is
// kept in bytes (so one struct describes any POD element kind); element
// count is len(Bytes) / ElementSize(ElementKind). This Go representation
// keeps the bytes as a plain []byte rather than a raw pointer/cap triple,
// since Go slices already carry their own capacity and the GC owns the
// backing array — a KVec slot is stored with no drop callback, so dropping
// it only marks the slot unreadable.
type KVec struct {
	Bytes       []byte
	ElementKind kayvm.Kind
}

// ElementSize returns the byte width of one element of kind k, or an error
// if k cannot appear as a KVec element kind.
func ElementSize(k kayvm.Kind) (int, error) {
	switch k {
	case kayvm.KindU8, kayvm.KindI8, kayvm.KindBool:
		return 1, nil
	case kayvm.KindU16, kayvm.KindI16:
		return 2, nil
	case kayvm.KindU32, kayvm.KindI32, kayvm.KindF32:
		return 4, nil
	case kayvm.KindU64, kayvm.KindI64, kayvm.KindF64, kayvm.KindUSize, kayvm.KindISize:
		return 8, nil
	case kayvm.KindU128, kayvm.KindI128:
		return 16, nil
	default:
		return 0, kayerr.New(kayerr.Generic, "kind %s cannot be a typed-vector element", k)
	}
}

// NewI64Vec builds a KVec from a native []int64, matching the typed-vector
// round-trip law: element-wise equality, correct element count, and the
// same element kind tag on the way back out via ReadI64Vec.
func (s *State) NewI64Vec(name string, values []int64) (kayvm.Handle, error) {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(v))
	}
	return s.setKVec(name, KVec{Bytes: buf, ElementKind: kayvm.KindI64})
}

func (s *State) NewF64Vec(name string, values []float64) (kayvm.Handle, error) {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return s.setKVec(name, KVec{Bytes: buf, ElementKind: kayvm.KindF64})
}

func (s *State) setKVec(name string, v KVec) (kayvm.Handle, error) {
	if existing, err := s.Names.Resolve(name); err == nil && existing.Kind == kayvm.KindKVec {
		_ = s.KVec.SetAt(existing.Index, v, nil)
		return existing, nil
	}
	idx := s.KVec.Append(v)
	h := kayvm.Pack(kayvm.KindKVec, idx)
	s.Names.Bind(name, h)
	return h, nil
}

func (s *State) ReadI64Vec(h kayvm.Handle) ([]int64, error) {
	if h.Kind != kayvm.KindKVec {
		return nil, kayvm.ErrWrongKind(h.Kind, kayvm.KindKVec)
	}
	v, err := s.KVec.Get(h.Index)
	if err != nil {
		return nil, err
	}
	if v.ElementKind != kayvm.KindI64 {
		return nil, kayerr.New(kayerr.Generic, "kvec element kind is %s, not i64", v.ElementKind)
	}
	n := len(v.Bytes) / 8
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = int64(binary.LittleEndian.Uint64(v.Bytes[i*8:]))
	}
	return out, nil
}

// DropKVec drops a typed-vector slot by handle. The Bytes backing array is
// GC-owned, so this only marks the slot unreadable, matching the note on
// KVec above.
func (s *State) DropKVec(h kayvm.Handle) error {
	if h.Kind != kayvm.KindKVec {
		return kayvm.ErrWrongKind(h.Kind, kayvm.KindKVec)
	}
	return s.KVec.Drop(h.Index)
}

func (s *State) ReadF64Vec(h kayvm.Handle) ([]float64, error) {
	if h.Kind != kayvm.KindKVec {
		return nil, kayvm.ErrWrongKind(h.Kind, kayvm.KindKVec)
	}
	v, err := s.KVec.Get(h.Index)
	if err != nil {
		return nil, err
	}
	if v.ElementKind != kayvm.KindF64 {
		return nil, kayerr.New(kayerr.Generic, "kvec element kind is %s, not f64", v.ElementKind)
	}
	n := len(v.Bytes) / 8
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(v.Bytes[i*8:]))
	}
	return out, nil
}

func (s *State) KVecLen(h kayvm.Handle) (int, error) {
	if h.Kind != kayvm.KindKVec {
		return 0, kayvm.ErrWrongKind(h.Kind, kayvm.KindKVec)
	}
	v, err := s.KVec.Get(h.Index)
	if err != nil {
		return 0, err
	}
	sz, err := ElementSize(v.ElementKind)
	if err != nil {
		return 0, err
	}
	return len(v.Bytes) / sz, nil
}
