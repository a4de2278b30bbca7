package host

import "github.com/keiv-fly/kayton-go/internal/kayvm"

// Signed-integer and bool accessors. Grounded on vm_fns_sint.rs, which
// covers i8/i16/i32/i64/i128/isize/bool together as one "signed-ish" family
// — bool lives here for the same reason it does in the Rust source: it is
// a single-bit signed-adjacent scalar with identical set/get shape.

func (s *State) SetI8(name string, v int8) kayvm.Handle { return setScalar(s, s.I8, kayvm.KindI8, name, v) }
func (s *State) GetI8(name string) (int8, error)        { return getScalar(s, s.I8, kayvm.KindI8, name) }
func (s *State) GetI8ByHandle(h kayvm.Handle) (int8, error) { return getScalarByHandle(s.I8, kayvm.KindI8, h) }

func (s *State) SetI16(name string, v int16) kayvm.Handle { return setScalar(s, s.I16, kayvm.KindI16, name, v) }
func (s *State) GetI16(name string) (int16, error)        { return getScalar(s, s.I16, kayvm.KindI16, name) }
func (s *State) GetI16ByHandle(h kayvm.Handle) (int16, error) {
	return getScalarByHandle(s.I16, kayvm.KindI16, h)
}

func (s *State) SetI32(name string, v int32) kayvm.Handle { return setScalar(s, s.I32, kayvm.KindI32, name, v) }
func (s *State) GetI32(name string) (int32, error)        { return getScalar(s, s.I32, kayvm.KindI32, name) }
func (s *State) GetI32ByHandle(h kayvm.Handle) (int32, error) {
	return getScalarByHandle(s.I32, kayvm.KindI32, h)
}

func (s *State) SetI64(name string, v int64) kayvm.Handle { return setScalar(s, s.I64, kayvm.KindI64, name, v) }
func (s *State) GetI64(name string) (int64, error)        { return getScalar(s, s.I64, kayvm.KindI64, name) }
func (s *State) GetI64ByHandle(h kayvm.Handle) (int64, error) {
	return getScalarByHandle(s.I64, kayvm.KindI64, h)
}

func (s *State) SetISize(name string, v int64) kayvm.Handle {
	return setScalar(s, s.ISize, kayvm.KindISize, name, v)
}
func (s *State) GetISize(name string) (int64, error) { return getScalar(s, s.ISize, kayvm.KindISize, name) }
func (s *State) GetISizeByHandle(h kayvm.Handle) (int64, error) {
	return getScalarByHandle(s.ISize, kayvm.KindISize, h)
}

func (s *State) SetI128(name string, lo, hi uint64) kayvm.Handle {
	return setScalar(s, s.I128, kayvm.KindI128, name, [2]uint64{lo, hi})
}
func (s *State) GetI128(name string) (lo, hi uint64, err error) {
	v, err := getScalar(s, s.I128, kayvm.KindI128, name)
	if err != nil {
		return 0, 0, err
	}
	return v[0], v[1], nil
}
func (s *State) GetI128ByHandle(h kayvm.Handle) (lo, hi uint64, err error) {
	v, err := getScalarByHandle(s.I128, kayvm.KindI128, h)
	if err != nil {
		return 0, 0, err
	}
	return v[0], v[1], nil
}

func (s *State) SetBool(name string, v bool) kayvm.Handle { return setScalar(s, s.Bool, kayvm.KindBool, name, v) }
func (s *State) GetBool(name string) (bool, error)        { return getScalar(s, s.Bool, kayvm.KindBool, name) }
func (s *State) GetBoolByHandle(h kayvm.Handle) (bool, error) {
	return getScalarByHandle(s.Bool, kayvm.KindBool, h)
}
