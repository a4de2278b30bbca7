package host

import "github.com/keiv-fly/kayton-go/internal/kayvm"

// SetU8/GetU8/GetU8ByHandle and siblings below follow the pattern in
// vm_fns_uint.rs: overwrite in place when the name already names a slot of
// the same kind, otherwise append and rebind.

func (s *State) SetU8(name string, v uint8) kayvm.Handle   { return setScalar(s, s.U8, kayvm.KindU8, name, v) }
func (s *State) GetU8(name string) (uint8, error)          { return getScalar(s, s.U8, kayvm.KindU8, name) }
func (s *State) GetU8ByHandle(h kayvm.Handle) (uint8, error) { return getScalarByHandle(s.U8, kayvm.KindU8, h) }

func (s *State) SetU16(name string, v uint16) kayvm.Handle { return setScalar(s, s.U16, kayvm.KindU16, name, v) }
func (s *State) GetU16(name string) (uint16, error)        { return getScalar(s, s.U16, kayvm.KindU16, name) }
func (s *State) GetU16ByHandle(h kayvm.Handle) (uint16, error) {
	return getScalarByHandle(s.U16, kayvm.KindU16, h)
}

func (s *State) SetU32(name string, v uint32) kayvm.Handle { return setScalar(s, s.U32, kayvm.KindU32, name, v) }
func (s *State) GetU32(name string) (uint32, error)        { return getScalar(s, s.U32, kayvm.KindU32, name) }
func (s *State) GetU32ByHandle(h kayvm.Handle) (uint32, error) {
	return getScalarByHandle(s.U32, kayvm.KindU32, h)
}

func (s *State) SetU64(name string, v uint64) kayvm.Handle { return setScalar(s, s.U64, kayvm.KindU64, name, v) }
func (s *State) GetU64(name string) (uint64, error)        { return getScalar(s, s.U64, kayvm.KindU64, name) }
func (s *State) GetU64ByHandle(h kayvm.Handle) (uint64, error) {
	return getScalarByHandle(s.U64, kayvm.KindU64, h)
}

func (s *State) SetUSize(name string, v uint64) kayvm.Handle {
	return setScalar(s, s.USize, kayvm.KindUSize, name, v)
}
func (s *State) GetUSize(name string) (uint64, error) { return getScalar(s, s.USize, kayvm.KindUSize, name) }
func (s *State) GetUSizeByHandle(h kayvm.Handle) (uint64, error) {
	return getScalarByHandle(s.USize, kayvm.KindUSize, h)
}

// U128 has no native 128-bit integer in Go; it is represented as two
// little-endian uint64 limbs [lo, hi], since there is no native machine
// width to pack it into.
func (s *State) SetU128(name string, lo, hi uint64) kayvm.Handle {
	return setScalar(s, s.U128, kayvm.KindU128, name, [2]uint64{lo, hi})
}
func (s *State) GetU128(name string) (lo, hi uint64, err error) {
	v, err := getScalar(s, s.U128, kayvm.KindU128, name)
	if err != nil {
		return 0, 0, err
	}
	return v[0], v[1], nil
}
func (s *State) GetU128ByHandle(h kayvm.Handle) (lo, hi uint64, err error) {
	v, err := getScalarByHandle(s.U128, kayvm.KindU128, h)
	if err != nil {
		return 0, 0, err
	}
	return v[0], v[1], nil
}
