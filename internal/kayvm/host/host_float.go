package host

import "github.com/keiv-fly/kayton-go/internal/kayvm"

func (s *State) SetF32(name string, v float32) kayvm.Handle { return setScalar(s, s.F32, kayvm.KindF32, name, v) }
func (s *State) GetF32(name string) (float32, error)        { return getScalar(s, s.F32, kayvm.KindF32, name) }
func (s *State) GetF32ByHandle(h kayvm.Handle) (float32, error) {
	return getScalarByHandle(s.F32, kayvm.KindF32, h)
}

func (s *State) SetF64(name string, v float64) kayvm.Handle { return setScalar(s, s.F64, kayvm.KindF64, name, v) }
func (s *State) GetF64(name string) (float64, error)        { return getScalar(s, s.F64, kayvm.KindF64, name) }
func (s *State) GetF64ByHandle(h kayvm.Handle) (float64, error) {
	return getScalarByHandle(s.F64, kayvm.KindF64, h)
}
