package host

import "github.com/keiv-fly/kayton-go/internal/kayvm"

// StrBuf is an owned string buffer. In the Go representation the backing
// bytes are managed by the Go runtime's allocator (no ptr/len/cap exposed
// to callers directly); Owned tracks whether dropping this value should
// run anything at all. Values returned by value (not by handle) across the
// VM's own Go API are always copies with Owned cleared, mirroring the
// spec's "returned string buffers are borrowed copies with the drop
// function cleared" rule, so a caller never double-frees the VM's slot.
type StrBuf struct {
	Data  string
	Owned bool
}

// SetStrBuf stores an owned string buffer under name, overwriting an
// existing same-kind slot in place (running any previous drop first).
func (s *State) SetStrBuf(name string, value string) kayvm.Handle {
	buf := StrBuf{Data: value, Owned: true}
	if existing, err := s.Names.Resolve(name); err == nil && existing.Kind == kayvm.KindStrBuf {
		_ = s.StrBuf.SetAt(existing.Index, buf, nil)
		return existing
	}
	idx := s.StrBuf.Append(buf)
	h := kayvm.Pack(kayvm.KindStrBuf, idx)
	s.Names.Bind(name, h)
	return h
}

// GetStrBuf returns a borrowed copy (Owned=false) of the named string
// buffer's contents.
func (s *State) GetStrBuf(name string) (StrBuf, error) {
	v, err := getScalar(s, s.StrBuf, kayvm.KindStrBuf, name)
	if err != nil {
		return StrBuf{}, err
	}
	v.Owned = false
	return v, nil
}

func (s *State) GetStrBufByHandle(h kayvm.Handle) (StrBuf, error) {
	v, err := getScalarByHandle(s.StrBuf, kayvm.KindStrBuf, h)
	if err != nil {
		return StrBuf{}, err
	}
	v.Owned = false
	return v, nil
}

// DropStrBuf drops an owned string buffer slot by handle. A second drop of
// the same slot is a no-op that returns an error, never a double free.
func (s *State) DropStrBuf(h kayvm.Handle) error {
	if h.Kind != kayvm.KindStrBuf {
		return kayvm.ErrWrongKind(h.Kind, kayvm.KindStrBuf)
	}
	return s.StrBuf.Drop(h.Index)
}

// InternStaticStr allocates an anonymous, program-lifetime immutable
// string and returns its handle without binding a name — an "interner"
// entry in the vtable's vocabulary (spec.md 6).
func (s *State) InternStaticStr(value string) kayvm.Handle {
	idx := s.StaticStr.Append(value)
	return kayvm.Pack(kayvm.KindStaticStr, idx)
}

func (s *State) SetStaticStr(name string, value string) kayvm.Handle {
	return setScalar(s, s.StaticStr, kayvm.KindStaticStr, name, value)
}

func (s *State) GetStaticStr(name string) (string, error) {
	return getScalar(s, s.StaticStr, kayvm.KindStaticStr, name)
}

func (s *State) GetStaticStrByHandle(h kayvm.Handle) (string, error) {
	return getScalarByHandle(s.StaticStr, kayvm.KindStaticStr, h)
}
