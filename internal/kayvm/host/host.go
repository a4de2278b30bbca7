// Package host holds the VM's mutable state: one arena per built-in kind,
// the tuple and typed-vector stores, the dynamic-kind registry, and the
// name binding table. It is split by kind family (host_uint.go,
// host_sint.go, host_float.go, host_string.go, host_tuple.go,
// host_kvec.go, host_dynamic.go, host_format.go, host_drop.go) rather
// than kept in one file, per the split-vs-monolithic design decision
// recorded in SPEC_FULL.md.
package host

import (
	"github.com/keiv-fly/kayton-go/internal/kayerr"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
	"github.com/keiv-fly/kayton-go/internal/kayvm/arena"
	"github.com/keiv-fly/kayton-go/internal/kayvm/binding"
)

// State is the VM's per-instance mutable state. A VM owns exactly one
// State for its lifetime; State itself does not enforce single-threaded
// access (the VM's concurrency model does).
type State struct {
	Names *binding.Table

	Bool *arena.Arena[bool]

	U8    *arena.Arena[uint8]
	U16   *arena.Arena[uint16]
	U32   *arena.Arena[uint32]
	U64   *arena.Arena[uint64]
	U128  *arena.Arena[[2]uint64]
	USize *arena.Arena[uint64]

	I8    *arena.Arena[int8]
	I16   *arena.Arena[int16]
	I32   *arena.Arena[int32]
	I64   *arena.Arena[int64]
	I128  *arena.Arena[[2]uint64]
	ISize *arena.Arena[int64]

	F32 *arena.Arena[float32]
	F64 *arena.Arena[float64]

	StaticStr *arena.Arena[string]
	StrBuf    *arena.Arena[StrBuf]

	TupleItems *arena.Arena[kayvm.Handle]
	TupleMeta  *arena.Arena[TupleMeta]

	KVec *arena.Arena[KVec]

	dynKinds   map[kayvm.Kind]*DynStore
	nextKindID kayvm.Kind
}

// New constructs an empty host state with all arenas ready.
func New() *State {
	return &State{
		Names: binding.New(),

		Bool: arena.New[bool](),

		U8:    arena.New[uint8](),
		U16:   arena.New[uint16](),
		U32:   arena.New[uint32](),
		U64:   arena.New[uint64](),
		U128:  arena.New[[2]uint64](),
		USize: arena.New[uint64](),

		I8:    arena.New[int8](),
		I16:   arena.New[int16](),
		I32:   arena.New[int32](),
		I64:   arena.New[int64](),
		I128:  arena.New[[2]uint64](),
		ISize: arena.New[int64](),

		F32: arena.New[float32](),
		F64: arena.New[float64](),

		StaticStr: arena.New[string](),
		StrBuf:    arena.New[StrBuf](),

		TupleItems: arena.New[kayvm.Handle](),
		TupleMeta:  arena.New[TupleMeta](),

		KVec: arena.New[KVec](),

		dynKinds:   make(map[kayvm.Kind]*DynStore),
		nextKindID: kayvm.DynamicKindBase,
	}
}

// Close runs every owning arena's drop callbacks and every dynamic kind's
// DropAll, in unspecified order, matching the spec's teardown discipline:
// values are dropped first, library handles (owned by the caller, not
// State) are released last by whoever holds them.
func (s *State) Close() {
	s.StrBuf.DropAll()
	for _, d := range s.dynKinds {
		d.DropAll()
	}
}

// setScalar implements the "overwrite in place if kind matches, else
// append a fresh slot and rebind the name" pattern shared by every scalar
// kind's SetGlobal, grounded on kayton_vm::host::vm_fns_sint's set_* family.
func setScalar[T any](s *State, a *arena.Arena[T], kind kayvm.Kind, name string, value T) kayvm.Handle {
	if existing, err := s.Names.Resolve(name); err == nil && existing.Kind == kind {
		_ = a.SetAt(existing.Index, value, nil)
		return existing
	}
	idx := a.Append(value)
	h := kayvm.Pack(kind, idx)
	s.Names.Bind(name, h)
	return h
}

func getScalar[T any](s *State, a *arena.Arena[T], kind kayvm.Kind, name string) (T, error) {
	var zero T
	h, err := s.Names.Resolve(name)
	if err != nil {
		return zero, err
	}
	if h.Kind != kind {
		return zero, kayerr.New(kayerr.Generic, "global %q has kind %s, not %s", name, h.Kind, kind)
	}
	return a.Get(h.Index)
}

func getScalarByHandle[T any](a *arena.Arena[T], kind kayvm.Kind, h kayvm.Handle) (T, error) {
	var zero T
	if h.Kind != kind {
		return zero, kayerr.New(kayerr.Generic, "handle has kind %s, not %s", h.Kind, kind)
	}
	return a.Get(h.Index)
}
