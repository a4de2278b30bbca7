package host

import "github.com/keiv-fly/kayton-go/internal/kayvm"

// DropByHandle drops any handle's slot regardless of kind, dispatching to
// the owning arena (or dynamic-kind store) the same way FormatByHandle
// dispatches formatting — one generic entry point rather than a dedicated
// drop accessor per kind, since the caller never needs to know which
// arena backs a given Kind to ask for it to be reclaimed.
func (s *State) DropByHandle(h kayvm.Handle) error {
	switch h.Kind {
	case kayvm.KindBool:
		return s.Bool.Drop(h.Index)
	case kayvm.KindI8:
		return s.I8.Drop(h.Index)
	case kayvm.KindI16:
		return s.I16.Drop(h.Index)
	case kayvm.KindI32:
		return s.I32.Drop(h.Index)
	case kayvm.KindI64:
		return s.I64.Drop(h.Index)
	case kayvm.KindI128:
		return s.I128.Drop(h.Index)
	case kayvm.KindISize:
		return s.ISize.Drop(h.Index)
	case kayvm.KindU8:
		return s.U8.Drop(h.Index)
	case kayvm.KindU16:
		return s.U16.Drop(h.Index)
	case kayvm.KindU32:
		return s.U32.Drop(h.Index)
	case kayvm.KindU64:
		return s.U64.Drop(h.Index)
	case kayvm.KindU128:
		return s.U128.Drop(h.Index)
	case kayvm.KindUSize:
		return s.USize.Drop(h.Index)
	case kayvm.KindF32:
		return s.F32.Drop(h.Index)
	case kayvm.KindF64:
		return s.F64.Drop(h.Index)
	case kayvm.KindStaticStr:
		return s.StaticStr.Drop(h.Index)
	case kayvm.KindStrBuf:
		return s.DropStrBuf(h)
	case kayvm.KindTuple:
		return s.TupleMeta.Drop(h.Index)
	case kayvm.KindKVec:
		return s.DropKVec(h)
	default:
		return s.DropDynamic(h)
	}
}
