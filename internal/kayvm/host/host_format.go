package host

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/keiv-fly/kayton-go/internal/kayerr"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
)

// FormatByHandle renders a handle's value as a display string, recursing
// into tuples and summarising typed vectors, grounded on
// kayton_vm::vm::format_value_by_handle.
func (s *State) FormatByHandle(h kayvm.Handle) (string, error) {
	switch h.Kind {
	case kayvm.KindBool:
		v, err := s.GetBoolByHandle(h)
		return strconv.FormatBool(v), err
	case kayvm.KindI8, kayvm.KindI16, kayvm.KindI32, kayvm.KindI64, kayvm.KindISize:
		v, err := s.signedByHandle(h)
		return strconv.FormatInt(v, 10), err
	case kayvm.KindU8, kayvm.KindU16, kayvm.KindU32, kayvm.KindU64, kayvm.KindUSize:
		v, err := s.unsignedByHandle(h)
		return strconv.FormatUint(v, 10), err
	case kayvm.KindF32:
		v, err := s.GetF32ByHandle(h)
		return strconv.FormatFloat(float64(v), 'g', -1, 32), err
	case kayvm.KindF64:
		v, err := s.GetF64ByHandle(h)
		return strconv.FormatFloat(v, 'g', -1, 64), err
	case kayvm.KindStaticStr:
		v, err := s.GetStaticStrByHandle(h)
		return v, err
	case kayvm.KindStrBuf:
		v, err := s.GetStrBufByHandle(h)
		return v.Data, err
	case kayvm.KindTuple:
		return s.formatTuple(h)
	case kayvm.KindKVec:
		return s.formatKVec(h)
	default:
		return fmt.Sprintf("<dynamic kind=%d index=%d>", h.Kind, h.Index), nil
	}
}

func (s *State) signedByHandle(h kayvm.Handle) (int64, error) {
	switch h.Kind {
	case kayvm.KindI8:
		v, err := s.GetI8ByHandle(h)
		return int64(v), err
	case kayvm.KindI16:
		v, err := s.GetI16ByHandle(h)
		return int64(v), err
	case kayvm.KindI32:
		v, err := s.GetI32ByHandle(h)
		return int64(v), err
	case kayvm.KindI64:
		return s.GetI64ByHandle(h)
	case kayvm.KindISize:
		v, err := getScalarByHandle(s.ISize, kayvm.KindISize, h)
		return v, err
	default:
		return 0, kayerr.New(kayerr.Generic, "not a signed integer handle")
	}
}

func (s *State) unsignedByHandle(h kayvm.Handle) (uint64, error) {
	switch h.Kind {
	case kayvm.KindU8:
		v, err := s.GetU8ByHandle(h)
		return uint64(v), err
	case kayvm.KindU16:
		v, err := s.GetU16ByHandle(h)
		return uint64(v), err
	case kayvm.KindU32:
		v, err := s.GetU32ByHandle(h)
		return uint64(v), err
	case kayvm.KindU64:
		return s.GetU64ByHandle(h)
	case kayvm.KindUSize:
		v, err := getScalarByHandle(s.USize, kayvm.KindUSize, h)
		return v, err
	default:
		return 0, kayerr.New(kayerr.Generic, "not an unsigned integer handle")
	}
}

func (s *State) formatTuple(h kayvm.Handle) (string, error) {
	n, err := s.TupleLen(h)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		item, err := s.TupleItem(h, i)
		if err != nil {
			return "", err
		}
		text, err := s.FormatByHandle(item)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

func (s *State) formatKVec(h kayvm.Handle) (string, error) {
	n, err := s.KVecLen(h)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<kvec len=%d>", n), nil
}

// ReadAllGlobalsAsStrings renders every currently bound name, in name
// order, as (name, display-string) pairs — grounded on
// kayton_vm::vm::read_all_globals_as_strings, used by the front-end
// protocol's all_globals_text reply field (spec.md 6).
func (s *State) ReadAllGlobalsAsStrings() ([][2]string, error) {
	snapshot := s.Names.Snapshot()
	out := make([][2]string, 0, len(snapshot))
	for _, b := range snapshot {
		text, err := s.FormatByHandle(b.Handle)
		if err != nil {
			return nil, err
		}
		out = append(out, [2]string{b.Name, text})
	}
	return out, nil
}
