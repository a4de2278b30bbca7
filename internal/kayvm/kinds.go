package kayvm

// Kind tags the concrete variant a handle refers to. Built-in kinds are
// fixed small ids; plugin-registered dynamic kinds start at DynamicKindBase.
type Kind uint32

const (
	KindU64 Kind = iota + 1
	KindU8
	KindF64
	KindF32
	KindStaticStr
	KindStrBuf
	KindU32
	KindU16
	KindU128
	KindUSize
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindISize
	KindBool
	KindTuple
	KindKVec
)

// DynamicKindBase is the first id available to plugin-registered kinds,
// grounded on kayton_vm::host::HostState's next_kind_id initial value.
const DynamicKindBase Kind = 1000

func (k Kind) String() string {
	switch k {
	case KindU64:
		return "u64"
	case KindU8:
		return "u8"
	case KindF64:
		return "f64"
	case KindF32:
		return "f32"
	case KindStaticStr:
		return "static_str"
	case KindStrBuf:
		return "str_buf"
	case KindU32:
		return "u32"
	case KindU16:
		return "u16"
	case KindU128:
		return "u128"
	case KindUSize:
		return "usize"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindI128:
		return "i128"
	case KindISize:
		return "isize"
	case KindBool:
		return "bool"
	case KindTuple:
		return "tuple"
	case KindKVec:
		return "kvec"
	default:
		if k >= DynamicKindBase {
			return "dynamic"
		}
		return "unknown"
	}
}
