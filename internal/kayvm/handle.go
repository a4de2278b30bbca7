package kayvm

// Handle is an opaque reference to a VM-owned value. It carries a kind tag
// and an arena index; only the VM interprets the pair. Go code holds this
// two-field struct, but the C vtable does not: every vtable entry passes a
// handle as a single uint64_t, converted with Encode/Decode below in each
// trampoline.
type Handle struct {
	Kind  Kind
	Index uint32
}

// Pack builds a Handle from a kind and an index and Unpack splits it back;
// both are lossless for the full u32 x u32 domain. The single uint64 form
// is Encode/Decode below.
func Pack(kind Kind, index uint32) Handle {
	return Handle{Kind: kind, Index: index}
}

func (h Handle) Unpack() (Kind, uint32) {
	return h.Kind, h.Index
}

// Encode/Decode round-trip a Handle through a single uint64, satisfying
// testable property 7 (encode(decode(h)) == h). This uint64 (kind in the
// high 32 bits, index in the low 32) is the form a handle takes across the
// C vtable.
func Encode(h Handle) uint64 {
	return uint64(h.Kind)<<32 | uint64(h.Index)
}

func Decode(v uint64) Handle {
	return Handle{Kind: Kind(v >> 32), Index: uint32(v)}
}
