// Package registry implements the function and type registries (C6):
// string->(raw function pointer, signature hash) and string->type metadata.
// Re-registration under an existing name replaces the entry; that is not an
// error, matching spec.md 4.6.
package registry

import (
	"unsafe"

	"github.com/keiv-fly/kayton-go/internal/kayerr"
)

// FuncEntry is what the function registry stores per stable name.
type FuncEntry struct {
	RawPtr  unsafe.Pointer
	SigHash uint64
}

// TypeMeta is what the type registry stores per stable name. POD types
// carry neither Drop nor Clone.
type TypeMeta struct {
	Size, Align uint32
	Drop        func(ptr unsafe.Pointer)
	Clone       func(ptr unsafe.Pointer) unsafe.Pointer
}

type FuncRegistry struct {
	funcs map[string]FuncEntry
}

func NewFuncRegistry() *FuncRegistry {
	return &FuncRegistry{funcs: make(map[string]FuncEntry)}
}

func (r *FuncRegistry) Register(name string, raw unsafe.Pointer, sigHash uint64) {
	r.funcs[name] = FuncEntry{RawPtr: raw, SigHash: sigHash}
}

func (r *FuncRegistry) Get(name string) (FuncEntry, error) {
	e, ok := r.funcs[name]
	if !ok {
		return FuncEntry{}, kayerr.New(kayerr.NotFound, "no function registered for %q", name)
	}
	return e, nil
}

type TypeRegistry struct {
	types map[string]TypeMeta
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]TypeMeta)}
}

func (r *TypeRegistry) Register(name string, meta TypeMeta) {
	r.types[name] = meta
}

func (r *TypeRegistry) Get(name string) (TypeMeta, error) {
	m, ok := r.types[name]
	if !ok {
		return TypeMeta{}, kayerr.New(kayerr.NotFound, "no type registered for %q", name)
	}
	return m, nil
}

// TypeTag enumerates the closed set of signature element kinds a function's
// parameters and return type are described with, matching the plugin
// manifest's Signature schema (spec.md 3, kayton_plugin_sdk::manifest).
type TypeTag uint64

const (
	TagUnit TypeTag = iota
	TagBool
	TagI64
	TagU64
	TagF64
	TagStaticStr
	TagStringBuf
	TagVecI64
	TagVecF64
	TagDynamic
)

// sig64Mix folds one type tag into a running hash: XOR with a
// constant-multiplied input, then rotate-left-27, multiply-by-5, add a
// constant. Grounded on the mixing step spec.md 4.6 describes (multiply by
// a large odd constant, rotate, XOR), in the style of Murmur3's per-block
// mixing function.
func sig64Mix(h uint64, tag TypeTag) uint64 {
	const c1 = 0xff51afd7ed558ccd
	k := uint64(tag) * c1
	h ^= k
	h = (h << 27) | (h >> (64 - 27))
	h = h*5 + 0x52dce729
	return h
}

// sig64Finish applies a 3-round xorshift/multiply avalanche finalizer
// (the finalizer from MurmurHash3's 64-bit variant) so that small
// differences in the mixed hash spread across all bits.
func sig64Finish(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// SignatureHash combines a function's parameter and return type tags into a
// single stable hash. Identical argument/return lists always produce
// identical hashes.
func SignatureHash(params []TypeTag, ret TypeTag) uint64 {
	h := uint64(0x9E3779B97F4A7C15) // golden-ratio seed, arbitrary but fixed
	for _, p := range params {
		h = sig64Mix(h, p)
	}
	h = sig64Mix(h, ret)
	return sig64Finish(h)
}
