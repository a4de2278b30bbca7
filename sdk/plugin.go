// Package sdk is the Go-ergonomic surface native Kayton plugin authors
// import when writing a shared object against the plugin ABI (spec.md
// 6): declare functions and POD types with NewPlugin/RegisterFunc/
// RegisterType, then Build once from an init() or main(), and the three
// required exported symbols (abi_version, manifest_json, register) are
// wired up automatically.
//
// This mirrors nylon-ring-go/sdk's builder idiom (NewPlugin/OnInit/
// Handle, a package-level globalPlugin set by BuildPlugin, a static
// vtable populated once in init()) one-for-one, but publishes function
// signatures into Kayton's function/type registries instead of
// dispatching HTTP-style request handlers. Because a plugin is compiled
// as its own Go module (it cannot import the host module's internal
// packages across a module boundary), the KaytonContext/KStr/
// KaytonVtable cgo preamble and the signature-hash algorithm are
// self-contained copies of internal/kayvm/vtable and
// internal/kayvm/registry's versions rather than imports of them.
package sdk

/*
#include <stdint.h>
#include <stddef.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
	void* ptr;
	uint32_t len;
	uint32_t _padding;
} KStr;

// manifest_bytes matches internal/kayvm/loader's own by-value return
// struct exactly (ptr + size_t len), rather than reusing KStr, since
// manifest_json() is read by the loader through that struct's layout,
// not through the vtable's KStr convention.
typedef struct {
	const void* ptr;
	size_t len;
} manifest_bytes;

typedef struct {
	uint32_t abi_version;
	void* host_data;
	void* vtable;
} KaytonContext;

// Layout match with internal/kayvm/vtable.Build's C struct up through
// register_type: the 18 value-store/plugin-loading entries ahead of
// register_function/register_type are opaque void* slots here since
// this SDK only ever calls through the two registry entries, but those
// offsets must agree exactly or a real dlopen'd plugin would read the
// wrong function pointer out of the host's vtable. The trailing
// reserved[14] does not mirror the host's later entries; the SDK never
// reads past register_type.
typedef struct {
	uint64_t size;
	void* value_store_and_loader_entries[18];
	uint32_t (*register_function)(KaytonContext* ctx, KStr name, void* raw_ptr, uint64_t sig_hash);
	uint32_t (*register_type)(KaytonContext* ctx, KStr name, uint32_t size, uint32_t align);
	void* reserved[14];
} KaytonVtable;

static uint32_t call_register_function(KaytonVtable* vt, KaytonContext* ctx, KStr name, void* raw_ptr, uint64_t sig_hash) {
	if (!vt || !vt->register_function) return 1;
	return vt->register_function(ctx, name, raw_ptr, sig_hash);
}

static uint32_t call_register_type(KaytonVtable* vt, KaytonContext* ctx, KStr name, uint32_t size, uint32_t align) {
	if (!vt || !vt->register_type) return 1;
	return vt->register_type(ctx, name, size, align);
}
*/
import "C"

import (
	"encoding/json"
	"unsafe"
)

// KaytonABIVersion is the constant abi_version() reports; the host
// compares it against its own and refuses to load on mismatch
// (kayerr.AbiMismatch).
const KaytonABIVersion uint32 = 1

// TypeTag enumerates a parameter or return type in a published function
// signature, matching the closed set spec.md 3 defines for plugin
// manifests.
type TypeTag int

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

// Signature describes one published function's parameter and return
// types, the same shape the manifest schema's "signature" field carries.
type Signature struct {
	Params []TypeTag
	Ret    TypeTag
}

// sig64Mix/sig64Finish duplicate internal/kayvm/registry's mixing and
// avalanche steps so a plugin and its host always compute the same hash
// for the same signature without sharing a package.
func sig64Mix(h uint64, tag TypeTag) uint64 {
	const c1 = 0xff51afd7ed558ccd
	k := uint64(tag) * c1
	h ^= k
	h = (h << 27) | (h >> (64 - 27))
	h = h*5 + 0x52dce729
	return h
}

func sig64Finish(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

func signatureHash(sig Signature) uint64 {
	h := uint64(0x9E3779B97F4A7C15)
	for _, p := range sig.Params {
		h = sig64Mix(h, p)
	}
	h = sig64Mix(h, sig.Ret)
	return sig64Finish(h)
}

// funcExport is one function this plugin publishes: its stable name, the
// raw pointer register(ctx) hands to the host, and the signature the
// manifest advertises.
type funcExport struct {
	Name    string
	RawPtr  unsafe.Pointer
	Sig     Signature
	SigHash uint64
}

// typeExport is one POD type this plugin publishes.
type typeExport struct {
	Name  string
	Size  uint32
	Align uint32
}

// Plugin collects the functions and types one shared object publishes.
type Plugin struct {
	name, version string
	funcs         []funcExport
	types         []typeExport
}

// NewPlugin creates a plugin builder with the given manifest identity.
func NewPlugin(name, version string) *Plugin {
	return &Plugin{name: name, version: version}
}

// RegisterFunc declares a function this plugin exports. fn must be a
// raw C-callable function pointer (typically `unsafe.Pointer(C.myFunc)`
// from the plugin's own cgo preamble), since the host calls it directly
// through the function registry's cached raw pointer, never back
// through Go's calling convention.
func (p *Plugin) RegisterFunc(name string, fn unsafe.Pointer, sig Signature) {
	p.funcs = append(p.funcs, funcExport{Name: name, RawPtr: fn, Sig: sig, SigHash: signatureHash(sig)})
}

// RegisterType declares a POD type this plugin exports; published types
// carry neither drop nor clone, matching spec.md 3.
func (p *Plugin) RegisterType(name string, size, align uint32) {
	p.types = append(p.types, typeExport{Name: name, Size: size, Align: align})
}

// manifest is the JSON-serialized shape spec.md 3 describes: a text
// format rather than the host's own in-memory struct, since the host
// only has the plugin's raw bytes to parse before any Go types exist on
// either side of the boundary.
type manifest struct {
	ABIVersion uint32           `json:"abi_version"`
	CrateName  string           `json:"crate_name"`
	CrateVersion string         `json:"crate_version"`
	Functions  []manifestFunc   `json:"functions"`
	Types      []manifestType   `json:"types"`
}

type manifestFunc struct {
	StableName string          `json:"stable_name"`
	Symbol     string          `json:"symbol"`
	Signature  manifestSig     `json:"signature"`
}

type manifestSig struct {
	Params []TypeTag `json:"params"`
	Ret    TypeTag   `json:"ret"`
}

type manifestType struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Size  uint32 `json:"size"`
	Align uint32 `json:"align"`
}

var globalPlugin *Plugin

// Build registers p as the plugin this shared object exposes. Must be
// called once, from an init() or main(), before the host ever dlopens
// this library.
func Build(p *Plugin) {
	globalPlugin = p
}

//export abi_version
func abi_version() C.uint32_t {
	return C.uint32_t(KaytonABIVersion)
}

//export manifest_json
func manifest_json() C.manifest_bytes {
	if globalPlugin == nil {
		return C.manifest_bytes{}
	}
	m := manifest{
		ABIVersion:   KaytonABIVersion,
		CrateName:    globalPlugin.name,
		CrateVersion: globalPlugin.version,
	}
	for _, f := range globalPlugin.funcs {
		m.Functions = append(m.Functions, manifestFunc{
			StableName: f.Name,
			Symbol:     f.Name,
			Signature:  manifestSig{Params: f.Sig.Params, Ret: f.Sig.Ret},
		})
	}
	for _, t := range globalPlugin.types {
		m.Types = append(m.Types, manifestType{Name: t.Name, Kind: "pod", Size: t.Size, Align: t.Align})
	}
	data, err := json.Marshal(m)
	if err != nil {
		return C.manifest_bytes{}
	}
	// Manifest bytes are read once by the loader immediately after this
	// call returns, so a C-owned copy (rather than a pinned Go slice
	// pointer) avoids any question of lifetime past this call.
	ptr := C.CBytes(data)
	return C.manifest_bytes{ptr: ptr, len: C.size_t(len(data))}
}

//export register
func register(ctx unsafe.Pointer) {
	if globalPlugin == nil {
		return
	}
	cctx := (*C.KaytonContext)(ctx)
	vt := (*C.KaytonVtable)(cctx.vtable)
	for _, f := range globalPlugin.funcs {
		name := C.CString(f.Name)
		cname := C.KStr{ptr: unsafe.Pointer(name), len: C.uint32_t(len(f.Name))}
		C.call_register_function(vt, cctx, cname, f.RawPtr, C.uint64_t(f.SigHash))
		C.free(unsafe.Pointer(name))
	}
	for _, t := range globalPlugin.types {
		name := C.CString(t.Name)
		cname := C.KStr{ptr: unsafe.Pointer(name), len: C.uint32_t(len(t.Name))}
		C.call_register_type(vt, cctx, cname, C.uint32_t(t.Size), C.uint32_t(t.Align))
		C.free(unsafe.Pointer(name))
	}
}
