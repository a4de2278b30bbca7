// Package loader implements the plugin loader (C5): open a shared object,
// look up the three well-known ABI symbols, validate, and invoke
// register. No dlopen-capable entry exists in this corpus's Go code — the
// only host/plugin code in the teacher repo is the plugin side of a
// C-ABI boundary — so this package is original code built in that same
// cgo idiom (a C preamble, a handful of forward declarations, thin Go
// wrappers over dlopen/dlsym/dlclose), grounded on
// kayton_vm::vm::load_plugin_from_path's sequencing: open, look up
// abi_version/manifest_json/register, validate, call register, retain.
//
// Go's standard library "plugin" package only loads same-toolchain Go
// plugins and cannot open the C-ABI shared objects this system's
// plugins and harness-compiled units are; POSIX dlopen is used instead,
// the same way a C-ABI host written in any other systems language would.
package loader

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
#include <stdint.h>

typedef uint32_t (*abi_version_fn)(void);
typedef struct { const void* ptr; size_t len; } manifest_bytes;
typedef manifest_bytes (*manifest_json_fn)(void);
typedef void (*register_fn)(void* ctx);

static uint32_t call_abi_version(void* fn) {
	return ((abi_version_fn)fn)();
}

static manifest_bytes call_manifest_json(void* fn) {
	return ((manifest_json_fn)fn)();
}

static void call_register(void* fn, void* ctx) {
	((register_fn)fn)(ctx);
}
*/
import "C"

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/keiv-fly/kayton-go/internal/kayerr"
)

// HostABIVersion is the constant the loader compares every plugin's
// abi_version() result against.
const HostABIVersion uint32 = 1

// Library is a retained handle to an opened shared object. The VM keeps
// one per loaded plugin for its entire lifetime so that symbol pointers
// handed out via the function registry remain valid, per spec.md 4.5.
type Library struct {
	handle    unsafe.Pointer
	path      string
	Manifest  []byte
	ABIVerson uint32
}

// Open dlopen()s path, validates the three required symbols, parses and
// validates the ABI version, and returns a retained Library without yet
// calling register — callers invoke Register separately, once they have a
// *C.KaytonContext to pass.
func Open(path string) (*Library, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.int(unix.RTLD_NOW|unix.RTLD_GLOBAL))
	if handle == nil {
		return nil, kayerr.New(kayerr.Generic, "dlopen failed for %s: %s", path, C.GoString(C.dlerror()))
	}

	abiSym := dlsym(handle, "abi_version")
	if abiSym == nil {
		C.dlclose(handle)
		return nil, kayerr.New(kayerr.SymbolMissing, "plugin %s is missing abi_version", path)
	}
	manifestSym := dlsym(handle, "manifest_json")
	if manifestSym == nil {
		C.dlclose(handle)
		return nil, kayerr.New(kayerr.SymbolMissing, "plugin %s is missing manifest_json", path)
	}
	registerSym := dlsym(handle, "register")
	if registerSym == nil {
		C.dlclose(handle)
		return nil, kayerr.New(kayerr.SymbolMissing, "plugin %s is missing register", path)
	}

	abi := uint32(C.call_abi_version(abiSym))
	if abi != HostABIVersion {
		C.dlclose(handle)
		return nil, kayerr.New(kayerr.AbiMismatch, "plugin %s abi_version %d != host %d", path, abi, HostABIVersion)
	}

	raw := C.call_manifest_json(manifestSym)
	var manifest []byte
	if raw.ptr != nil && raw.len > 0 {
		manifest = C.GoBytes(raw.ptr, C.int(raw.len))
	}
	if len(manifest) == 0 {
		C.dlclose(handle)
		return nil, kayerr.New(kayerr.ManifestInvalid, "plugin %s returned an empty manifest", path)
	}

	return &Library{handle: handle, path: path, Manifest: manifest, ABIVerson: abi}, nil
}

// Register invokes the plugin's register(ctx) entry point exactly once.
func (l *Library) Register(ctx unsafe.Pointer) error {
	sym := dlsym(l.handle, "register")
	if sym == nil {
		return kayerr.New(kayerr.SymbolMissing, "plugin %s lost its register symbol", l.path)
	}
	C.call_register(sym, ctx)
	return nil
}

// Symbol looks up an arbitrary exported symbol by name, used by the
// function registry to resolve names listed in a loaded manifest.
func (l *Library) Symbol(name string) (unsafe.Pointer, error) {
	sym := dlsym(l.handle, name)
	if sym == nil {
		return nil, kayerr.New(kayerr.SymbolMissing, "plugin %s has no symbol %q", l.path, name)
	}
	return sym, nil
}

// Close releases the shared object. The VM only calls this at teardown,
// after all owned values have been dropped, so that any code reachable
// through cached function pointers stays valid until the last moment it
// might be used.
func (l *Library) Close() {
	if l.handle != nil {
		C.dlclose(l.handle)
		l.handle = nil
	}
}

func dlsym(handle unsafe.Pointer, name string) unsafe.Pointer {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.dlsym(handle, cname)
}
