package kayharness

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

typedef void (*kayton_run_fn)(void* ctx);

static void call_kayton_run(void* fn, void* ctx) {
	((kayton_run_fn)fn)(ctx);
}
*/
import "C"

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/keiv-fly/kayton-go/internal/kayerr"
)

// unit is a dlopen()ed compiled unit: unlike a native plugin (see
// internal/kayvm/loader), it carries no manifest protocol — the only
// symbol the harness ever looks up is its single kayton_run entry
// point, resolved once at load time and cached for call.
type unit struct {
	handle unsafe.Pointer
	runFn  unsafe.Pointer
}

func openUnit(path string) (*unit, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.int(unix.RTLD_NOW|unix.RTLD_GLOBAL))
	if handle == nil {
		return nil, kayerr.New(kayerr.Generic, "dlopen failed for %s: %s", path, C.GoString(C.dlerror()))
	}

	cname := C.CString("kayton_run")
	defer C.free(unsafe.Pointer(cname))
	sym := C.dlsym(handle, cname)
	if sym == nil {
		C.dlclose(handle)
		return nil, kayerr.New(kayerr.SymbolMissing, "compiled unit %s is missing kayton_run", path)
	}

	return &unit{handle: unsafe.Pointer(handle), runFn: unsafe.Pointer(sym)}, nil
}

func (u *unit) call(ctx unsafe.Pointer) {
	C.call_kayton_run(u.runFn, ctx)
}

func (u *unit) close() {
	if u.handle != nil {
		C.dlclose(u.handle)
		u.handle = nil
	}
}
