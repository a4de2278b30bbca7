// Package vtable builds the C-ABI function-pointer struct that generated
// code (and native plugins) call into. The struct mirrors
// nylon-ring-go/sdk's cgo idiom — a C preamble declaring the struct and
// forward declarations for the Go-exported trampolines, a Go struct with
// the identical layout, and an init()-time population step — but plays
// the host role instead of the plugin role: this package's trampolines
// read and write VM state, rather than dispatching into user handlers.
//
// The entry set below covers the full vtable spec.md 4.4 and 6 describe:
// every width's set/get/get-by-handle, a single kind-dispatching drop
// entry (host.State.DropByHandle, mirroring how FormatByHandle already
// dispatches on Kind rather than exposing one drop per kind), the
// static-str interner, typed-vector construction/read, dynamic-kind
// registration (with its drop function) and get/set/drop, tuple
// construction/access, plugin loading, and function/type registry
// lookup. New fields were appended after register_type, preserving every
// existing field's offset; this grew the struct, which now ends in a
// reserved[6] block — see DESIGN.md for the full accounting.
package vtable

/*
#include <stdint.h>
#include <stddef.h>

typedef struct {
	uint32_t abi_version;
	void* host_data;
	void* vtable;
} KaytonContext;

typedef struct {
	void* ptr;
	uint32_t len;
	uint32_t _padding;
} KStr;

typedef struct {
	void* ptr;
	uint64_t len;
} KBytes;

typedef void (*dyn_drop_fn)(void* ptr);
static void call_dyn_drop(void* fn, void* ptr) {
	if (fn) ((dyn_drop_fn)fn)(ptr);
}

typedef struct {
	uint64_t size;

	uint64_t (*set_global_i64)(KaytonContext* ctx, KStr name, int64_t value);
	int64_t  (*get_global_i64)(KaytonContext* ctx, KStr name, uint32_t* status);
	int64_t  (*get_global_i64_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);

	uint64_t (*set_global_u64)(KaytonContext* ctx, KStr name, uint64_t value);
	uint64_t (*get_global_u64)(KaytonContext* ctx, KStr name, uint32_t* status);

	uint64_t (*set_global_f64)(KaytonContext* ctx, KStr name, double value);
	double   (*get_global_f64)(KaytonContext* ctx, KStr name, uint32_t* status);

	uint64_t (*set_global_bool)(KaytonContext* ctx, KStr name, uint8_t value);
	uint8_t  (*get_global_bool)(KaytonContext* ctx, KStr name, uint32_t* status);

	uint64_t (*set_global_str_buf)(KaytonContext* ctx, KStr name, KStr value);
	KStr     (*get_global_str_buf)(KaytonContext* ctx, KStr name, uint32_t* status);
	uint32_t (*drop_global_str_buf)(KaytonContext* ctx, uint64_t handle);

	uint32_t (*register_dynamic_kind)(KaytonContext* ctx, KStr name, void* drop_fn);

	uint64_t (*tuple_new)(KaytonContext* ctx, uint64_t* items, uint32_t n);
	uint32_t (*tuple_len)(KaytonContext* ctx, uint64_t handle, uint32_t* status);
	uint64_t (*tuple_item)(KaytonContext* ctx, uint64_t handle, uint32_t index, uint32_t* status);

	uint32_t (*load_plugin)(KaytonContext* ctx, KStr name);
	void*    (*get_function_ptr)(KaytonContext* ctx, KStr name);

	uint32_t (*register_function)(KaytonContext* ctx, KStr name, void* raw_ptr, uint64_t sig_hash);
	uint32_t (*register_type)(KaytonContext* ctx, KStr name, uint32_t size, uint32_t align);

	/* widths beyond i64/u64/f64/bool/str_buf, following the same
	   set/get/get-by-handle shape through host.State's generic
	   setScalar/getScalar helpers. */
	uint64_t (*set_global_i8)(KaytonContext* ctx, KStr name, int8_t value);
	int8_t   (*get_global_i8)(KaytonContext* ctx, KStr name, uint32_t* status);
	int8_t   (*get_global_i8_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);

	uint64_t (*set_global_i16)(KaytonContext* ctx, KStr name, int16_t value);
	int16_t  (*get_global_i16)(KaytonContext* ctx, KStr name, uint32_t* status);
	int16_t  (*get_global_i16_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);

	uint64_t (*set_global_i32)(KaytonContext* ctx, KStr name, int32_t value);
	int32_t  (*get_global_i32)(KaytonContext* ctx, KStr name, uint32_t* status);
	int32_t  (*get_global_i32_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);

	uint64_t (*set_global_isize)(KaytonContext* ctx, KStr name, int64_t value);
	int64_t  (*get_global_isize)(KaytonContext* ctx, KStr name, uint32_t* status);
	int64_t  (*get_global_isize_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);

	uint64_t (*set_global_i128)(KaytonContext* ctx, KStr name, uint64_t lo, uint64_t hi);
	uint64_t (*get_global_i128)(KaytonContext* ctx, KStr name, uint64_t* hi_out, uint32_t* status);
	uint64_t (*get_global_i128_by_handle)(KaytonContext* ctx, uint64_t handle, uint64_t* hi_out, uint32_t* status);

	uint64_t (*set_global_u8)(KaytonContext* ctx, KStr name, uint8_t value);
	uint8_t  (*get_global_u8)(KaytonContext* ctx, KStr name, uint32_t* status);
	uint8_t  (*get_global_u8_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);

	uint64_t (*set_global_u16)(KaytonContext* ctx, KStr name, uint16_t value);
	uint16_t (*get_global_u16)(KaytonContext* ctx, KStr name, uint32_t* status);
	uint16_t (*get_global_u16_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);

	uint64_t (*set_global_u32)(KaytonContext* ctx, KStr name, uint32_t value);
	uint32_t (*get_global_u32)(KaytonContext* ctx, KStr name, uint32_t* status);
	uint32_t (*get_global_u32_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);

	uint64_t (*set_global_usize)(KaytonContext* ctx, KStr name, uint64_t value);
	uint64_t (*get_global_usize)(KaytonContext* ctx, KStr name, uint32_t* status);
	uint64_t (*get_global_usize_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);

	uint64_t (*set_global_u128)(KaytonContext* ctx, KStr name, uint64_t lo, uint64_t hi);
	uint64_t (*get_global_u128)(KaytonContext* ctx, KStr name, uint64_t* hi_out, uint32_t* status);
	uint64_t (*get_global_u128_by_handle)(KaytonContext* ctx, uint64_t handle, uint64_t* hi_out, uint32_t* status);

	uint64_t (*set_global_f32)(KaytonContext* ctx, KStr name, float value);
	float    (*get_global_f32)(KaytonContext* ctx, KStr name, uint32_t* status);
	float    (*get_global_f32_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);

	uint64_t (*set_global_static_str)(KaytonContext* ctx, KStr name, KStr value);
	KStr     (*get_global_static_str)(KaytonContext* ctx, KStr name, uint32_t* status);
	KStr     (*get_global_static_str_by_handle)(KaytonContext* ctx, uint64_t handle, uint32_t* status);
	uint64_t (*intern_static_str)(KaytonContext* ctx, KStr value);

	/* single kind-dispatching drop, replacing a per-width drop entry. */
	uint32_t (*drop_global)(KaytonContext* ctx, uint64_t handle);

	/* typed vectors (C7). */
	uint64_t (*kvec_new_i64)(KaytonContext* ctx, KStr name, int64_t* items, uint32_t n);
	uint64_t (*kvec_new_f64)(KaytonContext* ctx, KStr name, double* items, uint32_t n);
	uint32_t (*kvec_len)(KaytonContext* ctx, uint64_t handle, uint32_t* status);
	uint32_t (*kvec_read_i64)(KaytonContext* ctx, uint64_t handle, int64_t* out, uint32_t cap, uint32_t* status);
	uint32_t (*kvec_read_f64)(KaytonContext* ctx, uint64_t handle, double* out, uint32_t cap, uint32_t* status);

	/* dynamic-kind instances (C3/C9), beyond registration. */
	uint64_t (*dyn_new)(KaytonContext* ctx, uint32_t kind, void* ptr);
	void*    (*dyn_get)(KaytonContext* ctx, uint64_t handle, uint32_t* status);
	uint32_t (*dyn_set_at)(KaytonContext* ctx, uint64_t handle, void* ptr);

	/* function/type registry lookup (C6), complementing register_*. */
	void*    (*get_function)(KaytonContext* ctx, KStr name, uint64_t* sig_hash_out, uint32_t* status);
	uint32_t (*get_type)(KaytonContext* ctx, KStr name, uint32_t* size_out, uint32_t* align_out);

	void* reserved[6];
} KaytonVtable;

extern uint64_t go_set_global_i64(KaytonContext* ctx, KStr name, int64_t value);
extern int64_t  go_get_global_i64(KaytonContext* ctx, KStr name, uint32_t* status);
extern int64_t  go_get_global_i64_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_set_global_u64(KaytonContext* ctx, KStr name, uint64_t value);
extern uint64_t go_get_global_u64(KaytonContext* ctx, KStr name, uint32_t* status);
extern uint64_t go_set_global_f64(KaytonContext* ctx, KStr name, double value);
extern double   go_get_global_f64(KaytonContext* ctx, KStr name, uint32_t* status);
extern uint64_t go_set_global_bool(KaytonContext* ctx, KStr name, uint8_t value);
extern uint8_t  go_get_global_bool(KaytonContext* ctx, KStr name, uint32_t* status);
extern uint64_t go_set_global_str_buf(KaytonContext* ctx, KStr name, KStr value);
extern KStr     go_get_global_str_buf(KaytonContext* ctx, KStr name, uint32_t* status);
extern uint32_t go_drop_global_str_buf(KaytonContext* ctx, uint64_t handle);
extern uint32_t go_register_dynamic_kind(KaytonContext* ctx, KStr name, void* drop_fn);
extern uint64_t go_tuple_new(KaytonContext* ctx, uint64_t* items, uint32_t n);
extern uint32_t go_tuple_len(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_tuple_item(KaytonContext* ctx, uint64_t handle, uint32_t index, uint32_t* status);
extern uint32_t go_load_plugin(KaytonContext* ctx, KStr name);
extern void*    go_get_function_ptr(KaytonContext* ctx, KStr name);
extern uint32_t go_register_function(KaytonContext* ctx, KStr name, void* raw_ptr, uint64_t sig_hash);
extern uint32_t go_register_type(KaytonContext* ctx, KStr name, uint32_t size, uint32_t align);

extern uint64_t go_set_global_i8(KaytonContext* ctx, KStr name, int8_t value);
extern int8_t   go_get_global_i8(KaytonContext* ctx, KStr name, uint32_t* status);
extern int8_t   go_get_global_i8_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_set_global_i16(KaytonContext* ctx, KStr name, int16_t value);
extern int16_t  go_get_global_i16(KaytonContext* ctx, KStr name, uint32_t* status);
extern int16_t  go_get_global_i16_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_set_global_i32(KaytonContext* ctx, KStr name, int32_t value);
extern int32_t  go_get_global_i32(KaytonContext* ctx, KStr name, uint32_t* status);
extern int32_t  go_get_global_i32_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_set_global_isize(KaytonContext* ctx, KStr name, int64_t value);
extern int64_t  go_get_global_isize(KaytonContext* ctx, KStr name, uint32_t* status);
extern int64_t  go_get_global_isize_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_set_global_i128(KaytonContext* ctx, KStr name, uint64_t lo, uint64_t hi);
extern uint64_t go_get_global_i128(KaytonContext* ctx, KStr name, uint64_t* hi_out, uint32_t* status);
extern uint64_t go_get_global_i128_by_handle(KaytonContext* ctx, uint64_t handle, uint64_t* hi_out, uint32_t* status);

extern uint64_t go_set_global_u8(KaytonContext* ctx, KStr name, uint8_t value);
extern uint8_t  go_get_global_u8(KaytonContext* ctx, KStr name, uint32_t* status);
extern uint8_t  go_get_global_u8_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_set_global_u16(KaytonContext* ctx, KStr name, uint16_t value);
extern uint16_t go_get_global_u16(KaytonContext* ctx, KStr name, uint32_t* status);
extern uint16_t go_get_global_u16_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_set_global_u32(KaytonContext* ctx, KStr name, uint32_t value);
extern uint32_t go_get_global_u32(KaytonContext* ctx, KStr name, uint32_t* status);
extern uint32_t go_get_global_u32_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_set_global_usize(KaytonContext* ctx, KStr name, uint64_t value);
extern uint64_t go_get_global_usize(KaytonContext* ctx, KStr name, uint32_t* status);
extern uint64_t go_get_global_usize_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_set_global_u128(KaytonContext* ctx, KStr name, uint64_t lo, uint64_t hi);
extern uint64_t go_get_global_u128(KaytonContext* ctx, KStr name, uint64_t* hi_out, uint32_t* status);
extern uint64_t go_get_global_u128_by_handle(KaytonContext* ctx, uint64_t handle, uint64_t* hi_out, uint32_t* status);

extern uint64_t go_set_global_f32(KaytonContext* ctx, KStr name, float value);
extern float    go_get_global_f32(KaytonContext* ctx, KStr name, uint32_t* status);
extern float    go_get_global_f32_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);

extern uint64_t go_set_global_static_str(KaytonContext* ctx, KStr name, KStr value);
extern KStr     go_get_global_static_str(KaytonContext* ctx, KStr name, uint32_t* status);
extern KStr     go_get_global_static_str_by_handle(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint64_t go_intern_static_str(KaytonContext* ctx, KStr value);

extern uint32_t go_drop_global(KaytonContext* ctx, uint64_t handle);

extern uint64_t go_kvec_new_i64(KaytonContext* ctx, KStr name, int64_t* items, uint32_t n);
extern uint64_t go_kvec_new_f64(KaytonContext* ctx, KStr name, double* items, uint32_t n);
extern uint32_t go_kvec_len(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint32_t go_kvec_read_i64(KaytonContext* ctx, uint64_t handle, int64_t* out, uint32_t cap, uint32_t* status);
extern uint32_t go_kvec_read_f64(KaytonContext* ctx, uint64_t handle, double* out, uint32_t cap, uint32_t* status);

extern uint64_t go_dyn_new(KaytonContext* ctx, uint32_t kind, void* ptr);
extern void*    go_dyn_get(KaytonContext* ctx, uint64_t handle, uint32_t* status);
extern uint32_t go_dyn_set_at(KaytonContext* ctx, uint64_t handle, void* ptr);

extern void*    go_get_function(KaytonContext* ctx, KStr name, uint64_t* sig_hash_out, uint32_t* status);
extern uint32_t go_get_type(KaytonContext* ctx, KStr name, uint32_t* size_out, uint32_t* align_out);
*/
import "C"

import (
	"unsafe"

	"github.com/keiv-fly/kayton-go/internal/kayvm"
	"github.com/keiv-fly/kayton-go/internal/kayvm/host"
)

// statusOK/statusErr mirror the plugin ABI's status-code convention: zero
// is success, nonzero is a generic failure, matching spec.md's Generic and
// NotFound taxonomy collapsed to the boundary's coarse C ABI.
const (
	statusOK  C.uint32_t = 0
	statusErr C.uint32_t = 1
)

// stateOf recovers the *host.State a context's host_data pointer refers
// to. The pointer is set once, by NewContext, and lives for the VM's
// lifetime.
func stateOf(ctx *C.KaytonContext) *host.State {
	return (*host.State)(ctx.host_data)
}

func goString(s C.KStr) string {
	if s.ptr == nil || s.len == 0 {
		return ""
	}
	return C.GoStringN((*C.char)(s.ptr), C.int(s.len))
}

func cStrCopy(s string) C.KStr {
	if len(s) == 0 {
		return C.KStr{}
	}
	ptr := C.CBytes([]byte(s))
	return C.KStr{ptr: ptr, len: C.uint32_t(len(s))}
}

// setGlobal/getGlobal/getGlobalByHandle factor out the boilerplate every
// scalar width's trampoline shares (resolve *host.State, call through,
// translate errors into the ABI's status-pointer convention). Each width
// still needs its own //export function — cgo trampolines must have
// concrete C-callable signatures — but the body of each one is a single
// call into these generics, the same DRY split host.State itself uses for
// setScalar/getScalar.
func setGlobal[T any](ctx *C.KaytonContext, name C.KStr, value T, set func(*host.State, string, T) kayvm.Handle) C.uint64_t {
	h := set(stateOf(ctx), goString(name), value)
	return C.uint64_t(kayvm.Encode(h))
}

func getGlobal[T any](ctx *C.KaytonContext, name C.KStr, status *C.uint32_t, get func(*host.State, string) (T, error)) T {
	v, err := get(stateOf(ctx), goString(name))
	if err != nil {
		*status = statusErr
		var zero T
		return zero
	}
	*status = statusOK
	return v
}

func getGlobalByHandle[T any](ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t, get func(*host.State, kayvm.Handle) (T, error)) T {
	v, err := get(stateOf(ctx), kayvm.Decode(uint64(handle)))
	if err != nil {
		*status = statusErr
		var zero T
		return zero
	}
	*status = statusOK
	return v
}

//export go_set_global_i64
func go_set_global_i64(ctx *C.KaytonContext, name C.KStr, value C.int64_t) C.uint64_t {
	return setGlobal(ctx, name, int64(value), (*host.State).SetI64)
}

//export go_get_global_i64
func go_get_global_i64(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.int64_t {
	return C.int64_t(getGlobal(ctx, name, status, (*host.State).GetI64))
}

//export go_get_global_i64_by_handle
func go_get_global_i64_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.int64_t {
	return C.int64_t(getGlobalByHandle(ctx, handle, status, (*host.State).GetI64ByHandle))
}

//export go_set_global_u64
func go_set_global_u64(ctx *C.KaytonContext, name C.KStr, value C.uint64_t) C.uint64_t {
	return setGlobal(ctx, name, uint64(value), (*host.State).SetU64)
}

//export go_get_global_u64
func go_get_global_u64(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.uint64_t {
	return C.uint64_t(getGlobal(ctx, name, status, (*host.State).GetU64))
}

//export go_set_global_f64
func go_set_global_f64(ctx *C.KaytonContext, name C.KStr, value C.double) C.uint64_t {
	return setGlobal(ctx, name, float64(value), (*host.State).SetF64)
}

//export go_get_global_f64
func go_get_global_f64(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.double {
	return C.double(getGlobal(ctx, name, status, (*host.State).GetF64))
}

//export go_set_global_bool
func go_set_global_bool(ctx *C.KaytonContext, name C.KStr, value C.uint8_t) C.uint64_t {
	return setGlobal(ctx, name, value != 0, (*host.State).SetBool)
}

//export go_get_global_bool
func go_get_global_bool(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.uint8_t {
	if getGlobal(ctx, name, status, (*host.State).GetBool) {
		return 1
	}
	return 0
}

//export go_set_global_str_buf
func go_set_global_str_buf(ctx *C.KaytonContext, name C.KStr, value C.KStr) C.uint64_t {
	h := stateOf(ctx).SetStrBuf(goString(name), goString(value))
	return C.uint64_t(kayvm.Encode(h))
}

// go_get_global_str_buf returns a KStr pointing at C-heap memory owned by
// the caller: the drop function is cleared on the copy that crosses the
// boundary, matching the "returned string buffers are borrowed copies"
// ownership rule in spec.md 9. Callers across the ABI must free() it.
//
//export go_get_global_str_buf
func go_get_global_str_buf(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.KStr {
	v, err := stateOf(ctx).GetStrBuf(goString(name))
	if err != nil {
		*status = statusErr
		return C.KStr{}
	}
	*status = statusOK
	return cStrCopy(v.Data)
}

//export go_drop_global_str_buf
func go_drop_global_str_buf(ctx *C.KaytonContext, handle C.uint64_t) C.uint32_t {
	if err := stateOf(ctx).DropStrBuf(kayvm.Decode(uint64(handle))); err != nil {
		return statusErr
	}
	return statusOK
}

// go_register_dynamic_kind wraps the raw C drop function pointer (if any)
// in a host.DynDrop closure that calls back through it via call_dyn_drop,
// so a plugin-registered dynamic kind's values actually get dropped at
// teardown instead of always being registered with a nil drop.
//
//export go_register_dynamic_kind
func go_register_dynamic_kind(ctx *C.KaytonContext, name C.KStr, dropFn unsafe.Pointer) C.uint32_t {
	var drop host.DynDrop
	if dropFn != nil {
		fn := dropFn
		drop = func(ptr unsafe.Pointer) {
			C.call_dyn_drop(fn, ptr)
		}
	}
	kind := stateOf(ctx).RegisterDynamicKind(goString(name), drop)
	return C.uint32_t(kind)
}

//export go_tuple_new
func go_tuple_new(ctx *C.KaytonContext, items *C.uint64_t, n C.uint32_t) C.uint64_t {
	count := int(n)
	handles := make([]kayvm.Handle, count)
	if count > 0 {
		raw := unsafe.Slice((*C.uint64_t)(unsafe.Pointer(items)), count)
		for i, v := range raw {
			handles[i] = kayvm.Decode(uint64(v))
		}
	}
	h := stateOf(ctx).NewTuple(handles)
	return C.uint64_t(kayvm.Encode(h))
}

//export go_tuple_len
func go_tuple_len(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.uint32_t {
	n, err := stateOf(ctx).TupleLen(kayvm.Decode(uint64(handle)))
	if err != nil {
		*status = statusErr
		return 0
	}
	*status = statusOK
	return C.uint32_t(n)
}

//export go_tuple_item
func go_tuple_item(ctx *C.KaytonContext, handle C.uint64_t, index C.uint32_t, status *C.uint32_t) C.uint64_t {
	h, err := stateOf(ctx).TupleItem(kayvm.Decode(uint64(handle)), int(index))
	if err != nil {
		*status = statusErr
		return 0
	}
	*status = statusOK
	return C.uint64_t(kayvm.Encode(h))
}

// go_load_plugin and go_get_function_ptr are installed per-invocation by
// the harness (they close over the currently executing VM), not built
// once at VM construction; see kayharness for the trampoline wiring.

//export go_load_plugin
func go_load_plugin(ctx *C.KaytonContext, name C.KStr) C.uint32_t {
	return hooks.loadPlugin(stateOf(ctx), goString(name))
}

//export go_get_function_ptr
func go_get_function_ptr(ctx *C.KaytonContext, name C.KStr) unsafe.Pointer {
	return hooks.getFunctionPtr(stateOf(ctx), goString(name))
}

// go_register_function and go_register_type back a plugin's register(ctx)
// call through to the VM's function/type registries (C6), the same
// per-invocation hook mechanism load_plugin/get_function_ptr use since
// the registries live behind the harness, not the context's host_data.

//export go_register_function
func go_register_function(ctx *C.KaytonContext, name C.KStr, rawPtr unsafe.Pointer, sigHash C.uint64_t) C.uint32_t {
	return C.uint32_t(hooks.registerFunction(stateOf(ctx), goString(name), rawPtr, uint64(sigHash)))
}

//export go_register_type
func go_register_type(ctx *C.KaytonContext, name C.KStr, size C.uint32_t, align C.uint32_t) C.uint32_t {
	return C.uint32_t(hooks.registerType(stateOf(ctx), goString(name), uint32(size), uint32(align)))
}

//export go_get_function
func go_get_function(ctx *C.KaytonContext, name C.KStr, sigHashOut *C.uint64_t, status *C.uint32_t) unsafe.Pointer {
	ptr, sigHash, ok := hooks.getFunction(stateOf(ctx), goString(name))
	if !ok {
		*status = statusErr
		return nil
	}
	*status = statusOK
	*sigHashOut = C.uint64_t(sigHash)
	return ptr
}

//export go_get_type
func go_get_type(ctx *C.KaytonContext, name C.KStr, sizeOut *C.uint32_t, alignOut *C.uint32_t) C.uint32_t {
	size, align, ok := hooks.getType(stateOf(ctx), goString(name))
	if !ok {
		return statusErr
	}
	*sizeOut = C.uint32_t(size)
	*alignOut = C.uint32_t(align)
	return statusOK
}

//export go_set_global_i8
func go_set_global_i8(ctx *C.KaytonContext, name C.KStr, value C.int8_t) C.uint64_t {
	return setGlobal(ctx, name, int8(value), (*host.State).SetI8)
}

//export go_get_global_i8
func go_get_global_i8(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.int8_t {
	return C.int8_t(getGlobal(ctx, name, status, (*host.State).GetI8))
}

//export go_get_global_i8_by_handle
func go_get_global_i8_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.int8_t {
	return C.int8_t(getGlobalByHandle(ctx, handle, status, (*host.State).GetI8ByHandle))
}

//export go_set_global_i16
func go_set_global_i16(ctx *C.KaytonContext, name C.KStr, value C.int16_t) C.uint64_t {
	return setGlobal(ctx, name, int16(value), (*host.State).SetI16)
}

//export go_get_global_i16
func go_get_global_i16(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.int16_t {
	return C.int16_t(getGlobal(ctx, name, status, (*host.State).GetI16))
}

//export go_get_global_i16_by_handle
func go_get_global_i16_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.int16_t {
	return C.int16_t(getGlobalByHandle(ctx, handle, status, (*host.State).GetI16ByHandle))
}

//export go_set_global_i32
func go_set_global_i32(ctx *C.KaytonContext, name C.KStr, value C.int32_t) C.uint64_t {
	return setGlobal(ctx, name, int32(value), (*host.State).SetI32)
}

//export go_get_global_i32
func go_get_global_i32(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.int32_t {
	return C.int32_t(getGlobal(ctx, name, status, (*host.State).GetI32))
}

//export go_get_global_i32_by_handle
func go_get_global_i32_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.int32_t {
	return C.int32_t(getGlobalByHandle(ctx, handle, status, (*host.State).GetI32ByHandle))
}

//export go_set_global_isize
func go_set_global_isize(ctx *C.KaytonContext, name C.KStr, value C.int64_t) C.uint64_t {
	return setGlobal(ctx, name, int64(value), (*host.State).SetISize)
}

//export go_get_global_isize
func go_get_global_isize(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.int64_t {
	return C.int64_t(getGlobal(ctx, name, status, (*host.State).GetISize))
}

//export go_get_global_isize_by_handle
func go_get_global_isize_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.int64_t {
	return C.int64_t(getGlobalByHandle(ctx, handle, status, (*host.State).GetISizeByHandle))
}

//export go_set_global_i128
func go_set_global_i128(ctx *C.KaytonContext, name C.KStr, lo C.uint64_t, hi C.uint64_t) C.uint64_t {
	h := stateOf(ctx).SetI128(goString(name), uint64(lo), uint64(hi))
	return C.uint64_t(kayvm.Encode(h))
}

//export go_get_global_i128
func go_get_global_i128(ctx *C.KaytonContext, name C.KStr, hiOut *C.uint64_t, status *C.uint32_t) C.uint64_t {
	lo, hi, err := stateOf(ctx).GetI128(goString(name))
	if err != nil {
		*status = statusErr
		return 0
	}
	*status = statusOK
	*hiOut = C.uint64_t(hi)
	return C.uint64_t(lo)
}

//export go_get_global_i128_by_handle
func go_get_global_i128_by_handle(ctx *C.KaytonContext, handle C.uint64_t, hiOut *C.uint64_t, status *C.uint32_t) C.uint64_t {
	lo, hi, err := stateOf(ctx).GetI128ByHandle(kayvm.Decode(uint64(handle)))
	if err != nil {
		*status = statusErr
		return 0
	}
	*status = statusOK
	*hiOut = C.uint64_t(hi)
	return C.uint64_t(lo)
}

//export go_set_global_u8
func go_set_global_u8(ctx *C.KaytonContext, name C.KStr, value C.uint8_t) C.uint64_t {
	return setGlobal(ctx, name, uint8(value), (*host.State).SetU8)
}

//export go_get_global_u8
func go_get_global_u8(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.uint8_t {
	return C.uint8_t(getGlobal(ctx, name, status, (*host.State).GetU8))
}

//export go_get_global_u8_by_handle
func go_get_global_u8_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.uint8_t {
	return C.uint8_t(getGlobalByHandle(ctx, handle, status, (*host.State).GetU8ByHandle))
}

//export go_set_global_u16
func go_set_global_u16(ctx *C.KaytonContext, name C.KStr, value C.uint16_t) C.uint64_t {
	return setGlobal(ctx, name, uint16(value), (*host.State).SetU16)
}

//export go_get_global_u16
func go_get_global_u16(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.uint16_t {
	return C.uint16_t(getGlobal(ctx, name, status, (*host.State).GetU16))
}

//export go_get_global_u16_by_handle
func go_get_global_u16_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.uint16_t {
	return C.uint16_t(getGlobalByHandle(ctx, handle, status, (*host.State).GetU16ByHandle))
}

//export go_set_global_u32
func go_set_global_u32(ctx *C.KaytonContext, name C.KStr, value C.uint32_t) C.uint64_t {
	return setGlobal(ctx, name, uint32(value), (*host.State).SetU32)
}

//export go_get_global_u32
func go_get_global_u32(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.uint32_t {
	return C.uint32_t(getGlobal(ctx, name, status, (*host.State).GetU32))
}

//export go_get_global_u32_by_handle
func go_get_global_u32_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.uint32_t {
	return C.uint32_t(getGlobalByHandle(ctx, handle, status, (*host.State).GetU32ByHandle))
}

//export go_set_global_usize
func go_set_global_usize(ctx *C.KaytonContext, name C.KStr, value C.uint64_t) C.uint64_t {
	return setGlobal(ctx, name, uint64(value), (*host.State).SetUSize)
}

//export go_get_global_usize
func go_get_global_usize(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.uint64_t {
	return C.uint64_t(getGlobal(ctx, name, status, (*host.State).GetUSize))
}

//export go_get_global_usize_by_handle
func go_get_global_usize_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.uint64_t {
	return C.uint64_t(getGlobalByHandle(ctx, handle, status, (*host.State).GetUSizeByHandle))
}

//export go_set_global_u128
func go_set_global_u128(ctx *C.KaytonContext, name C.KStr, lo C.uint64_t, hi C.uint64_t) C.uint64_t {
	h := stateOf(ctx).SetU128(goString(name), uint64(lo), uint64(hi))
	return C.uint64_t(kayvm.Encode(h))
}

//export go_get_global_u128
func go_get_global_u128(ctx *C.KaytonContext, name C.KStr, hiOut *C.uint64_t, status *C.uint32_t) C.uint64_t {
	lo, hi, err := stateOf(ctx).GetU128(goString(name))
	if err != nil {
		*status = statusErr
		return 0
	}
	*status = statusOK
	*hiOut = C.uint64_t(hi)
	return C.uint64_t(lo)
}

//export go_get_global_u128_by_handle
func go_get_global_u128_by_handle(ctx *C.KaytonContext, handle C.uint64_t, hiOut *C.uint64_t, status *C.uint32_t) C.uint64_t {
	lo, hi, err := stateOf(ctx).GetU128ByHandle(kayvm.Decode(uint64(handle)))
	if err != nil {
		*status = statusErr
		return 0
	}
	*status = statusOK
	*hiOut = C.uint64_t(hi)
	return C.uint64_t(lo)
}

//export go_set_global_f32
func go_set_global_f32(ctx *C.KaytonContext, name C.KStr, value C.float) C.uint64_t {
	return setGlobal(ctx, name, float32(value), (*host.State).SetF32)
}

//export go_get_global_f32
func go_get_global_f32(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.float {
	return C.float(getGlobal(ctx, name, status, (*host.State).GetF32))
}

//export go_get_global_f32_by_handle
func go_get_global_f32_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.float {
	return C.float(getGlobalByHandle(ctx, handle, status, (*host.State).GetF32ByHandle))
}

//export go_set_global_static_str
func go_set_global_static_str(ctx *C.KaytonContext, name C.KStr, value C.KStr) C.uint64_t {
	h := stateOf(ctx).SetStaticStr(goString(name), goString(value))
	return C.uint64_t(kayvm.Encode(h))
}

//export go_get_global_static_str
func go_get_global_static_str(ctx *C.KaytonContext, name C.KStr, status *C.uint32_t) C.KStr {
	v, err := stateOf(ctx).GetStaticStr(goString(name))
	if err != nil {
		*status = statusErr
		return C.KStr{}
	}
	*status = statusOK
	return cStrCopy(v)
}

//export go_get_global_static_str_by_handle
func go_get_global_static_str_by_handle(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.KStr {
	v, err := stateOf(ctx).GetStaticStrByHandle(kayvm.Decode(uint64(handle)))
	if err != nil {
		*status = statusErr
		return C.KStr{}
	}
	*status = statusOK
	return cStrCopy(v)
}

// go_intern_static_str allocates an anonymous, program-lifetime string and
// hands back its handle — the vtable's "interner" entry (spec.md 6).
//
//export go_intern_static_str
func go_intern_static_str(ctx *C.KaytonContext, value C.KStr) C.uint64_t {
	h := stateOf(ctx).InternStaticStr(goString(value))
	return C.uint64_t(kayvm.Encode(h))
}

// go_drop_global dispatches on the handle's own kind tag (no separate
// per-width drop entry needed), mirroring host.State.FormatByHandle's
// dispatch-by-kind shape.
//
//export go_drop_global
func go_drop_global(ctx *C.KaytonContext, handle C.uint64_t) C.uint32_t {
	if err := stateOf(ctx).DropByHandle(kayvm.Decode(uint64(handle))); err != nil {
		return statusErr
	}
	return statusOK
}

//export go_kvec_new_i64
func go_kvec_new_i64(ctx *C.KaytonContext, name C.KStr, items *C.int64_t, n C.uint32_t) C.uint64_t {
	count := int(n)
	values := make([]int64, count)
	if count > 0 {
		raw := unsafe.Slice((*C.int64_t)(unsafe.Pointer(items)), count)
		for i, v := range raw {
			values[i] = int64(v)
		}
	}
	h, err := stateOf(ctx).NewI64Vec(goString(name), values)
	if err != nil {
		return 0
	}
	return C.uint64_t(kayvm.Encode(h))
}

//export go_kvec_new_f64
func go_kvec_new_f64(ctx *C.KaytonContext, name C.KStr, items *C.double, n C.uint32_t) C.uint64_t {
	count := int(n)
	values := make([]float64, count)
	if count > 0 {
		raw := unsafe.Slice((*C.double)(unsafe.Pointer(items)), count)
		for i, v := range raw {
			values[i] = float64(v)
		}
	}
	h, err := stateOf(ctx).NewF64Vec(goString(name), values)
	if err != nil {
		return 0
	}
	return C.uint64_t(kayvm.Encode(h))
}

//export go_kvec_len
func go_kvec_len(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) C.uint32_t {
	n, err := stateOf(ctx).KVecLen(kayvm.Decode(uint64(handle)))
	if err != nil {
		*status = statusErr
		return 0
	}
	*status = statusOK
	return C.uint32_t(n)
}

//export go_kvec_read_i64
func go_kvec_read_i64(ctx *C.KaytonContext, handle C.uint64_t, out *C.int64_t, cap C.uint32_t, status *C.uint32_t) C.uint32_t {
	values, err := stateOf(ctx).ReadI64Vec(kayvm.Decode(uint64(handle)))
	if err != nil {
		*status = statusErr
		return 0
	}
	n := len(values)
	if n > int(cap) {
		n = int(cap)
	}
	if n > 0 {
		dst := unsafe.Slice((*C.int64_t)(unsafe.Pointer(out)), n)
		for i := 0; i < n; i++ {
			dst[i] = C.int64_t(values[i])
		}
	}
	*status = statusOK
	return C.uint32_t(n)
}

//export go_kvec_read_f64
func go_kvec_read_f64(ctx *C.KaytonContext, handle C.uint64_t, out *C.double, cap C.uint32_t, status *C.uint32_t) C.uint32_t {
	values, err := stateOf(ctx).ReadF64Vec(kayvm.Decode(uint64(handle)))
	if err != nil {
		*status = statusErr
		return 0
	}
	n := len(values)
	if n > int(cap) {
		n = int(cap)
	}
	if n > 0 {
		dst := unsafe.Slice((*C.double)(unsafe.Pointer(out)), n)
		for i := 0; i < n; i++ {
			dst[i] = C.double(values[i])
		}
	}
	*status = statusOK
	return C.uint32_t(n)
}

//export go_dyn_new
func go_dyn_new(ctx *C.KaytonContext, kind C.uint32_t, ptr unsafe.Pointer) C.uint64_t {
	h, err := stateOf(ctx).DynAppend(kayvm.Kind(kind), ptr)
	if err != nil {
		return 0
	}
	return C.uint64_t(kayvm.Encode(h))
}

//export go_dyn_get
func go_dyn_get(ctx *C.KaytonContext, handle C.uint64_t, status *C.uint32_t) unsafe.Pointer {
	ptr, err := stateOf(ctx).DynGetRaw(kayvm.Decode(uint64(handle)))
	if err != nil {
		*status = statusErr
		return nil
	}
	*status = statusOK
	return ptr
}

//export go_dyn_set_at
func go_dyn_set_at(ctx *C.KaytonContext, handle C.uint64_t, ptr unsafe.Pointer) C.uint32_t {
	if err := stateOf(ctx).DynSetAt(kayvm.Decode(uint64(handle)), ptr); err != nil {
		return statusErr
	}
	return statusOK
}

// Vtable wraps the populated C struct and its computed size.
type Vtable struct {
	c C.KaytonVtable
}

// Build constructs the vtable once; the C struct lives inside the returned
// heap-allocated *Vtable, so its address stays stable for as long as the
// caller keeps that pointer. The VM itself does not hold it.
func Build() *Vtable {
	v := &Vtable{}
	v.c.size = C.uint64_t(unsafe.Sizeof(v.c))
	v.c.set_global_i64 = (*[0]byte)(C.go_set_global_i64)
	v.c.get_global_i64 = (*[0]byte)(C.go_get_global_i64)
	v.c.get_global_i64_by_handle = (*[0]byte)(C.go_get_global_i64_by_handle)
	v.c.set_global_u64 = (*[0]byte)(C.go_set_global_u64)
	v.c.get_global_u64 = (*[0]byte)(C.go_get_global_u64)
	v.c.set_global_f64 = (*[0]byte)(C.go_set_global_f64)
	v.c.get_global_f64 = (*[0]byte)(C.go_get_global_f64)
	v.c.set_global_bool = (*[0]byte)(C.go_set_global_bool)
	v.c.get_global_bool = (*[0]byte)(C.go_get_global_bool)
	v.c.set_global_str_buf = (*[0]byte)(C.go_set_global_str_buf)
	v.c.get_global_str_buf = (*[0]byte)(C.go_get_global_str_buf)
	v.c.drop_global_str_buf = (*[0]byte)(C.go_drop_global_str_buf)
	v.c.register_dynamic_kind = (*[0]byte)(C.go_register_dynamic_kind)
	v.c.tuple_new = (*[0]byte)(C.go_tuple_new)
	v.c.tuple_len = (*[0]byte)(C.go_tuple_len)
	v.c.tuple_item = (*[0]byte)(C.go_tuple_item)
	v.c.load_plugin = (*[0]byte)(C.go_load_plugin)
	v.c.get_function_ptr = (*[0]byte)(C.go_get_function_ptr)
	v.c.register_function = (*[0]byte)(C.go_register_function)
	v.c.register_type = (*[0]byte)(C.go_register_type)

	v.c.set_global_i8 = (*[0]byte)(C.go_set_global_i8)
	v.c.get_global_i8 = (*[0]byte)(C.go_get_global_i8)
	v.c.get_global_i8_by_handle = (*[0]byte)(C.go_get_global_i8_by_handle)
	v.c.set_global_i16 = (*[0]byte)(C.go_set_global_i16)
	v.c.get_global_i16 = (*[0]byte)(C.go_get_global_i16)
	v.c.get_global_i16_by_handle = (*[0]byte)(C.go_get_global_i16_by_handle)
	v.c.set_global_i32 = (*[0]byte)(C.go_set_global_i32)
	v.c.get_global_i32 = (*[0]byte)(C.go_get_global_i32)
	v.c.get_global_i32_by_handle = (*[0]byte)(C.go_get_global_i32_by_handle)
	v.c.set_global_isize = (*[0]byte)(C.go_set_global_isize)
	v.c.get_global_isize = (*[0]byte)(C.go_get_global_isize)
	v.c.get_global_isize_by_handle = (*[0]byte)(C.go_get_global_isize_by_handle)
	v.c.set_global_i128 = (*[0]byte)(C.go_set_global_i128)
	v.c.get_global_i128 = (*[0]byte)(C.go_get_global_i128)
	v.c.get_global_i128_by_handle = (*[0]byte)(C.go_get_global_i128_by_handle)

	v.c.set_global_u8 = (*[0]byte)(C.go_set_global_u8)
	v.c.get_global_u8 = (*[0]byte)(C.go_get_global_u8)
	v.c.get_global_u8_by_handle = (*[0]byte)(C.go_get_global_u8_by_handle)
	v.c.set_global_u16 = (*[0]byte)(C.go_set_global_u16)
	v.c.get_global_u16 = (*[0]byte)(C.go_get_global_u16)
	v.c.get_global_u16_by_handle = (*[0]byte)(C.go_get_global_u16_by_handle)
	v.c.set_global_u32 = (*[0]byte)(C.go_set_global_u32)
	v.c.get_global_u32 = (*[0]byte)(C.go_get_global_u32)
	v.c.get_global_u32_by_handle = (*[0]byte)(C.go_get_global_u32_by_handle)
	v.c.set_global_usize = (*[0]byte)(C.go_set_global_usize)
	v.c.get_global_usize = (*[0]byte)(C.go_get_global_usize)
	v.c.get_global_usize_by_handle = (*[0]byte)(C.go_get_global_usize_by_handle)
	v.c.set_global_u128 = (*[0]byte)(C.go_set_global_u128)
	v.c.get_global_u128 = (*[0]byte)(C.go_get_global_u128)
	v.c.get_global_u128_by_handle = (*[0]byte)(C.go_get_global_u128_by_handle)

	v.c.set_global_f32 = (*[0]byte)(C.go_set_global_f32)
	v.c.get_global_f32 = (*[0]byte)(C.go_get_global_f32)
	v.c.get_global_f32_by_handle = (*[0]byte)(C.go_get_global_f32_by_handle)

	v.c.set_global_static_str = (*[0]byte)(C.go_set_global_static_str)
	v.c.get_global_static_str = (*[0]byte)(C.go_get_global_static_str)
	v.c.get_global_static_str_by_handle = (*[0]byte)(C.go_get_global_static_str_by_handle)
	v.c.intern_static_str = (*[0]byte)(C.go_intern_static_str)

	v.c.drop_global = (*[0]byte)(C.go_drop_global)

	v.c.kvec_new_i64 = (*[0]byte)(C.go_kvec_new_i64)
	v.c.kvec_new_f64 = (*[0]byte)(C.go_kvec_new_f64)
	v.c.kvec_len = (*[0]byte)(C.go_kvec_len)
	v.c.kvec_read_i64 = (*[0]byte)(C.go_kvec_read_i64)
	v.c.kvec_read_f64 = (*[0]byte)(C.go_kvec_read_f64)

	v.c.dyn_new = (*[0]byte)(C.go_dyn_new)
	v.c.dyn_get = (*[0]byte)(C.go_dyn_get)
	v.c.dyn_set_at = (*[0]byte)(C.go_dyn_set_at)

	v.c.get_function = (*[0]byte)(C.go_get_function)
	v.c.get_type = (*[0]byte)(C.go_get_type)
	return v
}

// Size reports the vtable's byte size, satisfying testable property 4
// ("the vtable field size equals the struct's actual byte size").
func (v *Vtable) Size() uint64 { return uint64(v.c.size) }

// Ptr returns the vtable's address for embedding into a KaytonContext.
func (v *Vtable) Ptr() unsafe.Pointer { return unsafe.Pointer(&v.c) }

// ABIVersion is the context layout version generated units and native
// plugins are both built against; see kayerr.AbiMismatch for the loader
// check on the plugin side.
const ABIVersion uint32 = 1

// NewContext builds the context struct passed as the first argument of
// every vtable call, pointing host_data at state and vtable at v, and
// returns it as an unsafe.Pointer rather than the cgo-local *C.KaytonContext
// type so callers outside this package (which cannot reference "C" types
// across a package boundary) can still hold and pass it along, the same
// convention loader.Library.Register already uses for its ctx parameter.
func NewContext(abiVersion uint32, state *host.State, v *Vtable) unsafe.Pointer {
	ctx := &C.KaytonContext{
		abi_version: C.uint32_t(abiVersion),
		host_data:   unsafe.Pointer(state),
		vtable:      v.Ptr(),
	}
	return unsafe.Pointer(ctx)
}

// Hooks lets the harness install per-invocation load_plugin/
// get_function_ptr/register_function/register_type/get_function/get_type
// implementations without rebuilding the vtable; see spec.md 9's note
// that these are installed at step 3 of the state machine and cleared at
// step 6. They live behind per-invocation hooks rather than the context's
// host_data because the function/type registries and plugin directory
// belong to the harness/VM, not to host.State.
type Hooks struct {
	loadPluginFn     func(state *host.State, name string) uint32
	getFunctionPtrFn func(state *host.State, name string) unsafe.Pointer
	registerFuncFn   func(state *host.State, name string, rawPtr unsafe.Pointer, sigHash uint64) uint32
	registerTypeFn   func(state *host.State, name string, size, align uint32) uint32
	getFunctionFn    func(state *host.State, name string) (unsafe.Pointer, uint64, bool)
	getTypeFn        func(state *host.State, name string) (size, align uint32, ok bool)
}

func (h *Hooks) loadPlugin(state *host.State, name string) C.uint32_t {
	if h.loadPluginFn == nil {
		return statusErr
	}
	return C.uint32_t(h.loadPluginFn(state, name))
}

func (h *Hooks) getFunctionPtr(state *host.State, name string) unsafe.Pointer {
	if h.getFunctionPtrFn == nil {
		return nil
	}
	return h.getFunctionPtrFn(state, name)
}

func (h *Hooks) registerFunction(state *host.State, name string, rawPtr unsafe.Pointer, sigHash uint64) uint32 {
	if h.registerFuncFn == nil {
		return uint32(statusErr)
	}
	return h.registerFuncFn(state, name, rawPtr, sigHash)
}

func (h *Hooks) registerType(state *host.State, name string, size, align uint32) uint32 {
	if h.registerTypeFn == nil {
		return uint32(statusErr)
	}
	return h.registerTypeFn(state, name, size, align)
}

func (h *Hooks) getFunction(state *host.State, name string) (unsafe.Pointer, uint64, bool) {
	if h.getFunctionFn == nil {
		return nil, 0, false
	}
	return h.getFunctionFn(state, name)
}

func (h *Hooks) getType(state *host.State, name string) (uint32, uint32, bool) {
	if h.getTypeFn == nil {
		return 0, 0, false
	}
	return h.getTypeFn(state, name)
}

var hooks = &Hooks{}

// InstallHooks sets the process-wide per-invocation vtable hooks for the
// duration of one run() invocation. Callers must call ClearHooks
// (typically via defer) on both the success and panic paths.
func InstallHooks(
	loadPlugin func(state *host.State, name string) uint32,
	getFunctionPtr func(state *host.State, name string) unsafe.Pointer,
	registerFunction func(state *host.State, name string, rawPtr unsafe.Pointer, sigHash uint64) uint32,
	registerType func(state *host.State, name string, size, align uint32) uint32,
	getFunction func(state *host.State, name string) (unsafe.Pointer, uint64, bool),
	getType func(state *host.State, name string) (size, align uint32, ok bool),
) {
	hooks.loadPluginFn = loadPlugin
	hooks.getFunctionPtrFn = getFunctionPtr
	hooks.registerFuncFn = registerFunction
	hooks.registerTypeFn = registerType
	hooks.getFunctionFn = getFunction
	hooks.getTypeFn = getType
}

func ClearHooks() {
	hooks.loadPluginFn = nil
	hooks.getFunctionPtrFn = nil
	hooks.registerFuncFn = nil
	hooks.registerTypeFn = nil
	hooks.getFunctionFn = nil
	hooks.getTypeFn = nil
}
