// Package emit lowers a type-checked resolve tree into the source text
// of a standalone Go plugin: a package main compiled with
// -buildmode=c-shared, carrying its own copy of the KaytonContext/
// KaytonVtable cgo declarations (mirroring internal/kayvm/vtable's
// layout, since the emitted unit is loaded into a different shared
// object than the host process) and one exported kayton_run entry point
// that evaluates the program's statements, reading and writing globals
// through the vtable's function pointers exactly the way
// plugin-example's handlers call through NrHostVTable.
package emit

import (
	"fmt"
	"strings"

	"github.com/keiv-fly/kayton-go/internal/kaycompile/ast"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/hir"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/resolve"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/typecheck"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
)

// lastExprGlobal is the reserved global name the unit's trailing bare
// expression (if any) is persisted under, matching spec.md 4.8's
// last_expression_text field.
const lastExprGlobal = "__last"

const preamble = `package main

/*
#include <stdint.h>
#include <stddef.h>
#include <string.h>

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
} KaytonVtable;

static uint64_t kayton_set_i64(KaytonContext* ctx, KStr name, int64_t v) {
	KaytonVtable* vt = (KaytonVtable*)ctx->vtable;
	return vt->set_global_i64(ctx, name, v);
}
static int64_t kayton_get_i64(KaytonContext* ctx, KStr name, uint32_t* status) {
	KaytonVtable* vt = (KaytonVtable*)ctx->vtable;
	return vt->get_global_i64(ctx, name, status);
}
static uint64_t kayton_set_bool(KaytonContext* ctx, KStr name, uint8_t v) {
	KaytonVtable* vt = (KaytonVtable*)ctx->vtable;
	return vt->set_global_bool(ctx, name, v);
}
static uint8_t kayton_get_bool(KaytonContext* ctx, KStr name, uint32_t* status) {
	KaytonVtable* vt = (KaytonVtable*)ctx->vtable;
	return vt->get_global_bool(ctx, name, status);
}
static uint64_t kayton_set_str(KaytonContext* ctx, KStr name, KStr v) {
	KaytonVtable* vt = (KaytonVtable*)ctx->vtable;
	return vt->set_global_str_buf(ctx, name, v);
}
static KStr kayton_get_str(KaytonContext* ctx, KStr name, uint32_t* status) {
	KaytonVtable* vt = (KaytonVtable*)ctx->vtable;
	return vt->get_global_str_buf(ctx, name, status);
}
*/
import "C"
import "fmt"

func boolToU8(b bool) C.uint8_t {
	if b {
		return 1
	}
	return 0
}

func printKayton(v any) int {
	fmt.Println(v)
	return 0
}

// kstr copies s into C-owned memory rather than pointing at Go memory,
// since the resulting KStr crosses into vtable calls that may retain it
// past this call's return, and a raw Go slice pointer would not survive
// that the way cgo's pointer-passing rules require.
func kstr(s string) C.KStr {
	if len(s) == 0 {
		return C.KStr{}
	}
	ptr := C.CBytes([]byte(s))
	return C.KStr{ptr: ptr, len: C.uint32_t(len(s))}
}

func goStr(s C.KStr) string {
	if s.ptr == nil || s.len == 0 {
		return ""
	}
	return C.GoStringN((*C.char)(s.ptr), C.int(s.len))
}
`

// Emit translates a type-checked program into the full Go source of a
// loadable plugin unit named //export kayton_run.
func Emit(tp *typecheck.Program) (string, error) {
	e := &emitter{tp: tp, declared: map[resolve.SymbolID]bool{}}
	e.collectTopLevelSymbols(tp.Stmts)

	var body strings.Builder
	for _, s := range tp.Stmts {
		e.stmt(&body, s, 1)
	}

	var out strings.Builder
	out.WriteString(preamble)
	out.WriteString("\n//export kayton_run\n")
	out.WriteString("func kayton_run(ctx *C.KaytonContext) {\n")
	out.WriteString(body.String())
	out.WriteString("}\n\nfunc main() {}\n")
	if len(e.errs) > 0 {
		return out.String(), e.errs[0]
	}
	return out.String(), nil
}

type emitter struct {
	tp       *typecheck.Program
	declared map[resolve.SymbolID]bool
	fetched  map[resolve.SymbolID]bool
	errs     []error
}

// collectTopLevelSymbols marks every symbol a top-level Assign binds, so
// nested writes inside a Loop/If body know to persist back to the VM's
// global table rather than only touching a local Go variable.
func (e *emitter) collectTopLevelSymbols(stmts []resolve.Stmt) {
	for _, s := range stmts {
		if a, ok := s.(*resolve.Assign); ok {
			e.declared[a.Symbol] = true
		}
	}
}

func varName(sym resolve.SymbolID) string { return fmt.Sprintf("v%d", sym) }

func indentOf(depth int) string { return strings.Repeat("\t", depth) }

func (e *emitter) kindOf(sym resolve.SymbolID) kayvm.Kind {
	if k, ok := e.tp.SymbolTypes[sym]; ok {
		return k
	}
	return kayvm.KindI64
}

// kindOfExpr recovers an arbitrary expression's checked Kind from the
// type-checker's NodeTypes map, keyed by the node's hir.ID. nodeID
// duplicates typecheck's own (unexported) switch of the same name, since
// that one cannot be called across the package boundary.
func (e *emitter) kindOfExpr(expr resolve.Expr) kayvm.Kind {
	if k, ok := e.tp.NodeTypes[nodeID(expr)]; ok {
		return k
	}
	return kayvm.KindI64
}

func nodeID(e resolve.Expr) hir.ID {
	switch n := e.(type) {
	case *resolve.IntLit:
		return n.ID
	case *resolve.StrLit:
		return n.ID
	case *resolve.BoolLit:
		return n.ID
	case *resolve.Ident:
		return n.ID
	case *resolve.Binary:
		return n.ID
	case *resolve.Call:
		return n.ID
	case *resolve.InterpString:
		return n.ID
	default:
		return 0
	}
}

func (e *emitter) stmt(w *strings.Builder, s resolve.Stmt, depth int) {
	ind := indentOf(depth)
	switch n := s.(type) {
	case *resolve.Assign:
		val := e.expr(w, n.Expr, depth)
		if n.Fresh {
			fmt.Fprintf(w, "%s%s := %s\n", ind, varName(n.Symbol), val)
			e.markLocal(n.Symbol)
		} else {
			fmt.Fprintf(w, "%s%s = %s\n", ind, varName(n.Symbol), val)
		}
		if e.declared[n.Symbol] {
			e.emitPersist(w, n.Symbol, n.Name, depth)
		}
	case *resolve.ExprStmt:
		val := e.expr(w, n.Expr, depth)
		e.emitPersistValue(w, e.kindOfExpr(n.Expr), lastExprGlobal, val, depth)
	case *resolve.Loop:
		start := e.expr(w, n.Start, depth)
		end := e.expr(w, n.End, depth)
		e.markLocal(n.Symbol)
		fmt.Fprintf(w, "%sfor %s := %s; %s < %s; %s++ {\n", ind, varName(n.Symbol), start, varName(n.Symbol), end, varName(n.Symbol))
		for _, bs := range n.Body {
			e.stmt(w, bs, depth+1)
		}
		fmt.Fprintf(w, "%s}\n", ind)
	case *resolve.If:
		cond := e.expr(w, n.Cond, depth)
		fmt.Fprintf(w, "%sif %s {\n", ind, cond)
		for _, ts := range n.Then {
			e.stmt(w, ts, depth+1)
		}
		fmt.Fprintf(w, "%s}", ind)
		if len(n.Else) > 0 {
			fmt.Fprintf(w, " else {\n")
			for _, es := range n.Else {
				e.stmt(w, es, depth+1)
			}
			fmt.Fprintf(w, "%s}", ind)
		}
		w.WriteByte('\n')
	case *resolve.Return:
		if n.Value != nil {
			val := e.expr(w, n.Value, depth)
			fmt.Fprintf(w, "%s_ = %s\n", ind, val)
		}
		fmt.Fprintf(w, "%sreturn\n", ind)
	case *resolve.ImportModule, *resolve.ImportItems:
		// Imports emit nothing, and no stage loads the named plugin: the
		// harness does not load it before compiling and the unit never
		// calls load_plugin.
	default:
		e.errs = append(e.errs, fmt.Errorf("emit: unhandled statement type %T", s))
	}
}

// emitPersist writes the declared symbol's current Go-local value back
// to the VM's global table via the matching vtable setter, keyed by its
// static Kind so the right C call is chosen.
func (e *emitter) emitPersist(w *strings.Builder, sym resolve.SymbolID, name string, depth int) {
	e.emitPersistValue(w, e.kindOf(sym), name, varName(sym), depth)
}

// emitPersistValue writes goExprText's current value back to the VM's
// global table named name, via the matching vtable setter chosen by kind.
// Shared by emitPersist (assigned symbols) and the trailing bare
// expression of a unit, which persists under __last the same way.
func (e *emitter) emitPersistValue(w *strings.Builder, kind kayvm.Kind, name string, goExprText string, depth int) {
	ind := indentOf(depth)
	switch kind {
	case kayvm.KindBool:
		fmt.Fprintf(w, "%sC.kayton_set_bool(ctx, kstr(%q), boolToU8(%s))\n", ind, name, goExprText)
	case kayvm.KindStrBuf:
		fmt.Fprintf(w, "%sC.kayton_set_str(ctx, kstr(%q), kstr(%s))\n", ind, name, goExprText)
	default:
		fmt.Fprintf(w, "%sC.kayton_set_i64(ctx, kstr(%q), C.int64_t(%s))\n", ind, name, goExprText)
	}
}

// expr renders e as a Go expression string. Expressions are pure enough
// (literals, arithmetic, calls) that they never need their own
// statements, except an Ident reading a symbol this unit never assigned
// — a carryover global from a prior REPL unit — which is fetched once
// into a local var the first time it's referenced.
func (e *emitter) expr(w *strings.Builder, expr resolve.Expr, depth int) string {
	switch n := expr.(type) {
	case *resolve.IntLit:
		return fmt.Sprintf("int64(%d)", n.Value)
	case *resolve.StrLit:
		return fmt.Sprintf("%q", n.Value)
	case *resolve.BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *resolve.Ident:
		if !e.declared[n.Symbol] && (e.fetched == nil || !e.fetched[n.Symbol]) {
			e.ensureFetched(w, n.Symbol, n.Name, depth)
		}
		return varName(n.Symbol)
	case *resolve.Binary:
		left := e.expr(w, n.Left, depth)
		right := e.expr(w, n.Right, depth)
		return fmt.Sprintf("(%s %s %s)", left, goOp(n.Op), right)
	case *resolve.Call:
		ident, isIdent := n.Func.(*resolve.Ident)
		if isIdent && ident.Name == "print" && len(n.Args) == 1 {
			arg := e.expr(w, n.Args[0], depth)
			return fmt.Sprintf("printKayton(%s)", arg)
		}
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = e.expr(w, a, depth)
		}
		if !isIdent {
			e.errs = append(e.errs, fmt.Errorf("emit: call target must be a named function, got %T", n.Func))
			return "0"
		}
		return fmt.Sprintf("%s(%s)", ident.Name, strings.Join(args, ", "))
	case *resolve.InterpString:
		parts := make([]string, len(n.Parts))
		for i, part := range n.Parts {
			if part.Expr != nil {
				parts[i] = fmt.Sprintf("fmt.Sprint(%s)", e.expr(w, part.Expr, depth))
			} else {
				parts[i] = fmt.Sprintf("%q", part.Text)
			}
		}
		return strings.Join(parts, " + ")
	default:
		e.errs = append(e.errs, fmt.Errorf("emit: unhandled expression type %T", expr))
		return "0"
	}
}

// markLocal records that sym already has a Go local in the unit (a fresh
// assignment or a loop variable), so reading it never fetches from the VM.
func (e *emitter) markLocal(sym resolve.SymbolID) {
	if e.fetched == nil {
		e.fetched = map[resolve.SymbolID]bool{}
	}
	e.fetched[sym] = true
}

// ensureFetched declares the Go local the first time a carryover global
// is read. It assumes that first read and every later use of the same
// symbol share an enclosing block — true for every construct this
// surface language currently parses, since a name is never read before
// its containing statement's own block in straight-line or single-loop
// code.
func (e *emitter) ensureFetched(w *strings.Builder, sym resolve.SymbolID, name string, depth int) {
	if e.fetched == nil {
		e.fetched = map[resolve.SymbolID]bool{}
	}
	e.fetched[sym] = true
	ind := indentOf(depth)
	statusVar := fmt.Sprintf("status%d", sym)
	switch e.kindOf(sym) {
	case kayvm.KindBool:
		fmt.Fprintf(w, "%svar %s C.uint32_t\n%s%s := C.kayton_get_bool(ctx, kstr(%q), &%s) != 0\n", ind, statusVar, ind, varName(sym), name, statusVar)
	case kayvm.KindStrBuf:
		fmt.Fprintf(w, "%svar %s C.uint32_t\n%s%s := goStr(C.kayton_get_str(ctx, kstr(%q), &%s))\n", ind, statusVar, ind, varName(sym), name, statusVar)
	default:
		fmt.Fprintf(w, "%svar %s C.uint32_t\n%s%s := int64(C.kayton_get_i64(ctx, kstr(%q), &%s))\n", ind, statusVar, ind, varName(sym), name, statusVar)
	}
}

func goOp(op ast.BinOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpEq:
		return "=="
	case ast.OpNeq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpGt:
		return ">"
	case ast.OpLe:
		return "<="
	case ast.OpGe:
		return ">="
	default:
		return "+"
	}
}
