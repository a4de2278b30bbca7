// Package kayharness drives one REPL-style execution: take a unit of
// source text, run it through the kaycompile pipeline, compile the
// result to a native shared object, dlopen it, invoke its entry point
// against the running VM, capture anything it printed, and retain the
// loaded library so cached function pointers stay valid afterward. The
// six-step shape (prepare, compile, load, invoke, drain, retain)
// mirrors the stages nylon-ring-go's sdk package walks a single request
// through, generalized from one HTTP-style request/response cycle to
// one compile-and-run cycle.
package kayharness

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"unsafe"

	"github.com/google/uuid"

	"github.com/keiv-fly/kayton-go/internal/kaycompile/emit"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/hir"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/lexer"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/parser"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/resolve"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/typecheck"
	"github.com/keiv-fly/kayton-go/internal/kayerr"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
	"github.com/keiv-fly/kayton-go/internal/kayvm/host"
	"github.com/keiv-fly/kayton-go/internal/kayvm/loader"
	"github.com/keiv-fly/kayton-go/internal/kayvm/registry"
	"github.com/keiv-fly/kayton-go/internal/kayvm/vtable"
)

// Result is everything one Run call produces: whatever the unit printed
// through print(), the special __last binding the REPL surfaces after
// every evaluated unit, and every currently bound global rendered as
// text — the three fields of the front-end protocol's Ok reply (spec.md
// 6: last_expression_text, stdout_text, all_globals_text).
type Result struct {
	Stdout     string
	LastExpr   string
	AllGlobals [][2]string
}

// Harness owns the scratch directory units are compiled in and the set
// of previously loaded unit libraries, kept open for the VM's lifetime
// since their cached symbols must stay valid.
type Harness struct {
	vm        *kayvm.VM
	scratch   string
	pluginDir string
	ctx       unsafe.Pointer
	units     []*unit
	goBinPath string

	// Stream, if set, is called with each chunk of stdout as the unit
	// produces it rather than only once the call has finished, letting a
	// caller (e.g. the REPL's print loop) show output live instead of
	// waiting for invoke to return.
	Stream func(chunk string)
}

// New creates a harness scoped to vm, using baseDir as the parent for
// per-unit scratch directories (one per compiled unit, named by a fresh
// uuid so concurrent or repeated runs never collide) and baseDir/plugins
// as the directory load_plugin(name) resolves names against.
func New(vm *kayvm.VM, baseDir string, vt *vtable.Vtable) (*Harness, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, kayerr.Wrap(kayerr.Generic, err, "creating harness scratch dir")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		return nil, kayerr.Wrap(kayerr.Generic, err, "locating go toolchain")
	}
	return &Harness{
		vm:        vm,
		scratch:   baseDir,
		pluginDir: filepath.Join(baseDir, "plugins"),
		ctx:       vtable.NewContext(vtable.ABIVersion, vm.State, vt),
		goBinPath: goBin,
	}, nil
}

// Run executes one source unit end to end: prepare, compile, load,
// invoke, drain, retain. The loaded library is appended to h.units and
// never closed until the harness itself is torn down, per spec.md 9's
// ordering (drop all values, THEN close libraries last).
func (h *Harness) Run(source string) (*Result, error) {
	goSrc, err := h.prepare(source)
	if err != nil {
		return nil, err
	}
	soPath, err := h.compile(goSrc)
	if err != nil {
		return nil, err
	}
	u, err := h.load(soPath)
	if err != nil {
		return nil, err
	}
	out, err := h.invoke(u)
	if err != nil {
		return nil, err
	}
	h.units = append(h.units, u) // retain

	// __stdout is a direct write rather than a callback the generated
	// unit invokes itself: the unit's own print() calls already land in
	// out via the redirected-pipe capture invoke performs, so persisting
	// it as a global only needs one SetStrBuf here, not a round trip
	// through the vtable from inside the compiled unit.
	h.vm.State.SetStrBuf("__stdout", out)

	var lastExpr string
	if last, err := h.vm.State.Names.Resolve("__last"); err == nil {
		if text, err := h.vm.State.FormatByHandle(last); err == nil {
			lastExpr = text
		}
	}
	allGlobals, err := h.vm.State.ReadAllGlobalsAsStrings()
	if err != nil {
		return nil, kayerr.Wrap(kayerr.Generic, err, "reading globals")
	}
	return &Result{Stdout: out, LastExpr: lastExpr, AllGlobals: allGlobals}, nil
}

// prepare runs the full kaycompile pipeline over source and returns the
// emitted Go plugin source, or the first accumulated error from
// whichever stage caught something — parse errors first (they make
// every later stage meaningless), then the single emit-stage error if
// checking itself produced no diagnostics but codegen hit an
// unsupported construct.
func (h *Harness) prepare(source string) (string, error) {
	toks := lexer.New(source).Tokenize()
	stmts, errs := parser.New(toks).Parse()
	if len(errs) > 0 {
		return "", kayerr.New(kayerr.ParseError, "%v", errs[0])
	}
	prog := hir.Lower(stmts)
	resolved := resolve.Resolve(prog)
	checked := typecheck.Check(resolved)
	if len(checked.Errors) > 0 {
		return "", kayerr.New(kayerr.TypeError, "%v", checked.Errors[0])
	}
	goSrc, err := emit.Emit(checked)
	if err != nil {
		return "", kayerr.Wrap(kayerr.Generic, err, "emitting unit")
	}
	return goSrc, nil
}

// compile writes goSrc into its own scratch module and builds it as a
// c-shared library. Each unit gets a fresh uuid-named directory so nothing
// from a previous unit (including the go build cache's view of package
// main) leaks into this one.
func (h *Harness) compile(goSrc string) (string, error) {
	dir := filepath.Join(h.scratch, "unit-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", kayerr.Wrap(kayerr.Generic, err, "creating unit dir")
	}
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module kaytonunit\n\ngo 1.21\n"), 0o644); err != nil {
		return "", kayerr.Wrap(kayerr.Generic, err, "writing unit go.mod")
	}
	if err := os.WriteFile(filepath.Join(dir, "unit.go"), []byte(goSrc), 0o644); err != nil {
		return "", kayerr.Wrap(kayerr.Generic, err, "writing unit source")
	}
	soPath := filepath.Join(dir, "unit.so")
	cmd := exec.Command(h.goBinPath, "build", "-buildmode=c-shared", "-o", soPath, "unit.go")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", kayerr.New(kayerr.CompileError, "go build failed: %s", stderr.String())
	}
	return soPath, nil
}

func (h *Harness) load(soPath string) (*unit, error) {
	return openUnit(soPath)
}

// invoke calls the unit's kayton_run(ctx) entry point with the process's
// real stdout temporarily redirected through a pipe, so print() calls
// inside the generated code (which write straight to os.Stdout) can be
// captured as this unit's __stdout text instead of leaking to the
// terminal mid-REPL-session. The pipe is drained in chunks rather than in
// one final io.Copy so h.Stream, if set, sees output as the unit produces
// it instead of only after the call returns. load_plugin/get_function_ptr/
// register_function/register_type/get_function/get_type are installed on
// the shared vtable for exactly the duration of the call, per spec.md 9's
// step 3/6 bracketing, then cleared so a later, unrelated VM never
// inherits this harness's plugin directory.
func (h *Harness) invoke(u *unit) (string, error) {
	vtable.InstallHooks(h.loadPlugin, h.getFunctionPtr, h.registerFunction, h.registerType, h.getFunction, h.getType)
	defer vtable.ClearHooks()

	r, w, err := os.Pipe()
	if err != nil {
		return "", kayerr.Wrap(kayerr.Generic, err, "opening stdout pipe")
	}
	realStdout := os.Stdout
	os.Stdout = w
	done := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		chunk := make([]byte, 4096)
		for {
			n, err := r.Read(chunk)
			if n > 0 {
				buf.Write(chunk[:n])
				if h.Stream != nil {
					h.Stream(string(chunk[:n]))
				}
			}
			if err != nil {
				break
			}
		}
		done <- buf.String()
	}()

	u.call(h.ctx)

	os.Stdout = realStdout
	w.Close()
	out := <-done
	return out, nil
}

// loadPlugin resolves name against h.pluginDir ("<name>.so") and opens it
// on the VM, the load_plugin vtable entry's Go-side implementation.
func (h *Harness) loadPlugin(state *host.State, name string) uint32 {
	path := filepath.Join(h.pluginDir, name+".so")
	err := h.vm.LoadPlugin(path, func(lib *loader.Library) error {
		return lib.Register(h.ctx)
	})
	if err != nil {
		return 1
	}
	return 0
}

// getFunctionPtr looks name up in the VM's function registry, the
// get_function_ptr vtable entry's Go-side implementation.
func (h *Harness) getFunctionPtr(state *host.State, name string) unsafe.Pointer {
	entry, err := h.vm.Funcs.Get(name)
	if err != nil {
		return nil
	}
	return entry.RawPtr
}

// registerFunction publishes a raw function pointer under name into the
// VM's function registry, the register_function vtable entry's Go-side
// implementation a plugin's register(ctx) calls through to.
func (h *Harness) registerFunction(state *host.State, name string, rawPtr unsafe.Pointer, sigHash uint64) uint32 {
	h.vm.Funcs.Register(name, rawPtr, sigHash)
	return 0
}

// registerType publishes POD type metadata under name into the VM's
// type registry, the register_type vtable entry's Go-side
// implementation. Types published this way carry neither Drop nor
// Clone, matching spec.md 3's "POD types have neither drop nor clone".
func (h *Harness) registerType(state *host.State, name string, size, align uint32) uint32 {
	h.vm.Types.Register(name, registry.TypeMeta{Size: size, Align: align})
	return 0
}

// getFunction looks name up in the VM's function registry and reports its
// signature hash alongside the raw pointer, the get_function vtable
// entry's Go-side implementation — unlike getFunctionPtr, which a
// compiled unit uses to obtain a callable it already knows the signature
// of, this backs a plugin's own runtime introspection of another
// function's shape.
func (h *Harness) getFunction(state *host.State, name string) (unsafe.Pointer, uint64, bool) {
	entry, err := h.vm.Funcs.Get(name)
	if err != nil {
		return nil, 0, false
	}
	return entry.RawPtr, entry.SigHash, true
}

// getType looks name up in the VM's type registry, the get_type vtable
// entry's Go-side implementation.
func (h *Harness) getType(state *host.State, name string) (size, align uint32, ok bool) {
	meta, err := h.vm.Types.Get(name)
	if err != nil {
		return 0, 0, false
	}
	return meta.Size, meta.Align, true
}

// Close releases every retained unit library, in load order — mirroring
// kayvm.VM.Close's "drop values, then close libraries last" discipline,
// except here there are no VM-owned values to drop first since compiled
// units don't allocate any of their own.
func (h *Harness) Close() {
	for _, u := range h.units {
		u.close()
	}
	h.units = nil
}
