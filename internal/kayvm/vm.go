package kayvm

import (
	"github.com/keiv-fly/kayton-go/internal/kayerr"
	"github.com/keiv-fly/kayton-go/internal/kayvm/host"
	"github.com/keiv-fly/kayton-go/internal/kayvm/loader"
	"github.com/keiv-fly/kayton-go/internal/kayvm/registry"
)

// VM owns one host.State, one function/type registry pair, and every
// plugin library opened against it. It is single-threaded-cooperative:
// every method here must run on the same goroutine that drives the
// execution harness, per spec.md 5.
type VM struct {
	State *host.State
	Funcs *registry.FuncRegistry
	Types *registry.TypeRegistry

	libraries []*loader.Library
}

// New constructs an empty VM.
func New() *VM {
	return &VM{
		State: host.New(),
		Funcs: registry.NewFuncRegistry(),
		Types: registry.NewTypeRegistry(),
	}
}

// LoadPlugin opens a shared object, validates its ABI version and
// manifest, and calls its register entry point. The returned Library is
// retained on the VM for its entire lifetime so cached function pointers
// remain valid; see spec.md 4.5.
func (vm *VM) LoadPlugin(path string, registerCtx func(lib *loader.Library) error) error {
	lib, err := loader.Open(path)
	if err != nil {
		return err
	}
	if err := registerCtx(lib); err != nil {
		lib.Close()
		return kayerr.Wrap(kayerr.Generic, err, "registering plugin %s", path)
	}
	vm.libraries = append(vm.libraries, lib)
	return nil
}

// Close tears the VM down: every owned value's drop runs first (via
// host.State.Close), then every retained plugin library is released last,
// so code reachable through a cached function pointer stays valid while
// its owning value is still being dropped.
func (vm *VM) Close() {
	vm.State.Close()
	for _, lib := range vm.libraries {
		lib.Close()
	}
	vm.libraries = nil
}
