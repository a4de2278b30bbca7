package kayvm_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kayvm"
	"github.com/keiv-fly/kayton-go/internal/kayvm/loader"
)

func TestNewVMHasEmptyRegistries(t *testing.T) {
	vm := kayvm.New()
	defer vm.Close()

	_, err := vm.Funcs.Get("add")
	require.Error(t, err)
	_, err = vm.Types.Get("point")
	require.Error(t, err)
}

// TestLoadPluginPropagatesOpenFailure checks at the VM boundary that a
// path which doesn't dlopen makes LoadPlugin return an error, and that the
// deferred Close still runs afterward. It does not inspect the VM's
// retained libraries.
func TestLoadPluginPropagatesOpenFailure(t *testing.T) {
	vm := kayvm.New()
	defer vm.Close()

	err := vm.LoadPlugin(filepath.Join(t.TempDir(), "missing.so"), func(lib *loader.Library) error {
		return lib.Register(nil)
	})
	require.Error(t, err)
}

func TestCloseWithNoLibrariesIsSafe(t *testing.T) {
	vm := kayvm.New()
	vm.Close()
	vm.Close() // idempotent: closing an already-closed VM must not panic
}
