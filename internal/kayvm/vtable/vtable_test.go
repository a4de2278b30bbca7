package vtable_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kayvm/host"
	"github.com/keiv-fly/kayton-go/internal/kayvm/vtable"
)

func TestBuildReportsNonZeroSize(t *testing.T) {
	vt := vtable.Build()
	require.NotZero(t, vt.Size())
}

func TestBuildIsStablePerInstance(t *testing.T) {
	a := vtable.Build()
	b := vtable.Build()
	require.Equal(t, a.Size(), b.Size())
	require.NotEqual(t, a.Ptr(), b.Ptr())
}

func TestNewContextEmbedsStateAndVtable(t *testing.T) {
	state := host.New()
	vt := vtable.Build()
	ctx := vtable.NewContext(vtable.ABIVersion, state, vt)
	require.NotNil(t, ctx)
}

// TestHooksInstallAndClearRoundTrip covers the per-invocation Hooks
// mechanism spec.md 9 describes (installed at step 3, cleared at step 6):
// installing a set of hook functions, then clearing them, must not panic
// regardless of how many times either happens.
func TestHooksInstallAndClearRoundTrip(t *testing.T) {
	called := false
	vtable.InstallHooks(
		func(state *host.State, name string) uint32 { called = true; return 0 },
		func(state *host.State, name string) unsafe.Pointer { return nil },
		func(state *host.State, name string, rawPtr unsafe.Pointer, sigHash uint64) uint32 { return 0 },
		func(state *host.State, name string, size, align uint32) uint32 { return 0 },
		func(state *host.State, name string) (unsafe.Pointer, uint64, bool) { return nil, 0, false },
		func(state *host.State, name string) (uint32, uint32, bool) { return 0, 0, false },
	)
	vtable.ClearHooks()
	vtable.ClearHooks() // idempotent

	require.False(t, called) // nothing invoked the hook directly in this test
}
