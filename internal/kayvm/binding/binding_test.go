package binding_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kayvm"
	"github.com/keiv-fly/kayton-go/internal/kayvm/binding"
)

func TestBindResolveRoundTrip(t *testing.T) {
	tbl := binding.New()
	h := kayvm.Pack(kayvm.KindI64, 3)
	tbl.Bind("x", h)
	got, err := tbl.Resolve("x")
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestResolveUnknownNameFails(t *testing.T) {
	tbl := binding.New()
	_, err := tbl.Resolve("missing")
	require.Error(t, err)
}

func TestRebindToSameHandleIsIdempotent(t *testing.T) {
	tbl := binding.New()
	h := kayvm.Pack(kayvm.KindI64, 3)
	tbl.Bind("x", h)
	tbl.Bind("x", h)
	require.Len(t, tbl.Snapshot(), 1)
}

func TestRebindToDifferentKindUpdatesReverseMap(t *testing.T) {
	tbl := binding.New()
	h1 := kayvm.Pack(kayvm.KindI64, 0)
	h2 := kayvm.Pack(kayvm.KindStrBuf, 0)
	tbl.Bind("x", h1)
	tbl.Bind("x", h2)

	got, err := tbl.Resolve("x")
	require.NoError(t, err)
	require.Equal(t, h2, got)

	_, stillBound := tbl.ReverseLookup(h1)
	require.False(t, stillBound)
}

func TestSnapshotIsOrderedByName(t *testing.T) {
	tbl := binding.New()
	tbl.Bind("b", kayvm.Pack(kayvm.KindI64, 0))
	tbl.Bind("a", kayvm.Pack(kayvm.KindI64, 1))
	snap := tbl.Snapshot()
	require.Equal(t, "a", snap[0].Name)
	require.Equal(t, "b", snap[1].Name)
}
