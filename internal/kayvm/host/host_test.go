package host_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kayvm"
	"github.com/keiv-fly/kayton-go/internal/kayvm/host"
)

func TestSetGetI64RoundTrip(t *testing.T) {
	s := host.New()
	s.SetI64("n", 3)
	v, err := s.GetI64("n")
	require.NoError(t, err)
	require.Equal(t, int64(3), v)
}

func TestOverwriteSameKindReusesSlot(t *testing.T) {
	s := host.New()
	h1 := s.SetI64("s", 0)
	h2 := s.SetI64("s", 3)
	require.Equal(t, h1, h2)
	require.Equal(t, 1, s.I64.Len())
}

func TestRebindDifferentKindAllocatesFreshSlot(t *testing.T) {
	s := host.New()
	s.SetI64("x", 12)
	h2 := s.SetStrBuf("x", "Hello")
	require.Equal(t, kayvm.KindStrBuf, h2.Kind)

	resolved, err := s.Names.Resolve("x")
	require.NoError(t, err)
	require.Equal(t, kayvm.KindStrBuf, resolved.Kind)
}

func TestStringBinding(t *testing.T) {
	s := host.New()
	s.SetStrBuf("a", "hi")
	v, err := s.GetStrBuf("a")
	require.NoError(t, err)
	require.Equal(t, "hi", v.Data)
	require.False(t, v.Owned)
}

func TestDropTwiceIsNotDoubleFree(t *testing.T) {
	s := host.New()
	h := s.SetStrBuf("a", "hi")
	require.NoError(t, s.DropStrBuf(h))
	require.Error(t, s.DropStrBuf(h))
}

func TestTupleOfLengthZero(t *testing.T) {
	s := host.New()
	h := s.NewTuple(nil)
	n, err := s.TupleLen(h)
	require.NoError(t, err)
	require.Equal(t, 0, n)
	_, err = s.TupleItem(h, 0)
	require.Error(t, err)
}

func TestTupleFormatsRecursively(t *testing.T) {
	s := host.New()
	hi := s.SetI64("i", 1)
	hs := s.SetStrBuf("str", "x")
	tup := s.NewTuple([]kayvm.Handle{hi, hs})
	text, err := s.FormatByHandle(tup)
	require.NoError(t, err)
	require.Equal(t, "(1, x)", text)
}

func TestTypedVectorRoundTrip(t *testing.T) {
	s := host.New()
	h, err := s.NewI64Vec("v", []int64{1, 2, 3})
	require.NoError(t, err)
	out, err := s.ReadI64Vec(h)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, out)
}

func TestDynamicKindOverwriteDropsPrevious(t *testing.T) {
	s := host.New()
	dropped := 0
	kind := s.RegisterDynamicKind("widget", func(_ unsafe.Pointer) { dropped++ })
	h, err := s.DynAppend(kind, unsafe.Pointer(&dropped))
	require.NoError(t, err)
	require.NoError(t, s.DynSetAt(h, unsafe.Pointer(&dropped)))
	require.Equal(t, 1, dropped)
}
