package arena_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kayvm/arena"
)

func TestAppendGet(t *testing.T) {
	a := arena.New[int64]()
	idx := a.Append(42)
	require.Equal(t, uint32(0), idx)
	v, err := a.Get(idx)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestGetOutOfRange(t *testing.T) {
	a := arena.New[int64]()
	a.Append(1)
	_, err := a.Get(5)
	require.Error(t, err)
}

func TestDropThenGetFails(t *testing.T) {
	a := arena.New[string]()
	idx := a.Append("hi")
	require.NoError(t, a.Drop(idx))
	_, err := a.Get(idx)
	require.Error(t, err)
}

func TestDoubleDropIsNotDoubleFree(t *testing.T) {
	a := arena.New[string]()
	idx := a.Append("hi")
	require.NoError(t, a.Drop(idx))
	err := a.Drop(idx)
	require.Error(t, err)
}

func TestSetAtRunsPreviousDrop(t *testing.T) {
	var dropped []string
	a := arena.New[string]()
	idx := a.AppendOwned("first", func(v any) { dropped = append(dropped, v.(string)) })
	require.NoError(t, a.SetAt(idx, "second", func(v any) { dropped = append(dropped, v.(string)) }))
	require.Equal(t, []string{"first"}, dropped)
	v, err := a.Get(idx)
	require.NoError(t, err)
	require.Equal(t, "second", v)
}

func TestIndependentKindsDoNotInterfere(t *testing.T) {
	ints := arena.New[int64]()
	strs := arena.New[string]()
	i := ints.Append(7)
	s := strs.Append("seven")
	require.Equal(t, i, s) // same index, independent arenas
	iv, _ := ints.Get(i)
	sv, _ := strs.Get(s)
	require.Equal(t, int64(7), iv)
	require.Equal(t, "seven", sv)
}
