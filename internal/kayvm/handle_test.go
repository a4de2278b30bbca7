package kayvm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kayvm"
)

func TestHandleEncodeDecodeRoundTrip(t *testing.T) {
	cases := []kayvm.Handle{
		{Kind: kayvm.KindI64, Index: 0},
		{Kind: kayvm.KindStrBuf, Index: 12345},
		{Kind: kayvm.DynamicKindBase + 7, Index: 1},
	}
	for _, h := range cases {
		got := kayvm.Decode(kayvm.Encode(h))
		require.Equal(t, h, got)
	}
}

func TestPackUnpack(t *testing.T) {
	h := kayvm.Pack(kayvm.KindBool, 42)
	kind, index := h.Unpack()
	require.Equal(t, kayvm.KindBool, kind)
	require.Equal(t, uint32(42), index)
}
