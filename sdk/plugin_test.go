package sdk

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestSignatureHashIsDeterministicAndOrderSensitive(t *testing.T) {
	a := Signature{Params: []TypeTag{TagI64, TagI64}, Ret: TagI64}
	b := Signature{Params: []TypeTag{TagI64, TagI64}, Ret: TagI64}
	c := Signature{Params: []TypeTag{TagI64, TagF64}, Ret: TagI64}

	require.Equal(t, signatureHash(a), signatureHash(b))
	require.NotEqual(t, signatureHash(a), signatureHash(c))
}

func TestRegisterFuncAndTypeAccumulateOnPlugin(t *testing.T) {
	p := NewPlugin("mathplugin", "1.0.0")
	p.RegisterFunc("add", unsafe.Pointer(uintptr(1)), Signature{Params: []TypeTag{TagI64, TagI64}, Ret: TagI64})
	p.RegisterType("point", 16, 8)

	require.Len(t, p.funcs, 1)
	require.Equal(t, "add", p.funcs[0].Name)
	require.NotZero(t, p.funcs[0].SigHash)

	require.Len(t, p.types, 1)
	require.Equal(t, uint32(16), p.types[0].Size)
	require.Equal(t, uint32(8), p.types[0].Align)
}

func TestBuildSetsGlobalPlugin(t *testing.T) {
	p := NewPlugin("x", "0.1.0")
	Build(p)
	require.Same(t, p, globalPlugin)
}
