package registry_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kayvm/registry"
)

func TestSignatureHashIsStableForIdenticalSignatures(t *testing.T) {
	sig := []registry.TypeTag{registry.TagI64, registry.TagI64}
	a := registry.SignatureHash(sig, registry.TagI64)
	b := registry.SignatureHash([]registry.TypeTag{registry.TagI64, registry.TagI64}, registry.TagI64)
	require.Equal(t, a, b)
}

func TestSignatureHashDiffersOnArgOrder(t *testing.T) {
	a := registry.SignatureHash([]registry.TypeTag{registry.TagI64, registry.TagF64}, registry.TagUnit)
	b := registry.SignatureHash([]registry.TypeTag{registry.TagF64, registry.TagI64}, registry.TagUnit)
	require.NotEqual(t, a, b)
}

func TestFuncRegistryReRegisterReplaces(t *testing.T) {
	r := registry.NewFuncRegistry()
	var a, b int
	r.Register("add", unsafe.Pointer(&a), 1)
	r.Register("add", unsafe.Pointer(&b), 2)
	e, err := r.Get("add")
	require.NoError(t, err)
	require.Equal(t, unsafe.Pointer(&b), e.RawPtr)
	require.Equal(t, uint64(2), e.SigHash)
}

func TestFuncRegistryUnknownNameFails(t *testing.T) {
	r := registry.NewFuncRegistry()
	_, err := r.Get("missing")
	require.Error(t, err)
}

func TestTypeRegistryRoundTrip(t *testing.T) {
	r := registry.NewTypeRegistry()
	r.Register("reqwest::Client", registry.TypeMeta{Size: 8, Align: 8})
	m, err := r.Get("reqwest::Client")
	require.NoError(t, err)
	require.Equal(t, uint32(8), m.Size)
}
