package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kayvm/loader"
)

func TestOpenNonexistentPathFails(t *testing.T) {
	_, err := loader.Open(filepath.Join(t.TempDir(), "does-not-exist.so"))
	require.Error(t, err)
}

// TestOpenRejectsNonLibraryFile covers the dlopen-failure step of spec.md
// 4.5's validation sequence: opening a file that is not a shared object at
// all must fail before any symbol lookups happen, so the missing-symbol
// checks are not reached.
func TestOpenRejectsNonLibraryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-library.so")
	require.NoError(t, os.WriteFile(path, []byte("not an ELF shared object"), 0o644))

	_, err := loader.Open(path)
	require.Error(t, err)
}
