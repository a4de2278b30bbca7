package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsFuncHeaderRequiresTrailingColon(t *testing.T) {
	require.True(t, isFuncHeader("fn add(a, b):"))
	require.False(t, isFuncHeader("fn add(a, b)"))
	require.False(t, isFuncHeader("x = 1"))
}

func TestSplitUnitsOnBlankLines(t *testing.T) {
	units := splitUnits("a = 1\n\nb = 2\nc = 3\n\n\nd = 4\n")
	require.Equal(t, []string{"a = 1", "b = 2\nc = 3", "d = 4"}, units)
}

func TestPositionalFileArgSkipsFlags(t *testing.T) {
	require.Equal(t, "file.kay", positionalFileArg([]string{"-scratch-dir=/tmp/x", "file.kay"}))
	require.Equal(t, "", positionalFileArg([]string{"-scratch-dir=/tmp/x"}))
}

func TestFirstIdentFindsFirstWord(t *testing.T) {
	require.Equal(t, "z", firstIdent("z = x + 1"))
	require.Equal(t, "", firstIdent("  "))
}
