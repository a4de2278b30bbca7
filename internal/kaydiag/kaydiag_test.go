package kaydiag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kayerr"
)

func TestFormatTypeErrorHighlightsName(t *testing.T) {
	err := kayerr.New(kayerr.ResolveError, "name '%s' is not defined", "z")
	out := FormatTypeError("z = x + 1", "z", "<cell>", err)
	require.Contains(t, out, "Compilation failed:")
	require.Contains(t, out, "<cell>")
	require.Contains(t, out, "NameError")
	require.Contains(t, out, "^")
}

func TestFormatTypeErrorMissingNameFallsBackToZero(t *testing.T) {
	err := kayerr.New(kayerr.TypeError, "mismatched types")
	out := FormatTypeError("a + b", "nope", "<cell>", err)
	require.Contains(t, out, "TypeError")
	require.Contains(t, out, "a + b")
}

func TestSummarizePrefixesKindLabel(t *testing.T) {
	err := kayerr.New(kayerr.ParseError, "unexpected token")
	out := Summarize(err)
	require.Contains(t, out, "SyntaxError")
	require.Contains(t, out, "unexpected token")
}
