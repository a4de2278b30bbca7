package hir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kaycompile/hir"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/lexer"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/parser"
)

func lower(t *testing.T, src string) *hir.Program {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	stmts, errs := parser.New(toks).Parse()
	require.Empty(t, errs)
	return hir.Lower(stmts)
}

func TestLowerHoistsFuncDecl(t *testing.T) {
	prog := lower(t, "fn add(a, b):\n    a + b\nn = add(1, 2)\n")
	require.Contains(t, prog.Funcs, "add")
	require.Len(t, prog.Stmts, 1)
	assign, ok := prog.Stmts[0].(*hir.Assign)
	require.True(t, ok)
	require.Equal(t, "n", assign.Name)
}

func TestLowerForRangeBecomesLoop(t *testing.T) {
	prog := lower(t, "s = 0\nfor x in 0..n:\n    s += x\n")
	loop, ok := prog.Stmts[1].(*hir.Loop)
	require.True(t, ok)
	require.Equal(t, "x", loop.Var)
	require.Len(t, loop.Body, 1)
}

func TestLowerRecordsSpans(t *testing.T) {
	prog := lower(t, "n = 3\n")
	assign := prog.Stmts[0].(*hir.Assign)
	pos, ok := prog.Spans[assign.ID]
	require.True(t, ok)
	require.Equal(t, 1, pos.Line)
}
