package typecheck_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kaycompile/hir"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/lexer"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/parser"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/resolve"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/typecheck"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
)

func check(t *testing.T, src string) *typecheck.Program {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	stmts, errs := parser.New(toks).Parse()
	require.Empty(t, errs)
	return typecheck.Check(resolve.Resolve(hir.Lower(stmts)))
}

func TestCheckIntLiteralIsI64(t *testing.T) {
	tp := check(t, "n = 3\n")
	a := tp.Stmts[0].(*resolve.Assign)
	require.Equal(t, kayvm.KindI64, tp.SymbolTypes[a.Symbol])
}

func TestCheckStringLiteralIsStrBuf(t *testing.T) {
	tp := check(t, "s = \"hi\"\n")
	a := tp.Stmts[0].(*resolve.Assign)
	require.Equal(t, kayvm.KindStrBuf, tp.SymbolTypes[a.Symbol])
}

func TestCheckSameShapeReassignUnifiesWithoutError(t *testing.T) {
	tp := check(t, "n = 1\nn = 2\n")
	require.Empty(t, tp.Errors)
}

func TestCheckShadowedReassignDoesNotError(t *testing.T) {
	tp := check(t, "n = 1\nn = \"two\"\n")
	require.Empty(t, tp.Errors)
	a1 := tp.Stmts[1].(*resolve.Assign)
	require.Equal(t, kayvm.KindStrBuf, tp.SymbolTypes[a1.Symbol])
}

func TestCheckComparisonIsBool(t *testing.T) {
	tp := check(t, "n = 1\nb = n == 1\n")
	b := tp.Stmts[1].(*resolve.Assign)
	require.Equal(t, kayvm.KindBool, tp.SymbolTypes[b.Symbol])
}

func TestCheckLoopVarIsI64(t *testing.T) {
	tp := check(t, "s = 0\nfor x in 0..5:\n    s += x\n")
	loop := tp.Stmts[1].(*resolve.Loop)
	require.Equal(t, kayvm.KindI64, tp.SymbolTypes[loop.Symbol])
}
