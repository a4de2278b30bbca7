package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kaycompile/hir"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/lexer"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/parser"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/resolve"
)

func resolveSrc(t *testing.T, src string) *resolve.Program {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	stmts, errs := parser.New(toks).Parse()
	require.Empty(t, errs)
	return resolve.Resolve(hir.Lower(stmts))
}

func TestResolveReusesSymbolOnSameShapeReassign(t *testing.T) {
	prog := resolveSrc(t, "n = 1\nn = 2\n")
	a0 := prog.Stmts[0].(*resolve.Assign)
	a1 := prog.Stmts[1].(*resolve.Assign)
	require.True(t, a0.Fresh)
	require.False(t, a1.Fresh)
	require.Equal(t, a0.Symbol, a1.Symbol)
}

func TestResolveShadowsOnShapeConflict(t *testing.T) {
	prog := resolveSrc(t, "n = 1\nn = \"two\"\n")
	a0 := prog.Stmts[0].(*resolve.Assign)
	a1 := prog.Stmts[1].(*resolve.Assign)
	require.True(t, a1.Fresh)
	require.NotEqual(t, a0.Symbol, a1.Symbol)
}

func TestResolveLoopVarFreshSymbolPerLoop(t *testing.T) {
	prog := resolveSrc(t, "s = 0\nfor x in 0..5:\n    s += x\n")
	loop := prog.Stmts[1].(*resolve.Loop)
	require.Equal(t, "x", loop.Var)
	body := loop.Body[0].(*resolve.Assign)
	bin := body.Expr.(*resolve.Binary)
	right := bin.Right.(*resolve.Ident)
	require.Equal(t, loop.Symbol, right.Symbol)
}

func TestResolveInlinesSingleExpressionFunction(t *testing.T) {
	prog := resolveSrc(t, "fn add(a, b):\n    a + b\nn = add(1, 2)\n")
	assign := prog.Stmts[0].(*resolve.Assign)
	bin, ok := assign.Expr.(*resolve.Binary)
	require.True(t, ok, "call should have been inlined into a Binary, not left as a Call")
	left := bin.Left.(*resolve.IntLit)
	right := bin.Right.(*resolve.IntLit)
	require.Equal(t, int64(1), left.Value)
	require.Equal(t, int64(2), right.Value)
}

func TestResolveDoesNotInlineMultiStatementFunction(t *testing.T) {
	prog := resolveSrc(t, "fn f(a):\n    b = a + 1\n    b\nn = f(1)\n")
	assign := prog.Stmts[0].(*resolve.Assign)
	_, ok := assign.Expr.(*resolve.Call)
	require.True(t, ok, "multi-statement function bodies must not be inlined")
}
