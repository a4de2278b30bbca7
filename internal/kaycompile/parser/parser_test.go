package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kaycompile/ast"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/lexer"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/parser"
)

func parse(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	stmts, errs := parser.New(toks).Parse()
	require.Empty(t, errs)
	return stmts
}

func TestParseAssignAndExpr(t *testing.T) {
	stmts := parse(t, "n = 3\ns = 0\n")
	require.Len(t, stmts, 2)
	a, ok := stmts[0].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "n", a.Name)
	lit, ok := a.Expr.(*ast.IntLit)
	require.True(t, ok)
	require.Equal(t, int64(3), lit.Value)
}

func TestParseForRangeWithPlusEq(t *testing.T) {
	src := "s = 0\nfor x in 0..n:\n    s += x\n"
	stmts := parse(t, src)
	require.Len(t, stmts, 2)
	loop, ok := stmts[1].(*ast.ForRange)
	require.True(t, ok)
	require.Equal(t, "x", loop.Var)
	require.Len(t, loop.Body, 1)
	assign, ok := loop.Body[0].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "s", assign.Name)
	bin, ok := assign.Expr.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, bin.Op)
}

func TestParseFuncDefSingleExpressionBody(t *testing.T) {
	src := "fn my(a, b):\n    a + b\n"
	stmts := parse(t, src)
	require.Len(t, stmts, 1)
	fn, ok := stmts[0].(*ast.FuncDef)
	require.True(t, ok)
	require.Equal(t, "my", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body, 1)
}

func TestParseIfElse(t *testing.T) {
	src := "if x == 1:\n    y = 1\nelse:\n    y = 2\n"
	stmts := parse(t, src)
	ifstmt, ok := stmts[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifstmt.Then, 1)
	require.Len(t, ifstmt.Else, 1)
}

func TestParseInterpolatedString(t *testing.T) {
	stmts := parse(t, `msg = f"n={n}!"` + "\n")
	a := stmts[0].(*ast.Assign)
	interp, ok := a.Expr.(*ast.InterpString)
	require.True(t, ok)
	require.Len(t, interp.Parts, 3)
	require.Equal(t, "n=", interp.Parts[0].Text)
	ident, ok := interp.Parts[1].Expr.(*ast.Ident)
	require.True(t, ok)
	require.Equal(t, "n", ident.Name)
	require.Equal(t, "!", interp.Parts[2].Text)
}
