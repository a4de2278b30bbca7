package emit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keiv-fly/kayton-go/internal/kaycompile/emit"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/hir"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/lexer"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/parser"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/resolve"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/typecheck"
)

func emitSrc(t *testing.T, src string) string {
	t.Helper()
	toks := lexer.New(src).Tokenize()
	stmts, errs := parser.New(toks).Parse()
	require.Empty(t, errs)
	tp := typecheck.Check(resolve.Resolve(hir.Lower(stmts)))
	require.Empty(t, tp.Errors)
	out, err := emit.Emit(tp)
	require.NoError(t, err)
	return out
}

func TestEmitCounterLoopPersistsGlobal(t *testing.T) {
	src := "s = 0\nfor x in 0..5:\n    s += x\n"
	out := emitSrc(t, src)
	require.Contains(t, out, "func kayton_run(ctx *C.KaytonContext) {")
	require.Contains(t, out, "for v")
	require.Contains(t, out, "C.kayton_set_i64(ctx, kstr(\"s\")")
}

func TestEmitStringBinding(t *testing.T) {
	out := emitSrc(t, "name = \"kayton\"\n")
	require.Contains(t, out, "C.kayton_set_str(ctx, kstr(\"name\")")
	require.Contains(t, out, `:= "kayton"`)
}

func TestEmitInlinedCallProducesNoCallExpression(t *testing.T) {
	out := emitSrc(t, "fn add(a, b):\n    a + b\nn = add(1, 2)\n")
	require.Contains(t, out, "(int64(1) + int64(2))")
}

func TestEmitPrintMapsToPrintKayton(t *testing.T) {
	out := emitSrc(t, "print(1)\n")
	require.Contains(t, out, "printKayton(int64(1))")
}
