// Package typecheck annotates a resolve.Program with the Kind every
// expression and symbol evaluates to. Checking never aborts on the
// first problem: every Binary/Call mismatch is recorded as an error and
// the offending node is given KindI64 as a placeholder so later nodes
// can still be checked, following the pipeline's accumulate-don't-abort
// discipline all the way through.
package typecheck

import (
	"fmt"

	"github.com/keiv-fly/kayton-go/internal/kaycompile/ast"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/hir"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/resolve"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
)

// Program is the resolved tree plus the type annotations Check derived
// from it: the Kind of every expression node, the Kind every symbol
// currently holds, and whatever errors checking accumulated.
type Program struct {
	*resolve.Program
	NodeTypes   map[hir.ID]kayvm.Kind
	SymbolTypes map[resolve.SymbolID]kayvm.Kind
	Errors      []error
}

type checker struct {
	nodeTypes   map[hir.ID]kayvm.Kind
	symbolTypes map[resolve.SymbolID]kayvm.Kind
	errs        []error
}

// Check type-annotates prog, following literal rules (int literals are
// i64, string and interpolated-string literals are str_buf, bool
// literals are bool) and unifying a symbol's type across every
// assignment that reuses it (resolve.Assign.Fresh == false); a
// resolve-time shadow always gets to start a new type, so unification
// only ever has to reconcile assignments resolve judged compatible.
func Check(rp *resolve.Program) *Program {
	c := &checker{
		nodeTypes:   map[hir.ID]kayvm.Kind{},
		symbolTypes: map[resolve.SymbolID]kayvm.Kind{},
	}
	// Function bodies are never executed directly — every call site that
	// survives resolve either inlined the function's single expression
	// (substituting concrete argument expressions, which carry their own
	// checkable types) or, for a multi-statement body, is out of this
	// surface language's supported scope per the prototype's inlining-
	// only policy. So only the program's own statement stream, where
	// every substitution has already happened, needs checking.
	for _, s := range rp.Stmts {
		c.stmt(s)
	}
	return &Program{Program: rp, NodeTypes: c.nodeTypes, SymbolTypes: c.symbolTypes, Errors: c.errs}
}

func (c *checker) errf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf(format, args...))
}

func (c *checker) stmt(s resolve.Stmt) {
	switch n := s.(type) {
	case *resolve.Assign:
		k := c.expr(n.Expr)
		if existing, ok := c.symbolTypes[n.Symbol]; ok && !n.Fresh && existing != k {
			c.errf("variable %q re-assigned from %s to %s without shadowing", n.Name, existing, k)
		}
		c.symbolTypes[n.Symbol] = k
	case *resolve.ExprStmt:
		c.expr(n.Expr)
	case *resolve.Loop:
		c.expr(n.Start)
		c.expr(n.End)
		c.symbolTypes[n.Symbol] = kayvm.KindI64
		for _, bs := range n.Body {
			c.stmt(bs)
		}
	case *resolve.If:
		c.expr(n.Cond)
		for _, ts := range n.Then {
			c.stmt(ts)
		}
		for _, es := range n.Else {
			c.stmt(es)
		}
	case *resolve.Return:
		if n.Value != nil {
			c.expr(n.Value)
		}
	case *resolve.ImportModule, *resolve.ImportItems:
		// nothing to type
	default:
		panic("typecheck: unhandled resolve.Stmt type")
	}
}

func (c *checker) expr(e resolve.Expr) kayvm.Kind {
	var k kayvm.Kind
	switch n := e.(type) {
	case *resolve.IntLit:
		k = kayvm.KindI64
	case *resolve.StrLit:
		k = kayvm.KindStrBuf
	case *resolve.BoolLit:
		k = kayvm.KindBool
	case *resolve.Ident:
		if t, ok := c.symbolTypes[n.Symbol]; ok {
			k = t
		} else {
			c.errf("%s: unknown type for variable %q", positionHint(n), n.Name)
			k = kayvm.KindI64
		}
	case *resolve.Binary:
		left := c.expr(n.Left)
		right := c.expr(n.Right)
		switch n.Op {
		case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
			k = kayvm.KindBool
		default:
			if left != right {
				c.errf("operands of %s have mismatched types %s and %s", binOpSymbol(n.Op), left, right)
			}
			k = left
		}
	case *resolve.Call:
		if _, named := n.Func.(*resolve.Ident); !named {
			c.expr(n.Func)
		}
		for _, a := range n.Args {
			c.expr(a)
		}
		k = kayvm.KindI64 // calls to builtins not further modeled default to i64
	case *resolve.InterpString:
		for _, part := range n.Parts {
			if part.Expr != nil {
				c.expr(part.Expr)
			}
		}
		k = kayvm.KindStrBuf
	default:
		panic("typecheck: unhandled resolve.Expr type")
	}
	c.nodeTypes[nodeID(e)] = k
	return k
}

func nodeID(e resolve.Expr) hir.ID {
	switch n := e.(type) {
	case *resolve.IntLit:
		return n.ID
	case *resolve.StrLit:
		return n.ID
	case *resolve.BoolLit:
		return n.ID
	case *resolve.Ident:
		return n.ID
	case *resolve.Binary:
		return n.ID
	case *resolve.Call:
		return n.ID
	case *resolve.InterpString:
		return n.ID
	default:
		return 0
	}
}

func positionHint(n *resolve.Ident) string { return fmt.Sprintf("node %d", n.ID) }

func binOpSymbol(op ast.BinOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	default:
		return "?"
	}
}
