// Package hir lowers a parsed ast.Stmt list into HIR: the same tree
// shape with node ids carried over unchanged from the parser's
// allocator and a side table mapping every id back to its source span,
// plus one desugaring a parser can't do locally — function
// declarations are hoisted out of the top-level statement stream into
// their own table, since every later stage (Resolve, the harness's
// prepend-to-prelude step) wants to look functions up by name rather
// than scan statements for them.
package hir

import (
	"github.com/keiv-fly/kayton-go/internal/kaycompile/ast"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/token"
)

// ID is carried over unchanged from ast.NodeID; Lower never renumbers,
// it only classifies and annotates what the parser already built.
type ID = ast.NodeID

// SpanTable maps a node id to the source position it was parsed at.
type SpanTable map[ID]token.Position

type Node interface{ hirNode() }

type Expr interface {
	Node
	hirExpr()
}

type Stmt interface {
	Node
	hirStmt()
}

type base struct{ ID ID }

func (base) hirNode() {}

type IntLit struct {
	base
	Value int64
}

type StrLit struct {
	base
	Value string
}

type BoolLit struct {
	base
	Value bool
}

type Ident struct {
	base
	Name string
}

type Binary struct {
	base
	Op    ast.BinOp
	Left  Expr
	Right Expr
}

type Call struct {
	base
	Func Expr
	Args []Expr
}

type StringPart struct {
	Text string
	Expr Expr
}

type InterpString struct {
	base
	Parts []StringPart
}

func (*IntLit) hirExpr()       {}
func (*StrLit) hirExpr()       {}
func (*BoolLit) hirExpr()      {}
func (*Ident) hirExpr()        {}
func (*Binary) hirExpr()       {}
func (*Call) hirExpr()         {}
func (*InterpString) hirExpr() {}

type Assign struct {
	base
	Name string
	Expr Expr
}

type ExprStmt struct {
	base
	Expr Expr
}

// Loop is the lowered form of a for-range: bounds are plain expressions,
// the surface ".." operator carries no meaning past this point.
type Loop struct {
	base
	Var   string
	Start Expr
	End   Expr
	Body  []Stmt
}

type If struct {
	base
	Cond Expr
	Then []Stmt
	Else []Stmt
}

type Return struct {
	base
	Value Expr // nil for a bare return
}

type ImportModule struct {
	base
	Module string
}

type ImportItems struct {
	base
	Module string
	Items  []string
}

func (*Assign) hirStmt()        {}
func (*ExprStmt) hirStmt()      {}
func (*Loop) hirStmt()          {}
func (*If) hirStmt()            {}
func (*Return) hirStmt()        {}
func (*ImportModule) hirStmt()  {}
func (*ImportItems) hirStmt()   {}

// FuncDecl is a hoisted top-level function definition, keyed by name in
// Program.Funcs rather than left inline in Program.Stmts.
type FuncDecl struct {
	ID     ID
	Name   string
	Params []string
	Body   []Stmt
}

// Program is one lowered unit: its non-function top-level statements in
// original order, its function declarations keyed by name, and the span
// table covering every id either list references.
type Program struct {
	Stmts []Stmt
	Funcs map[string]*FuncDecl
	Spans SpanTable
}

type lowerer struct {
	spans SpanTable
}

// Lower converts a parsed statement list into a Program, hoisting
// top-level fn declarations into Program.Funcs and recording every
// node's span as it walks the tree.
func Lower(stmts []ast.Stmt) *Program {
	lw := &lowerer{spans: SpanTable{}}
	prog := &Program{Funcs: map[string]*FuncDecl{}}
	for _, s := range stmts {
		if fn, ok := s.(*ast.FuncDef); ok {
			prog.Funcs[fn.Name] = lw.loweredFunc(fn)
			continue
		}
		prog.Stmts = append(prog.Stmts, lw.stmt(s))
	}
	prog.Spans = lw.spans
	return prog
}

func (lw *lowerer) note(id ID, pos token.Position) base {
	lw.spans[id] = pos
	return base{ID: id}
}

func (lw *lowerer) loweredFunc(fn *ast.FuncDef) *FuncDecl {
	lw.spans[fn.ID] = fn.Pos
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}
	return &FuncDecl{ID: fn.ID, Name: fn.Name, Params: params, Body: lw.stmts(fn.Body)}
}

func (lw *lowerer) stmts(in []ast.Stmt) []Stmt {
	out := make([]Stmt, 0, len(in))
	for _, s := range in {
		out = append(out, lw.stmt(s))
	}
	return out
}

func (lw *lowerer) stmt(s ast.Stmt) Stmt {
	switch n := s.(type) {
	case *ast.Assign:
		return &Assign{base: lw.note(n.ID, n.Pos), Name: n.Name, Expr: lw.expr(n.Expr)}
	case *ast.ExprStmt:
		return &ExprStmt{base: lw.note(n.ID, n.Pos), Expr: lw.expr(n.Expr)}
	case *ast.ForRange:
		return &Loop{
			base:  lw.note(n.ID, n.Pos),
			Var:   n.Var,
			Start: lw.expr(n.Start),
			End:   lw.expr(n.End),
			Body:  lw.stmts(n.Body),
		}
	case *ast.If:
		return &If{base: lw.note(n.ID, n.Pos), Cond: lw.expr(n.Cond), Then: lw.stmts(n.Then), Else: lw.stmts(n.Else)}
	case *ast.Return:
		var v Expr
		if n.Value != nil {
			v = lw.expr(n.Value)
		}
		return &Return{base: lw.note(n.ID, n.Pos), Value: v}
	case *ast.RImportModule:
		return &ImportModule{base: lw.note(n.ID, n.Pos), Module: n.Module}
	case *ast.RImportItems:
		return &ImportItems{base: lw.note(n.ID, n.Pos), Module: n.Module, Items: n.Items}
	case *ast.FuncDef:
		// A nested fn def (inside a block) is not hoisted: HIR has no
		// statement-level function declarations and Lower only hoists at
		// the top level, so a nested fn def is lowered to an ExprStmt of
		// the constant false rather than silently vanishing.
		return &ExprStmt{base: lw.note(n.ID, n.Pos), Expr: &BoolLit{base: lw.note(n.ID, n.Pos), Value: false}}
	default:
		panic("hir: unhandled ast.Stmt type")
	}
}

func (lw *lowerer) expr(e ast.Expr) Expr {
	switch n := e.(type) {
	case *ast.IntLit:
		return &IntLit{base: lw.note(n.ID, n.Pos), Value: n.Value}
	case *ast.StrLit:
		return &StrLit{base: lw.note(n.ID, n.Pos), Value: n.Value}
	case *ast.BoolLit:
		return &BoolLit{base: lw.note(n.ID, n.Pos), Value: n.Value}
	case *ast.Ident:
		return &Ident{base: lw.note(n.ID, n.Pos), Name: n.Name}
	case *ast.Binary:
		return &Binary{base: lw.note(n.ID, n.Pos), Op: n.Op, Left: lw.expr(n.Left), Right: lw.expr(n.Right)}
	case *ast.Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = lw.expr(a)
		}
		return &Call{base: lw.note(n.ID, n.Pos), Func: lw.expr(n.Func), Args: args}
	case *ast.InterpString:
		parts := make([]StringPart, len(n.Parts))
		for i, part := range n.Parts {
			if part.Expr != nil {
				parts[i] = StringPart{Expr: lw.expr(part.Expr)}
			} else {
				parts[i] = StringPart{Text: part.Text}
			}
		}
		return &InterpString{base: lw.note(n.ID, n.Pos), Parts: parts}
	default:
		panic("hir: unhandled ast.Expr type")
	}
}
