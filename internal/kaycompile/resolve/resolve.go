// Package resolve turns an hir.Program into an RHIR: every identifier
// use is rewritten to a scoped SymbolID, re-assignments that look like
// they change a variable's shape get a fresh SymbolID instead of
// mutating the old one (so stale uses across a shadow boundary can
// still be told apart later), and calls to single-expression user
// functions are inlined at the call site rather than left as a Call.
package resolve

import (
	"github.com/keiv-fly/kayton-go/internal/kaycompile/ast"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/hir"
)

// SymbolID identifies one binding of a name to a value. Re-assigning a
// name can either reuse its current SymbolID (plain mutation) or mint a
// fresh one (a shadow), per shapeOf below.
type SymbolID int

type Node interface{ rhirNode() }

type Expr interface {
	Node
	rhirExpr()
}

type Stmt interface {
	Node
	rhirStmt()
}

type base struct{ ID hir.ID }

func (base) rhirNode() {}

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

// Ident is a resolved use of a name: Symbol is the binding currently in
// scope at this point in the program.
type Ident struct {
	base
	Symbol SymbolID
	Name   string
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

func (*IntLit) rhirExpr()       {}
func (*StrLit) rhirExpr()       {}
func (*BoolLit) rhirExpr()      {}
func (*Ident) rhirExpr()        {}
func (*Binary) rhirExpr()       {}
func (*Call) rhirExpr()         {}
func (*InterpString) rhirExpr() {}

// Assign binds Symbol to Expr. Fresh reports whether this assignment
// minted a new SymbolID (a shadow) rather than reusing the name's
// previous binding.
type Assign struct {
	base
	Symbol SymbolID
	Name   string
	Expr   Expr
	Fresh  bool
}

type ExprStmt struct {
	base
	Expr Expr
}

type Loop struct {
	base
	Symbol SymbolID
	Var    string
	Start  Expr
	End    Expr
	Body   []Stmt
}

type If struct {
	base
	Cond Expr
	Then []Stmt
	Else []Stmt
}

type Return struct {
	base
	Value Expr
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

func (*Assign) rhirStmt()       {}
func (*ExprStmt) rhirStmt()     {}
func (*Loop) rhirStmt()         {}
func (*If) rhirStmt()           {}
func (*Return) rhirStmt()       {}
func (*ImportModule) rhirStmt() {}
func (*ImportItems) rhirStmt()  {}

type FuncDecl struct {
	ID     hir.ID
	Name   string
	Params []SymbolID
	Body   []Stmt
	// Inlinable is the function's body collapsed to a single trailing
	// expression, set only when the body is exactly one ExprStmt or
	// Return — the shape single-expression inlining requires. nil means
	// calls to this function stay as Call nodes.
	Inlinable Expr
}

type Program struct {
	Stmts       []Stmt
	Funcs       map[string]*FuncDecl
	SymbolNames map[SymbolID]string
}

type scope struct {
	names  map[string]SymbolID
	parent *scope
}

func newScope(parent *scope) *scope { return &scope{names: map[string]SymbolID{}, parent: parent} }

func (s *scope) lookup(name string) (SymbolID, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if id, ok := sc.names[name]; ok {
			return id, true
		}
	}
	return 0, false
}

type shape int

const (
	shapeUnknown shape = iota
	shapeInt
	shapeStr
	shapeBool
	shapeOther
)

// shapeOf is a cheap syntactic approximation of an expression's type,
// used only to decide whether a re-assignment should shadow. The real
// type comes later from typecheck; this just needs to be consistent
// enough to catch the common "int becomes string" style rebind.
func shapeOf(e hir.Expr) shape {
	switch e.(type) {
	case *hir.IntLit:
		return shapeInt
	case *hir.StrLit:
		return shapeStr
	case *hir.BoolLit:
		return shapeBool
	case *hir.InterpString:
		return shapeStr
	default:
		return shapeUnknown
	}
}

type resolver struct {
	nextSym  SymbolID
	nextNode hir.ID
	names    map[SymbolID]string
	shapes   map[SymbolID]shape
	funcs    map[string]*FuncDecl
}

func newResolver(maxNodeID hir.ID) *resolver {
	return &resolver{
		nextNode: maxNodeID + 1,
		names:    map[SymbolID]string{},
		shapes:   map[SymbolID]shape{},
		funcs:    map[string]*FuncDecl{},
	}
}

func (r *resolver) freshSymbol(name string) SymbolID {
	r.nextSym++
	r.names[r.nextSym] = name
	return r.nextSym
}

func (r *resolver) freshNodeID() hir.ID {
	r.nextNode++
	return r.nextNode
}

// Resolve walks a lowered Program and produces its RHIR.
func Resolve(prog *hir.Program) *Program {
	r := newResolver(maxID(prog))
	top := newScope(nil)

	// Functions are resolved before any call site, including each
	// other's bodies, so a top-level call to any declared function sees
	// it already present in r.funcs and can inline through it. A
	// function calling another function declared later in this same
	// iteration won't see it yet and keeps a plain Call instead — rare
	// in practice and never incorrect, just a missed inlining.
	for name, fn := range prog.Funcs {
		r.funcs[name] = r.resolveFunc(top, fn)
	}

	out := &Program{Funcs: r.funcs}
	for _, s := range prog.Stmts {
		out.Stmts = append(out.Stmts, r.stmt(top, s))
	}
	out.SymbolNames = r.names
	return out
}

func maxID(prog *hir.Program) hir.ID {
	var max hir.ID
	for id := range prog.Spans {
		if id > max {
			max = id
		}
	}
	return max
}

func (r *resolver) resolveFunc(parent *scope, fn *hir.FuncDecl) *FuncDecl {
	sc := newScope(parent)
	params := make([]SymbolID, len(fn.Params))
	for i, name := range fn.Params {
		sym := r.freshSymbol(name)
		sc.names[name] = sym
		params[i] = sym
	}
	body := make([]Stmt, len(fn.Body))
	for i, s := range fn.Body {
		body[i] = r.stmt(sc, s)
	}
	out := &FuncDecl{ID: fn.ID, Name: fn.Name, Params: params, Body: body}
	out.Inlinable = lastExprOfBody(body)
	return out
}

// lastExprOfBody returns the expression a single-statement function body
// evaluates to, or nil if the body isn't shaped that way: either one
// trailing ExprStmt, or one trailing Return with a value.
func lastExprOfBody(body []Stmt) Expr {
	if len(body) != 1 {
		return nil
	}
	switch s := body[0].(type) {
	case *ExprStmt:
		return s.Expr
	case *Return:
		return s.Value
	default:
		return nil
	}
}

func (r *resolver) stmt(sc *scope, s hir.Stmt) Stmt {
	switch n := s.(type) {
	case *hir.Assign:
		expr := r.expr(sc, n.Expr)
		newShape := shapeOf(n.Expr)
		sym, existed := sc.lookup(n.Name)
		fresh := !existed
		if existed {
			old := r.shapes[sym]
			if old != shapeUnknown && newShape != shapeUnknown && old != newShape {
				fresh = true
			}
		}
		if fresh {
			sym = r.freshSymbol(n.Name)
			sc.names[n.Name] = sym
		}
		if fresh || newShape != shapeUnknown {
			r.shapes[sym] = newShape
		}
		return &Assign{base: base{n.ID}, Symbol: sym, Name: n.Name, Expr: expr, Fresh: fresh}
	case *hir.ExprStmt:
		return &ExprStmt{base: base{n.ID}, Expr: r.expr(sc, n.Expr)}
	case *hir.Loop:
		inner := newScope(sc)
		sym := r.freshSymbol(n.Var)
		inner.names[n.Var] = sym
		start := r.expr(sc, n.Start)
		end := r.expr(sc, n.End)
		body := make([]Stmt, len(n.Body))
		for i, bs := range n.Body {
			body[i] = r.stmt(inner, bs)
		}
		return &Loop{base: base{n.ID}, Symbol: sym, Var: n.Var, Start: start, End: end, Body: body}
	case *hir.If:
		cond := r.expr(sc, n.Cond)
		then := make([]Stmt, len(n.Then))
		for i, ts := range n.Then {
			then[i] = r.stmt(newScope(sc), ts)
		}
		els := make([]Stmt, len(n.Else))
		for i, es := range n.Else {
			els[i] = r.stmt(newScope(sc), es)
		}
		return &If{base: base{n.ID}, Cond: cond, Then: then, Else: els}
	case *hir.Return:
		var v Expr
		if n.Value != nil {
			v = r.expr(sc, n.Value)
		}
		return &Return{base: base{n.ID}, Value: v}
	case *hir.ImportModule:
		return &ImportModule{base: base{n.ID}, Module: n.Module}
	case *hir.ImportItems:
		return &ImportItems{base: base{n.ID}, Module: n.Module, Items: n.Items}
	default:
		panic("resolve: unhandled hir.Stmt type")
	}
}

func (r *resolver) expr(sc *scope, e hir.Expr) Expr {
	switch n := e.(type) {
	case *hir.IntLit:
		return &IntLit{base: base{n.ID}, Value: n.Value}
	case *hir.StrLit:
		return &StrLit{base: base{n.ID}, Value: n.Value}
	case *hir.BoolLit:
		return &BoolLit{base: base{n.ID}, Value: n.Value}
	case *hir.Ident:
		sym, ok := sc.lookup(n.Name)
		if !ok {
			sym = r.freshSymbol(n.Name) // unresolved use; typecheck reports UnknownVarType
		}
		return &Ident{base: base{n.ID}, Symbol: sym, Name: n.Name}
	case *hir.Binary:
		return &Binary{base: base{n.ID}, Op: n.Op, Left: r.expr(sc, n.Left), Right: r.expr(sc, n.Right)}
	case *hir.Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = r.expr(sc, a)
		}
		if ident, ok := n.Func.(*hir.Ident); ok {
			if fn, ok := r.funcs[ident.Name]; ok && fn.Inlinable != nil && len(fn.Params) == len(args) {
				return r.substituteParams(fn, args)
			}
		}
		return &Call{base: base{n.ID}, Func: r.expr(sc, n.Func), Args: args}
	case *hir.InterpString:
		parts := make([]StringPart, len(n.Parts))
		for i, part := range n.Parts {
			if part.Expr != nil {
				parts[i] = StringPart{Expr: r.expr(sc, part.Expr)}
			} else {
				parts[i] = StringPart{Text: part.Text}
			}
		}
		return &InterpString{base: base{n.ID}, Parts: parts}
	default:
		panic("resolve: unhandled hir.Expr type")
	}
}

// substituteParams clones fn.Inlinable with every reference to one of
// fn.Params replaced by the corresponding call argument, and every
// cloned node given a fresh id so the inlined copy doesn't alias the
// function body's own nodes across multiple call sites.
func (r *resolver) substituteParams(fn *FuncDecl, args []Expr) Expr {
	bind := make(map[SymbolID]Expr, len(fn.Params))
	for i, p := range fn.Params {
		bind[p] = args[i]
	}
	return r.cloneExpr(fn.Inlinable, bind)
}

func (r *resolver) cloneExpr(e Expr, bind map[SymbolID]Expr) Expr {
	switch n := e.(type) {
	case *IntLit:
		return &IntLit{base: base{r.freshNodeID()}, Value: n.Value}
	case *StrLit:
		return &StrLit{base: base{r.freshNodeID()}, Value: n.Value}
	case *BoolLit:
		return &BoolLit{base: base{r.freshNodeID()}, Value: n.Value}
	case *Ident:
		if repl, ok := bind[n.Symbol]; ok {
			return r.cloneExpr(repl, nil)
		}
		return &Ident{base: base{r.freshNodeID()}, Symbol: n.Symbol, Name: n.Name}
	case *Binary:
		return &Binary{base: base{r.freshNodeID()}, Op: n.Op, Left: r.cloneExpr(n.Left, bind), Right: r.cloneExpr(n.Right, bind)}
	case *Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = r.cloneExpr(a, bind)
		}
		return &Call{base: base{r.freshNodeID()}, Func: r.cloneExpr(n.Func, bind), Args: args}
	case *InterpString:
		parts := make([]StringPart, len(n.Parts))
		for i, part := range n.Parts {
			if part.Expr != nil {
				parts[i] = StringPart{Expr: r.cloneExpr(part.Expr, bind)}
			} else {
				parts[i] = part
			}
		}
		return &InterpString{base: base{r.freshNodeID()}, Parts: parts}
	default:
		panic("resolve: unhandled Expr type during substitution")
	}
}
