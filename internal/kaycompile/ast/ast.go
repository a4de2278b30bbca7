// Package ast defines the parsed representation of one Kayton unit: a
// list of statements, each expression and statement carrying a stable
// NodeID assigned during parsing. Node/Expr/Stmt mirror the marker-
// interface shape probe-lang's lang/ast package uses.
package ast

import "github.com/keiv-fly/kayton-go/internal/kaycompile/token"

type NodeID int

type Node interface {
	nodeID() NodeID
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

// Base carries the NodeID and source position every AST node is
// constructed with. Embedding Base is what makes a struct satisfy Node;
// NewBase/NewBaseAt are the only ways to build one, keeping allocation
// centralized in the parser's IDAllocator.
type Base struct {
	ID  NodeID
	Pos token.Position
}

func NewBase(id NodeID) Base { return Base{ID: id} }

func NewBaseAt(id NodeID, pos token.Position) Base { return Base{ID: id, Pos: pos} }

func (b Base) nodeID() NodeID { return b.ID }

// Position reports where this node started in source, used by Lower to
// build the HIR span table.
func (b Base) Position() token.Position { return b.Pos }

// Expressions.

type IntLit struct {
	Base
	Value int64
}

type StrLit struct {
	Base
	Value string
}

type BoolLit struct {
	Base
	Value bool
}

type Ident struct {
	Base
	Name string
}

type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLe
	OpGe
)

type Binary struct {
	Base
	Op    BinOp
	Left  Expr
	Right Expr
}

type Call struct {
	Base
	Func Expr
	Args []Expr
}

// StringPart is one fragment of an interpolated string: either literal
// text or an embedded expression.
type StringPart struct {
	Text string
	Expr Expr // nil when this part is Text
}

type InterpString struct {
	Base
	Parts []StringPart
}

func (*IntLit) exprNode()       {}
func (*StrLit) exprNode()       {}
func (*BoolLit) exprNode()      {}
func (*Ident) exprNode()        {}
func (*Binary) exprNode()       {}
func (*Call) exprNode()         {}
func (*InterpString) exprNode() {}

// Statements.

type Assign struct {
	Base
	Name string
	Expr Expr
}

type ExprStmt struct {
	Base
	Expr Expr
}

type ForRange struct {
	Base
	Var   string
	Start Expr
	End   Expr
	Body  []Stmt
}

type If struct {
	Base
	Cond Expr
	Then []Stmt
	Else []Stmt
}

type Param struct {
	Name string
}

type FuncDef struct {
	Base
	Name   string
	Params []Param
	Body   []Stmt
}

type Return struct {
	Base
	Value Expr
}

type RImportModule struct {
	Base
	Module string
}

type RImportItems struct {
	Base
	Module string
	Items  []string
}

func (*Assign) stmtNode()        {}
func (*ExprStmt) stmtNode()      {}
func (*ForRange) stmtNode()      {}
func (*If) stmtNode()            {}
func (*FuncDef) stmtNode()       {}
func (*Return) stmtNode()        {}
func (*RImportModule) stmtNode() {}
func (*RImportItems) stmtNode()  {}

// IDAllocator hands out sequentially increasing NodeIDs during parsing.
type IDAllocator struct{ next NodeID }

func (a *IDAllocator) Next() NodeID {
	id := a.next
	a.next++
	return id
}
