// Package parser builds an ast.Node tree from a token stream. It is a
// recursive-descent parser with left-associative addition/subtraction,
// call chains, and indent-sensitive block bodies driven by the lexer's
// INDENT/DEDENT tokens, matching spec.md 4.7's Parse stage description.
package parser

import (
	"fmt"

	"github.com/keiv-fly/kayton-go/internal/kaycompile/ast"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/lexer"
	"github.com/keiv-fly/kayton-go/internal/kaycompile/token"
)

type Parser struct {
	toks []token.Token
	pos  int
	ids  ast.IDAllocator
	errs []error
}

func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) at(tt token.Type) bool { return p.cur().Type == tt }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(tt token.Type) token.Token {
	if !p.at(tt) {
		p.errs = append(p.errs, fmt.Errorf("%s: expected %s, got %s %q", p.cur().Pos, tt, p.cur().Type, p.cur().Literal))
	}
	return p.advance()
}

// skipNewlines consumes any run of blank NEWLINE tokens, which separate
// statements but carry no meaning of their own once consumed.
func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

// Parse parses a full unit: a flat list of top-level statements.
// Errors accumulated during parsing are returned alongside whatever
// partial tree was built, so the caller can still proceed to Lower/Resolve
// and surface every diagnostic it can, per the pipeline's
// accumulate-don't-abort discipline applied as far upstream as practical.
func (p *Parser) Parse() ([]ast.Stmt, []error) {
	var stmts []ast.Stmt
	p.skipNewlines()
	for !p.at(token.EOF) {
		stmts = append(stmts, p.parseStmt())
		p.skipNewlines()
	}
	return stmts, p.errs
}

func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(token.COLON)
	p.skipNewlines()
	p.expect(token.INDENT)
	var body []ast.Stmt
	p.skipNewlines()
	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		body = append(body, p.parseStmt())
		p.skipNewlines()
	}
	if p.at(token.DEDENT) {
		p.advance()
	}
	return body
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Type {
	case token.FN:
		return p.parseFuncDef()
	case token.FOR:
		return p.parseForRange()
	case token.IF:
		return p.parseIf()
	case token.RETURN:
		id, pos := p.ids.Next(), p.cur().Pos
		p.advance()
		var val ast.Expr
		if !p.at(token.NEWLINE) && !p.at(token.EOF) {
			val = p.parseExpr()
		}
		return &ast.Return{Base: ast.NewBaseAt(id, pos), Value: val}
	case token.RIMPORT:
		return p.parseImport()
	case token.LET:
		p.advance() // `let` is accepted but carries no type annotation in this surface language
		return p.parseAssignOrExpr()
	default:
		return p.parseAssignOrExpr()
	}
}

func (p *Parser) parseAssignOrExpr() ast.Stmt {
	id, pos := p.ids.Next(), p.cur().Pos
	if p.at(token.IDENT) && (p.peekType(1) == token.EQ || p.peekType(1) == token.PLUS_EQ || p.peekType(1) == token.MINUS_EQ) {
		name := p.advance().Literal
		op := p.advance().Type
		rhs := p.parseExpr()
		if op == token.PLUS_EQ || op == token.MINUS_EQ {
			binOp := ast.OpAdd
			if op == token.MINUS_EQ {
				binOp = ast.OpSub
			}
			rhs = &ast.Binary{Base: ast.NewBaseAt(p.ids.Next(), pos), Op: binOp, Left: &ast.Ident{Base: ast.NewBaseAt(p.ids.Next(), pos), Name: name}, Right: rhs}
		}
		return &ast.Assign{Base: ast.NewBaseAt(id, pos), Name: name, Expr: rhs}
	}
	expr := p.parseExpr()
	return &ast.ExprStmt{Base: ast.NewBaseAt(id, pos), Expr: expr}
}

func (p *Parser) peekType(offset int) token.Type {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return token.EOF
	}
	return p.toks[idx].Type
}

func (p *Parser) parseFuncDef() ast.Stmt {
	id, pos := p.ids.Next(), p.cur().Pos
	p.advance() // fn
	name := p.expect(token.IDENT).Literal
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.at(token.RPAREN) {
		params = append(params, ast.Param{Name: p.expect(token.IDENT).Literal})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.FuncDef{Base: ast.NewBaseAt(id, pos), Name: name, Params: params, Body: body}
}

func (p *Parser) parseForRange() ast.Stmt {
	id, pos := p.ids.Next(), p.cur().Pos
	p.advance() // for
	v := p.expect(token.IDENT).Literal
	p.expect(token.IN)
	start := p.parseAdditive()
	p.expect(token.DOTDOT)
	end := p.parseAdditive()
	body := p.parseBlock()
	return &ast.ForRange{Base: ast.NewBaseAt(id, pos), Var: v, Start: start, End: end, Body: body}
}

func (p *Parser) parseIf() ast.Stmt {
	id, pos := p.ids.Next(), p.cur().Pos
	p.advance() // if
	cond := p.parseExpr()
	then := p.parseBlock()
	var elseBody []ast.Stmt
	if p.at(token.ELSE) {
		p.advance()
		elseBody = p.parseBlock()
	}
	return &ast.If{Base: ast.NewBaseAt(id, pos), Cond: cond, Then: then, Else: elseBody}
}

func (p *Parser) parseImport() ast.Stmt {
	id, pos := p.ids.Next(), p.cur().Pos
	p.advance() // rimport
	if p.at(token.FROM) {
		p.advance()
		module := p.expect(token.IDENT).Literal
		p.expect(token.RIMPORT)
		var items []string
		items = append(items, p.expect(token.IDENT).Literal)
		for p.at(token.COMMA) {
			p.advance()
			items = append(items, p.expect(token.IDENT).Literal)
		}
		return &ast.RImportItems{Base: ast.NewBaseAt(id, pos), Module: module, Items: items}
	}
	module := p.expect(token.IDENT).Literal
	return &ast.RImportModule{Base: ast.NewBaseAt(id, pos), Module: module}
}

// Expression grammar: comparison (all of ==, !=, <, >, <=, >=) < additive
// < call < primary.
// Only addition/subtraction is left-associative per spec.md; comparisons
// are non-chaining (at most one per expression), which is sufficient for
// the if/for conditions this surface language needs.

func (p *Parser) parseExpr() ast.Expr { return p.parseComparison() }

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	op, ok := comparisonOp(p.cur().Type)
	if !ok {
		return left
	}
	id, pos := p.ids.Next(), p.cur().Pos
	p.advance()
	right := p.parseAdditive()
	return &ast.Binary{Base: ast.NewBaseAt(id, pos), Op: op, Left: left, Right: right}
}

func comparisonOp(tt token.Type) (ast.BinOp, bool) {
	switch tt {
	case token.EQEQ:
		return ast.OpEq, true
	case token.NEQ:
		return ast.OpNeq, true
	case token.LT:
		return ast.OpLt, true
	case token.GT:
		return ast.OpGt, true
	case token.LE:
		return ast.OpLe, true
	case token.GE:
		return ast.OpGe, true
	default:
		return 0, false
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseCall()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		id, pos := p.ids.Next(), p.cur().Pos
		op := ast.OpAdd
		if p.cur().Type == token.MINUS {
			op = ast.OpSub
		}
		p.advance()
		right := p.parseCall()
		left = &ast.Binary{Base: ast.NewBaseAt(id, pos), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for p.at(token.LPAREN) {
		id, pos := p.ids.Next(), p.cur().Pos
		p.advance()
		var args []ast.Expr
		for !p.at(token.RPAREN) {
			args = append(args, p.parseExpr())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		expr = &ast.Call{Base: ast.NewBaseAt(id, pos), Func: expr, Args: args}
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	id := p.ids.Next()
	t := p.cur()
	switch t.Type {
	case token.INT:
		p.advance()
		return &ast.IntLit{Base: ast.NewBaseAt(id, t.Pos), Value: parseIntLiteral(t.Literal)}
	case token.STRING:
		p.advance()
		return &ast.StrLit{Base: ast.NewBaseAt(id, t.Pos), Value: t.Literal}
	case token.INTERP_STRING:
		p.advance()
		return p.parseInterpString(id, t.Literal)
	case token.BOOL:
		p.advance()
		return &ast.BoolLit{Base: ast.NewBaseAt(id, t.Pos), Value: t.Literal == "true"}
	case token.IDENT:
		p.advance()
		return &ast.Ident{Base: ast.NewBaseAt(id, t.Pos), Name: t.Literal}
	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	default:
		p.errs = append(p.errs, fmt.Errorf("%s: unexpected token %s %q", t.Pos, t.Type, t.Literal))
		p.advance()
		return &ast.IntLit{Base: ast.NewBaseAt(id, t.Pos), Value: 0}
	}
}

// parseInterpString splits an f-string's raw contents into text/expr
// parts and recursively parses each {expr} fragment, grounded on the
// original lexer's f-string handling but moved to the parser since parts
// can themselves contain arbitrary expressions.
func (p *Parser) parseInterpString(id ast.NodeID, raw string) ast.Expr {
	var parts []ast.StringPart
	var text []byte
	i := 0
	for i < len(raw) {
		if raw[i] == '{' {
			if len(text) > 0 {
				parts = append(parts, ast.StringPart{Text: string(text)})
				text = nil
			}
			depth := 1
			j := i + 1
			for j < len(raw) && depth > 0 {
				if raw[j] == '{' {
					depth++
				} else if raw[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			exprSrc := raw[i+1 : j]
			sub := New(append(lexer.Lex(exprSrc), token.Token{Type: token.EOF}))
			sub.ids = p.ids
			expr := sub.parseExpr()
			p.ids = sub.ids
			parts = append(parts, ast.StringPart{Expr: expr})
			i = j + 1
		} else {
			text = append(text, raw[i])
			i++
		}
	}
	if len(text) > 0 {
		parts = append(parts, ast.StringPart{Text: string(text)})
	}
	return &ast.InterpString{Base: ast.NewBase(id), Parts: parts}
}

func parseIntLiteral(s string) int64 {
	var v int64
	for _, ch := range s {
		v = v*10 + int64(ch-'0')
	}
	return v
}

