// Package parser implements a recursive-descent parser over
// internal/lexer's token stream, producing an internal/ast tree.
// Expressions are parsed by a fixed ladder of one function per
// precedence level, not by a precedence table of prefix/infix
// parselets. The grammar is the Python-syntax subset named in
// spec.md §6.
package parser

import (
	"fmt"
	"strconv"

	"github.com/VikingMew/quickpython/internal/ast"
	"github.com/VikingMew/quickpython/internal/lexer"
)

// ParseError is returned when the source cannot be parsed; it reports
// the unimplemented-or-invalid construct with a source location, per
// spec.md §4.C ("the compiler reports a translation error ... when it
// encounters syntax it does not implement").
type ParseError struct {
	Line, Col int
	Msg       string
}

func (e *ParseError) Error() string { return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg) }

// Parse tokenizes and parses a complete module.
func Parse(src string) (*ast.Module, error) {
	p := &parser{lex: lexer.New(src)}
	p.advance()
	p.advance()
	defer func() {
		// The parser reports syntax errors by panicking with a
		// *ParseError; turn that into the returned error, consistent
		// with "the compiler reports a translation error and emits no
		// code". Any other panic is re-raised unchanged.
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				p.err = pe
				return
			}
			panic(r)
		}
	}()
	body := p.parseBlockStatements(func() bool { return p.cur.Type == lexer.EOF })
	if p.err != nil {
		return nil, p.err
	}
	return ast.NewModule(ast.NewPos(1, 1), body), nil
}

type parser struct {
	lex       *lexer.Lexer
	cur, next lexer.Token
	err       error
}

func (p *parser) advance() {
	p.cur = p.next
	p.next = p.lex.Next()
}

func (p *parser) pos() ast.Position { return ast.NewPos(p.cur.Line, p.cur.Col) }

func (p *parser) fail(format string, args ...any) {
	panic(&ParseError{Line: p.cur.Line, Col: p.cur.Col, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) expect(tt lexer.TokenType) lexer.Token {
	if p.cur.Type != tt {
		p.fail("expected %s, got %s %q", tt, p.cur.Type, p.cur.Literal)
	}
	t := p.cur
	p.advance()
	return t
}

func (p *parser) skipNewlines() {
	for p.cur.Type == lexer.NEWLINE {
		p.advance()
	}
}

// parseBlockStatements parses statements until stop() is true, skipping
// blank NEWLINE-only lines between them.
func (p *parser) parseBlockStatements(stop func() bool) []ast.Statement {
	var stmts []ast.Statement
	p.skipNewlines()
	for !stop() {
		stmts = append(stmts, p.parseStatement())
		p.skipNewlines()
	}
	return stmts
}

// parseSuite parses `: NEWLINE INDENT stmt+ DEDENT` or a single
// same-line simple statement after `:`.
func (p *parser) parseSuite() []ast.Statement {
	p.expect(lexer.COLON)
	if p.cur.Type != lexer.NEWLINE {
		return []ast.Statement{p.parseSimpleStatement()}
	}
	p.advance() // NEWLINE
	p.expect(lexer.INDENT)
	stmts := p.parseBlockStatements(func() bool { return p.cur.Type == lexer.DEDENT || p.cur.Type == lexer.EOF })
	if p.cur.Type == lexer.DEDENT {
		p.advance()
	}
	return stmts
}

func (p *parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.DEF:
		return p.parseFuncDef(false)
	case lexer.ASYNC:
		pos := p.pos()
		p.advance()
		if p.cur.Type != lexer.DEF {
			p.fail("expected 'def' after 'async'")
		}
		fd := p.parseFuncDef(true)
		fd.Base = ast.At(pos)
		return fd
	case lexer.TRY:
		return p.parseTry()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *parser) parseSimpleStatement() ast.Statement {
	var s ast.Statement
	switch p.cur.Type {
	case lexer.RETURN:
		pos := p.pos()
		p.advance()
		var v ast.Expression
		if p.cur.Type != lexer.NEWLINE && p.cur.Type != lexer.EOF {
			v = p.parseExpr()
		}
		s = &ast.Return{Base: ast.At(pos), Value: v}
	case lexer.YIELD:
		pos := p.pos()
		p.advance()
		v := p.parseExpr()
		s = &ast.Yield{Base: ast.At(pos), Value: v}
	case lexer.BREAK:
		s = &ast.Break{Base: ast.At(p.pos())}
		p.advance()
	case lexer.CONTINUE:
		s = &ast.Continue{Base: ast.At(p.pos())}
		p.advance()
	case lexer.PASS:
		s = &ast.Pass{Base: ast.At(p.pos())}
		p.advance()
	case lexer.RAISE:
		s = p.parseRaise()
	case lexer.IMPORT:
		s = p.parseImport()
	case lexer.FROM:
		s = p.parseImportFrom()
	default:
		s = p.parseExprOrAssignStatement()
	}
	if p.cur.Type == lexer.NEWLINE {
		p.advance()
	} else if p.cur.Type != lexer.EOF && p.cur.Type != lexer.DEDENT {
		p.fail("expected end of statement, got %s %q", p.cur.Type, p.cur.Literal)
	}
	return s
}

func (p *parser) parseIf() ast.Statement {
	pos := p.pos()
	p.advance()
	cond := p.parseExpr()
	then := p.parseSuite()
	var els []ast.Statement
	if p.cur.Type == lexer.ELIF {
		els = []ast.Statement{p.parseIf()}
		return &ast.If{Base: ast.At(pos), Cond: cond, Then: then, Else: els}
	}
	if p.cur.Type == lexer.ELSE {
		p.advance()
		els = p.parseSuite()
	}
	return &ast.If{Base: ast.At(pos), Cond: cond, Then: then, Else: els}
}

func (p *parser) parseWhile() ast.Statement {
	pos := p.pos()
	p.advance()
	cond := p.parseExpr()
	body := p.parseSuite()
	return &ast.While{Base: ast.At(pos), Cond: cond, Body: body}
}

func (p *parser) parseFor() ast.Statement {
	pos := p.pos()
	p.advance()
	vars := []string{p.expect(lexer.IDENT).Literal}
	for p.cur.Type == lexer.COMMA {
		p.advance()
		vars = append(vars, p.expect(lexer.IDENT).Literal)
	}
	p.expect(lexer.IN)
	iter := p.parseExpr()
	body := p.parseSuite()
	return &ast.For{Base: ast.At(pos), Vars: vars, Iter: iter, Body: body}
}

func (p *parser) parseFuncDef(isAsync bool) *ast.FuncDef {
	pos := p.pos()
	p.advance() // 'def'
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.LPAREN)
	var params []string
	for p.cur.Type != lexer.RPAREN {
		params = append(params, p.expect(lexer.IDENT).Literal)
		if p.cur.Type == lexer.COMMA {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)
	body := p.parseSuite()
	return &ast.FuncDef{Base: ast.At(pos), Name: name, Params: params, IsAsync: isAsync, Body: body}
}

func (p *parser) parseRaise() ast.Statement {
	pos := p.pos()
	p.advance()
	kind := p.expect(lexer.IDENT).Literal
	var msg ast.Expression
	if p.cur.Type == lexer.LPAREN {
		p.advance()
		if p.cur.Type != lexer.RPAREN {
			msg = p.parseExpr()
		}
		p.expect(lexer.RPAREN)
	}
	return &ast.Raise{Base: ast.At(pos), Kind: kind, Message: msg}
}

func (p *parser) parseTry() ast.Statement {
	pos := p.pos()
	p.advance()
	body := p.parseSuite()
	var handlers []ast.Except
	for p.cur.Type == lexer.EXCEPT {
		p.advance()
		var kind, as string
		if p.cur.Type != lexer.COLON {
			kind = p.expect(lexer.IDENT).Literal
			if p.cur.Type == lexer.AS {
				p.advance()
				as = p.expect(lexer.IDENT).Literal
			}
		}
		hbody := p.parseSuite()
		handlers = append(handlers, ast.Except{Kind: kind, Name: as, Body: hbody})
	}
	var fin []ast.Statement
	if p.cur.Type == lexer.FINALLY {
		p.advance()
		fin = p.parseSuite()
	}
	return &ast.Try{Base: ast.At(pos), Body: body, Handlers: handlers, Finally: fin}
}

func (p *parser) parseImport() ast.Statement {
	pos := p.pos()
	p.advance()
	name := p.expect(lexer.IDENT).Literal
	as := ""
	if p.cur.Type == lexer.AS {
		p.advance()
		as = p.expect(lexer.IDENT).Literal
	}
	return &ast.Import{Base: ast.At(pos), Module: name, As: as}
}

func (p *parser) parseImportFrom() ast.Statement {
	pos := p.pos()
	p.advance()
	mod := p.expect(lexer.IDENT).Literal
	p.expect(lexer.IMPORT)
	var names, aliases []string
	for {
		names = append(names, p.expect(lexer.IDENT).Literal)
		alias := ""
		if p.cur.Type == lexer.AS {
			p.advance()
			alias = p.expect(lexer.IDENT).Literal
		}
		aliases = append(aliases, alias)
		if p.cur.Type != lexer.COMMA {
			break
		}
		p.advance()
	}
	return &ast.ImportFrom{Base: ast.At(pos), Module: mod, Names: names, Aliases: aliases}
}

// parseExprOrAssignStatement handles: expr-statement, `a = e`,
// `a, b = e` (unpacking), and augmented assignment.
func (p *parser) parseExprOrAssignStatement() ast.Statement {
	pos := p.pos()
	first := p.parseExpr()
	targets := []ast.Expression{first}
	for p.cur.Type == lexer.COMMA {
		p.advance()
		targets = append(targets, p.parseExpr())
	}
	switch p.cur.Type {
	case lexer.ASSIGN:
		p.advance()
		val := p.parseExpr()
		return &ast.Assign{Base: ast.At(pos), Targets: targets, Value: val}
	case lexer.PLUSEQ, lexer.MINUSEQ, lexer.STAREQ, lexer.SLASHEQ, lexer.PERCENTEQ:
		if len(targets) != 1 {
			p.fail("augmented assignment requires a single target")
		}
		id, ok := targets[0].(*ast.Ident)
		if !ok {
			p.fail("augmented assignment target must be a simple name")
		}
		op := augOp(p.cur.Type)
		p.advance()
		val := p.parseExpr()
		return &ast.AugAssign{Base: ast.At(pos), Target: id, Op: op, Value: val}
	}
	if len(targets) > 1 {
		p.fail("expected '=' after tuple of targets")
	}
	return &ast.ExprStmt{Base: ast.At(pos), X: first}
}

func augOp(tt lexer.TokenType) string {
	switch tt {
	case lexer.PLUSEQ:
		return "+"
	case lexer.MINUSEQ:
		return "-"
	case lexer.STAREQ:
		return "*"
	case lexer.SLASHEQ:
		return "/"
	case lexer.PERCENTEQ:
		return "%"
	}
	return "?"
}

// ---- Expressions ----
//
// parseExpr descends through a fixed precedence ladder (or, and, not,
// comparison, bitwise-or, bitwise-xor, bitwise-and, shift, additive,
// multiplicative, unary, postfix, atom) rather than a table-driven Pratt
// loop, since quickpython's operator set is small and fixed; smog's
// parser uses an explicit precedence table for the same reason its
// Smalltalk-derived grammar has user-extensible binary selectors, which
// this grammar does not.

func (p *parser) parseExpr() ast.Expression { return p.parseOr() }

func (p *parser) parseOr() ast.Expression {
	x := p.parseAnd()
	for p.cur.Type == lexer.OR {
		pos := p.pos()
		p.advance()
		y := p.parseAnd()
		x = &ast.LogicalExpr{Base: ast.At(pos), Op: "or", X: x, Y: y}
	}
	return x
}

func (p *parser) parseAnd() ast.Expression {
	x := p.parseNot()
	for p.cur.Type == lexer.AND {
		pos := p.pos()
		p.advance()
		y := p.parseNot()
		x = &ast.LogicalExpr{Base: ast.At(pos), Op: "and", X: x, Y: y}
	}
	return x
}

func (p *parser) parseNot() ast.Expression {
	if p.cur.Type == lexer.NOT {
		pos := p.pos()
		p.advance()
		x := p.parseNot()
		return &ast.UnaryExpr{Base: ast.At(pos), Op: "not", X: x}
	}
	return p.parseComparison()
}

var compareOps = map[lexer.TokenType]string{
	lexer.EQ: "==", lexer.NEQ: "!=", lexer.LT: "<", lexer.LE: "<=",
	lexer.GT: ">", lexer.GE: ">=",
}

func (p *parser) parseComparison() ast.Expression {
	first := p.parseBitOr()
	var operands []ast.Expression
	var ops []string
	operands = append(operands, first)
	for {
		if op, ok := compareOps[p.cur.Type]; ok {
			p.advance()
			operands = append(operands, p.parseBitOr())
			ops = append(ops, op)
			continue
		}
		if p.cur.Type == lexer.IN {
			p.advance()
			operands = append(operands, p.parseBitOr())
			ops = append(ops, "in")
			continue
		}
		if p.cur.Type == lexer.NOT && p.next.Type == lexer.IN {
			p.advance()
			p.advance()
			operands = append(operands, p.parseBitOr())
			ops = append(ops, "notin")
			continue
		}
		if p.cur.Type == lexer.IS {
			p.advance()
			neg := false
			if p.cur.Type == lexer.NOT {
				p.advance()
				neg = true
			}
			operands = append(operands, p.parseBitOr())
			if neg {
				ops = append(ops, "isnot")
			} else {
				ops = append(ops, "is")
			}
			continue
		}
		break
	}
	if len(ops) == 0 {
		return first
	}
	return &ast.CompareExpr{Base: ast.At(first.Pos()), Operands: operands, Ops: ops}
}

func (p *parser) parseBitOr() ast.Expression {
	x := p.parseBitXor()
	for p.cur.Type == lexer.PIPE {
		pos := p.pos()
		p.advance()
		y := p.parseBitXor()
		x = &ast.BinaryExpr{Base: ast.At(pos), Op: "|", X: x, Y: y}
	}
	return x
}

func (p *parser) parseBitXor() ast.Expression {
	x := p.parseBitAnd()
	for p.cur.Type == lexer.CARET {
		pos := p.pos()
		p.advance()
		y := p.parseBitAnd()
		x = &ast.BinaryExpr{Base: ast.At(pos), Op: "^", X: x, Y: y}
	}
	return x
}

func (p *parser) parseBitAnd() ast.Expression {
	x := p.parseShift()
	for p.cur.Type == lexer.AMP {
		pos := p.pos()
		p.advance()
		y := p.parseShift()
		x = &ast.BinaryExpr{Base: ast.At(pos), Op: "&", X: x, Y: y}
	}
	return x
}

func (p *parser) parseShift() ast.Expression {
	x := p.parseAdditive()
	for p.cur.Type == lexer.LSHIFT || p.cur.Type == lexer.RSHIFT {
		pos := p.pos()
		op := "<<"
		if p.cur.Type == lexer.RSHIFT {
			op = ">>"
		}
		p.advance()
		y := p.parseAdditive()
		x = &ast.BinaryExpr{Base: ast.At(pos), Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseAdditive() ast.Expression {
	x := p.parseMultiplicative()
	for p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		pos := p.pos()
		op := "+"
		if p.cur.Type == lexer.MINUS {
			op = "-"
		}
		p.advance()
		y := p.parseMultiplicative()
		x = &ast.BinaryExpr{Base: ast.At(pos), Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseMultiplicative() ast.Expression {
	x := p.parseUnary()
	for p.cur.Type == lexer.STAR || p.cur.Type == lexer.SLASH || p.cur.Type == lexer.PERCENT {
		pos := p.pos()
		var op string
		switch p.cur.Type {
		case lexer.STAR:
			op = "*"
		case lexer.SLASH:
			op = "/"
		case lexer.PERCENT:
			op = "%"
		}
		p.advance()
		y := p.parseUnary()
		x = &ast.BinaryExpr{Base: ast.At(pos), Op: op, X: x, Y: y}
	}
	return x
}

func (p *parser) parseUnary() ast.Expression {
	switch p.cur.Type {
	case lexer.MINUS:
		pos := p.pos()
		p.advance()
		return &ast.UnaryExpr{Base: ast.At(pos), Op: "-", X: p.parseUnary()}
	case lexer.PLUS:
		pos := p.pos()
		p.advance()
		return &ast.UnaryExpr{Base: ast.At(pos), Op: "+", X: p.parseUnary()}
	case lexer.AWAIT:
		pos := p.pos()
		p.advance()
		return &ast.UnaryExpr{Base: ast.At(pos), Op: "await", X: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expression {
	x := p.parseAtom()
	for {
		switch p.cur.Type {
		case lexer.DOT:
			p.advance()
			pos := p.pos()
			name := p.expect(lexer.IDENT).Literal
			x = &ast.AttrExpr{Base: ast.At(pos), X: x, Name: name}
		case lexer.LPAREN:
			pos := p.pos()
			p.advance()
			var args []ast.Expression
			for p.cur.Type != lexer.RPAREN {
				args = append(args, p.parseExpr())
				if p.cur.Type == lexer.COMMA {
					p.advance()
				}
			}
			p.expect(lexer.RPAREN)
			x = &ast.CallExpr{Base: ast.At(pos), Func: x, Args: args}
		case lexer.LBRACKET:
			pos := p.pos()
			p.advance()
			x = p.parseSubscript(pos, x)
		default:
			return x
		}
	}
}

// parseSubscript handles both `x[i]` (IndexExpr) and `x[a:b:c]`
// (SliceExpr); the opening LBRACKET has already been consumed.
func (p *parser) parseSubscript(pos ast.Position, x ast.Expression) ast.Expression {
	var start, stop, step ast.Expression
	isSlice := false
	if p.cur.Type != lexer.COLON {
		start = p.parseExpr()
	}
	if p.cur.Type == lexer.COLON {
		isSlice = true
		p.advance()
		if p.cur.Type != lexer.COLON && p.cur.Type != lexer.RBRACKET {
			stop = p.parseExpr()
		}
		if p.cur.Type == lexer.COLON {
			p.advance()
			if p.cur.Type != lexer.RBRACKET {
				step = p.parseExpr()
			}
		}
	}
	p.expect(lexer.RBRACKET)
	if isSlice {
		return &ast.SliceExpr{Base: ast.At(pos), X: x, Start: start, Stop: stop, Step: step}
	}
	return &ast.IndexExpr{Base: ast.At(pos), X: x, Index: start}
}

func (p *parser) parseAtom() ast.Expression {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.INT:
		lit := p.cur.Literal
		p.advance()
		return &ast.IntLit{Base: ast.At(pos), Value: parseInt32(lit)}
	case lexer.FLOAT:
		lit := p.cur.Literal
		p.advance()
		return &ast.FloatLit{Base: ast.At(pos), Value: parseFloat(lit)}
	case lexer.STRING:
		lit := p.cur.Literal
		p.advance()
		return &ast.StringLit{Base: ast.At(pos), Value: lit}
	case lexer.FSTRING:
		lit := p.cur.Literal
		p.advance()
		return p.parseFString(pos, lit)
	case lexer.TRUE:
		p.advance()
		return &ast.BoolLit{Base: ast.At(pos), Value: true}
	case lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Base: ast.At(pos), Value: false}
	case lexer.NONE:
		p.advance()
		return &ast.NoneLit{Base: ast.At(pos)}
	case lexer.IDENT:
		name := p.cur.Literal
		p.advance()
		return &ast.Ident{Base: ast.At(pos), Name: name}
	case lexer.LPAREN:
		p.advance()
		if p.cur.Type == lexer.RPAREN {
			p.advance()
			return &ast.TupleLit{Base: ast.At(pos)}
		}
		first := p.parseExpr()
		if p.cur.Type == lexer.COMMA {
			elts := []ast.Expression{first}
			for p.cur.Type == lexer.COMMA {
				p.advance()
				if p.cur.Type == lexer.RPAREN {
					break
				}
				elts = append(elts, p.parseExpr())
			}
			p.expect(lexer.RPAREN)
			return &ast.TupleLit{Base: ast.At(pos), Elts: elts}
		}
		p.expect(lexer.RPAREN)
		return first
	case lexer.LBRACKET:
		return p.parseListOrComp(pos)
	case lexer.LBRACE:
		return p.parseDictOrComp(pos)
	}
	p.fail("unexpected token %s %q in expression", p.cur.Type, p.cur.Literal)
	return nil
}

func (p *parser) parseListOrComp(pos ast.Position) ast.Expression {
	p.advance() // '['
	if p.cur.Type == lexer.RBRACKET {
		p.advance()
		return &ast.ListLit{Base: ast.At(pos)}
	}
	first := p.parseExpr()
	if p.cur.Type == lexer.FOR {
		vars, iter, cond := p.parseCompClause()
		p.expect(lexer.RBRACKET)
		return &ast.ListComp{Base: ast.At(pos), Elt: first, Vars: vars, Iter: iter, Cond: cond}
	}
	elts := []ast.Expression{first}
	for p.cur.Type == lexer.COMMA {
		p.advance()
		if p.cur.Type == lexer.RBRACKET {
			break
		}
		elts = append(elts, p.parseExpr())
	}
	p.expect(lexer.RBRACKET)
	return &ast.ListLit{Base: ast.At(pos), Elts: elts}
}

func (p *parser) parseDictOrComp(pos ast.Position) ast.Expression {
	p.advance() // '{'
	if p.cur.Type == lexer.RBRACE {
		p.advance()
		return &ast.DictLit{Base: ast.At(pos)}
	}
	key := p.parseExpr()
	p.expect(lexer.COLON)
	val := p.parseExpr()
	if p.cur.Type == lexer.FOR {
		vars, iter, cond := p.parseCompClause()
		p.expect(lexer.RBRACE)
		return &ast.DictComp{Base: ast.At(pos), Key: key, Value: val, Vars: vars, Iter: iter, Cond: cond}
	}
	entries := []ast.DictEntry{{Key: key, Value: val}}
	for p.cur.Type == lexer.COMMA {
		p.advance()
		if p.cur.Type == lexer.RBRACE {
			break
		}
		k := p.parseExpr()
		p.expect(lexer.COLON)
		v := p.parseExpr()
		entries = append(entries, ast.DictEntry{Key: k, Value: v})
	}
	p.expect(lexer.RBRACE)
	return &ast.DictLit{Base: ast.At(pos), Entries: entries}
}

// parseCompClause parses `for v1, v2 in iter [if cond]`, with the
// leading FOR already current (not yet consumed).
func (p *parser) parseCompClause() (vars []string, iter ast.Expression, cond ast.Expression) {
	p.advance() // 'for'
	vars = append(vars, p.expect(lexer.IDENT).Literal)
	for p.cur.Type == lexer.COMMA {
		p.advance()
		vars = append(vars, p.expect(lexer.IDENT).Literal)
	}
	p.expect(lexer.IN)
	iter = p.parseOr() // stop before a top-level 'if' clause
	if p.cur.Type == lexer.IF {
		p.advance()
		cond = p.parseOr()
	}
	return vars, iter, cond
}

// parseFString splits a raw f-string literal on `{expr}` placeholders
// and parses each embedded expression with its own sub-parser.
func (p *parser) parseFString(pos ast.Position, raw string) ast.Expression {
	fs := &ast.FString{Base: ast.At(pos)}
	var lit []byte
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == '{' {
			fs.Parts = append(fs.Parts, string(lit))
			lit = lit[:0]
			depth := 1
			j := i + 1
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						goto done
					}
				}
				j++
			}
		done:
			exprSrc := raw[i+1 : j]
			sub := &parser{lex: lexer.New(exprSrc)}
			sub.advance()
			sub.advance()
			fs.Exprs = append(fs.Exprs, sub.parseExpr())
			i = j + 1
			continue
		}
		lit = append(lit, c)
		i++
	}
	fs.Parts = append(fs.Parts, string(lit))
	return fs
}

func parseInt32(lit string) int32 {
	v, _ := strconv.ParseInt(lit, 10, 32)
	return int32(v)
}

func parseFloat(lit string) float64 {
	v, _ := strconv.ParseFloat(lit, 64)
	return v
}
