package parser

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/token"
)

// parseStatement dispatches one top-level or block-level statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.KW_IF:
		return p.parseIf()
	case token.KW_UNLESS:
		return p.parseUnless()
	case token.KW_WHILE:
		return p.parseWhile("")
	case token.KW_DO:
		return p.parseDoUntil("")
	case token.KW_FOR:
		return p.parseFor("")
	case token.KW_BREAK:
		return p.parseBreak()
	case token.KW_CONTINUE:
		return p.parseContinue()
	case token.KW_RETURN:
		return p.parseReturn()
	case token.KW_CLASS:
		return p.parseClassDecl()
	case token.IDENT:
		if p.peekIs(token.COLON) {
			return p.parseLabelledLoop()
		}
		return p.parseDeclOrExprStatement()
	case token.KW_DEF, token.KW_VAR:
		return p.parseVarDeclOrFuncDecl()
	default:
		if token.TypeKeywords[p.cur.Type] {
			return p.parseVarDeclOrFuncDecl()
		}
		return p.parseExprStatement()
	}
}

func (p *Parser) parseBlockStatements(end token.Type) *ast.Block {
	at := p.cur.Pos
	block := &ast.Block{StmtBase: ast.StmtBase{At: at}}
	p.skipEol()
	for !p.curIs(end) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.skipEol()
	}
	return block
}

func (p *Parser) parseBlockStatement() *ast.Block {
	p.expect(token.LBRACE)
	b := p.parseBlockStatements(token.RBRACE)
	p.expect(token.RBRACE)
	return b
}

func (p *Parser) parseExprStatement() ast.Statement {
	at := p.cur.Pos
	expr := p.parseExpression(precLowest)
	if expr != nil {
		expr.Flags().IsResultUsed = false
	}
	return &ast.ExprStmt{StmtBase: ast.StmtBase{At: at}, Expr: expr}
}

// parseDeclOrExprStatement resolves "typed variable declaration vs
// function declaration vs plain expression" (§4.C): an IDENT/type
// keyword followed by another IDENT is a declaration; a capitalised
// IDENT chain followed by another IDENT could be a class-typed
// declaration, disambiguated the same way.
func (p *Parser) parseDeclOrExprStatement() ast.Statement {
	isDecl := p.lookahead(func() bool {
		te := p.tryParseTypeExpr()
		if te == nil {
			return false
		}
		return p.curIs(token.IDENT)
	})
	if isDecl {
		return p.parseTypedDeclOrFunc()
	}
	return p.parseExprStatement()
}

func (p *Parser) parseVarDeclOrFuncDecl() ast.Statement {
	return p.parseTypedDeclOrFunc()
}

// parseTypedDeclOrFunc parses `Type name ...`: if `name(` follows, it is
// a function declaration; otherwise a (possibly multi-) variable
// declaration, or — if `(` with comma-separated names follows a bare
// `def`/`var` — a multi-assign (§4.C "Multi-assign").
func (p *Parser) parseTypedDeclOrFunc() ast.Statement {
	at := p.cur.Pos
	declType := p.tryParseTypeExpr()
	if declType == nil {
		// `def (x, y) = expr` multi-assign shorthand.
		if p.curIs(token.KW_DEF) && p.peekIs(token.LPAREN) {
			p.advance() // consume 'def'
		}
		if p.curIs(token.LPAREN) {
			names := p.parseMultiAssignNameList()
			return p.parseMultiAssignTargets(names, true, nil, at)
		}
		p.errorf("expected type or variable declaration")
		return p.parseExprStatement()
	}

	if !p.curIs(token.IDENT) {
		p.errorf("expected identifier in declaration")
		return p.parseExprStatement()
	}
	name := p.cur.Lexeme
	p.advance()

	if p.curIs(token.LPAREN) {
		return p.parseFuncDecl(at, declType, name, false, false)
	}

	return p.parseVarDeclTail(at, declType, name)
}

func (p *Parser) parseMultiAssignNameList() []string {
	p.expect(token.LPAREN)
	var names []string
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.IDENT) {
			names = append(names, p.cur.Lexeme)
			p.advance()
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return names
}

func (p *Parser) parseVarDeclTail(at token.Pos, declType *ast.TypeExpr, firstName string) ast.Statement {
	stmt := &ast.VarDeclStmt{StmtBase: ast.StmtBase{At: at}}
	addOne := func(name string) {
		decl := p.newVarDecl(at, name, 0)
		decl.DeclaredTypeExpr = declType
		if p.curIs(token.ASSIGN) {
			p.advance()
			p.skipEol()
			decl.Init = p.parseExpression(precAssign)
		}
		p.arena.AddVar(decl)
		stmt.Decls = append(stmt.Decls, decl)
	}
	addOne(firstName)
	for p.curIs(token.COMMA) {
		p.advance()
		if !p.curIs(token.IDENT) {
			p.errorf("expected identifier after ','")
			break
		}
		name := p.cur.Lexeme
		p.advance()
		addOne(name)
	}
	return stmt
}

func (p *Parser) parseIf() ast.Statement {
	at := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	cond := p.parseExpression(precLowest)
	p.ignoreEol = wasIgnore
	p.expect(token.RPAREN)
	then := p.parseStatementAsBlock()
	var els *ast.Block
	save := p.mark()
	p.skipEol()
	if p.curIs(token.KW_ELSE) {
		p.advance()
		if p.curIs(token.KW_IF) {
			nested := p.parseIf()
			els = &ast.Block{StmtBase: ast.StmtBase{At: nested.Pos()}, Statements: []ast.Statement{nested}}
		} else {
			els = p.parseStatementAsBlock()
		}
	} else {
		p.restore(save)
	}
	return &ast.If{StmtBase: ast.StmtBase{At: at}, Cond: cond, Then: then, Else: els}
}

// parseUnless is sugar for `if (!cond)` (§4.C).
func (p *Parser) parseUnless() ast.Statement {
	at := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	cond := p.parseExpression(precLowest)
	p.ignoreEol = wasIgnore
	p.expect(token.RPAREN)
	negated := &ast.Unary{ExprBase: ast.ExprBase{At: at}, Op: token.BANG, Operand: cond}
	then := p.parseStatementAsBlock()
	return &ast.If{StmtBase: ast.StmtBase{At: at}, Cond: negated, Then: then}
}

func (p *Parser) parseStatementAsBlock() *ast.Block {
	if p.curIs(token.LBRACE) {
		return p.parseBlockStatement()
	}
	stmt := p.parseStatement()
	return &ast.Block{StmtBase: ast.StmtBase{At: stmt.Pos()}, Statements: []ast.Statement{stmt}}
}

func (p *Parser) parseWhile(label string) ast.Statement {
	at := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	cond := p.parseExpression(precLowest)
	p.ignoreEol = wasIgnore
	p.expect(token.RPAREN)
	body := p.parseStatementAsBlock()
	return &ast.While{StmtBase: ast.StmtBase{At: at}, Label: label, Cond: cond, Body: body}
}

// parseDoUntil is `do { ... } until (cond)`: body runs at least once
// before the inverted condition is tested (§4.C).
func (p *Parser) parseDoUntil(label string) ast.Statement {
	at := p.cur.Pos
	p.advance() // consume 'do'
	body := p.parseBlockStatement()
	p.skipEol()
	p.expect(token.KW_UNTIL)
	p.expect(token.LPAREN)
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	cond := p.parseExpression(precLowest)
	p.ignoreEol = wasIgnore
	p.expect(token.RPAREN)
	return &ast.DoUntil{StmtBase: ast.StmtBase{At: at}, Label: label, Body: body, Cond: cond}
}

// parseFor desugars `for (init; cond; updates) body` into the
// While-equivalent shape described by §4.C: Init runs once, Cond gates
// the loop, Updates runs at the continue label before re-testing Cond.
func (p *Parser) parseFor(label string) ast.Statement {
	at := p.cur.Pos
	p.advance() // consume 'for'
	p.expect(token.LPAREN)
	wasIgnore := p.ignoreEol
	p.ignoreEol = true

	var init ast.Statement
	if !p.curIs(token.SEMI) {
		init = p.parseStatement()
	}
	p.expect(token.SEMI)

	var cond ast.Expression
	if !p.curIs(token.SEMI) {
		cond = p.parseExpression(precLowest)
	}
	p.expect(token.SEMI)

	var updates []ast.Expression
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		updates = append(updates, p.parseExpression(precLowest))
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.ignoreEol = wasIgnore
	p.expect(token.RPAREN)
	body := p.parseStatementAsBlock()

	return &ast.For{StmtBase: ast.StmtBase{At: at}, Label: label, Init: init, Cond: cond, Updates: updates, Body: body}
}

// parseLabelledLoop handles `label: for/while/do (...)`.
func (p *Parser) parseLabelledLoop() ast.Statement {
	label := p.cur.Lexeme
	p.advance() // ident
	p.advance() // colon
	switch p.cur.Type {
	case token.KW_FOR:
		return p.parseFor(label)
	case token.KW_WHILE:
		return p.parseWhile(label)
	case token.KW_DO:
		return p.parseDoUntil(label)
	default:
		p.errorf("expected loop after label %q", label)
		return p.parseExprStatement()
	}
}

func (p *Parser) parseBreak() ast.Statement {
	at := p.cur.Pos
	p.advance()
	label := ""
	if p.curIs(token.IDENT) {
		label = p.cur.Lexeme
		p.advance()
	}
	return &ast.Break{StmtBase: ast.StmtBase{At: at}, Label: label}
}

func (p *Parser) parseContinue() ast.Statement {
	at := p.cur.Pos
	p.advance()
	label := ""
	if p.curIs(token.IDENT) {
		label = p.cur.Lexeme
		p.advance()
	}
	return &ast.Continue{StmtBase: ast.StmtBase{At: at}, Label: label}
}

func (p *Parser) parseReturn() ast.Statement {
	at := p.cur.Pos
	p.advance()
	var value ast.Expression
	if p.startsExpression() {
		value = p.parseExpression(precLowest)
	}
	return &ast.Return{StmtBase: ast.StmtBase{At: at}, Value: value}
}
