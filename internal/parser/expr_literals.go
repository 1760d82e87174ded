package parser

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/token"
)

// parseListOrMapLiteral resolves `[ ... ]`: the empty map `[:]`, a list
// `[ e1, e2, ... ]`, or a map `[ key: value, ... ]` (§4.C "Map literal
// ... vs list literal ... vs empty-map"). The distinguishing lookahead
// is whether the first element is followed by `:` rather than `,`/`]`.
func (p *Parser) parseListOrMapLiteral() ast.Expression {
	at := p.cur.Pos
	p.advance() // consume '['
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	defer func() { p.ignoreEol = wasIgnore }()
	p.skipEol()

	if p.curIs(token.COLON) && p.peekIs(token.RBRACKET) {
		p.advance() // ':'
		p.advance() // ']'
		return &ast.MapLiteral{ExprBase: ast.ExprBase{At: at}}
	}
	if p.curIs(token.RBRACKET) {
		p.advance()
		return &ast.ListLiteral{ExprBase: ast.ExprBase{At: at}}
	}

	isMap := p.lookahead(func() bool {
		if p.curIs(token.STRING_CONST, token.IDENT) {
			p.advance()
		} else {
			p.parseExpression(precAssign)
		}
		return p.curIs(token.COLON)
	})

	if isMap {
		return p.parseMapLiteralBody(at)
	}
	return p.parseListLiteralBody(at)
}

func (p *Parser) parseMapLiteralBody(at token.Pos) ast.Expression {
	lit := &ast.MapLiteral{ExprBase: ast.ExprBase{At: at}}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		var key ast.Expression
		if p.curIs(token.IDENT) && p.peekIs(token.COLON) {
			key = &ast.Literal{ExprBase: ast.ExprBase{At: p.cur.Pos}, Value: p.cur.Lexeme}
			p.advance()
		} else {
			key = p.parseExpression(precAssign)
		}
		p.expect(token.COLON)
		p.skipEol()
		value := p.parseExpression(precAssign)
		lit.Entries = append(lit.Entries, ast.MapEntry{Key: key, Value: value})
		p.skipEol()
		if p.curIs(token.COMMA) {
			p.advance()
			p.skipEol()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return lit
}

func (p *Parser) parseListLiteralBody(at token.Pos) ast.Expression {
	lit := &ast.ListLiteral{ExprBase: ast.ExprBase{At: at}}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression(precAssign))
		p.skipEol()
		if p.curIs(token.COMMA) {
			p.advance()
			p.skipEol()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return lit
}

// parseExprString consumes the chain of EXPR_STRING_START /
// EXPR_STRING_EXPR_START-implicit / EXPR_STRING_MID / EXPR_STRING_END
// tokens the lexer produces for `"text ${expr} more"`.
func (p *Parser) parseExprString() ast.Expression {
	at := p.cur.Pos
	lit := &ast.ExprString{ExprBase: ast.ExprBase{At: at}}
	lit.Parts = append(lit.Parts, ast.ExprStringPart{Text: p.cur.Literal.(string)})
	p.advance() // consume EXPR_STRING_START; lexer positions inside the expression
	for {
		wasIgnore := p.ignoreEol
		p.ignoreEol = true
		inner := p.parseExpression(precLowest)
		p.ignoreEol = wasIgnore
		lit.Parts = append(lit.Parts, ast.ExprStringPart{Expr: inner})

		// The lexer's ResumeExprString scan happened lazily the moment the
		// parser's token window advanced past '}'; Next() already routed
		// through it once cur lands on EXPR_STRING_MID/END.
		if !p.curIs(token.EXPR_STRING_MID) && !p.curIs(token.EXPR_STRING_END) {
			p.errorf("malformed interpolated string")
			break
		}
		lit.Parts = append(lit.Parts, ast.ExprStringPart{Text: p.cur.Literal.(string)})
		isEnd := p.curIs(token.EXPR_STRING_END)
		p.advance()
		if isEnd {
			break
		}
	}
	return lit
}

// parseBraceBlockOrClosure resolves the closure-vs-block ambiguity of
// §4.C "Ambiguity resolution of brace blocks": lookahead-probe for a
// parameter list ending in `->`; absent that, synthesise a single
// implicit `it: Any` parameter. Degrading back to a plain block when
// the closure is never invoked is decided by the caller that holds the
// surrounding context (e.g. the statement parser, when a `{ ... }` is
// used directly as a loop/if body rather than a value).
func (p *Parser) parseBraceBlockOrClosure() ast.Expression {
	at := p.cur.Pos
	scopeID := p.pushClosureScope()
	defer p.popFunc()

	hasParams := p.lookahead(func() bool {
		p.advance() // consume '{'
		for !p.curIs(token.ARROW) {
			if p.curIs(token.RBRACE) || p.curIs(token.EOF) {
				return false
			}
			if !p.curIs(token.IDENT) {
				return false
			}
			p.advance()
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		return p.curIs(token.ARROW)
	})

	p.advance() // consume '{'
	var params []*ast.VarDecl
	implicitIt := false
	if hasParams {
		for !p.curIs(token.ARROW) {
			name := p.cur.Lexeme
			p.advance()
			decl := p.newVarDecl(at, name, ast.RoleParameter)
			p.arena.AddVar(decl)
			params = append(params, decl)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.ARROW)
	} else {
		implicitIt = true
		it := p.newVarDecl(at, "it", ast.RoleParameter)
		params = []*ast.VarDecl{it}
		p.arena.AddVar(it)
	}

	body := p.parseBlockStatements(token.RBRACE)
	p.expect(token.RBRACE)

	return &ast.Closure{ExprBase: ast.ExprBase{At: at}, Params: params, Body: body, HasImplicitIt: implicitIt, ScopeID: scopeID}
}
