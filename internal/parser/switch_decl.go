package parser

import (
	"fmt"

	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/token"
)

// parseSwitch parses `switch (subject) { patterns [if guard] -> body
// ... }` as an expression (§8: switch evaluates to the matched case's
// body value). Literal patterns must be unique across the switch
// (§4.C); duplicates are reported once the whole switch has parsed.
func (p *Parser) parseSwitch() ast.Expression {
	at := p.cur.Pos
	p.advance() // consume 'switch'
	p.expect(token.LPAREN)
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	subject := p.parseExpression(precLowest)
	p.ignoreEol = wasIgnore
	p.expect(token.RPAREN)

	sw := &ast.Switch{ExprBase: ast.ExprBase{At: at}, Subject: subject}
	p.expect(token.LBRACE)
	p.skipEol()
	seenLiterals := map[string]bool{}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		c := p.parseSwitchCase()
		for _, pat := range c.Patterns {
			if pat.Kind == ast.PatternWildcard {
				if sw.Default == nil {
					cc := c
					sw.Default = &cc
				}
				continue
			}
			if pat.Kind == ast.PatternLiteral {
				key := fmt.Sprintf("%v", literalKey(pat.Literal))
				if seenLiterals[key] {
					p.errorf("duplicate literal pattern %v in switch", key)
				}
				seenLiterals[key] = true
			}
		}
		sw.Cases = append(sw.Cases, c)
		p.skipEol()
	}
	p.expect(token.RBRACE)
	return sw
}

func literalKey(e ast.Expression) interface{} {
	if lit, ok := e.(*ast.Literal); ok {
		return lit.Value
	}
	return e
}

func (p *Parser) parseSwitchCase() ast.Case {
	at := p.cur.Pos
	c := ast.Case{At: at}
	c.Patterns = append(c.Patterns, p.parseOnePattern())
	for p.curIs(token.COMMA) {
		p.advance()
		c.Patterns = append(c.Patterns, p.parseOnePattern())
	}
	if p.curIs(token.KW_IF) {
		p.advance()
		c.Guard = p.parseExpression(precLowest)
	}
	p.expect(token.ARROW)
	c.Body = p.parseExpression(precLowest)
	return c
}

// parseOnePattern recognises the pattern forms of §4.C: literals, types
// (with optional constructor-argument pattern), regex, `_` wildcard,
// binding identifiers, list/map patterns, capture-group identifiers, or
// `$` expression blocks.
func (p *Parser) parseOnePattern() ast.Pattern {
	at := p.cur.Pos
	switch {
	case p.curIs(token.IDENT) && p.cur.Lexeme == "_":
		p.advance()
		return ast.Pattern{At: at, Kind: ast.PatternWildcard}
	case p.curIs(token.CAPTURE_IDENT):
		name := p.cur.Lexeme
		p.advance()
		return ast.Pattern{At: at, Kind: ast.PatternCapture, BindingName: name}
	case p.curIs(token.LBRACKET):
		return p.parseListPattern(at)
	case p.curIs(token.IDENT) && startsUpper(p.cur.Lexeme):
		return p.parseTypePattern(at)
	case p.curIs(token.IDENT):
		name := p.cur.Lexeme
		p.advance()
		return ast.Pattern{At: at, Kind: ast.PatternBinding, BindingName: name}
	default:
		expr := p.parseExpression(precTernary)
		return ast.Pattern{At: at, Kind: ast.PatternLiteral, Literal: expr}
	}
}

func (p *Parser) parseTypePattern(at token.Pos) ast.Pattern {
	typeName := p.parseClassPath()
	pat := ast.Pattern{At: at, Kind: ast.PatternType, TypeName: typeName}
	if p.curIs(token.LPAREN) {
		p.advance()
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			pat.CtorArgs = append(pat.CtorArgs, p.parseOnePattern())
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RPAREN)
	}
	return pat
}

func (p *Parser) parseListPattern(at token.Pos) ast.Pattern {
	p.advance() // consume '['
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	defer func() { p.ignoreEol = wasIgnore }()
	pat := ast.Pattern{At: at, Kind: ast.PatternList}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		pat.ListElems = append(pat.ListElems, p.parseOnePattern())
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return pat
}
