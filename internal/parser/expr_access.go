package parser

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/token"
)

// parseFieldAccess handles one `.` / `?.` link of a field-path chain.
// A bare `.name` coerces the identifier to a String field name; the
// parenthesised form `.( expr )` instead preserves expr's own value
// (§4.C precedence-climber notes). When the following token opens a
// call `(`, this is a method call instead of a field access; a `{`
// right after the name calls it with that closure as the only argument.
func (p *Parser) parseFieldAccess(parent ast.Expression, op token.Token) ast.Expression {
	optional := op.Type == token.QDOT
	p.advance() // consume '.'/'?.'

	if p.curIs(token.LPAREN) {
		p.advance()
		wasIgnore := p.ignoreEol
		p.ignoreEol = true
		inner := p.parseExpression(precLowest)
		p.ignoreEol = wasIgnore
		p.expect(token.RPAREN)
		if p.curIs(token.LPAREN) {
			return p.parseMethodCallExpr(parent, "", inner, optional)
		}
		return &ast.FieldAccess{ExprBase: ast.ExprBase{At: op.Pos}, Parent: parent, FieldExpr: inner, IsOptional: optional}
	}

	if !p.curIs(token.IDENT) && !token.TypeKeywords[p.cur.Type] {
		p.errorf("expected field name after '.' but found %q", p.cur.Lexeme)
		return &ast.Noop{ExprBase: ast.ExprBase{At: op.Pos}}
	}
	name := p.cur.Lexeme
	p.advance()

	if p.curIs(token.LBRACE) {
		at := p.cur.Pos
		closure := p.parseBraceBlockOrClosure()
		return &ast.MethodCall{
			ExprBase: ast.ExprBase{At: at}, Target: parent, Method: name,
			IsOptional: optional, Args: []ast.Arg{{Value: closure}},
		}
	}
	if p.curIs(token.LPAREN) {
		return p.parseMethodCallExpr(parent, name, nil, optional)
	}
	return &ast.FieldAccess{ExprBase: ast.ExprBase{At: op.Pos}, Parent: parent, FieldName: name, IsOptional: optional}
}

// parseIndexAccess handles `[expr]` / `?[expr]`, parsed with EOL
// ignored inside the brackets (§4.C "[ ] access parses the inner
// expression with EOL-ignoring enabled").
func (p *Parser) parseIndexAccess(parent ast.Expression, op token.Token) ast.Expression {
	optional := op.Type == token.QBRACKET
	p.advance() // consume '['/'?['
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	idx := p.parseExpression(precLowest)
	p.ignoreEol = wasIgnore
	p.expect(token.RBRACKET)
	return &ast.FieldAccess{ExprBase: ast.ExprBase{At: op.Pos}, Parent: parent, FieldExpr: idx, IsOptional: optional, IsIndex: true}
}

func (p *Parser) parseMethodCallExpr(target ast.Expression, method string, methodExpr ast.Expression, optional bool) ast.Expression {
	at := p.cur.Pos
	args := p.parseArgListParens()
	return &ast.MethodCall{
		ExprBase: ast.ExprBase{At: at}, Target: target, Method: method,
		MethodExpr: methodExpr, IsOptional: optional, Args: args,
	}
}

// parseCallSuffix parses `(args)` applied to callee, producing a direct
// Call node (§4.F "Calls": dispatch shape is resolved later, not here).
func (p *Parser) parseCallSuffix(callee ast.Expression) ast.Expression {
	at := p.cur.Pos
	args := p.parseArgListParens()
	return &ast.Call{ExprBase: ast.ExprBase{At: at}, Callee: callee, Args: args}
}

// parseArgListParens parses `( arg, arg, ... )` with EOL ignored inside
// the parens; an argument may be positional, `name: value` (named), or
// `*expr` (spread).
func (p *Parser) parseArgListParens() []ast.Arg {
	if !p.expect(token.LPAREN) {
		return nil
	}
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	defer func() { p.ignoreEol = wasIgnore }()

	var args []ast.Arg
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseOneArg())
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseOneArg() ast.Arg {
	if p.curIs(token.STAR) {
		p.advance()
		return ast.Arg{Value: p.parseExpression(precAssign), Spread: true}
	}
	if p.curIs(token.IDENT) && p.peekIs(token.COLON) {
		name := p.cur.Lexeme
		p.advance() // ident
		p.advance() // colon
		return ast.Arg{Name: name, Value: p.parseExpression(precAssign)}
	}
	return ast.Arg{Value: p.parseExpression(precAssign)}
}

func (p *Parser) parseRegexInfix(left ast.Expression, op token.Token) ast.Expression {
	negated := op.Type == token.RE_NMTCH
	p.advance() // consume '=~'/'!~'
	if p.curIs(token.REGEX_SUBST_START) {
		return p.parseRegexSubst(left, op)
	}
	if !p.curIs(token.STRING_CONST) && !p.curIs(token.EXPR_STRING_START) {
		p.errorf("expected regex literal after '=~'/'!~'")
		return &ast.Noop{ExprBase: ast.ExprBase{At: op.Pos}}
	}
	pattern := p.parseExpression(precEquality)
	return &ast.RegexMatch{ExprBase: ast.ExprBase{At: op.Pos}, Negated: negated, Target: left, Pattern: pattern}
}

func (p *Parser) parseRegexSubst(left ast.Expression, op token.Token) ast.Expression {
	t := p.cur
	pattern := t.Literal.(string)
	p.advance() // consume REGEX_SUBST_START
	replacement := ""
	if p.curIs(token.REGEX_SUBST_REPLACE) {
		replacement = p.cur.Literal.(string)
		p.advance()
	}
	flags := p.readRegexFlags()
	return &ast.RegexSubst{
		ExprBase: ast.ExprBase{At: op.Pos}, Target: left,
		Pattern:     &ast.Literal{ExprBase: ast.ExprBase{At: t.Pos}, Value: pattern},
		Replacement: &ast.Literal{ExprBase: ast.ExprBase{At: t.Pos}, Value: replacement},
		Flags:       flags,
		Global:      containsRune(flags, 'g'),
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
