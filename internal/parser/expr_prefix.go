package parser

import (
	"math/big"
	"strings"

	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/token"
)

// parsePrefix dispatches the leading term of an expression: literals,
// identifiers, unary operators (including the cast-recognition
// branch), grouped expressions, list/map literals, closures/blocks, and
// the keyword-led forms (print, die, eval, new, switch).
func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case token.INT_CONST, token.LONG_CONST, token.DOUBLE_CONST, token.DECIMAL_CONST,
		token.BYTE_CONST, token.STRING_CONST, token.TRUE_CONST, token.FALSE_CONST, token.NULL_CONST:
		return p.parseLiteral()
	case token.EXPR_STRING_START:
		return p.parseExprString()
	case token.CAPTURE_IDENT:
		return p.parseCaptureIdentifier()
	case token.IDENT, token.KW_IT, token.KW_THIS, token.KW_SUPER:
		return p.parseIdentifierOrCall()
	case token.LPAREN:
		return p.parseGroupedOrCast()
	case token.LBRACKET:
		return p.parseListOrMapLiteral()
	case token.LBRACE:
		return p.parseBraceBlockOrClosure()
	case token.MINUS, token.BANG, token.TILDE:
		return p.parseUnary()
	case token.INCR, token.DECR:
		return p.parsePrefixIncrDecr()
	case token.REGEX_SUBST_START:
		return p.parseImplicitItRegex()
	case token.KW_PRINT, token.KW_PRINTLN:
		return p.parsePrint()
	case token.KW_DIE:
		return p.parseDie()
	case token.KW_EVAL:
		return p.parseEval()
	case token.KW_NEW:
		return p.parseNew()
	case token.KW_SWITCH:
		return p.parseSwitch()
	case token.KW_NOT:
		at := p.cur.Pos
		p.advance()
		operand := p.parseExpression(precUnary)
		return &ast.Unary{ExprBase: ast.ExprBase{At: at}, Op: token.BANG, Operand: operand}
	default:
		p.errorf("unexpected token %q in expression", p.cur.Lexeme)
		p.advance()
		return &ast.Noop{}
	}
}

func (p *Parser) parseLiteral() ast.Expression {
	t := p.cur
	at := t.Pos
	p.advance()
	return &ast.Literal{ExprBase: ast.ExprBase{At: at}, Value: narrowLiteral(t.Type, t.Literal)}
}

// narrowLiteral converts the lexer's uniform int64 decode of INT_CONST
// down to Go's int so literalType (internal/resolver) can tell an
// unsuffixed int literal apart from an explicit L-suffixed long one;
// every other literal kind is already typed correctly by the lexer.
func narrowLiteral(tt token.Type, v interface{}) interface{} {
	if tt == token.INT_CONST {
		if n, ok := v.(int64); ok {
			return int(n)
		}
	}
	return v
}

func (p *Parser) parseCaptureIdentifier() ast.Expression {
	t := p.cur
	at := t.Pos
	p.advance()
	idx := 0
	for _, c := range t.Lexeme[1:] {
		idx = idx*10 + int(c-'0')
	}
	return &ast.Identifier{ExprBase: ast.ExprBase{At: at}, Name: t.Lexeme, IsCapture: true, CaptureIdx: idx, DeclIdx: -1}
}

func (p *Parser) parseIdentifierOrCall() ast.Expression {
	t := p.cur
	at := t.Pos
	name := t.Lexeme
	p.advance()
	id := &ast.Identifier{ExprBase: ast.ExprBase{At: at}, Name: name, DeclIdx: -1}
	if p.curIs(token.LPAREN) {
		return p.parseCallSuffix(id)
	}
	return id
}

func (p *Parser) parseUnary() ast.Expression {
	op := p.cur
	p.advance()
	operand := p.parseExpression(precUnary)
	return &ast.Unary{ExprBase: ast.ExprBase{At: op.Pos}, Op: op.Type, Operand: operand}
}

func (p *Parser) parsePrefixIncrDecr() ast.Expression {
	op := p.cur
	p.advance()
	operand := p.parseExpression(precUnary)
	return &ast.Unary{ExprBase: ast.ExprBase{At: op.Pos}, Op: op.Type, Operand: operand}
}

// parseGroupedOrCast resolves the cast-vs-parenthesised-expression
// ambiguity (§4.C "Cast (Type)expr vs parenthesised expression vs
// tuple-LHS of multi-assign"). It first lookahead-probes for `(TypeExpr)
// followed by a term that can start an expression`; if that probe fails
// it falls back to an ordinary parenthesised expression, and if the
// parenthesised content is itself a comma list it is the LHS of a
// multi-assign handled by the statement-level caller.
func (p *Parser) parseGroupedOrCast() ast.Expression {
	at := p.cur.Pos

	isCast := p.lookahead(func() bool {
		p.advance() // consume '('
		te := p.tryParseTypeExpr()
		if te == nil {
			return false
		}
		if !p.curIs(token.RPAREN) {
			return false
		}
		p.advance() // consume ')'
		return p.startsExpression()
	})
	if isCast {
		p.advance() // consume '('
		castType := p.tryParseTypeExpr()
		p.expect(token.RPAREN)
		operand := p.parseExpression(precUnary)
		return &ast.Unary{ExprBase: ast.ExprBase{At: at}, Op: token.LPAREN, Operand: operand, CastTo: castType}
	}

	p.advance() // consume '('
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	p.skipEol()
	inner := p.parseExpression(precLowest)
	p.skipEol()
	p.ignoreEol = wasIgnore
	if !p.expect(token.RPAREN) {
		return inner
	}
	if inner != nil {
		inner.Flags().WasNested = true
	}
	return inner
}

func (p *Parser) startsExpression() bool {
	switch p.cur.Type {
	case token.IDENT, token.INT_CONST, token.LONG_CONST, token.DOUBLE_CONST, token.DECIMAL_CONST,
		token.BYTE_CONST, token.STRING_CONST, token.TRUE_CONST, token.FALSE_CONST, token.NULL_CONST,
		token.LPAREN, token.LBRACKET, token.LBRACE, token.MINUS, token.BANG, token.TILDE,
		token.INCR, token.DECR, token.KW_IT, token.KW_THIS, token.KW_SUPER, token.KW_NEW,
		token.KW_NOT, token.CAPTURE_IDENT, token.EXPR_STRING_START:
		return true
	}
	return false
}

// parseClassPath recognises `a.b.c.D`: lowercase package segments
// followed by a capitalised class name (§4.C "static class path ... vs
// a field chain"); it is only invoked from contexts (new, instanceof,
// extends) where a class path is grammatically required, so no
// lookahead is needed to disambiguate against a field chain there.
func (p *Parser) parseClassPath() string {
	var parts []string
	for {
		if !p.curIs(token.IDENT) {
			p.errorf("expected class name but found %q", p.cur.Lexeme)
			break
		}
		parts = append(parts, p.cur.Lexeme)
		p.advance()
		if p.curIs(token.DOT) && p.peekIs(token.IDENT) {
			p.advance() // consume '.'
			continue
		}
		break
	}
	return strings.Join(parts, ".")
}

func startsUpper(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

func (p *Parser) parseNew() ast.Expression {
	at := p.cur.Pos
	p.advance() // consume 'new'
	classPath := p.parseClassPath()
	args := p.parseArgListParens()
	return &ast.New{ExprBase: ast.ExprBase{At: at}, ClassPath: classPath, Args: args}
}

func (p *Parser) parsePrint() ast.Expression {
	at := p.cur.Pos
	newline := p.cur.Type == token.KW_PRINTLN
	p.advance()
	var value ast.Expression
	if p.startsExpression() {
		value = p.parseExpression(precLowest)
	}
	return &ast.Print{ExprBase: ast.ExprBase{At: at}, Value: value, Newline: newline}
}

func (p *Parser) parseDie() ast.Expression {
	at := p.cur.Pos
	p.advance()
	msg := p.parseExpression(precLowest)
	return &ast.Die{ExprBase: ast.ExprBase{At: at}, Message: msg}
}

func (p *Parser) parseEval() ast.Expression {
	at := p.cur.Pos
	p.advance()
	if !p.expect(token.LPAREN) {
		return &ast.Noop{ExprBase: ast.ExprBase{At: at}}
	}
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	src := p.parseExpression(precLowest)
	var globals ast.Expression
	if p.curIs(token.COMMA) {
		p.advance()
		globals = p.parseExpression(precLowest)
	}
	p.ignoreEol = wasIgnore
	p.expect(token.RPAREN)
	return &ast.Eval{ExprBase: ast.ExprBase{At: at}, Source: src, Globals: globals}
}

// parseImplicitItRegex handles a bare `/pattern/flags` with no explicit
// `lhs =~`: the LHS is synthesized as `it` (§4.C "=~ with a slashy regex
// on RHS rewrites: when the RHS is an implicit-it regex, the LHS
// replaces it").
func (p *Parser) parseImplicitItRegex() ast.Expression {
	t := p.cur
	at := t.Pos
	pattern := t.Literal.(string)
	p.advance()
	flags := p.readRegexFlags()
	it := &ast.Identifier{ExprBase: ast.ExprBase{At: at}, Name: "it", DeclIdx: -1}
	return &ast.RegexMatch{
		ExprBase: ast.ExprBase{At: at}, Target: it,
		Pattern:    &ast.Literal{ExprBase: ast.ExprBase{At: at}, Value: pattern},
		Flags:      flags,
		ImplicitIt: true,
	}
}

func (p *Parser) readRegexFlags() string {
	if p.curIs(token.IDENT) && isFlagsIdent(p.cur.Lexeme) {
		f := p.cur.Lexeme
		p.advance()
		return f
	}
	return ""
}

func isFlagsIdent(s string) bool {
	for _, c := range s {
		if c != 'g' && c != 'i' && c != 'm' && c != 's' {
			return false
		}
	}
	return len(s) > 0
}

// tryParseTypeExpr parses a type annotation (builtin keyword, class
// path, or array-of) at the current position, or returns nil if what
// follows cannot be a type. Used both for declared-type parsing and the
// cast-recognition lookahead probe.
func (p *Parser) tryParseTypeExpr() *ast.TypeExpr {
	at := p.cur.Pos
	var te *ast.TypeExpr
	switch {
	case token.TypeKeywords[p.cur.Type] && p.cur.Type != token.KW_VAR:
		te = &ast.TypeExpr{At: at, Builtin: p.cur.Type}
		p.advance()
	case (p.cur.Type == token.KW_VAR || p.cur.Type == token.KW_DEF) && !p.peekIs(token.LPAREN):
		// `def` is a bare type-inferred declaration, same as `var`
		// (§4.C "typed variable declaration ... def infers the type from
		// the initializer"). A following '(' is left unconsumed for the
		// `def (x, y) = expr` multi-assign shorthand instead.
		te = &ast.TypeExpr{At: at, Builtin: token.KW_VAR}
		p.advance()
	case p.curIs(token.IDENT) && startsUpper(p.cur.Lexeme):
		cp := p.parseClassPath()
		te = &ast.TypeExpr{At: at, ClassPath: cp}
	default:
		return nil
	}
	for p.curIs(token.LBRACKET) && p.peekIs(token.RBRACKET) {
		p.advance() // '['
		p.advance() // ']'
		te = &ast.TypeExpr{At: at, Elem: te}
	}
	return te
}

// foldNumericLiteral is used by the parser's constant-folding of
// literal list/map entries (§4.C "Constants and literal folding").
func foldNumericLiteral(lit interface{}) (interface{}, bool) {
	switch v := lit.(type) {
	case int64, float64, string, bool, *big.Int, byte:
		return v, true
	}
	return nil, false
}
