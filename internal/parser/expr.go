package parser

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/token"
)

// parseExpression is the precedence climber of §4.C: parse a prefix
// term, then repeatedly fold in infix/postfix operators whose
// precedence exceeds minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxRecursionDepth {
		p.errorf("expression too deeply nested")
		return &ast.Noop{}
	}

	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		if p.curIs(token.QUESTION) && p.peekPrecedenceIsTernaryCandidate() {
			left = p.parseTernary(left)
			continue
		}
		pr, ok := binaryPrecedence[p.cur.Type]
		if !ok || pr <= minPrec {
			break
		}
		left = p.parseInfix(left, pr)
		if left == nil {
			return nil
		}
	}
	return left
}

// peekPrecedenceIsTernaryCandidate exists purely so the ternary check
// above reads like the other precedence tests; QUESTION is always
// ternary at expression-operator position (postfix `?.`/`?[` are
// lexed as single QDOT/QBRACKET tokens so they never collide here).
func (p *Parser) peekPrecedenceIsTernaryCandidate() bool { return true }

func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	at := p.cur.Pos
	p.advance() // consume '?'
	p.skipEol()
	then := p.parseExpression(precTernary - 1)
	p.skipEol()
	if !p.expect(token.COLON) {
		return &ast.Ternary{ExprBase: ast.ExprBase{At: at}, Cond: cond}
	}
	p.skipEol()
	els := p.parseExpression(precTernary - 1) // right-associative: recurse at same level
	return &ast.Ternary{ExprBase: ast.ExprBase{At: at}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseInfix(left ast.Expression, prec int) ast.Expression {
	op := p.cur
	switch {
	case assignOps[op.Type]:
		return p.parseCompoundAssign(left, op)
	case op.Type == token.ASSIGN:
		return p.parseSimpleAssign(left, op)
	case op.Type == token.INCR, op.Type == token.DECR:
		p.advance()
		return &ast.Postfix{ExprBase: ast.ExprBase{At: op.Pos}, Op: op.Type, Operand: left}
	case op.Type == token.DOT, op.Type == token.QDOT:
		return p.parseFieldAccess(left, op)
	case op.Type == token.LBRACKET, op.Type == token.QBRACKET:
		return p.parseIndexAccess(left, op)
	case op.Type == token.LPAREN:
		return p.parseCallSuffix(left)
	case op.Type == token.KW_INSTANCEOF:
		return p.parseInstanceOf(left, op)
	case op.Type == token.RE_MATCH, op.Type == token.RE_NMTCH:
		return p.parseRegexInfix(left, op)
	default:
		p.advance() // consume operator
		p.skipEol()
		right := p.parseExpression(prec)
		return &ast.Binary{ExprBase: ast.ExprBase{At: op.Pos}, Op: op.Type, Left: left, Right: right}
	}
}

func (p *Parser) parseInstanceOf(left ast.Expression, op token.Token) ast.Expression {
	p.advance() // consume 'instanceof'
	classPath := p.parseClassPath()
	return &ast.InstanceOf{ExprBase: ast.ExprBase{At: op.Pos}, Target: left, ClassPath: classPath}
}
