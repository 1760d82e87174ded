package parser

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/token"
)

// parseFuncDecl parses the parameter list and body of `Type name(params)
// { body }`, already past the return type and name.
func (p *Parser) parseFuncDecl(at token.Pos, retType *ast.TypeExpr, name string, isStatic, isFinal bool) *ast.FuncDecl {
	fd := &ast.FuncDecl{
		StmtBase: ast.StmtBase{At: at}, Name: name, ReturnType: retType,
		IsStatic: isStatic, IsFinal: isFinal,
	}
	fnIdx := p.arena.AddFunc(fd)
	p.pushFunc(fnIdx)
	fd.Params = p.parseParamList()
	fd.Body = p.parseBlockStatement()
	p.popFunc()
	for i := range fd.Params {
		p.arena.AddVar(fd.Params[i].Decl)
	}
	return fd
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LPAREN)
	wasIgnore := p.ignoreEol
	p.ignoreEol = true
	defer func() { p.ignoreEol = wasIgnore }()

	var params []ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		params = append(params, p.parseOneParam())
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseOneParam() ast.Param {
	at := p.cur.Pos
	declType := p.tryParseTypeExpr()
	name := ""
	if p.curIs(token.IDENT) {
		name = p.cur.Lexeme
		p.advance()
	} else {
		p.errorf("expected parameter name")
	}
	decl := p.newVarDecl(at, name, ast.RoleParameter)
	decl.DeclaredTypeExpr = declType
	var def ast.Expression
	if p.curIs(token.ASSIGN) {
		p.advance()
		def = p.parseExpression(precAssign)
	}
	return ast.Param{Decl: decl, Default: def}
}
