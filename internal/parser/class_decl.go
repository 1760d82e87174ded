package parser

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/token"
)

// parseClassDecl parses a class declaration. Only legal at script top
// level or nested inside another class (§4.C "Class declarations");
// that placement constraint is enforced by the caller walking the AST,
// not here, since the parser accepts a ClassDecl wherever a statement
// is accepted and leaves placement validation to the Resolver pass.
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	at := p.cur.Pos
	p.advance() // consume 'class'
	name := ""
	if p.curIs(token.IDENT) {
		name = p.cur.Lexeme
		p.advance()
	} else {
		p.errorf("expected class name")
	}

	extends := ""
	if p.curIs(token.KW_EXTENDS) {
		p.advance()
		extends = p.parseClassPath()
	}

	decl := &ast.ClassDecl{StmtBase: ast.StmtBase{At: at}, Name: name, ExtendsPath: extends}
	p.expect(token.LBRACE)
	p.skipEol()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.parseClassMember(decl)
		p.skipEol()
	}
	p.expect(token.RBRACE)
	return decl
}

func (p *Parser) parseClassMember(owner *ast.ClassDecl) {
	at := p.cur.Pos

	if p.curIs(token.KW_CLASS) {
		inner := p.parseClassDecl()
		owner.Inner = append(owner.Inner, inner)
		return
	}

	isStatic, isFinal := false, false
	for p.curIs(token.KW_STATIC) || p.curIs(token.KW_FINAL) {
		if p.curIs(token.KW_STATIC) {
			isStatic = true
		} else {
			isFinal = true
		}
		p.advance()
	}
	if isStatic && isFinal {
		p.errorf("'static final' is not a valid field/method modifier combination")
	}

	declType := p.tryParseTypeExpr()
	if declType == nil {
		p.errorf("expected type in class member declaration")
		p.skipToMemberBoundary()
		return
	}
	if !p.curIs(token.IDENT) {
		p.errorf("expected member name")
		p.skipToMemberBoundary()
		return
	}
	name := p.cur.Lexeme
	p.advance()

	if p.curIs(token.LPAREN) {
		method := p.parseFuncDecl(at, declType, name, isStatic, isFinal)
		owner.Methods = append(owner.Methods, method)
		return
	}

	decl := p.newVarDecl(at, name, ast.RoleField)
	decl.DeclaredTypeExpr = declType
	if isStatic {
		decl.Roles |= ast.RoleStatic
	}
	if isFinal {
		decl.Roles |= ast.RoleFinal
	}
	if p.curIs(token.ASSIGN) {
		p.advance()
		decl.Init = p.parseExpression(precAssign)
	}
	p.arena.AddVar(decl)
	owner.Fields = append(owner.Fields, ast.FieldDecl{Decl: decl, Type: declType})

	for p.curIs(token.COMMA) {
		p.advance()
		if !p.curIs(token.IDENT) {
			p.errorf("expected field name after ','")
			break
		}
		fname := p.cur.Lexeme
		fat := p.cur.Pos
		p.advance()
		fdecl := p.newVarDecl(fat, fname, decl.Roles)
		fdecl.DeclaredTypeExpr = declType
		if p.curIs(token.ASSIGN) {
			p.advance()
			fdecl.Init = p.parseExpression(precAssign)
		}
		p.arena.AddVar(fdecl)
		owner.Fields = append(owner.Fields, ast.FieldDecl{Decl: fdecl, Type: declType})
	}
}

func (p *Parser) skipToMemberBoundary() {
	for !p.curIs(token.EOL, token.SEMI) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.advance()
	}
}
