package parser

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/token"
)

// parseSimpleAssign handles plain `lhs = rhs`. A parenthesised-tuple LHS
// produces a multi-assign, rewritten directly into a Block (§4.C
// "Multi-assign"); any other LHS produces a plain Assign, or — if the
// LHS is itself a field-path chain — nothing special happens here,
// since a simple `=` never needs the read-modify-write rewrite that
// compound operators require.
func (p *Parser) parseSimpleAssign(left ast.Expression, op token.Token) ast.Expression {
	p.advance() // consume '='
	p.skipEol()
	rhs := p.parseExpression(precAssign - 1) // right-associative
	return &ast.Assign{ExprBase: ast.ExprBase{At: op.Pos}, Target: left, Value: rhs}
}

// parseCompoundAssign rewrites `lhs op= rhs` per §4.C "Lvalue
// rewriting": a simple identifier becomes VarOpAssign; a field-path
// chain `P.f1...fn` becomes FieldOpAssign with Parent = P.f1...f(n-1),
// each access in that prefix flagged CreateIfMissing, and Value = `Noop
// op RHS`.
func (p *Parser) parseCompoundAssign(left ast.Expression, op token.Token) ast.Expression {
	binOp := compoundOpFor[op.Type]
	p.advance() // consume the op= token
	p.skipEol()
	rhs := p.parseExpression(precAssign - 1)
	noop := &ast.Noop{ExprBase: ast.ExprBase{At: op.Pos}}
	value := ast.Expression(&ast.Binary{ExprBase: ast.ExprBase{At: op.Pos}, Op: binOp, Left: noop, Right: rhs})
	if binOp == token.QCOLON {
		// `?=` assigns only when the current value is null: the Noop
		// stands for the current value, tested then replaced.
		value = &ast.Ternary{ExprBase: ast.ExprBase{At: op.Pos}, Cond: &ast.Unary{Op: token.BANG, Operand: noop}, Then: noop, Else: rhs}
	}

	switch target := left.(type) {
	case *ast.Identifier:
		return &ast.VarOpAssign{ExprBase: ast.ExprBase{At: op.Pos}, Target: target, Value: value}
	case *ast.FieldAccess:
		parent := target.Parent
		markCreateIfMissing(parent)
		return &ast.FieldOpAssign{
			ExprBase:   ast.ExprBase{At: op.Pos},
			Parent:     parent,
			FieldName:  target.FieldName,
			FieldExpr:  target.FieldExpr,
			IsIndex:    target.IsIndex,
			IsOptional: target.IsOptional,
			Value:      value,
		}
	default:
		p.errorf("invalid assignment target")
		return &ast.Noop{ExprBase: ast.ExprBase{At: op.Pos}}
	}
}

// markCreateIfMissing flags every FieldAccess in the prefix path
// P.f1...f(n-1) so missing Map entries, List elements, and Instance
// fields can be auto-materialised while walking down to the final
// field (§4.C "Lvalue rewriting").
func markCreateIfMissing(e ast.Expression) {
	fa, ok := e.(*ast.FieldAccess)
	if !ok {
		return
	}
	fa.Flags().CreateIfMissing = true
	markCreateIfMissing(fa.Parent)
}

// parseMultiAssignTargets is invoked by the statement parser when a
// parenthesised identifier/`var`-prefixed list is immediately followed
// by `=` at statement level: `(x, y) = expr` / `def (x, y) = expr`.
// Per §4.C it rewrites directly into a Block: one synthesised temp
// holding the RHS, then one VarDeclStmt per target reading `temp[i]`.
func (p *Parser) parseMultiAssignTargets(names []string, isVarDecl bool, declaredTypes []*ast.TypeExpr, at token.Pos) *ast.Block {
	p.expect(token.ASSIGN)
	p.skipEol()
	rhs := p.parseExpression(precAssign - 1)

	tempName := "$multiassign$tmp"
	tempDecl := p.newVarDecl(at, tempName, 0)
	tempDecl.Init = rhs
	p.arena.AddVar(tempDecl)

	block := &ast.Block{StmtBase: ast.StmtBase{At: at}}
	block.Statements = append(block.Statements, &ast.VarDeclStmt{StmtBase: ast.StmtBase{At: at}, Decls: []*ast.VarDecl{tempDecl}})

	tempRef := &ast.Identifier{ExprBase: ast.ExprBase{At: at}, Name: tempName, DeclIdx: -1}
	for i, name := range names {
		idx := &ast.Literal{ExprBase: ast.ExprBase{At: at}, Value: int64(i)}
		init := &ast.FieldAccess{ExprBase: ast.ExprBase{At: at}, Parent: tempRef, FieldExpr: idx, IsIndex: true}
		decl := p.newVarDecl(at, name, 0) // plain local, no roles; type comes from the Resolver
		decl.Init = init
		p.arena.AddVar(decl)
		block.Statements = append(block.Statements, &ast.VarDeclStmt{StmtBase: ast.StmtBase{At: at}, Decls: []*ast.VarDecl{decl}})
	}
	_ = isVarDecl
	return block
}
