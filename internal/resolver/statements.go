package resolver

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/jtype"
)

// resolveStmt dispatches over every StmtKind (§3.4), mutating the AST
// in place exactly as resolveExpr does for expressions.
func (r *Resolver) resolveStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ClassDecl:
		if _, ok := r.classesByName[s.Name]; !ok {
			r.registerClass(s)
		}
		if s.Descriptor == nil {
			r.resolveClassDecl(s)
		}
	case *ast.FuncDecl:
		if _, ok := r.funcsByName[s.Name]; !ok {
			r.funcsByName[s.Name] = s
		}
		r.resolveFuncDecl(s, "")
	case *ast.VarDeclStmt:
		r.resolveVarDeclStmt(s)
	case *ast.Block:
		r.resolveBlock(s)
	case *ast.For:
		r.resolveFor(s)
	case *ast.While:
		r.pushScope()
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Body)
		r.popScope()
	case *ast.DoUntil:
		r.pushScope()
		r.resolveBlock(s.Body)
		r.resolveExpr(s.Cond)
		r.popScope()
	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Then)
		if s.Else != nil {
			r.resolveBlock(s.Else)
		}
	case *ast.Break, *ast.Continue:
		// no sub-nodes; label validity is a placement concern left to the
		// emitter's block-scanning pass (loops/labels aren't modelled in
		// the resolver's scope stack).
	case *ast.Return:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *ast.ExprStmt:
		if s.Expr != nil {
			r.resolveExpr(s.Expr)
		}
	}
}

func (r *Resolver) resolveBlock(b *ast.Block) {
	r.pushScope()
	for _, stmt := range b.Statements {
		r.resolveStmt(stmt)
	}
	r.popScope()
}

func (r *Resolver) resolveVarDeclStmt(s *ast.VarDeclStmt) {
	for _, decl := range s.Decls {
		declType := r.resolveTypeExpr(decl.DeclaredTypeExpr)
		decl.DeclaredType = declType
		if decl.Init != nil {
			r.resolveExpr(decl.Init)
			if u, ok := declType.(*jtype.Unknown); ok && !u.Resolved() {
				u.Resolve(decl.Init.InferredType())
			}
		}
		r.declareVar(decl)
	}
}

func (r *Resolver) resolveFor(s *ast.For) {
	r.pushScope()
	if s.Init != nil {
		r.resolveStmt(s.Init)
	}
	if s.Cond != nil {
		r.resolveExpr(s.Cond)
	}
	for _, u := range s.Updates {
		r.resolveExpr(u)
	}
	r.resolveBlock(s.Body)
	r.popScope()
}
