package resolver

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/jtype"
)

// resolveFuncDecl is the per-function entry point: it binds fd's
// parameters into a fresh scope, resolves default-value expressions and
// the body, and stamps the §6.2 wrapper-form fields (ImplementingClass/
// Method here; IsAsync is filled later by the fixed-point pass in
// async.go, NeedsLocation incrementally as the body walk finds
// throwing expressions).
func (r *Resolver) resolveFuncDecl(fd *ast.FuncDecl, implementingClass string) {
	fd.ImplementingClass = implementingClass
	fd.ImplementingMethod = fd.Name

	fnIdx := r.funcArenaIdx(fd)

	r.pushScope()
	r.pushFunc(fnIdx, nil)

	for i := range fd.Params {
		param := &fd.Params[i]
		param.Decl.DeclaredType = r.resolveTypeExpr(param.Decl.DeclaredTypeExpr)
		if param.Default != nil {
			r.resolveExpr(param.Default)
		}
		if u, ok := param.Decl.DeclaredType.(*jtype.Unknown); ok && !u.Resolved() {
			u.Resolve(jtype.AnyT) // a parameter with no type annotation holds Any
		}
		r.declareVar(param.Decl)
	}

	if fd.ReturnType != nil {
		_ = r.resolveTypeExpr(fd.ReturnType) // validated for side effects (unknown class name errors)
	}

	r.resolveBlock(fd.Body)

	r.popFunc()
	r.popScope()
}

// funcArenaIdx finds fd's arena index by linear scan; see classes.go's
// varArenaIdx for why FuncDecl lookups need this instead of a stored
// index — parseFuncDecl registers the FuncDecl before its Params/Body
// exist, so the index has to be rediscovered once the Resolver receives
// the finished tree.
func (r *Resolver) funcArenaIdx(fd *ast.FuncDecl) int {
	for i := 0; ; i++ {
		f := r.arena.Func(i)
		if f == nil {
			return -1
		}
		if f == fd {
			return i
		}
	}
}

// declareVar registers decl's arena index (see classes.go's varArenaIdx)
// under its name in the current scope.
func (r *Resolver) declareVar(decl *ast.VarDecl) {
	if idx := r.varArenaIdx(decl); idx >= 0 {
		r.declare(decl.Name, idx)
	}
}

// markNeedsLocation flags the function currently being resolved as
// needing the invoking location threaded in (§6.2 needsLocation):
// anything that can raise a RuntimeError needs a source position to
// attach to it.
func (r *Resolver) markNeedsLocation() {
	fd := r.arena.Func(r.curFunc().funcIdx)
	if fd != nil {
		fd.NeedsLocation = true
	}
}
