package resolver

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/jtype"
	"github.com/jactl-lang/jactl/internal/token"
)

// resolveExpr dispatches over every ExprKind (§3.4), filling in each
// node's value type, isAsync, constValue (§6.2), and — for Identifier —
// the resolved declaration index. isResultUsed is written only by the
// parser, which sets it false at statement boundaries (ExprStmt); nothing
// sets it true, so it is false on every node. The Resolver doesn't
// revisit it.
func (r *Resolver) resolveExpr(expr ast.Expression) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.Literal:
		e.SetInferredType(literalType(e.Value))
		e.Flags().IsConst = true
		e.Flags().ConstValue = e.Value

	case *ast.ListLiteral:
		for _, el := range e.Elements {
			r.resolveExpr(el)
			e.Flags().IsAsync = e.Flags().IsAsync || el.Flags().IsAsync
		}
		e.SetInferredType(jtype.ListT)

	case *ast.MapLiteral:
		for _, entry := range e.Entries {
			if entry.Key != nil {
				r.resolveExpr(entry.Key)
			}
			r.resolveExpr(entry.Value)
			e.Flags().IsAsync = e.Flags().IsAsync || entry.Value.Flags().IsAsync
		}
		e.SetInferredType(jtype.MapT)

	case *ast.Identifier:
		r.resolveIdentifier(e)

	case *ast.ExprString:
		for _, part := range e.Parts {
			if part.Expr != nil {
				r.resolveExpr(part.Expr)
				e.Flags().IsAsync = e.Flags().IsAsync || part.Expr.Flags().IsAsync
			}
		}
		e.SetInferredType(jtype.StringT)

	case *ast.Binary:
		r.resolveBinary(e)

	case *ast.Unary:
		r.resolveUnary(e)

	case *ast.Postfix:
		r.resolveExpr(e.Operand)
		e.SetInferredType(e.Operand.InferredType())
		e.Flags().IsAsync = e.Operand.Flags().IsAsync

	case *ast.Ternary:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
		e.SetInferredType(jtype.CommonSuperType(e.Then.InferredType(), e.Else.InferredType()))
		e.Flags().IsAsync = e.Cond.Flags().IsAsync || e.Then.Flags().IsAsync || e.Else.Flags().IsAsync

	case *ast.FieldAccess:
		r.resolveExpr(e.Parent)
		if e.FieldExpr != nil {
			r.resolveExpr(e.FieldExpr)
		}
		e.SetInferredType(jtype.AnyT)
		e.Flags().IsAsync = e.Parent.Flags().IsAsync
		r.markNeedsLocation()

	case *ast.Assign:
		r.resolveExpr(e.Target)
		r.resolveExpr(e.Value)
		e.SetInferredType(e.Target.InferredType())
		e.Flags().IsAsync = e.Target.Flags().IsAsync || e.Value.Flags().IsAsync

	case *ast.Noop:
		// Resolved lazily: the emitter substitutes the target's current
		// value; the Resolver has no target context to infer a type from
		// here, so it leaves Noop untyped (Any) rather than guessing.
		e.SetInferredType(jtype.AnyT)

	case *ast.FieldOpAssign:
		r.resolveExpr(e.Parent)
		if e.FieldExpr != nil {
			r.resolveExpr(e.FieldExpr)
		}
		r.resolveExpr(e.Value)
		e.SetInferredType(e.Value.InferredType())
		e.Flags().IsAsync = e.Parent.Flags().IsAsync || e.Value.Flags().IsAsync
		r.markNeedsLocation()

	case *ast.VarOpAssign:
		r.resolveExpr(e.Target)
		r.resolveExpr(e.Value)
		e.SetInferredType(e.Value.InferredType())
		e.Flags().IsAsync = e.Value.Flags().IsAsync

	case *ast.RegexMatch:
		r.resolveExpr(e.Target)
		r.resolveExpr(e.Pattern)
		e.SetInferredType(jtype.Primitive{Prim: jtype.PrimBoolean})
		e.Flags().IsAsync = e.Target.Flags().IsAsync || e.Pattern.Flags().IsAsync
		r.markNeedsLocation()

	case *ast.RegexSubst:
		r.resolveExpr(e.Target)
		r.resolveExpr(e.Pattern)
		r.resolveExpr(e.Replacement)
		e.SetInferredType(jtype.StringT)
		e.Flags().IsAsync = e.Target.Flags().IsAsync
		r.markNeedsLocation()

	case *ast.Call:
		r.resolveCall(e)

	case *ast.MethodCall:
		r.resolveExpr(e.Target)
		for i := range e.Args {
			r.resolveExpr(e.Args[i].Value)
			e.Flags().IsAsync = e.Flags().IsAsync || e.Args[i].Value.Flags().IsAsync
		}
		e.SetInferredType(jtype.AnyT)
		e.Flags().IsAsync = e.Flags().IsAsync || e.Target.Flags().IsAsync
		r.recordCall(e.Method)
		r.markNeedsLocation()

	case *ast.New:
		for i := range e.Args {
			r.resolveExpr(e.Args[i].Value)
			e.Flags().IsAsync = e.Flags().IsAsync || e.Args[i].Value.Flags().IsAsync
		}
		e.SetInferredType(r.resolveClassPathType(e.ClassPath))
		r.checkNewArgs(e)
		r.markNeedsLocation()

	case *ast.InstanceOf:
		r.resolveExpr(e.Target)
		e.SetInferredType(jtype.Primitive{Prim: jtype.PrimBoolean})
		e.Flags().IsAsync = e.Target.Flags().IsAsync

	case *ast.Closure:
		r.resolveClosure(e)

	case *ast.Print:
		r.resolveExpr(e.Value)
		e.SetInferredType(jtype.Primitive{Prim: jtype.PrimBoolean})
		e.Flags().IsAsync = e.Value.Flags().IsAsync

	case *ast.Die:
		r.resolveExpr(e.Message)
		e.SetInferredType(jtype.AnyT)
		e.Flags().IsAsync = e.Message.Flags().IsAsync
		r.markNeedsLocation()

	case *ast.Eval:
		r.resolveExpr(e.Source)
		if e.Globals != nil {
			r.resolveExpr(e.Globals)
		}
		e.SetInferredType(jtype.AnyT)
		e.Flags().IsAsync = true // evalScript may itself suspend (§6.3)
		r.markNeedsLocation()

	case *ast.Switch:
		r.resolveSwitch(e)
	}
}

func literalType(v interface{}) jtype.Type {
	switch v.(type) {
	case bool:
		return jtype.Primitive{Prim: jtype.PrimBoolean}
	case int8, byte:
		return jtype.Primitive{Prim: jtype.PrimByte}
	case int, int32:
		return jtype.Primitive{Prim: jtype.PrimInt}
	case int64:
		return jtype.Primitive{Prim: jtype.PrimLong}
	case float64, float32:
		return jtype.Primitive{Prim: jtype.PrimDouble}
	case string:
		return jtype.StringT
	case nil:
		return jtype.AnyT
	default:
		return jtype.AnyT
	}
}

func (r *Resolver) resolveIdentifier(e *ast.Identifier) {
	if e.IsCapture {
		e.SetInferredType(jtype.StringT)
		return
	}
	if idx, ok := r.lookup(e.Name); ok {
		e.DeclIdx = idx
		if decl := r.arena.Var(idx); decl != nil {
			t := decl.DeclaredType
			if u, ok := t.(*jtype.Unknown); ok && u.Resolved() {
				t = u.Delegate()
			}
			e.SetInferredType(t)
			if decl.Roles.Has(ast.RoleConst) {
				e.Flags().IsConst = true
			}
		} else {
			e.SetInferredType(jtype.AnyT)
		}
		return
	}
	if _, ok := r.funcsByName[e.Name]; ok {
		e.SetInferredType(jtype.FunctionT)
		return
	}
	e.SetInferredType(jtype.AnyT)
	r.errf(e.At, "unknown variable or function %q", e.Name)
}

var binaryOps = map[token.Type]jtype.Op{
	token.EQ: jtype.OpEq, token.NEQ: jtype.OpNeq,
	token.TEQ: jtype.OpSameRef, token.TNEQ: jtype.OpNotSameRef,
	token.AND: jtype.OpAnd, token.OR: jtype.OpOr,
	token.KW_AND: jtype.OpAnd, token.KW_OR: jtype.OpOr,
	token.LT: jtype.OpLt, token.LE: jtype.OpLe,
	token.GT: jtype.OpGt, token.GE: jtype.OpGe,
	token.CMP: jtype.OpCmp,
	token.KW_IN: jtype.OpIn, token.KW_NOT_IN: jtype.OpNotIn,
	token.PLUS: jtype.OpPlus, token.MINUS: jtype.OpMinus,
	token.STAR: jtype.OpMul, token.SLASH: jtype.OpDiv, token.PERCENT: jtype.OpMod,
	token.AMP: jtype.OpBand, token.PIPE: jtype.OpBor, token.CARET: jtype.OpBxor,
	token.SHL: jtype.OpShl, token.SHR: jtype.OpShr, token.USHR: jtype.OpUshr,
}

func (r *Resolver) resolveBinary(e *ast.Binary) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	e.Flags().IsAsync = e.Left.Flags().IsAsync || e.Right.Flags().IsAsync

	op, ok := binaryOps[e.Op]
	if !ok {
		e.SetInferredType(jtype.AnyT)
		return
	}
	if op == jtype.OpMatch || op == jtype.OpNoMatch {
		r.markNeedsLocation()
	}
	if op == jtype.OpDiv || op == jtype.OpMod {
		r.markNeedsLocation() // division/modulo by zero raises at runtime
	}
	t, err := jtype.Result(e.Left.InferredType(), op, e.Right.InferredType())
	if err != nil {
		r.errf(e.At, "%s", err.Error())
		e.SetInferredType(jtype.AnyT)
		return
	}
	e.SetInferredType(t)
	if e.Left.Flags().IsConst && e.Right.Flags().IsConst {
		e.Flags().IsConst = true
	}
}

func (r *Resolver) resolveUnary(e *ast.Unary) {
	r.resolveExpr(e.Operand)
	e.Flags().IsAsync = e.Operand.Flags().IsAsync
	if e.CastTo != nil {
		if te, ok := e.CastTo.(*ast.TypeExpr); ok {
			target := r.resolveTypeExpr(te)
			if !jtype.IsConvertibleTo(e.Operand.InferredType(), target, true) {
				r.errf(e.At, "cannot cast %s to %s", e.Operand.InferredType(), target)
			}
			e.SetInferredType(target)
			r.markNeedsLocation()
			return
		}
	}
	switch e.Op {
	case token.BANG:
		e.SetInferredType(jtype.Primitive{Prim: jtype.PrimBoolean})
	case token.MINUS, token.PLUS, token.TILDE, token.INCR, token.DECR:
		e.SetInferredType(e.Operand.InferredType())
	default:
		e.SetInferredType(jtype.AnyT)
	}
}

func (r *Resolver) resolveCall(e *ast.Call) {
	for i := range e.Args {
		r.resolveExpr(e.Args[i].Value)
		e.Flags().IsAsync = e.Flags().IsAsync || e.Args[i].Value.Flags().IsAsync
	}
	if id, ok := e.Callee.(*ast.Identifier); ok {
		if _, isVar := r.peekScope(id.Name); !isVar {
			if fd, ok := r.funcsByName[id.Name]; ok {
				e.ResolvedFunc = id.Name
				e.SetInferredType(r.resolveTypeExpr(fd.ReturnType))
				// fd.IsAsync may still be unset here for a forward or
				// mutually-recursive reference — resolveAsyncClosure's
				// fixed point corrects the FuncDecl itself afterwards,
				// but this expression's own isAsync flag is a one-shot
				// best-effort snapshot, not re-visited (§4.D' "deliberately
				// simple, no fixed point over expression flags").
				e.Flags().IsAsync = e.Flags().IsAsync || fd.IsAsync
				r.recordCall(id.Name)
				r.markNeedsLocation()
				return
			}
			if asyncBuiltins[id.Name] {
				e.ResolvedFunc = id.Name
				e.Flags().IsAsync = true
				r.recordCall(id.Name)
				r.markNeedsLocation()
				e.SetInferredType(jtype.AnyT)
				return
			}
		}
	}
	r.resolveExpr(e.Callee)
	e.SetInferredType(jtype.AnyT)
	r.markNeedsLocation()
}

// peekScope reports whether name is a currently-declared variable,
// without performing the capture bookkeeping lookup() does — used by
// resolveCall to tell `f()` (a direct function call) from `v()`
// (calling a closure value held in a variable named the same as some
// function) without spuriously marking a capture for a name lookup
// that's about to be treated as the function case instead.
func (r *Resolver) peekScope(name string) (int, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if idx, ok := r.scopes[i][name]; ok {
			return idx, true
		}
	}
	return -1, false
}

func (r *Resolver) checkNewArgs(e *ast.New) {
	simple := e.ClassPath
	for i := len(simple) - 1; i >= 0; i-- {
		if simple[i] == '.' {
			simple = simple[i+1:]
			break
		}
	}
	c, ok := r.classesByName[simple]
	if !ok || c.Descriptor == nil {
		return
	}
	fields := map[string]bool{}
	for _, f := range c.Descriptor.AllFieldNames() {
		fields[f] = true
	}
	for _, a := range e.Args {
		if a.Name != "" && !fields[a.Name] {
			r.errf(e.At, "no such field %q on class %s", a.Name, c.Name)
		}
	}
	// Missing mandatory fields are not flagged here: positional args fill
	// them in declaration order, and the synthesized init$missing path
	// (§4.D') raises the runtime "missing mandatory field" RuntimeError
	// for whatever the static arg list doesn't cover — a compile-time
	// check would need full control-flow analysis of spread args
	// (`new T(*m)`) to avoid false positives.
}

func (r *Resolver) resolveClosure(e *ast.Closure) {
	r.pushScope()
	r.pushFunc(e.ScopeID, e)
	for _, p := range e.Params {
		if p.DeclaredType == nil {
			if p.DeclaredTypeExpr != nil {
				p.DeclaredType = r.resolveTypeExpr(p.DeclaredTypeExpr)
			} else {
				p.DeclaredType = jtype.AnyT // untyped and implicit `it` parameters
			}
		}
		r.declareVar(p)
	}
	r.resolveBlock(e.Body)
	e.Flags().IsAsync = blockIsAsync(e.Body)
	r.popFunc()
	r.popScope()
	e.SetInferredType(jtype.FunctionT)
}

// blockIsAsync reports whether any expression reachable from b (without
// crossing into a nested FuncDecl/Closure, which carry their own isAsync)
// was flagged async, folding the per-expression isAsync flags set during
// the walk up onto the enclosing Block — Statement carries no ExprFlags
// of its own, so a closure literal (itself an expression) has to derive
// its isAsync this way instead of reading it off its Body directly.
func blockIsAsync(b *ast.Block) bool {
	for _, stmt := range b.Statements {
		if stmtIsAsync(stmt) {
			return true
		}
	}
	return false
}

func stmtIsAsync(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return s.Expr != nil && s.Expr.Flags().IsAsync
	case *ast.VarDeclStmt:
		for _, d := range s.Decls {
			if d.Init != nil && d.Init.Flags().IsAsync {
				return true
			}
		}
	case *ast.Return:
		return s.Value != nil && s.Value.Flags().IsAsync
	case *ast.If:
		if s.Cond.Flags().IsAsync || blockIsAsync(s.Then) {
			return true
		}
		return s.Else != nil && blockIsAsync(s.Else)
	case *ast.While:
		return s.Cond.Flags().IsAsync || blockIsAsync(s.Body)
	case *ast.DoUntil:
		return s.Cond.Flags().IsAsync || blockIsAsync(s.Body)
	case *ast.For:
		if s.Cond != nil && s.Cond.Flags().IsAsync {
			return true
		}
		for _, u := range s.Updates {
			if u.Flags().IsAsync {
				return true
			}
		}
		return blockIsAsync(s.Body)
	case *ast.Block:
		return blockIsAsync(s)
	}
	return false
}

func (r *Resolver) resolveSwitch(e *ast.Switch) {
	r.resolveExpr(e.Subject)
	var resultType jtype.Type
	isAsync := e.Subject.Flags().IsAsync
	resolveCase := func(c *ast.Case) {
		r.pushScope()
		for i := range c.Patterns {
			r.declarePatternBindings(&c.Patterns[i])
		}
		if c.Guard != nil {
			r.resolveExpr(c.Guard)
		}
		r.resolveExpr(c.Body)
		resultType = jtype.CommonSuperType(resultType, c.Body.InferredType())
		isAsync = isAsync || c.Body.Flags().IsAsync
		r.popScope()
	}
	for i := range e.Cases {
		resolveCase(&e.Cases[i])
	}
	if e.Default != nil {
		resolveCase(e.Default)
	}
	e.SetInferredType(resultType)
	e.Flags().IsAsync = isAsync
}

// declarePatternBindings registers the plain-identifier bindings a
// switch-case pattern introduces (§4.C "patterns may be ... binding
// identifiers"). These don't get arena VarDecls — patterns are pure
// syntax matched structurally by the emitter, not lvalues — so they're
// declared with a sentinel arena index of -1; lookups still succeed
// (the binding resolves to Any) but can never be mistaken for a capture
// since maybeCapture no-ops on a nil arena dereference.
func (r *Resolver) declarePatternBindings(p *ast.Pattern) {
	switch p.Kind {
	case ast.PatternBinding, ast.PatternCapture:
		if p.BindingName != "" && p.BindingName != "_" {
			r.declare(p.BindingName, -1)
		}
	case ast.PatternList:
		for i := range p.ListElems {
			r.declarePatternBindings(&p.ListElems[i])
		}
	case ast.PatternMap:
		for k := range p.MapEntries {
			e := p.MapEntries[k]
			r.declarePatternBindings(&e)
		}
	case ast.PatternExprBlock:
		if p.ExprBlock != nil {
			r.resolveExpr(p.ExprBlock)
		}
	}
}
