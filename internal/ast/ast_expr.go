package ast

import "github.com/jactl-lang/jactl/internal/token"

// Literal is a literal value of a concrete kind (byte/int/long/double/
// decimal/string/true/false/null).
type Literal struct {
	ExprBase
	Value interface{}
}

func (e *Literal) ExprKind() ExprKind { return ExprLiteral }

// ListLiteral is `[ e1, e2, ... ]`.
type ListLiteral struct {
	ExprBase
	Elements []Expression
}

func (e *ListLiteral) ExprKind() ExprKind { return ExprListLiteral }

// MapEntry is one `key: value` pair of a map literal. Key may be nil
// only for the degenerate empty-map literal `[:]`, which parses to a
// MapLiteral with zero entries.
type MapEntry struct {
	Key   Expression
	Value Expression
}

// MapLiteral is `[ key: value, ... ]` or the empty map `[:]`.
type MapLiteral struct {
	ExprBase
	Entries []MapEntry
}

func (e *MapLiteral) ExprKind() ExprKind { return ExprMapLiteral }

// Identifier names a variable, parameter, field, function or the
// special `it`/`this`/`super`/capture-group ($1) forms. Decl is filled
// in by the Resolver with the arena index of the VarDecl it refers to
// (-1 until resolved).
type Identifier struct {
	ExprBase
	Name        string
	IsCapture   bool // $1, $2, ...
	CaptureIdx  int
	DeclIdx     int // arena index into Arena.vars, -1 until resolved
}

func (e *Identifier) ExprKind() ExprKind { return ExprIdentifier }

// ExprStringPart is one segment of an interpolated string: either a
// literal run of text (Text != "", Expr == nil) or an embedded
// expression (Expr != nil).
type ExprStringPart struct {
	Text string
	Expr Expression
}

// ExprString is an interpolated string: `"x=${1+2}"`.
type ExprString struct {
	ExprBase
	Parts []ExprStringPart
}

func (e *ExprString) ExprKind() ExprKind { return ExprExprString }

// Binary is a binary operator application.
type Binary struct {
	ExprBase
	Op          token.Type
	Left, Right Expression
}

func (e *Binary) ExprKind() ExprKind { return ExprBinary }

// Unary is a prefix operator application (-, !, ~, a cast, ++/-- prefix).
type Unary struct {
	ExprBase
	Op      token.Type
	Operand Expression
	// CastTo is set when this Unary represents a parenthesised-type cast
	// `(Type)expr` recognised by the unary precedence level's
	// cast-recognition branch.
	CastTo interface{} // *TypeExpr, see ast_types.go
}

func (e *Unary) ExprKind() ExprKind { return ExprUnary }

// Postfix is a postfix operator application (x++, x--).
type Postfix struct {
	ExprBase
	Op      token.Type
	Operand Expression
}

func (e *Postfix) ExprKind() ExprKind { return ExprPostfix }

// Ternary is `cond ? a : b`, right-associative.
type Ternary struct {
	ExprBase
	Cond, Then, Else Expression
}

func (e *Ternary) ExprKind() ExprKind { return ExprTernary }

// FieldAccess is one link of a field-path chain: `.`, `?.`, `[...]`, or
// `?[...]`. FieldName holds the coerced-to-String identifier for a bare
// `.name` access; FieldExpr holds the bracketed index/key expression, or
// the parenthesised `x.(y)` form that preserves y's value instead of
// coercing it to a string (§4.C precedence climber).
type FieldAccess struct {
	ExprBase
	Parent          Expression
	FieldName       string // set for `.name` / `?.name`
	FieldExpr       Expression // set for `[expr]` / `?[expr]` / `.(expr)`
	IsOptional      bool       // ?. or ?[
	IsIndex         bool       // [ ] / ?[ ] rather than . / ?.
}

func (e *FieldAccess) ExprKind() ExprKind { return ExprFieldAccess }

// Assign is a plain `lhs = rhs` where lhs is a simple identifier or a
// field-path chain with no compound operator.
type Assign struct {
	ExprBase
	Target Expression
	Value  Expression
}

func (e *Assign) ExprKind() ExprKind { return ExprAssign }

// Noop is the sentinel the lvalue rewrite (§4.C) substitutes for "the
// current value of the target field/variable"; the emitter replaces it
// with a load of that value when it walks the rewritten RHS expression
// tree.
type Noop struct {
	ExprBase
}

func (e *Noop) ExprKind() ExprKind { return ExprNoop }

// FieldOpAssign is the rewritten form of `P.f1.f2...fn op= RHS` (§4.C
// Lvalue rewriting): Parent is the prefix path P.f1...f(n-1) (each of
// its accesses flagged CreateIfMissing), Accessor/IsIndex describe how
// fn is reached off Parent, Field names or indexes fn, and Value is
// `Noop op RHS`.
type FieldOpAssign struct {
	ExprBase
	Parent     Expression
	FieldName  string
	FieldExpr  Expression
	IsIndex    bool
	IsOptional bool
	Value      Expression // Noop `op` RHS, e.g. a *Binary with Left = *Noop
}

func (e *FieldOpAssign) ExprKind() ExprKind { return ExprFieldOpAssign }

// VarOpAssign is the rewritten form of compound assignment to a simple
// identifier: `x op= RHS` becomes `x = x op RHS` without a field path.
type VarOpAssign struct {
	ExprBase
	Target  *Identifier
	Value   Expression // Noop `op` RHS
}

func (e *VarOpAssign) ExprKind() ExprKind { return ExprVarOpAssign }

// RegexMatch is `lhs =~ /pattern/flags` or `lhs !~ /pattern/flags`.
type RegexMatch struct {
	ExprBase
	Negated bool
	Target  Expression
	Pattern Expression // an ExprString (regex bodies may interpolate)
	Flags   string
	// ImplicitIt records that the RHS regex had no explicit `lhs =~`
	// and Target was synthesized as `it` per §4.C.
	ImplicitIt bool
}

func (e *RegexMatch) ExprKind() ExprKind { return ExprRegexMatch }

// RegexSubst is `lhs =~ s/pattern/replacement/flags`.
type RegexSubst struct {
	ExprBase
	Target      Expression
	Pattern     Expression
	Replacement Expression
	Flags       string
	Global      bool
}

func (e *RegexSubst) ExprKind() ExprKind { return ExprRegexSubst }

// Arg is one call argument: either positional (Name == "") or named.
type Arg struct {
	Name  string
	Value Expression
	// Spread marks a `*list` argument-spread (not part of the core
	// grammar in spec.md but mirrored from the named/optional-arg
	// wrapper-call dispatch shape of §4.F "Calls").
	Spread bool
}

// Call is a direct function call, `f(args)`.
type Call struct {
	ExprBase
	Callee Expression
	Args   []Arg
	// ResolvedFunc, filled by the Resolver, names the callee when it is
	// a known user function resolvable at compile time (§4.F "Calls").
	ResolvedFunc string
}

func (e *Call) ExprKind() ExprKind { return ExprCall }

// MethodCall is `target.method(args)` / `target?.method(args)`.
type MethodCall struct {
	ExprBase
	Target     Expression
	Method     string
	MethodExpr Expression // for `target.(expr)(args)`
	IsOptional bool
	Args       []Arg
}

func (e *MethodCall) ExprKind() ExprKind { return ExprMethodCall }

// New is `new ClassPath(args)`.
type New struct {
	ExprBase
	ClassPath string
	Args      []Arg
}

func (e *New) ExprKind() ExprKind { return ExprNew }

// InstanceOf is `expr instanceof ClassPath`.
type InstanceOf struct {
	ExprBase
	Target    Expression
	ClassPath string
}

func (e *InstanceOf) ExprKind() ExprKind { return ExprInstanceOf }

// Closure is a `{ params -> body }` closure literal, or a bare `{ ... }`
// block that the ambiguity-resolution pass (§4.C) provisionally treated
// as a closure with one implicit `it: Any` parameter. IsDegraded is set
// when the surrounding context later determined the result is never
// invoked, at which point the implicit parameter is removed and the
// node is emitted as a plain block instead of a closure value.
type Closure struct {
	ExprBase
	Params      []*VarDecl
	Body        *Block
	HasImplicitIt bool
	IsDegraded    bool

	// ScopeID is the synthetic negative owning-scope id the parser
	// stamped on this closure's own Params (and on every VarDecl
	// introduced inside its Body) in place of an enclosing FuncDecl's
	// arena index. The Resolver pushes it as the current scope id while
	// walking Body so that references to this closure's own locals are
	// never mistaken for a capture of an enclosing function's variable
	// of the same OwningFuncIdx.
	ScopeID int

	// Captures is filled in by the Resolver (§4.D): the declarations,
	// owned by an enclosing function, that this closure's body reaches
	// across a function boundary to read or write. Each captured
	// VarDecl also gets RoleHeapLocal set on it directly (Design Notes
	// §9's weak-index back-reference, not ownership).
	Captures []*VarDecl
}

func (e *Closure) ExprKind() ExprKind { return ExprClosure }

// Print is `print expr` / `println expr`.
type Print struct {
	ExprBase
	Value   Expression
	Newline bool
}

func (e *Print) ExprKind() ExprKind { return ExprPrint }

// Die is `die expr`.
type Die struct {
	ExprBase
	Message Expression
}

func (e *Die) ExprKind() ExprKind { return ExprDie }

// Eval is `eval(src[, globals])`, forwarding to the runtime's
// evalScript (§6.3).
type Eval struct {
	ExprBase
	Source  Expression
	Globals Expression // may be nil
}

func (e *Eval) ExprKind() ExprKind { return ExprEval }
