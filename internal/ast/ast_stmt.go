package ast

import (
	"github.com/jactl-lang/jactl/internal/jtype"
	"github.com/jactl-lang/jactl/internal/token"
)

// ExprStmt wraps an expression used in statement position (its result,
// if any, is discarded — Expression.Flags().IsResultUsed is false).
type ExprStmt struct {
	StmtBase
	Expr Expression
}

func (s *ExprStmt) StmtKind() StmtKind { return StmtExpr }

// VarDeclStmt introduces one or more variables, e.g. `def x = 1` or
// `int a, b = 2`. Decls is length > 1 only for comma-separated
// same-type declarations; multi-assign (`def (x,y) = expr`) instead
// rewrites to a Block of single VarDeclStmts reading a synthesized temp
// (§4.C "Multi-assign").
type VarDeclStmt struct {
	StmtBase
	Decls []*VarDecl
}

func (s *VarDeclStmt) StmtKind() StmtKind { return StmtVarDecl }

// Block is `{ stmt... }`, also used as the body of functions, loops and
// closures.
type Block struct {
	StmtBase
	Statements []Statement
}

func (s *Block) StmtKind() StmtKind { return StmtBlock }

// LoopLabel is the optional `label:` prefix on a loop.
type LoopLabel struct {
	Name string
}

// For is `for (init; cond; updates) body`, already desugared by the
// parser into the While-equivalent shape (§4.C "Control-flow forms"):
// Init runs once, Cond gates the loop, Updates runs at the continue
// label before re-testing Cond.
type For struct {
	StmtBase
	Label   string
	Init    Statement // may be nil
	Cond    Expression // may be nil (infinite loop)
	Updates []Expression
	Body    *Block
}

func (s *For) StmtKind() StmtKind { return StmtFor }

// While is `while (cond) body`.
type While struct {
	StmtBase
	Label string
	Cond  Expression
	Body  *Block
}

func (s *While) StmtKind() StmtKind { return StmtWhile }

// DoUntil is `do { body } until (cond)`: body runs at least once before
// the (inverted) condition is tested (§4.C "Control-flow forms").
type DoUntil struct {
	StmtBase
	Label string
	Body  *Block
	Cond  Expression
}

func (s *DoUntil) StmtKind() StmtKind { return StmtDoUntil }

// If is `if (cond) then [else else_]`, and is also how the parser
// represents `unless` (with Cond wrapped in a negation).
type If struct {
	StmtBase
	Cond Expression
	Then *Block
	Else *Block // may be nil; may itself be a single-statement Block wrapping a nested If
}

func (s *If) StmtKind() StmtKind { return StmtIf }

// Break/Continue carry an optional target label (§4.C: "break label /
// continue label emit stack-depth-aware pops before the jump").
type Break struct {
	StmtBase
	Label string
}

func (s *Break) StmtKind() StmtKind { return StmtBreak }

type Continue struct {
	StmtBase
	Label string
}

func (s *Continue) StmtKind() StmtKind { return StmtContinue }

// Return is `return [expr]`.
type Return struct {
	StmtBase
	Value Expression // may be nil
}

func (s *Return) StmtKind() StmtKind { return StmtReturn }

// Param is one declared function parameter.
type Param struct {
	Decl       *VarDecl
	Default    Expression // may be nil
	IsVarargs  bool
}

// FuncDecl is a named function/method declaration. Every FuncDecl has an
// implicit Wrapper form with the uniform signature of §6.4, filled in
// by the Resolver/class emitter.
type FuncDecl struct {
	StmtBase
	Name       string
	Params     []Param
	ReturnType *TypeExpr
	Body       *Block

	IsStatic bool
	IsFinal  bool

	// IsAsync is set by the Resolver once it determines any transitively
	// reachable call site is async (§4.D).
	IsAsync       bool
	NeedsLocation bool

	// ImplementingClass/Method mirror §6.2's resolver-contract fields,
	// set once the function is attached to a class.
	ImplementingClass  string
	ImplementingMethod string

	// HeapLocalParams are synthesized leading parameters carrying the
	// captured variables a closure needs (§6.4: "heap-local* ...
	// param*"); populated once the Resolver determines captures.
	HeapLocalParams []*VarDecl
}

func (s *FuncDecl) StmtKind() StmtKind { return StmtFuncDecl }

// FieldDecl is one field declaration inside a class body.
type FieldDecl struct {
	Decl *VarDecl
	Type *TypeExpr
}

// ClassDecl is a class declaration; only legal at script top level or
// nested inside another class (§4.C "Class declarations").
type ClassDecl struct {
	StmtBase
	Name        string
	ExtendsPath string // "" if no `extends` clause
	Fields      []FieldDecl
	Methods     []*FuncDecl
	Inner       []*ClassDecl

	// Descriptor is filled in by the Resolver (§6.2): the resolved
	// ClassDescriptor the emitter and other classes' field/method lookups
	// consume. Includes the synthesized init/init-missing methods.
	Descriptor *jtype.ClassDescriptor
}

func (s *ClassDecl) StmtKind() StmtKind { return StmtClassDecl }

// Modifier is a class-member modifier token recorded for diagnostics
// (e.g. rejecting `static final`, §4.C).
type Modifier = token.Type
