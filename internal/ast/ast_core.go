// Package ast defines the Jactl AST as a tagged union of node kinds
// (Design Notes §9: "replace polymorphism with a tagged union of node
// kinds plus a dispatch over kind for emission and resolution... a
// faithful map, no feature is lost"). Statement and Expression are the
// two node families (§3.4); dispatch during resolution/emission is a
// switch over Kind() rather than a Visitor interface.
package ast

import (
	"github.com/jactl-lang/jactl/internal/jtype"
	"github.com/jactl-lang/jactl/internal/token"
)

// Node is satisfied by every AST node.
type Node interface {
	Pos() token.Pos
}

// StmtKind discriminates the Statement variants of §3.4.
type StmtKind int

const (
	StmtClassDecl StmtKind = iota
	StmtFuncDecl
	StmtVarDecl
	StmtBlock
	StmtFor
	StmtWhile
	StmtDoUntil
	StmtIf
	StmtBreak
	StmtContinue
	StmtReturn
	StmtExpr // expression-statement wrapper
)

// Statement is any node satisfying the Statement variant of the AST.
// Kind() drives the switch-based dispatch described above.
type Statement interface {
	Node
	StmtKind() StmtKind
}

// ExprKind discriminates the Expression variants of §3.4.
type ExprKind int

const (
	ExprLiteral ExprKind = iota
	ExprListLiteral
	ExprMapLiteral
	ExprIdentifier
	ExprExprString // interpolated string
	ExprBinary
	ExprUnary
	ExprPostfix
	ExprTernary
	ExprFieldAccess // .  ?.  [ ]  ?[ ]
	ExprAssign
	ExprFieldOpAssign
	ExprVarOpAssign
	// Multi-assign ( def (x,y) = expr ) has no expression node of its own:
	// the parser rewrites it directly into a StmtBlock (§4.C "Multi-assign").
	ExprRegexMatch
	ExprRegexSubst
	ExprCall
	ExprMethodCall
	ExprNew
	ExprInstanceOf
	ExprClosure
	ExprNoop // sentinel the emitter substitutes with the loaded current value
	ExprPrint
	ExprDie
	ExprEval
	ExprSwitch
)

// ExprFlags bundles the per-node flags §3.4 lists, common to every
// expression kind.
type ExprFlags struct {
	IsResultUsed   bool
	IsCallee       bool
	IsConst        bool
	ConstValue     interface{}
	IsAsync        bool
	CouldBeNull    bool
	CreateIfMissing bool
	WasNested      bool // set when parenthesised
}

// ExprBase is embedded by every concrete expression struct; it carries
// the fields common to all expressions (position, inferred type, flags).
type ExprBase struct {
	At   token.Pos
	Type jtype.Type
	ExprFlags
}

func (e *ExprBase) Pos() token.Pos { return e.At }

// Expression is any node satisfying the Expression variant.
type Expression interface {
	Node
	ExprKind() ExprKind
	InferredType() jtype.Type
	SetInferredType(jtype.Type)
	Flags() *ExprFlags
}

func (e *ExprBase) InferredType() jtype.Type        { return e.Type }
func (e *ExprBase) SetInferredType(t jtype.Type)    { e.Type = t }
func (e *ExprBase) Flags() *ExprFlags                { return &e.ExprFlags }

// StmtBase is embedded by every concrete statement struct.
type StmtBase struct {
	At token.Pos
}

func (s *StmtBase) Pos() token.Pos { return s.At }

// Program is the root node produced by the parser for one compilation
// unit (one script or one library file).
type Program struct {
	File       string
	Statements []Statement
}
