package ast

import (
	"github.com/jactl-lang/jactl/internal/jtype"
	"github.com/jactl-lang/jactl/internal/token"
)

// Role is a bitmask of the (not mutually exclusive) roles a variable
// declaration can hold, per §3.5.
type Role uint

const (
	RoleParameter Role = 1 << iota
	RoleField
	RoleGlobal
	RoleHeapLocal // closed-over
	RoleStatic
	RoleFinal
	RoleConst
)

func (r Role) Has(bit Role) bool { return r&bit != 0 }

// VarDecl is one declared variable (§3.5): name, declared type,
// initialiser, role bitmask, slot index (-1 until allocated), a
// debugger label, and — for closed-over locals — a link to the owning
// function and to the arena index of the original declaration. Closures
// keep only the arena index as a back-reference (Design Notes §9:
// "weak back-references are just indices, never ownership"), avoiding a
// reference cycle between a closure and the declaration it captures.
type VarDecl struct {
	At token.Pos

	Name        string
	DeclaredType jtype.Type

	// DeclaredTypeExpr is the type annotation as written (nil for a bare
	// `def`/closure-implicit-parameter declaration with no explicit
	// type); the Resolver turns it into DeclaredType.
	DeclaredTypeExpr *TypeExpr

	Init        Expression
	Roles       Role

	Slot int // -1 until allocated by the method emitter's operand tracker

	Label string // declaration label shown by the debugger

	// OwningFuncIdx is the arena index (see Arena) of the FuncDecl that
	// declares this variable; -1 for globals/fields.
	OwningFuncIdx int

	// OrigDeclIdx, for a synthesized heap-local parameter copy, is the
	// arena index of the original declaration it shadows.
	OrigDeclIdx int
}

func (v *VarDecl) Pos() token.Pos { return v.At }

func NewVarDecl(at token.Pos, name string, roles Role) *VarDecl {
	return &VarDecl{At: at, Name: name, Roles: roles, Slot: -1, OwningFuncIdx: -1, OrigDeclIdx: -1}
}
