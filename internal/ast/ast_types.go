package ast

import "github.com/jactl-lang/jactl/internal/token"

// TypeExpr is the syntax of a type annotation as written by the user,
// before the Resolver turns it into a jtype.Type. It is kept distinct
// from jtype.Type because a class-path name (`a.b.c.D`) may not be
// resolvable until the Resolver runs (§3.2 Instance: "may be unresolved
// name path").
type TypeExpr struct {
	At token.Pos

	// Builtin is set for boolean/byte/int/long/double/Decimal/String/
	// Map/List/Object/Function/var; "" otherwise.
	Builtin token.Type

	// ClassPath is set for a user-class/instance type, e.g. "a.b.c.D".
	ClassPath string

	// Elem, when non-nil, makes this an array-of-Elem type (`Type[]`).
	Elem *TypeExpr
}

func (t *TypeExpr) Pos() token.Pos { return t.At }

func (t *TypeExpr) IsVar() bool { return t.Builtin == token.KW_VAR }
