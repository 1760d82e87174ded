package resolver

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/jtype"
	"github.com/jactl-lang/jactl/internal/token"
)

// resolveTypeExpr turns the syntax of a type annotation into a
// jtype.Type, resolving a class-path name against classesByName when
// present (§3.2: "Instance ... may be unresolved name path" until the
// Resolver runs). A bare `var`, or a nil TypeExpr (no annotation
// written), yields a fresh Unknown the initializer's inferred type will
// resolve (§4.D).
func (r *Resolver) resolveTypeExpr(te *ast.TypeExpr) jtype.Type {
	if te == nil || te.IsVar() {
		return jtype.NewUnknown()
	}
	if te.Elem != nil {
		return jtype.Array{Elem: r.resolveTypeExpr(te.Elem)}
	}
	if te.ClassPath != "" {
		return r.resolveClassPathType(te.ClassPath)
	}
	switch te.Builtin {
	case token.KW_BOOLEAN:
		return jtype.Primitive{Prim: jtype.PrimBoolean}
	case token.KW_BYTE:
		return jtype.Primitive{Prim: jtype.PrimByte}
	case token.KW_INT:
		return jtype.Primitive{Prim: jtype.PrimInt}
	case token.KW_LONG:
		return jtype.Primitive{Prim: jtype.PrimLong}
	case token.KW_DOUBLE:
		return jtype.Primitive{Prim: jtype.PrimDouble}
	default:
		return jtype.AnyT
	}
}

// resolveClassPathType looks up a dotted class-path against the
// compilation unit's own classesByName table (only the simple trailing
// segment is tried — package-qualified cross-module paths are outside
// this supplied Resolver's scope, see DESIGN.md). An unknown path
// produces an Instance with Class == nil, deferring the "unresolved
// name path" case to the emitter/diagnostics rather than hard-failing
// here, since a forward reference to a class in a sibling file of a
// larger program is legitimate and this resolver only sees one unit.
func (r *Resolver) resolveClassPathType(path string) jtype.Type {
	simple := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			simple = path[i+1:]
			break
		}
	}
	if c, ok := r.classesByName[simple]; ok && c.Descriptor != nil {
		return c.Descriptor.ToInstance()
	}
	return jtype.Instance{ClassName: path}
}
