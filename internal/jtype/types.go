// Package jtype implements the value-type lattice of §3.2: primitives,
// boxed forms, reference atoms, parameterized arrays, parameterized
// instance types, and the Unknown placeholder used by var. It also
// implements the operator result algebra, commonSuperType join, and
// isConvertibleTo of §4.A.
package jtype

import "fmt"

// Kind is the tag of the Type variant.
type Kind int

const (
	KindPrimitive Kind = iota
	KindDecimal
	KindString
	KindMap
	KindList
	KindAny
	KindFunction
	KindIterator
	KindNumber
	KindRegexMatcher
	KindContinuation
	KindHeapLocal
	KindInstance
	KindClass
	KindArray
	KindUnknown
)

// Prim identifies one of the five primitive flavours.
type Prim int

const (
	PrimBoolean Prim = iota
	PrimByte
	PrimInt
	PrimLong
	PrimDouble
)

func (p Prim) String() string {
	switch p {
	case PrimBoolean:
		return "boolean"
	case PrimByte:
		return "byte"
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimDouble:
		return "double"
	}
	return "?"
}

// widenOrder ranks primitives for numeric widening (§4.A: Byte < Int <
// Long < Double < Decimal). Boolean never widens to anything else.
var widenOrder = map[Prim]int{PrimByte: 0, PrimInt: 1, PrimLong: 2, PrimDouble: 3}

func (p Prim) isNumeric() bool { return p != PrimBoolean }

// Type is the interface every lattice member satisfies. It mirrors the
// teacher's typesystem.Type shape (String/Kind) but drops Apply/
// FreeTypeVariables: this lattice is nominal, with no unification
// variables — Unknown is resolved by direct rewrite (see Unknown.Resolve),
// never by substitution.
type Type interface {
	String() string
	Kind() Kind
	// Is reports whether other matches this type at the kind level.
	// Per §3.2: all Instance-vs-Instance pairs match at the kind level;
	// exact identity goes through ClassDescriptor/InternalName instead.
	Is(other Type) bool
}

// ---- Primitive ----

// Primitive is one of {Boolean, Byte, Int, Long, Double}, with a boxed
// flag recording whether it is currently held in boxed (Object) shape.
type Primitive struct {
	Prim  Prim
	Boxed bool
}

func NewPrimitive(p Prim) Primitive { return Primitive{Prim: p} }

func (p Primitive) String() string {
	if p.Boxed {
		return "Boxed" + capitalize(p.Prim.String())
	}
	return p.Prim.String()
}
func (p Primitive) Kind() Kind { return KindPrimitive }
func (p Primitive) Is(other Type) bool {
	o, ok := other.(Primitive)
	return ok && o.Prim == p.Prim
}

// AsBoxed returns the boxed form of the receiver (kind/prim unchanged).
func (p Primitive) AsBoxed() Primitive { p.Boxed = true; return p }

// AsUnboxed returns the unboxed form of the receiver (kind/prim unchanged).
func (p Primitive) AsUnboxed() Primitive { p.Boxed = false; return p }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-('a'-'A')) + s[1:]
}

// ---- Reference atoms ----

type atom struct {
	kind Kind
	name string
}

func (a atom) String() string           { return a.name }
func (a atom) Kind() Kind               { return a.kind }
func (a atom) Is(other Type) bool       { o, ok := other.(atom); return ok && o.kind == a.kind }

var (
	Decimal       Type = atom{KindDecimal, "Decimal"}
	StringT       Type = atom{KindString, "String"}
	MapT          Type = atom{KindMap, "Map"}
	ListT         Type = atom{KindList, "List"}
	AnyT          Type = atom{KindAny, "Any"}
	FunctionT     Type = atom{KindFunction, "Function"}
	IteratorT     Type = atom{KindIterator, "Iterator"}
	NumberT       Type = atom{KindNumber, "Number"}
	RegexMatcherT Type = atom{KindRegexMatcher, "RegexMatcher"}
	ContinuationT Type = atom{KindContinuation, "Continuation"}
	HeapLocalT    Type = atom{KindHeapLocal, "HeapLocal"}
)

// ---- Instance / Class ----

// Instance denotes an object of a user-defined class. Class may be nil
// (an unresolved name path) until the Resolver links it.
type Instance struct {
	ClassName    string // dotted name path as written in source
	Class        *ClassDescriptor
	InternalName string
}

func (i Instance) String() string {
	if i.InternalName != "" {
		return i.InternalName
	}
	return i.ClassName
}
func (i Instance) Kind() Kind { return KindInstance }
func (i Instance) Is(other Type) bool {
	_, ok := other.(Instance)
	if ok {
		return true // all Instance-vs-Instance pairs match at the kind level (§3.2)
	}
	return false
}

// SameClass is the exact-identity check §3.2 calls for, routed through
// ClassDescriptor/InternalName rather than Is.
func (i Instance) SameClass(other Instance) bool {
	if i.Class != nil && other.Class != nil {
		return i.Class == other.Class
	}
	return i.InternalName != "" && i.InternalName == other.InternalName
}

// Class is the meta-form of Instance: denotes the class itself, used on
// the LHS of `new` and in static member access.
type Class struct {
	Instance Instance
}

func (c Class) String() string       { return "Class<" + c.Instance.String() + ">" }
func (c Class) Kind() Kind           { return KindClass }
func (c Class) Is(other Type) bool   { _, ok := other.(Class); return ok }

// ---- Array ----

// Array is parameterized by an element type, recursively.
type Array struct {
	Elem Type
}

func (a Array) String() string { return a.Elem.String() + "[]" }
func (a Array) Kind() Kind     { return KindArray }
func (a Array) Is(other Type) bool {
	o, ok := other.(Array)
	// Array types compare structurally on element type (§3.2).
	return ok && typesEqual(a.Elem, o.Elem)
}

func typesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Array:
		return av.Is(b)
	case Primitive:
		return av.Is(b)
	case Instance:
		bv := b.(Instance)
		return av.SameClass(bv)
	default:
		return a.String() == b.String()
	}
}

// ---- Unknown ----

// Unknown is the placeholder used by `var`. During resolution it becomes
// a delegating reference to an expression node's eventual type; a
// remaining Unknown at emission time is a bug (§3.2).
type Unknown struct {
	resolved Type
}

func NewUnknown() *Unknown { return &Unknown{} }

func (u *Unknown) String() string {
	if u.resolved != nil {
		return u.resolved.String()
	}
	return "<unknown>"
}
func (u *Unknown) Kind() Kind {
	if u.resolved != nil {
		return u.resolved.Kind()
	}
	return KindUnknown
}
func (u *Unknown) Is(other Type) bool {
	if u.resolved != nil {
		return u.resolved.Is(other)
	}
	return false
}

// Resolve fixes the delegate type. Called exactly once by the Resolver.
func (u *Unknown) Resolve(t Type) { u.resolved = t }

// Resolved reports whether Resolve has run.
func (u *Unknown) Resolved() bool { return u.resolved != nil }

// Delegate returns the resolved type, or nil if still unresolved.
func (u *Unknown) Delegate() Type { return u.resolved }

// IsUnresolvedUnknown is the emission-time bug check §3.2 calls for.
func IsUnresolvedUnknown(t Type) bool {
	u, ok := t.(*Unknown)
	return ok && u.resolved == nil
}

func (k Kind) String() string {
	names := [...]string{
		"Primitive", "Decimal", "String", "Map", "List", "Any", "Function",
		"Iterator", "Number", "RegexMatcher", "Continuation", "HeapLocal",
		"Instance", "Class", "Array", "Unknown",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}
