package jtype

import "fmt"

// Op is a binary operator tag. Only the tags the result algebra (§4.A)
// needs to distinguish are enumerated.
type Op int

const (
	OpEq Op = iota
	OpNeq
	OpSameRef  // ===
	OpNotSameRef
	OpAnd
	OpOr
	OpLt
	OpLe
	OpGt
	OpGe
	OpCmp // <=>
	OpIn
	OpNotIn
	OpMatch   // =~
	OpNoMatch // !~
	OpPlus
	OpMinus
	OpMul
	OpDiv
	OpMod
	OpBand
	OpBor
	OpBxor
	OpShl
	OpShr
	OpUshr
)

// ResultError is the structured error result() returns on an
// inadmissible (type, op, type) triple.
type ResultError struct {
	Op   Op
	T1   Type
	T2   Type
	Msg  string
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("%s: %s %v %s", e.Msg, e.T1, e.Op, e.T2)
}

func opError(op Op, t1, t2 Type, msg string) error {
	return &ResultError{Op: op, T1: t1, T2: t2, Msg: msg}
}

func isBoolean(t Type) bool { p, ok := t.(Primitive); return ok && p.Prim == PrimBoolean }
func isNumericPrim(t Type) bool {
	p, ok := t.(Primitive)
	return ok && p.Prim.isNumeric()
}
func isAny(t Type) bool    { return t != nil && t.Kind() == KindAny }
func isString(t Type) bool { return t != nil && t.Kind() == KindString }
func isMap(t Type) bool    { return t != nil && t.Kind() == KindMap }
func isList(t Type) bool   { return t != nil && t.Kind() == KindList }
func isDecimal(t Type) bool { return t != nil && t.Kind() == KindDecimal }
func isNumeric(t Type) bool { return isNumericPrim(t) || isDecimal(t) }

// Result implements result(T1, O, T2) of §4.A. It returns either the
// admissible result type or a *ResultError.
func Result(t1 Type, op Op, t2 Type) (Type, error) {
	switch op {
	case OpEq, OpNeq, OpSameRef, OpNotSameRef, OpAnd, OpOr:
		return Primitive{Prim: PrimBoolean}, nil

	case OpLt, OpLe, OpGt, OpGe:
		if ordered(t1, t2) {
			return Primitive{Prim: PrimBoolean}, nil
		}
		return nil, opError(op, t1, t2, "operands not ordered-comparable")

	case OpCmp:
		if ordered(t1, t2) {
			return Primitive{Prim: PrimInt}, nil
		}
		return nil, opError(op, t1, t2, "operands not ordered-comparable")

	case OpIn, OpNotIn:
		if isMap(t2) || isList(t2) || isString(t2) || t2.Kind() == KindIterator || isAny(t2) {
			return Primitive{Prim: PrimBoolean}, nil
		}
		return nil, opError(op, t1, t2, "rhs of in/!in must be a container, String, Iterator or Any")

	case OpMatch, OpNoMatch:
		if (isString(t1) || isAny(t1)) && (isString(t2) || isAny(t2)) {
			return Primitive{Prim: PrimBoolean}, nil
		}
		return nil, opError(op, t1, t2, "=~/!~ requires String or Any operands")

	case OpPlus:
		return resultPlus(t1, t2)

	case OpMinus:
		if isMap(t1) {
			return MapT, nil
		}
		return numericPromote(op, t1, t2)

	case OpMul:
		if isString(t1) && isNumeric(t2) {
			return StringT, nil
		}
		if isString(t2) && isNumeric(t1) {
			return StringT, nil
		}
		return numericPromote(op, t1, t2)

	case OpDiv, OpMod:
		return numericPromote(op, t1, t2)

	case OpBand, OpBor, OpBxor:
		if !isBitwiseOperand(t1) || !isBitwiseOperand(t2) {
			return nil, opError(op, t1, t2, "bit operators require Int/Byte/Long/Any")
		}
		if isAny(t1) || isAny(t2) {
			return AnyT, nil
		}
		return widerOf(t1, t2), nil

	case OpShl, OpShr, OpUshr:
		if !isBitwiseOperand(t1) || !isBitwiseOperand(t2) {
			return nil, opError(op, t1, t2, "shift operators require Int/Byte/Long/Any")
		}
		return t1, nil // shifts preserve LHS type
	}
	return nil, opError(op, t1, t2, "unknown operator")
}

func isBitwiseOperand(t Type) bool {
	if isAny(t) {
		return true
	}
	p, ok := t.(Primitive)
	return ok && (p.Prim == PrimInt || p.Prim == PrimByte || p.Prim == PrimLong)
}

func ordered(t1, t2 Type) bool {
	if isAny(t1) && isAny(t2) {
		return true
	}
	if isNumeric(t1) && isNumeric(t2) {
		return true
	}
	if isBoolean(t1) && isBoolean(t2) {
		return true
	}
	if isString(t1) && isString(t2) {
		return true
	}
	return false
}

func resultPlus(t1, t2 Type) (Type, error) {
	if isString(t1) || isString(t2) {
		return StringT, nil
	}
	if isList(t1) {
		return ListT, nil
	}
	if isMap(t1) && (isMap(t2) || isAny(t2)) {
		return MapT, nil
	}
	return numericPromote(OpPlus, t1, t2)
}

func numericPromote(op Op, t1, t2 Type) (Type, error) {
	if isAny(t1) || isAny(t2) {
		return AnyT, nil
	}
	if !isNumeric(t1) || !isNumeric(t2) {
		return nil, opError(op, t1, t2, "operands must be numeric")
	}
	return widerOf(t1, t2), nil
}

// widerOf returns the wider of two numeric types per the widening order
// Byte < Int < Long < Double < Decimal (§4.A). Any dominates; this
// helper is only called once callers have excluded Any.
func widerOf(t1, t2 Type) Type {
	if isDecimal(t1) || isDecimal(t2) {
		return Decimal
	}
	p1, ok1 := t1.(Primitive)
	p2, ok2 := t2.(Primitive)
	if !ok1 {
		return t2
	}
	if !ok2 {
		return t1
	}
	r1, r2 := widenOrder[p1.Prim], widenOrder[p2.Prim]
	if r1 >= r2 {
		return Primitive{Prim: p1.Prim}
	}
	return Primitive{Prim: p2.Prim}
}

// CommonSuperType is the join operator for control-flow merges.
func CommonSuperType(t1, t2 Type) Type {
	if t1 == nil {
		return t2
	}
	if t2 == nil {
		return t1
	}
	if isAny(t1) || isAny(t2) {
		return AnyT
	}
	if i1, ok := t1.(Instance); ok {
		if i2, ok2 := t2.(Instance); ok2 {
			return commonInstanceSuper(i1, i2)
		}
	}
	if a1, ok := t1.(Array); ok {
		if a2, ok2 := t2.(Array); ok2 {
			return Array{Elem: CommonSuperType(a1.Elem, a2.Elem)}
		}
		return AnyT
	}
	if isNumeric(t1) && isNumeric(t2) {
		return widerOf(t1, t2)
	}
	if typesEqual(t1, t2) {
		return t1
	}
	return AnyT
}

func commonInstanceSuper(i1, i2 Instance) Type {
	if i1.Class == nil || i2.Class == nil {
		if i1.SameClass(i2) {
			return i1
		}
		return AnyT
	}
	// walk i1's chain looking for an ancestor of i2, and vice versa,
	// returning the most-derived common base.
	for c := i1.Class; c != nil; c = c.Base {
		for d := i2.Class; d != nil; d = d.Base {
			if c == d {
				return c.ToInstance()
			}
		}
	}
	return AnyT
}

// IsConvertibleTo implements §4.A's two-mode convertibility.
func IsConvertibleTo(from, target Type, isCast bool) bool {
	if from == nil || target == nil {
		return false
	}
	if typesEqual(stripBox(from), stripBox(target)) {
		return true
	}
	if isAny(target) || isAny(from) {
		return true
	}
	if isNumeric(from) && isNumeric(target) {
		return true // numeric intra-family conversions, either mode
	}
	if isCast {
		return isConvertibleCastMode(from, target)
	}
	return isConvertibleCoercionMode(from, target)
}

func stripBox(t Type) Type {
	if p, ok := t.(Primitive); ok {
		return Primitive{Prim: p.Prim}
	}
	return t
}

func isConvertibleCastMode(from, target Type) bool {
	switch {
	case isMap(from) && target.Kind() == KindInstance:
		return true
	case from.Kind() == KindInstance && isMap(target):
		return true
	case (isList(from) || from.Kind() == KindIterator || from.Kind() == KindArray) &&
		(isList(target) || target.Kind() == KindIterator || target.Kind() == KindArray):
		return true
	case isString(from) && target.Kind() == KindArray:
		if a, ok := target.(Array); ok {
			if p, ok2 := a.Elem.(Primitive); ok2 && p.Prim == PrimByte {
				return true
			}
		}
		return false
	case from.Kind() == KindArray && isString(target):
		if a, ok := from.(Array); ok {
			if p, ok2 := a.Elem.(Primitive); ok2 && p.Prim == PrimByte {
				return true
			}
		}
		return false
	case from.Kind() == KindInstance && target.Kind() == KindInstance:
		fi, ti := from.(Instance), target.(Instance)
		return instanceHierarchyRelated(fi, ti)
	}
	return false
}

func isConvertibleCoercionMode(from, target Type) bool {
	if isConvertibleCastMode(from, target) {
		return true
	}
	switch {
	case isString(target):
		return true // anything -> String
	case isString(from) && isNumeric(target):
		return true
	case isString(from) && isList(target):
		return true // String -> List-of-chars
	case from.Kind() == KindInstance && isMap(target):
		return true
	case isMap(from) && target.Kind() == KindInstance:
		return true
	}
	return false
}

func instanceHierarchyRelated(from, to Instance) bool {
	if from.Class == nil || to.Class == nil {
		return from.SameClass(to)
	}
	for c := from.Class; c != nil; c = c.Base {
		if c == to.Class {
			return true // upcast
		}
	}
	for c := to.Class; c != nil; c = c.Base {
		if c == from.Class {
			return true // downcast
		}
	}
	return false
}
