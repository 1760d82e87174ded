// Package rtvalue implements §4.G: a minimal but real runtime value
// library for the bytecode the method emitter produces. Grounded on
// funvibe-funxy's internal/evaluator/object*.go Object interface
// (Type()/Inspect()), adapted from that package's tagged-struct-per-kind
// model to a single boxed-primitive Value carrying a Kind tag plus one
// of a handful of Go-native payload fields, which keeps arithmetic and
// comparison dispatch in one place instead of one method set per kind.
package rtvalue

import (
	"fmt"
	"math/big"
)

// Kind tags the payload a Value currently holds.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindByte
	KindInt
	KindLong
	KindDouble
	KindDecimal
	KindString
	KindList
	KindMap
	KindInstance
	KindClosure
	KindContinuation
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindByte:
		return "byte"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindDecimal:
		return "Decimal"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindInstance:
		return "Instance"
	case KindClosure:
		return "Function"
	case KindContinuation:
		return "Continuation"
	}
	return "?"
}

// Value is the single runtime representation every opcode in
// internal/codegen pushes and pops. Numeric payloads live directly in
// the struct (no interface boxing for the hot path); Decimal, String,
// List, Map, Instance and Closure payloads live behind Ref, since they
// are reference types or arbitrary precision.
type Value struct {
	Kind Kind
	Num  int64       // Boolean(0/1)/Byte/Int/Long, reinterpreted per Kind
	F    float64     // Double
	Ref  interface{} // *big.Float (Decimal), string, *List, *Map, *Instance, *Closure, *Continuation
}

// Object is the narrow interface classgen/jconfig/diagnostics code uses
// to print or introspect a Value without importing the concrete type,
// mirroring the teacher's Object.Type()/Inspect() pair.
type Object interface {
	Type() string
	Inspect() string
}

func (v Value) Type() string    { return v.Kind.String() }
func (v Value) Inspect() string { return v.String() }

func Null() Value             { return Value{Kind: KindNull} }
func Bool(b bool) Value       { n := int64(0); if b { n = 1 }; return Value{Kind: KindBoolean, Num: n} }
func Byte(b byte) Value       { return Value{Kind: KindByte, Num: int64(b)} }
func Int(i int) Value         { return Value{Kind: KindInt, Num: int64(i)} }
func Long(l int64) Value      { return Value{Kind: KindLong, Num: l} }
func Double(f float64) Value  { return Value{Kind: KindDouble, F: f} }
func Str(s string) Value      { return Value{Kind: KindString, Ref: s} }
func Decimal(d *big.Float) Value { return Value{Kind: KindDecimal, Ref: d} }

func (v Value) IsNull() bool { return v.Kind == KindNull }
func (v Value) AsBool() bool { return v.Kind == KindBoolean && v.Num != 0 }
func (v Value) AsString() string {
	s, _ := v.Ref.(string)
	return s
}

// Truthy implements §3.2's boolean-coercion rules used by if/while/&&/||:
// false and null are falsy, numeric zero is falsy, an empty string/list/
// map is falsy, everything else is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBoolean:
		return v.Num != 0
	case KindByte, KindInt, KindLong:
		return v.Num != 0
	case KindDouble:
		return v.F != 0
	case KindDecimal:
		d, _ := v.Ref.(*big.Float)
		return d != nil && d.Sign() != 0
	case KindString:
		return v.AsString() != ""
	case KindList:
		l, _ := v.Ref.(*List)
		return l != nil && len(l.Elems) > 0
	case KindMap:
		m, _ := v.Ref.(*Map)
		return m != nil && len(m.Keys) > 0
	}
	return true
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return fmt.Sprintf("%v", v.Num != 0)
	case KindByte, KindInt, KindLong:
		return fmt.Sprintf("%d", v.Num)
	case KindDouble:
		return fmt.Sprintf("%g", v.F)
	case KindDecimal:
		d, _ := v.Ref.(*big.Float)
		if d == nil {
			return "0"
		}
		return d.Text('f', -1)
	case KindString:
		return v.AsString()
	case KindList:
		l, _ := v.Ref.(*List)
		return l.String()
	case KindMap:
		m, _ := v.Ref.(*Map)
		return m.String()
	case KindInstance:
		inst, _ := v.Ref.(*Instance)
		if inst == nil {
			return "<instance>"
		}
		return inst.String()
	case KindClosure:
		return "<function>"
	case KindContinuation:
		return "<continuation>"
	}
	return "?"
}

// Equal implements reference-independent structural equality, used both
// by §4.A's `==` operator semantics and internal/codegen.Chunk's
// constant-pool deduplication.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		if isNumeric(a.Kind) && isNumeric(b.Kind) {
			return numeric(a) == numeric(b)
		}
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBoolean, KindByte, KindInt, KindLong:
		return a.Num == b.Num
	case KindDouble:
		return a.F == b.F
	case KindDecimal:
		ad, _ := a.Ref.(*big.Float)
		bd, _ := b.Ref.(*big.Float)
		if ad == nil || bd == nil {
			return ad == bd
		}
		return ad.Cmp(bd) == 0
	case KindString:
		return a.AsString() == b.AsString()
	case KindList:
		al, _ := a.Ref.(*List)
		bl, _ := b.Ref.(*List)
		if al == nil || bl == nil || len(al.Elems) != len(bl.Elems) {
			return al == bl
		}
		for i := range al.Elems {
			if !Equal(al.Elems[i], bl.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return a.Ref == b.Ref
	}
}

func isNumeric(k Kind) bool {
	return k == KindByte || k == KindInt || k == KindLong || k == KindDouble
}

func numeric(v Value) float64 {
	if v.Kind == KindDouble {
		return v.F
	}
	return float64(v.Num)
}
