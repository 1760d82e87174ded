package rtvalue

import (
	"fmt"
	"math/big"

	"github.com/jactl-lang/jactl/internal/jerr"
	"github.com/jactl-lang/jactl/internal/jtype"
)

// Arith performs the §4.A binary numeric/string/list operator at
// runtime, once internal/codegen's OpAdd/OpSub/... have already decided
// (via jtype.Result at compile time) that the operation is legal; this
// is the runtime half of that compile-time contract, using math/big for
// Decimal the same way the teacher's evaluator falls back to
// arbitrary-precision arithmetic for its BigInt/Rational kinds.
func Arith(op jtype.Op, a, b Value) (Value, error) {
	switch op {
	case jtype.OpPlus:
		if a.Kind == KindString || b.Kind == KindString {
			return Str(a.String() + b.String()), nil
		}
		if a.Kind == KindList || b.Kind == KindList {
			return concatLists(a, b)
		}
		return numericOp(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y },
			func(x, y *big.Float) *big.Float { return new(big.Float).Add(x, y) })
	case jtype.OpMinus:
		return numericOp(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y },
			func(x, y *big.Float) *big.Float { return new(big.Float).Sub(x, y) })
	case jtype.OpMul:
		return numericOp(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y },
			func(x, y *big.Float) *big.Float { return new(big.Float).Mul(x, y) })
	case jtype.OpDiv:
		if isZero(b) {
			return Value{}, jerr.NewRuntimeError(jerr.RuntimeDivideByZero, "divide by zero", "", 0)
		}
		return numericOp(a, b, func(x, y int64) int64 { return x / y }, func(x, y float64) float64 { return x / y },
			func(x, y *big.Float) *big.Float { return new(big.Float).Quo(x, y) })
	case jtype.OpMod:
		if isZero(b) {
			return Value{}, jerr.NewRuntimeError(jerr.RuntimeDivideByZero, "divide by zero", "", 0)
		}
		return numericOp(a, b, func(x, y int64) int64 { return x % y }, func(x, y float64) float64 {
			q := float64(int64(x / y))
			return x - q*y
		}, func(x, y *big.Float) *big.Float {
			xi, _ := x.Int(nil)
			yi, _ := y.Int(nil)
			return new(big.Float).SetInt(new(big.Int).Mod(xi, yi))
		})
	case jtype.OpBand:
		return Value{Kind: widestInt(a, b), Num: a.Num & b.Num}, nil
	case jtype.OpBor:
		return Value{Kind: widestInt(a, b), Num: a.Num | b.Num}, nil
	case jtype.OpBxor:
		return Value{Kind: widestInt(a, b), Num: a.Num ^ b.Num}, nil
	case jtype.OpShl:
		return Value{Kind: widestInt(a, b), Num: a.Num << uint(b.Num)}, nil
	case jtype.OpShr:
		return Value{Kind: widestInt(a, b), Num: a.Num >> uint(b.Num)}, nil
	case jtype.OpUshr:
		return Value{Kind: widestInt(a, b), Num: int64(uint64(a.Num) >> uint(b.Num))}, nil
	}
	return Value{}, fmt.Errorf("rtvalue.Arith: unsupported operator %v", op)
}

// Compare implements the §4.A ordering operators via a three-way
// comparison (-1/0/1), mirroring the `<=>` operator's own semantics so
// <, <=, >, >= and <=> all share one code path.
func Compare(a, b Value) int {
	if a.Kind == KindString || b.Kind == KindString {
		as, bs := a.String(), b.String()
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
	if a.Kind == KindDecimal || b.Kind == KindDecimal {
		return decimalOf(a).Cmp(decimalOf(b))
	}
	if a.Kind == KindDouble || b.Kind == KindDouble {
		af, bf := numeric(a), numeric(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a.Num < b.Num:
		return -1
	case a.Num > b.Num:
		return 1
	default:
		return 0
	}
}

func isZero(v Value) bool {
	switch v.Kind {
	case KindDouble:
		return v.F == 0
	case KindDecimal:
		return decimalOf(v).Sign() == 0
	default:
		return v.Num == 0
	}
}

func decimalOf(v Value) *big.Float {
	if v.Kind == KindDecimal {
		d, _ := v.Ref.(*big.Float)
		if d != nil {
			return d
		}
	}
	return new(big.Float).SetFloat64(numeric(v))
}

func widestInt(a, b Value) Kind {
	if a.Kind == KindLong || b.Kind == KindLong {
		return KindLong
	}
	return KindInt
}

// numericOp widens a/b to the strictest common representation (int-ish,
// double, or Decimal) per §4.A's numeric promotion ladder before
// applying the matching Go-native operator.
func numericOp(a, b Value, intOp func(int64, int64) int64, fOp func(float64, float64) float64, dOp func(*big.Float, *big.Float) *big.Float) (Value, error) {
	if a.Kind == KindDecimal || b.Kind == KindDecimal {
		return Decimal(dOp(decimalOf(a), decimalOf(b))), nil
	}
	if a.Kind == KindDouble || b.Kind == KindDouble {
		return Double(fOp(numeric(a), numeric(b))), nil
	}
	return Value{Kind: widestInt(a, b), Num: intOp(a.Num, b.Num)}, nil
}

func concatLists(a, b Value) (Value, error) {
	al, aok := a.Ref.(*List)
	bl, bok := b.Ref.(*List)
	out := []Value{}
	if aok {
		out = append(out, al.Elems...)
	} else {
		out = append(out, a)
	}
	if bok {
		out = append(out, bl.Elems...)
	} else {
		out = append(out, b)
	}
	return Value{Kind: KindList, Ref: &List{Elems: out}}, nil
}
