package jtype

import "testing"

func TestResultOrderedComparison(t *testing.T) {
	tests := []struct {
		name    string
		t1, t2  Type
		op      Op
		wantErr bool
	}{
		{"int-int", Primitive{Prim: PrimInt}, Primitive{Prim: PrimInt}, OpLt, false},
		{"int-double", Primitive{Prim: PrimInt}, Primitive{Prim: PrimDouble}, OpLe, false},
		{"string-string", StringT, StringT, OpGt, false},
		{"any-any", AnyT, AnyT, OpGe, false},
		{"bool-bool", Primitive{Prim: PrimBoolean}, Primitive{Prim: PrimBoolean}, OpLt, false},
		{"string-int", StringT, Primitive{Prim: PrimInt}, OpLt, true},
		{"map-map", MapT, MapT, OpLt, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Result(tt.t1, tt.op, tt.t2)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got result %v", res)
			}
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if res.Kind() != KindPrimitive || res.(Primitive).Prim != PrimBoolean {
					t.Fatalf("expected Boolean result, got %v", res)
				}
			}
		})
	}
}

func TestResultPlus(t *testing.T) {
	tests := []struct {
		name string
		t1   Type
		t2   Type
		want Type
	}{
		{"string+int", StringT, Primitive{Prim: PrimInt}, StringT},
		{"int+string", Primitive{Prim: PrimInt}, StringT, StringT},
		{"list+any", ListT, AnyT, ListT},
		{"map+map", MapT, MapT, MapT},
		{"int+long", Primitive{Prim: PrimInt}, Primitive{Prim: PrimLong}, Primitive{Prim: PrimLong}},
		{"long+double", Primitive{Prim: PrimLong}, Primitive{Prim: PrimDouble}, Primitive{Prim: PrimDouble}},
		{"double+decimal", Primitive{Prim: PrimDouble}, Decimal, Decimal},
		{"any+int", AnyT, Primitive{Prim: PrimInt}, AnyT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Result(tt.t1, OpPlus, tt.t2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want.String() {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultBitOps(t *testing.T) {
	if _, err := Result(StringT, OpBand, Primitive{Prim: PrimInt}); err == nil {
		t.Fatalf("expected error for String & Int")
	}
	got, err := Result(Primitive{Prim: PrimByte}, OpBor, Primitive{Prim: PrimLong})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(Primitive).Prim != PrimLong {
		t.Fatalf("expected widened Long, got %v", got)
	}
	shifted, err := Result(Primitive{Prim: PrimInt}, OpShl, Primitive{Prim: PrimLong})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifted.(Primitive).Prim != PrimInt {
		t.Fatalf("shift must preserve LHS type, got %v", shifted)
	}
}

func TestResultIsCommutativeForEq(t *testing.T) {
	a, _ := Result(StringT, OpEq, Primitive{Prim: PrimInt})
	b, _ := Result(Primitive{Prim: PrimInt}, OpEq, StringT)
	if a.String() != b.String() {
		t.Fatalf("OpEq result type should be symmetric: %v vs %v", a, b)
	}
}

func TestCommonSuperTypeNumeric(t *testing.T) {
	got := CommonSuperType(Primitive{Prim: PrimInt}, Primitive{Prim: PrimLong})
	if got.(Primitive).Prim != PrimLong {
		t.Fatalf("expected Long, got %v", got)
	}
}

func TestCommonSuperTypeInstanceHierarchy(t *testing.T) {
	base := &ClassDescriptor{Name: "Animal", Internal: "Animal"}
	mid := &ClassDescriptor{Name: "Mammal", Internal: "Mammal", Base: base}
	dogCls := &ClassDescriptor{Name: "Dog", Internal: "Dog", Base: mid}
	catCls := &ClassDescriptor{Name: "Cat", Internal: "Cat", Base: mid}

	got := CommonSuperType(dogCls.ToInstance(), catCls.ToInstance())
	inst, ok := got.(Instance)
	if !ok || inst.Class != mid {
		t.Fatalf("expected Mammal as common super type, got %v", got)
	}
}

func TestCommonSuperTypeUnrelatedIsAny(t *testing.T) {
	got := CommonSuperType(StringT, ListT)
	if got.Kind() != KindAny {
		t.Fatalf("expected Any, got %v", got)
	}
}

func TestIsConvertibleToReflexive(t *testing.T) {
	types := []Type{
		Primitive{Prim: PrimInt}, StringT, MapT, ListT, AnyT, Decimal,
	}
	for _, ty := range types {
		if !IsConvertibleTo(ty, ty, false) {
			t.Errorf("%v should be convertible to itself", ty)
		}
		if !IsConvertibleTo(ty, ty, true) {
			t.Errorf("%v should be cast-convertible to itself", ty)
		}
	}
}

func TestIsConvertibleToInstanceHierarchy(t *testing.T) {
	base := &ClassDescriptor{Name: "Animal", Internal: "Animal"}
	dogCls := &ClassDescriptor{Name: "Dog", Internal: "Dog", Base: base}

	if !IsConvertibleTo(dogCls.ToInstance(), base.ToInstance(), true) {
		t.Fatalf("Dog should upcast to Animal")
	}
	if !IsConvertibleTo(base.ToInstance(), dogCls.ToInstance(), true) {
		t.Fatalf("Animal should downcast to Dog")
	}
}

func TestIsConvertibleToCoercionMode(t *testing.T) {
	if !IsConvertibleTo(Primitive{Prim: PrimInt}, StringT, false) {
		t.Fatalf("Int should coerce to String")
	}
	if IsConvertibleTo(Primitive{Prim: PrimInt}, StringT, true) {
		t.Fatalf("Int should not cast to String")
	}
	if !IsConvertibleTo(StringT, Primitive{Prim: PrimInt}, false) {
		t.Fatalf("String should coerce to numeric")
	}
}

func TestUnresolvedUnknownIsBug(t *testing.T) {
	u := NewUnknown()
	if !IsUnresolvedUnknown(u) {
		t.Fatalf("fresh Unknown should be reported unresolved")
	}
	u.Resolve(Primitive{Prim: PrimInt})
	if IsUnresolvedUnknown(u) {
		t.Fatalf("resolved Unknown should no longer be reported unresolved")
	}
	if u.Kind() != KindPrimitive {
		t.Fatalf("resolved Unknown should delegate Kind(), got %v", u.Kind())
	}
}
