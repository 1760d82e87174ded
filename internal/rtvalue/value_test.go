package rtvalue

import (
	"testing"

	"github.com/jactl-lang/jactl/internal/jtype"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Null(), false},
		{Bool(false), false},
		{Bool(true), true},
		{Int(0), false},
		{Int(1), true},
		{Str(""), false},
		{Str("x"), true},
		{Value{Kind: KindList, Ref: NewList()}, false},
		{Value{Kind: KindList, Ref: NewList(Int(1))}, true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("%v.Truthy() = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestArithStringConcat(t *testing.T) {
	got, err := Arith(jtype.OpPlus, Str("a"), Str("b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsString() != "ab" {
		t.Errorf("got %q, want %q", got.AsString(), "ab")
	}
}

func TestArithIntWidening(t *testing.T) {
	got, err := Arith(jtype.OpPlus, Int(1), Long(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindLong || got.Num != 3 {
		t.Errorf("got %v, want Long(3)", got)
	}
}

func TestArithDivideByZero(t *testing.T) {
	_, err := Arith(jtype.OpDiv, Int(1), Int(0))
	if err == nil {
		t.Fatal("expected divide-by-zero error")
	}
}

func TestMapSetGetDelete(t *testing.T) {
	m := NewMap()
	m.Set(Str("a"), Int(1))
	m.Set(Str("b"), Int(2))
	if v, ok := m.Get(Str("a")); !ok || v.Num != 1 {
		t.Fatalf("expected a=1, got %v, %v", v, ok)
	}
	m.Delete(Str("a"))
	if _, ok := m.Get(Str("a")); ok {
		t.Fatalf("expected a to be deleted")
	}
	if m.Len() != 1 {
		t.Fatalf("expected len 1, got %d", m.Len())
	}
}

func TestRegexMatchCaptures(t *testing.T) {
	ok, groups, err := MatchRegex("hello world", `(\w+) (\w+)`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || len(groups) != 2 || groups[0] != "hello" || groups[1] != "world" {
		t.Fatalf("got ok=%v groups=%v", ok, groups)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	l := Value{Kind: KindList, Ref: NewList(Int(1), Str("x"), Bool(true))}
	b, err := MarshalJSON(l)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(b) != `[1,"x",true]` {
		t.Errorf("got %s", b)
	}
}

func TestEqualCrossNumericKind(t *testing.T) {
	if !Equal(Int(1), Long(1)) {
		t.Errorf("expected Int(1) == Long(1)")
	}
	if Equal(Int(1), Str("1")) {
		t.Errorf("expected Int(1) != Str(\"1\")")
	}
}
