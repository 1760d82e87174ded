package lexer

import (
	"testing"

	"github.com/jactl-lang/jactl/internal/token"
)

func collect(src string) []token.Type {
	l := New("test.jactl", src)
	var kinds []token.Type
	for {
		t := l.Next()
		kinds = append(kinds, t.Type)
		if t.Type == token.EOF {
			break
		}
	}
	return kinds
}

func TestSimpleArithmetic(t *testing.T) {
	got := collect("1 + 2 * 3")
	want := []token.Type{token.INT_CONST, token.PLUS, token.INT_CONST, token.STAR, token.INT_CONST, token.EOF}
	assertKinds(t, got, want)
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	got := collect("def x = if")
	want := []token.Type{token.KW_DEF, token.IDENT, token.ASSIGN, token.KW_IF, token.EOF}
	assertKinds(t, got, want)
}

func TestCompoundOperators(t *testing.T) {
	got := collect("x += 1 <=> 2 === 3")
	want := []token.Type{token.IDENT, token.PLUS_EQ, token.INT_CONST, token.CMP, token.INT_CONST, token.TEQ, token.INT_CONST, token.EOF}
	assertKinds(t, got, want)
}

func TestCaptureIdentifier(t *testing.T) {
	got := collect("$1 $2")
	want := []token.Type{token.CAPTURE_IDENT, token.CAPTURE_IDENT, token.EOF}
	assertKinds(t, got, want)
}

func TestLineComment(t *testing.T) {
	got := collect("1 // comment\n2")
	want := []token.Type{token.INT_CONST, token.EOL, token.INT_CONST, token.EOF}
	assertKinds(t, got, want)
}

func TestStringLiteral(t *testing.T) {
	l := New("test.jactl", `"hello"`)
	tok := l.Next()
	if tok.Type != token.STRING_CONST || tok.Literal != "hello" {
		t.Fatalf("got %+v", tok)
	}
}

func TestInterpolatedStringStart(t *testing.T) {
	l := New("test.jactl", `"x=${1}"`)
	tok := l.Next()
	if tok.Type != token.EXPR_STRING_START || tok.Literal != "x=" {
		t.Fatalf("got %+v", tok)
	}
	inner := l.Next()
	if inner.Type != token.INT_CONST {
		t.Fatalf("expected INT_CONST inside interpolation, got %+v", inner)
	}
	end := l.ResumeExprString()
	if end.Type != token.EXPR_STRING_END {
		t.Fatalf("got %+v", end)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("test.jactl", "1 2")
	p1 := l.Peek()
	p2 := l.Peek()
	if p1.Type != p2.Type || p1.Literal != p2.Literal {
		t.Fatalf("peek not idempotent: %+v vs %+v", p1, p2)
	}
	n := l.Next()
	if n.Literal != p1.Literal {
		t.Fatalf("next after peek mismatch: %+v vs %+v", n, p1)
	}
}

func TestRegexArming(t *testing.T) {
	l := New("test.jactl", "/abc/")
	l.StartRegex()
	tok := l.Next()
	if tok.Type != token.REGEX_SUBST_START || tok.Literal != "abc" {
		t.Fatalf("got %+v", tok)
	}
}

func TestDivisionWithoutArming(t *testing.T) {
	got := collect("a / b")
	want := []token.Type{token.IDENT, token.SLASH, token.IDENT, token.EOF}
	assertKinds(t, got, want)
}

func assertKinds(t *testing.T, got, want []token.Type) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}
