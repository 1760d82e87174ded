package resolver

import (
	"strings"
	"testing"

	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/jtype"
	"github.com/jactl-lang/jactl/internal/parser"
)

// resolveSource parses and resolves input, returning the Program and the
// arena so callers can inspect the resolved tree. It fails the test if
// parsing itself errors, since these cases exercise the Resolver, not
// the grammar.
func resolveSource(t *testing.T, input string) (*ast.Program, *ast.Arena, error) {
	t.Helper()
	prog, arena, err := parser.Parse("test.jactl", input)
	if err != nil {
		t.Fatalf("unexpected parse error: %v\ninput: %s", err, input)
	}
	err = New(arena).Resolve(prog)
	return prog, arena, err
}

func expectResolveError(t *testing.T, input, substr string) {
	t.Helper()
	_, _, err := resolveSource(t, input)
	if err == nil {
		t.Fatalf("expected a resolve error containing %q, got none\ninput: %s", substr, input)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("expected resolve error containing %q, got: %v", substr, err)
	}
}

func expectNoResolveError(t *testing.T, input string) {
	t.Helper()
	_, _, err := resolveSource(t, input)
	if err != nil {
		t.Fatalf("expected no resolve error, got: %v\ninput: %s", err, input)
	}
}

func TestResolveLiteralTypes(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want jtype.Type
	}{
		{"int", "1", jtype.Primitive{Prim: jtype.PrimInt}},
		{"long", "1L", jtype.Primitive{Prim: jtype.PrimLong}},
		{"double", "1.5D", jtype.Primitive{Prim: jtype.PrimDouble}},
		{"byte", "1b", jtype.Primitive{Prim: jtype.PrimByte}},
		{"string", `"hi"`, jtype.StringT},
		{"bool", "true", jtype.Primitive{Prim: jtype.PrimBoolean}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, _, err := resolveSource(t, tt.expr+";")
			if err != nil {
				t.Fatalf("unexpected resolve error: %v", err)
			}
			stmt, ok := prog.Statements[0].(*ast.ExprStmt)
			if !ok {
				t.Fatalf("expected ExprStmt, got %T", prog.Statements[0])
			}
			got := stmt.Expr.InferredType()
			if !got.Is(tt.want) {
				t.Errorf("got type %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveUndeclaredVariable(t *testing.T) {
	expectResolveError(t, "x + 1;", "unknown variable or function")
}

func TestResolveSimpleVarDeclAndUse(t *testing.T) {
	expectNoResolveError(t, `
def x = 1
def y = x + 2
`)
}

func TestResolveForwardFunctionCall(t *testing.T) {
	expectNoResolveError(t, `
def f() { return g() }
def g() { return 1 }
`)
}

func TestResolveClosureCapture(t *testing.T) {
	prog, arena, err := resolveSource(t, `
def outer() {
    def x = 1
    def c = { -> x + 1 }
    return c()
}
`)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}

	outer, ok := prog.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", prog.Statements[0])
	}

	var closure *ast.Closure
	var xDecl *ast.VarDecl
	for _, stmt := range outer.Body.Statements {
		switch s := stmt.(type) {
		case *ast.VarDeclStmt:
			for _, d := range s.Decls {
				if d.Name == "x" {
					xDecl = d
				}
				if cl, ok := d.Init.(*ast.Closure); ok {
					closure = cl
				}
			}
		}
	}
	if xDecl == nil {
		t.Fatalf("did not find declaration of x")
	}
	if xDecl.Roles&ast.RoleHeapLocal == 0 {
		t.Errorf("expected x to be flagged RoleHeapLocal, roles=%v", xDecl.Roles)
	}
	if closure == nil {
		t.Fatalf("did not find closure literal")
	}
	found := false
	for _, c := range closure.Captures {
		if c == xDecl {
			found = true
		}
	}
	if !found {
		t.Errorf("expected closure.Captures to contain x's VarDecl")
	}
	_ = arena
}

func TestResolveClosureOwnParamNotCaptured(t *testing.T) {
	prog, _, err := resolveSource(t, `
def outer() {
    def c = { x -> x + 1 }
    return c(1)
}
`)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	outer := prog.Statements[0].(*ast.FuncDecl)
	var closure *ast.Closure
	for _, stmt := range outer.Body.Statements {
		if s, ok := stmt.(*ast.VarDeclStmt); ok {
			for _, d := range s.Decls {
				if cl, ok := d.Init.(*ast.Closure); ok {
					closure = cl
				}
			}
		}
	}
	if closure == nil {
		t.Fatalf("did not find closure literal")
	}
	if len(closure.Captures) != 0 {
		t.Errorf("expected no captures for a closure referencing only its own param, got %d", len(closure.Captures))
	}
	if closure.Params[0].Roles&ast.RoleHeapLocal != 0 {
		t.Errorf("closure's own parameter should not be flagged as a heap local")
	}
}

func TestResolveAsyncPropagatesTransitively(t *testing.T) {
	prog, _, err := resolveSource(t, `
def a() { return b() }
def b() { return sleep(1) }
def c() { return a() }
`)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	want := map[string]bool{"a": true, "b": true, "c": true}
	for _, stmt := range prog.Statements {
		fd, ok := stmt.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if fd.IsAsync != want[fd.Name] {
			t.Errorf("function %s: IsAsync = %v, want %v", fd.Name, fd.IsAsync, want[fd.Name])
		}
	}
}

func TestResolveAsyncMutualRecursionConverges(t *testing.T) {
	prog, _, err := resolveSource(t, `
def even(n) {
    if (n == 0) return true
    return odd(n - 1)
}
def odd(n) {
    if (n == 0) return sleep(0)
    return even(n - 1)
}
`)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	for _, stmt := range prog.Statements {
		fd := stmt.(*ast.FuncDecl)
		if !fd.IsAsync {
			t.Errorf("function %s: expected IsAsync = true via mutual recursion through sleep", fd.Name)
		}
	}
}

func TestResolveClassFieldsAndMandatory(t *testing.T) {
	prog, _, err := resolveSource(t, `
class Point {
    int x
    int y = 0
}
`)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	cd := prog.Statements[0].(*ast.ClassDecl)
	desc := cd.Descriptor
	if desc == nil {
		t.Fatalf("expected class descriptor to be set")
	}
	if !desc.MandatoryFields["x"] {
		t.Errorf("expected x to be mandatory")
	}
	if desc.MandatoryFields["y"] {
		t.Errorf("expected y (has default) to not be mandatory")
	}
	if desc.AllFieldsDefaulted {
		t.Errorf("expected AllFieldsDefaulted = false since x has no default")
	}
	if _, ok := desc.Methods["init"]; !ok {
		t.Errorf("expected a synthesized init method")
	}
	if _, ok := desc.Methods["init$missing"]; !ok {
		t.Errorf("expected a synthesized init$missing method since x is mandatory")
	}
}

func TestResolveClassAllFieldsDefaultedSkipsInitMissing(t *testing.T) {
	prog, _, err := resolveSource(t, `
class Point {
    int x = 0
    int y = 0
}
`)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	desc := prog.Statements[0].(*ast.ClassDecl).Descriptor
	if !desc.AllFieldsDefaulted {
		t.Errorf("expected AllFieldsDefaulted = true")
	}
	if _, ok := desc.Methods["init$missing"]; ok {
		t.Errorf("expected no init$missing method when every field has a default")
	}
}

func TestResolveClassUnknownBase(t *testing.T) {
	expectResolveError(t, `
class Dog extends Animal {
    int legs = 4
}
`, "unknown base class")
}

func TestResolveNewUnknownField(t *testing.T) {
	expectResolveError(t, `
class Point {
    int x = 0
}
def p = new Point(z: 1)
`, "no such field")
}

func TestResolveBinaryOperatorTypeError(t *testing.T) {
	expectResolveError(t, `def x = "a" - 1;`, "")
}

func TestResolveTernaryCommonSuperType(t *testing.T) {
	prog, _, err := resolveSource(t, `def x = true ? 1 : 2L;`)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	s := prog.Statements[0].(*ast.VarDeclStmt)
	got := s.Decls[0].Init.InferredType()
	want := jtype.Primitive{Prim: jtype.PrimLong}
	if !got.Is(want) {
		t.Errorf("got %s, want %s (widened to Long)", got, want)
	}
}

func TestResolveForLoop(t *testing.T) {
	expectNoResolveError(t, `
def total = 0
for (def i = 0; i < 10; i = i + 1) {
    total = total + i
}
`)
}

func TestResolveCastMarksNeedsLocation(t *testing.T) {
	prog, _, err := resolveSource(t, `
def f(x) {
    return (int) x
}
`)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	fd := prog.Statements[0].(*ast.FuncDecl)
	if !fd.NeedsLocation {
		t.Errorf("expected NeedsLocation = true for a function that casts")
	}
}
