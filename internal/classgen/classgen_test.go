package classgen

import (
	"strings"
	"testing"

	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/codegen"
	"github.com/jactl-lang/jactl/internal/parser"
	"github.com/jactl-lang/jactl/internal/resolver"
)

func resolveClass(t *testing.T, src string) (*ast.ClassDecl, *ast.Arena) {
	t.Helper()
	prog, arena, err := parser.Parse("test.jactl", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := resolver.New(arena).Resolve(prog); err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	return prog.Statements[0].(*ast.ClassDecl), arena
}

func TestEmitClassSynthesizesInitFromFieldDefaults(t *testing.T) {
	cd, arena := resolveClass(t, `
class Point {
    int x
    int y = 0
}
`)
	class, errs := EmitClass(cd, "test.jactl", arena)
	if len(errs) != 0 {
		t.Fatalf("unexpected emission errors: %v", errs)
	}
	init, ok := class.Methods["init"]
	if !ok {
		t.Fatalf("expected synthesized init method")
	}
	dis := codegen.Disassemble(init, "init")
	if !strings.Contains(dis, "SET_FIELD") {
		t.Errorf("expected SET_FIELD in constructor, got:\n%s", dis)
	}
}

func TestEmitClassMandatoryFieldGetsInitMissing(t *testing.T) {
	cd, arena := resolveClass(t, `
class Point {
    int x
    int y = 0
}
`)
	class, errs := EmitClass(cd, "test.jactl", arena)
	if len(errs) != 0 {
		t.Fatalf("unexpected emission errors: %v", errs)
	}
	missing, ok := class.Methods["init$missing"]
	if !ok {
		t.Fatalf("expected init$missing since x has no default")
	}
	dis := codegen.Disassemble(missing, "init$missing")
	if !strings.Contains(dis, "DIE") {
		t.Errorf("expected DIE in init$missing, got:\n%s", dis)
	}
}

func TestEmitClassAllDefaultedSkipsInitMissing(t *testing.T) {
	cd, arena := resolveClass(t, `
class Point {
    int x = 0
    int y = 0
}
`)
	class, errs := EmitClass(cd, "test.jactl", arena)
	if len(errs) != 0 {
		t.Fatalf("unexpected emission errors: %v", errs)
	}
	if _, ok := class.Methods["init$missing"]; ok {
		t.Errorf("expected no init$missing when every field has a default")
	}
}

func TestEmitClassWriteAndReadJSONDelegateToBuiltins(t *testing.T) {
	cd, arena := resolveClass(t, `
class Point {
    int x = 0
    int y = 0
}
`)
	class, errs := EmitClass(cd, "test.jactl", arena)
	if len(errs) != 0 {
		t.Fatalf("unexpected emission errors: %v", errs)
	}
	for _, name := range []string{"writeJson", "readJson", "checkpoint", "restore"} {
		chunk, ok := class.Methods[name]
		if !ok {
			t.Fatalf("expected synthesized %s method", name)
		}
		dis := codegen.Disassemble(chunk, name)
		if !strings.Contains(dis, "CALL_METHOD") {
			t.Errorf("expected %s to delegate via CALL_METHOD, got:\n%s", name, dis)
		}
	}
}
