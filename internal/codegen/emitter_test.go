package codegen

import (
	"strings"
	"testing"

	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/parser"
	"github.com/jactl-lang/jactl/internal/resolver"
)

func resolveAndEmit(t *testing.T, src string) (*Chunk, []error) {
	t.Helper()
	prog, arena, err := parser.Parse("test.jactl", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := resolver.New(arena).Resolve(prog); err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	return EmitScript(prog, arena)
}

func TestEmitArithmeticProducesConstAndAddOps(t *testing.T) {
	chunk, errs := resolveAndEmit(t, "def x = 1 + 2;")
	if len(errs) != 0 {
		t.Fatalf("unexpected emission errors: %v", errs)
	}
	dis := Disassemble(chunk, "test")
	for _, want := range []string{"CONST", "ADD", "SET_LOCAL"} {
		if !strings.Contains(dis, want) {
			t.Errorf("expected disassembly to contain %s, got:\n%s", want, dis)
		}
	}
}

func TestEmitIfEmitsConditionalJump(t *testing.T) {
	chunk, errs := resolveAndEmit(t, `
def x = 1
if (x == 1) {
    x = 2
} else {
    x = 3
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected emission errors: %v", errs)
	}
	dis := Disassemble(chunk, "test")
	if !strings.Contains(dis, "JUMP_IF_FALSE") {
		t.Errorf("expected a JUMP_IF_FALSE, got:\n%s", dis)
	}
}

func TestEmitWhileLoopEmitsBackwardJump(t *testing.T) {
	chunk, errs := resolveAndEmit(t, `
def i = 0
while (i < 3) {
    i = i + 1
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected emission errors: %v", errs)
	}
	dis := Disassemble(chunk, "test")
	if !strings.Contains(dis, "LOOP") {
		t.Errorf("expected a LOOP instruction, got:\n%s", dis)
	}
}

func TestEmitFuncAllocatesParamSlots(t *testing.T) {
	prog, arena, err := parser.Parse("test.jactl", `
def add(a, b) {
    return a + b
}
`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := resolver.New(arena).Resolve(prog); err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	fd := prog.Statements[0].(*ast.FuncDecl)
	chunk, errs := EmitFunc(fd, "test.jactl", arena)
	if len(errs) != 0 {
		t.Fatalf("unexpected emission errors: %v", errs)
	}
	if chunk.NumSlots < 2 {
		t.Errorf("expected at least 2 slots for a and b, got %d", chunk.NumSlots)
	}
	dis := Disassemble(chunk, "add")
	if !strings.Contains(dis, "GET_LOCAL") || !strings.Contains(dis, "RETURN") {
		t.Errorf("expected GET_LOCAL/RETURN in:\n%s", dis)
	}
}

func TestEmitBreakPatchesToLoopEnd(t *testing.T) {
	chunk, errs := resolveAndEmit(t, `
def i = 0
while (true) {
    if (i == 2) break
    i = i + 1
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected emission errors: %v", errs)
	}
	dis := Disassemble(chunk, "test")
	if !strings.Contains(dis, "JUMP ") && !strings.Contains(dis, "JUMP\n") {
		t.Errorf("expected a JUMP for break, got:\n%s", dis)
	}
}
