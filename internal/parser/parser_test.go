package parser

import (
	"testing"

	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/token"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, _, err := Parse("test.jactl", src)
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", src, err)
	}
	return prog
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := mustParse(t, "1 + 2 * 3")
	if len(prog.Statements) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("want ExprStmt, got %T", prog.Statements[0])
	}
	bin, ok := stmt.Expr.(*ast.Binary)
	if !ok {
		t.Fatalf("want top-level Binary (+), got %T", stmt.Expr)
	}
	if _, ok := bin.Right.(*ast.Binary); !ok {
		t.Fatalf("want right operand to be the tighter-binding * , got %T", bin.Right)
	}
}

func TestParseVarDecl(t *testing.T) {
	prog := mustParse(t, "def x = 1")
	decl, ok := prog.Statements[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("want VarDeclStmt, got %T", prog.Statements[0])
	}
	if len(decl.Decls) != 1 || decl.Decls[0].Name != "x" {
		t.Fatalf("got %+v", decl.Decls)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, "if (x) { 1 } else { 2 }")
	ifStmt, ok := prog.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("want If, got %T", prog.Statements[0])
	}
	if ifStmt.Then == nil || ifStmt.Else == nil {
		t.Fatalf("expected both branches, got %+v", ifStmt)
	}
}

func TestParseCompoundAssignRewritesToVarOpAssign(t *testing.T) {
	prog := mustParse(t, "x += 1")
	stmt := prog.Statements[0].(*ast.ExprStmt)
	opAssign, ok := stmt.Expr.(*ast.VarOpAssign)
	if !ok {
		t.Fatalf("want VarOpAssign, got %T", stmt.Expr)
	}
	bin, ok := opAssign.Value.(*ast.Binary)
	if !ok || bin.Op != token.PLUS {
		t.Fatalf("want Value = Noop + rhs, got %+v", opAssign.Value)
	}
	if _, ok := bin.Left.(*ast.Noop); !ok {
		t.Fatalf("want left operand of rewritten op to be Noop, got %T", bin.Left)
	}
}

func TestParseFieldOpAssignFlagsCreateIfMissing(t *testing.T) {
	prog := mustParse(t, "a.b.c += 1")
	stmt := prog.Statements[0].(*ast.ExprStmt)
	fieldOp, ok := stmt.Expr.(*ast.FieldOpAssign)
	if !ok {
		t.Fatalf("want FieldOpAssign, got %T", stmt.Expr)
	}
	parent, ok := fieldOp.Parent.(*ast.FieldAccess)
	if !ok {
		t.Fatalf("want Parent to be a.b, got %T", fieldOp.Parent)
	}
	if !parent.Flags().CreateIfMissing {
		t.Fatalf("expected CreateIfMissing set on prefix path")
	}
}

func TestParseMultiAssignDesugarsToBlock(t *testing.T) {
	prog := mustParse(t, "def (x, y) = [1, 2]")
	block, ok := prog.Statements[0].(*ast.Block)
	if !ok {
		t.Fatalf("want Block, got %T", prog.Statements[0])
	}
	// one temp decl + one VarDeclStmt per target
	if len(block.Statements) != 3 {
		t.Fatalf("want 3 statements (temp, x, y), got %d", len(block.Statements))
	}
}

func TestParseMapVsListLiteral(t *testing.T) {
	mapProg := mustParse(t, `[a: 1, b: 2]`)
	if _, ok := mapProg.Statements[0].(*ast.ExprStmt).Expr.(*ast.MapLiteral); !ok {
		t.Fatalf("want MapLiteral, got %T", mapProg.Statements[0].(*ast.ExprStmt).Expr)
	}
	listProg := mustParse(t, `[1, 2, 3]`)
	if _, ok := listProg.Statements[0].(*ast.ExprStmt).Expr.(*ast.ListLiteral); !ok {
		t.Fatalf("want ListLiteral, got %T", listProg.Statements[0].(*ast.ExprStmt).Expr)
	}
	emptyMap := mustParse(t, `[:]`)
	if _, ok := emptyMap.Statements[0].(*ast.ExprStmt).Expr.(*ast.MapLiteral); !ok {
		t.Fatalf("want empty MapLiteral for [:], got %T", emptyMap.Statements[0].(*ast.ExprStmt).Expr)
	}
}

func TestParseClosureVsBlock(t *testing.T) {
	prog := mustParse(t, "({ x -> x + 1 })")
	stmt := prog.Statements[0].(*ast.ExprStmt)
	closure, ok := stmt.Expr.(*ast.Closure)
	if !ok {
		t.Fatalf("want Closure for '{ x -> ... }', got %T", stmt.Expr)
	}
	_ = closure
}

func TestParseImplicitItClosure(t *testing.T) {
	prog := mustParse(t, "list.each{ it + 1 }")
	stmt := prog.Statements[0].(*ast.ExprStmt)
	call, ok := stmt.Expr.(*ast.MethodCall)
	if !ok {
		t.Fatalf("want MethodCall, got %T", stmt.Expr)
	}
	if len(call.Args) != 1 {
		t.Fatalf("want closure argument, got %+v", call.Args)
	}
	closure, ok := call.Args[0].Value.(*ast.Closure)
	if !ok {
		t.Fatalf("want Closure arg, got %T", call.Args[0].Value)
	}
	if !closure.HasImplicitIt {
		t.Fatalf("expected implicit 'it' parameter")
	}
}

func TestParseSwitchAsExpression(t *testing.T) {
	prog := mustParse(t, `def y = switch(x) { 1 -> "low"; _ -> "high" }`)
	decl := prog.Statements[0].(*ast.VarDeclStmt)
	sw, ok := decl.Decls[0].Init.(*ast.Switch)
	if !ok {
		t.Fatalf("want Switch as initializer expression, got %T", decl.Decls[0].Init)
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("want 2 cases, got %d", len(sw.Cases))
	}
	if sw.Default == nil {
		t.Fatalf("want wildcard case captured as Default")
	}
}

func TestParseSwitchDuplicateLiteralIsError(t *testing.T) {
	_, _, err := Parse("test.jactl", `def y = switch(x) { 1 -> "a"; 1 -> "b" }`)
	if err == nil {
		t.Fatalf("expected duplicate literal pattern to be a parse error")
	}
}

func TestParseCastVsParenExpr(t *testing.T) {
	prog := mustParse(t, "(int) x")
	stmt := prog.Statements[0].(*ast.ExprStmt)
	unary, ok := stmt.Expr.(*ast.Unary)
	if !ok || unary.CastTo == nil {
		t.Fatalf("want Unary cast, got %+v", stmt.Expr)
	}

	prog2 := mustParse(t, "(x + 1)")
	stmt2 := prog2.Statements[0].(*ast.ExprStmt)
	if _, ok := stmt2.Expr.(*ast.Binary); !ok {
		t.Fatalf("want grouped Binary expr, got %T", stmt2.Expr)
	}
}

func TestParseForLoop(t *testing.T) {
	prog := mustParse(t, "for (def i = 0; i < 10; i++) { print i }")
	forStmt, ok := prog.Statements[0].(*ast.For)
	if !ok {
		t.Fatalf("want For, got %T", prog.Statements[0])
	}
	if forStmt.Init == nil || forStmt.Cond == nil || forStmt.Body == nil {
		t.Fatalf("expected init/cond/body all populated, got %+v", forStmt)
	}
}
