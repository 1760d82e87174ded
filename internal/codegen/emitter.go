package codegen

import (
	"fmt"

	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/rtvalue"
	"github.com/jactl-lang/jactl/internal/token"
)

// Emitter walks a resolved AST and produces one Chunk per function body
// (§4.F). Grounded on funvibe-funxy's internal/vm/compiler.go /
// compiler_expressions.go / compiler_statements.go / compiler_loops.go:
// the same one-pass, emit-as-you-walk structure, retargeted from that
// VM's Object constant pool to rtvalue.Value and from its opcode set to
// this package's.
type Emitter struct {
	chunk   *Chunk
	tracker *Tracker
	arena   *ast.Arena
	errs    []error

	// globals are addressed by name at the Program/script level, where
	// there is no enclosing function frame to hold a slot.
	atTopLevel bool
}

// NewEmitter creates an Emitter targeting a fresh Chunk attributed to
// file, resolving Identifier.DeclIdx through arena.
func NewEmitter(file string, arena *ast.Arena) *Emitter {
	return &Emitter{chunk: NewChunk(file), tracker: NewTracker(), arena: arena}
}

// Errors returns any emission errors collected (emission only fails on
// a bug the Resolver should have already caught, e.g. an unresolved
// jtype.Unknown reaching codegen — see jtype.IsUnresolvedUnknown).
func (e *Emitter) Errors() []error { return e.errs }

func (e *Emitter) errorf(format string, args ...interface{}) {
	e.errs = append(e.errs, fmt.Errorf(format, args...))
}

// EmitFunc compiles one function body into a Chunk, assigning each
// parameter a slot before walking the body.
func EmitFunc(fd *ast.FuncDecl, file string, arena *ast.Arena) (*Chunk, []error) {
	e := NewEmitter(file, arena)
	for _, hp := range fd.HeapLocalParams {
		e.tracker.Alloc(hp)
	}
	for _, p := range fd.Params {
		e.tracker.Alloc(p.Decl)
	}
	e.emitBlock(fd.Body)
	e.chunk.WriteOp(OpNil, fd.At.Line)
	e.chunk.WriteOp(OpReturn, fd.At.Line)
	e.chunk.NumSlots = e.tracker.NumSlots()
	return e.chunk, e.errs
}

// EmitScript compiles a program's top-level statements into one Chunk,
// the implicit "main" body a script reduces to (§6.1).
func EmitScript(prog *ast.Program, arena *ast.Arena) (*Chunk, []error) {
	e := NewEmitter(prog.File, arena)
	e.atTopLevel = true
	for _, stmt := range prog.Statements {
		if _, ok := stmt.(*ast.FuncDecl); ok {
			continue // top-level functions are emitted separately via EmitFunc
		}
		if _, ok := stmt.(*ast.ClassDecl); ok {
			continue // classes are emitted by internal/classgen
		}
		e.emitStmt(stmt)
	}
	e.chunk.WriteOp(OpHalt, 0)
	e.chunk.NumSlots = e.tracker.NumSlots()
	return e.chunk, e.errs
}

// AppendExpr emits ex's bytecode directly onto the caller's own Chunk,
// sharing chunk/arena/tracker state. internal/classgen uses this to
// splice a field's default-value expression (still a plain parsed
// ast.Expression) into a synthesized constructor body without needing
// a throwaway FuncDecl wrapper.
func (e *Emitter) AppendExpr(ex ast.Expression) { e.emitExpr(ex) }

// Chunk exposes the Emitter's in-progress Chunk so a caller building a
// synthesized body (internal/classgen) can interleave raw opcode writes
// with AppendExpr calls.
func (e *Emitter) Chunk() *Chunk { return e.chunk }

// Tracker exposes the Emitter's operand tracker so a caller allocating
// synthesized parameters (a constructor's mandatory-field params) can
// reserve slots before calling AppendExpr/EmitField.
func (e *Emitter) Tracker() *Tracker { return e.tracker }

func (e *Emitter) line(n ast.Node) int { return n.Pos().Line }

func (e *Emitter) emitBlock(b *ast.Block) {
	mark := e.tracker.Mark()
	for _, s := range b.Statements {
		e.emitStmt(s)
	}
	e.tracker.Reset(mark)
}

func (e *Emitter) emitStmt(s ast.Statement) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		e.emitExpr(st.Expr)
		if st.Expr.Flags().IsResultUsed {
			return
		}
		e.chunk.WriteOp(OpPop, e.line(st))
	case *ast.VarDeclStmt:
		e.emitVarDeclStmt(st)
	case *ast.Block:
		e.emitBlock(st)
	case *ast.If:
		e.emitIf(st)
	case *ast.While:
		e.emitWhile(st)
	case *ast.DoUntil:
		e.emitDoUntil(st)
	case *ast.For:
		e.emitFor(st)
	case *ast.Break:
		e.emitBreak(st)
	case *ast.Continue:
		e.emitContinue(st)
	case *ast.Return:
		e.emitReturn(st)
	case *ast.FuncDecl, *ast.ClassDecl:
		// nested declarations are compiled to their own Chunk by a
		// separate EmitFunc/classgen call, not inlined here.
	default:
		e.errorf("codegen: unhandled statement kind %T", s)
	}
}

func (e *Emitter) emitVarDeclStmt(st *ast.VarDeclStmt) {
	for _, d := range st.Decls {
		if d.Init != nil {
			e.emitExpr(d.Init)
		} else {
			e.chunk.WriteOp(OpNil, e.line(st))
		}
		e.tracker.Alloc(d)
		e.chunk.WriteOp(OpSetLocal, e.line(st))
		e.chunk.WriteU16(uint16(d.Slot), e.line(st))
		e.chunk.WriteOp(OpPop, e.line(st))
	}
}

func (e *Emitter) emitIf(st *ast.If) {
	e.emitExpr(st.Cond)
	elseJump := e.emitJump(OpJumpIfFalse, e.line(st))
	e.chunk.WriteOp(OpPop, e.line(st))
	e.emitBlock(st.Then)
	endJump := e.emitJump(OpJump, e.line(st))
	e.patchJump(elseJump)
	e.chunk.WriteOp(OpPop, e.line(st))
	if st.Else != nil {
		e.emitBlock(st.Else)
	}
	e.patchJump(endJump)
}

func (e *Emitter) emitWhile(st *ast.While) {
	loopStart := e.chunk.Len()
	e.tracker.PushLoop(st.Label, loopStart)
	e.emitExpr(st.Cond)
	exitJump := e.emitJump(OpJumpIfFalse, e.line(st))
	e.chunk.WriteOp(OpPop, e.line(st))
	e.emitBlock(st.Body)
	e.emitLoop(loopStart, e.line(st))
	e.patchJump(exitJump)
	e.chunk.WriteOp(OpPop, e.line(st))
	e.patchLoopBreaks(e.tracker.PopLoop())
}

func (e *Emitter) emitDoUntil(st *ast.DoUntil) {
	// The until-test is laid out ahead of the body (and skipped on entry)
	// so that `continue`, which only jumps backwards, can reach it.
	skipCond := e.emitJump(OpJump, e.line(st))
	condAt := e.chunk.Len()
	e.emitExpr(st.Cond)
	exitJump := e.emitJump(OpJumpIfTrue, e.line(st))
	e.chunk.WriteOp(OpPop, e.line(st))
	e.patchJump(skipCond)
	e.tracker.PushLoop(st.Label, condAt)
	e.emitBlock(st.Body)
	e.emitLoop(condAt, e.line(st))
	e.patchJump(exitJump)
	e.chunk.WriteOp(OpPop, e.line(st))
	e.patchLoopBreaks(e.tracker.PopLoop())
}

func (e *Emitter) emitFor(st *ast.For) {
	mark := e.tracker.Mark()
	if st.Init != nil {
		e.emitStmt(st.Init)
	}
	// The updates are laid out ahead of the condition (and skipped on
	// entry) so that `continue`, which only jumps backwards, runs them.
	skipUpdates := e.emitJump(OpJump, e.line(st))
	updateAt := e.chunk.Len()
	for _, u := range st.Updates {
		e.emitExpr(u)
		e.chunk.WriteOp(OpPop, e.line(st))
	}
	e.patchJump(skipUpdates)
	var exitJump int
	hasCond := st.Cond != nil
	if hasCond {
		e.emitExpr(st.Cond)
		exitJump = e.emitJump(OpJumpIfFalse, e.line(st))
		e.chunk.WriteOp(OpPop, e.line(st))
	}
	e.tracker.PushLoop(st.Label, updateAt)
	e.emitBlock(st.Body)
	e.emitLoop(updateAt, e.line(st))
	if hasCond {
		e.patchJump(exitJump)
		e.chunk.WriteOp(OpPop, e.line(st))
	}
	e.patchLoopBreaks(e.tracker.PopLoop())
	e.tracker.Reset(mark)
}

func (e *Emitter) emitBreak(st *ast.Break) {
	loop := e.tracker.findLoop(st.Label)
	if loop == nil {
		e.errorf("codegen: break outside any loop")
		return
	}
	loop.breakJumps = append(loop.breakJumps, e.emitJump(OpJump, e.line(st)))
}

func (e *Emitter) emitContinue(st *ast.Continue) {
	loop := e.tracker.findLoop(st.Label)
	if loop == nil {
		e.errorf("codegen: continue outside any loop")
		return
	}
	e.emitLoop(loop.continueAt, e.line(st))
}

func (e *Emitter) emitReturn(st *ast.Return) {
	if st.Value != nil {
		e.emitExpr(st.Value)
	} else {
		e.chunk.WriteOp(OpNil, e.line(st))
	}
	e.chunk.WriteOp(OpReturn, e.line(st))
}

// emitJump writes op followed by a placeholder 2-byte offset, returning
// the offset of the placeholder for a later patchJump call.
func (e *Emitter) emitJump(op Opcode, line int) int {
	e.chunk.WriteOp(op, line)
	return e.chunk.WriteU16(0xFFFF, line)
}

func (e *Emitter) patchJump(at int) {
	dist := e.chunk.Len() - (at + 2)
	e.chunk.PatchU16(at, uint16(dist))
}

// emitLoop writes a backward OP_LOOP jump to loopStart.
func (e *Emitter) emitLoop(loopStart, line int) {
	e.chunk.WriteOp(OpLoop, line)
	dist := e.chunk.Len() + 2 - loopStart
	e.chunk.WriteU16(uint16(dist), line)
}

func (e *Emitter) patchLoopBreaks(loop *loopCtx) {
	for _, at := range loop.breakJumps {
		e.patchJump(at)
	}
}

func (e *Emitter) emitExpr(ex ast.Expression) {
	switch x := ex.(type) {
	case *ast.Literal:
		e.emitLiteral(x)
	case *ast.Identifier:
		e.emitIdentifier(x)
	case *ast.Binary:
		e.emitBinary(x)
	case *ast.Unary:
		e.emitUnary(x)
	case *ast.Ternary:
		e.emitTernary(x)
	case *ast.Assign:
		e.emitAssign(x)
	case *ast.VarOpAssign:
		e.emitVarOpAssign(x)
	case *ast.Call:
		e.emitCall(x)
	case *ast.MethodCall:
		e.emitMethodCall(x)
	case *ast.New:
		e.emitNew(x)
	case *ast.ListLiteral:
		e.emitListLiteral(x)
	case *ast.MapLiteral:
		e.emitMapLiteral(x)
	case *ast.FieldAccess:
		e.emitFieldAccess(x)
	case *ast.ExprString:
		e.emitExprString(x)
	case *ast.Print:
		e.emitPrint(x)
	case *ast.Die:
		e.emitExprOrNil(x.Message, e.line(x))
		e.chunk.WriteOp(OpDie, e.line(x))
	case *ast.RegexMatch:
		e.emitRegexMatch(x)
	case *ast.InstanceOf:
		e.emitExpr(x.Target)
		e.chunk.WriteConstant(rtvalue.Str(x.ClassPath), e.line(x))
		e.chunk.WriteOp(OpInstanceOf, e.line(x))
	default:
		e.errorf("codegen: unhandled expression kind %T", ex)
		e.chunk.WriteOp(OpNil, e.line(ex))
	}
}

func (e *Emitter) emitExprOrNil(ex ast.Expression, line int) {
	if ex == nil {
		e.chunk.WriteOp(OpNil, line)
		return
	}
	e.emitExpr(ex)
}

func (e *Emitter) emitLiteral(x *ast.Literal) {
	e.chunk.WriteConstant(literalValue(x.Value), e.line(x))
}

// literalValue converts the narrowed Go value the parser/lexer produced
// (see internal/parser/expr_prefix.go narrowLiteral) into its rtvalue
// form.
func literalValue(v interface{}) rtvalue.Value {
	switch t := v.(type) {
	case nil:
		return rtvalue.Null()
	case bool:
		return rtvalue.Bool(t)
	case int:
		return rtvalue.Int(t)
	case int64:
		return rtvalue.Long(t)
	case float64:
		return rtvalue.Double(t)
	case byte:
		return rtvalue.Byte(t)
	case string:
		return rtvalue.Str(t)
	default:
		return rtvalue.Null()
	}
}

func (e *Emitter) emitIdentifier(x *ast.Identifier) {
	switch {
	case x.DeclIdx < 0 && e.atTopLevel:
		e.chunk.WriteOp(OpGetGlobal, e.line(x))
		e.chunk.WriteConstant(rtvalue.Str(x.Name), e.line(x))
	default:
		e.chunk.WriteOp(OpGetLocal, e.line(x))
		e.chunk.WriteU16(uint16(e.declSlot(x.DeclIdx)), e.line(x))
	}
}

// declSlot dereferences a Resolver-assigned arena index back to the
// VarDecl the operand tracker stamped with a frame slot — either while
// walking this function's own parameter list/body (EmitFunc/
// emitVarDeclStmt), or, for a captured variable, while walking the
// enclosing function that owns it (§4.F "heap-local* param*": a capture
// arrives as a HeapLocalParam of the current function, itself allocated
// a fresh slot in the current frame by EmitFunc, so this lookup is
// always local to the Chunk currently being built).
func (e *Emitter) declSlot(idx int) int {
	decl := e.arena.Var(idx)
	if decl == nil {
		e.errorf("codegen: identifier references unknown arena var %d", idx)
		return 0
	}
	return decl.Slot
}

func (e *Emitter) emitBinary(x *ast.Binary) {
	if op, ok := logicalOps[x.Op]; ok {
		e.emitLogical(x, op)
		return
	}
	e.emitExpr(x.Left)
	e.emitExpr(x.Right)
	op, ok := binOpcodes[x.Op]
	if !ok {
		e.errorf("codegen: unsupported binary operator %s", x.Op)
		return
	}
	e.chunk.WriteOp(op, e.line(x))
}

var logicalOps = map[token.Type]Opcode{
	token.AND: OpAnd, token.KW_AND: OpAnd,
	token.OR: OpOr, token.KW_OR: OpOr,
}

var binOpcodes = map[token.Type]Opcode{
	token.PLUS: OpAdd, token.MINUS: OpSub, token.STAR: OpMul, token.SLASH: OpDiv, token.PERCENT: OpMod,
	token.AMP: OpBand, token.PIPE: OpBor, token.CARET: OpBxor,
	token.SHL: OpShl, token.SHR: OpShr, token.USHR: OpUshr,
	token.EQ: OpEq, token.NEQ: OpNeq, token.TEQ: OpSameRef, token.TNEQ: OpNotSameRef,
	token.LT: OpLt, token.LE: OpLe, token.GT: OpGt, token.GE: OpGe, token.CMP: OpCmp,
}

// emitLogical short-circuits && and || rather than computing both sides
// unconditionally (§4.A "&& and || short-circuit").
func (e *Emitter) emitLogical(x *ast.Binary, op Opcode) {
	e.emitExpr(x.Left)
	var skip int
	if op == OpAnd {
		skip = e.emitJump(OpJumpIfFalse, e.line(x))
	} else {
		skip = e.emitJump(OpJumpIfTrue, e.line(x))
	}
	e.chunk.WriteOp(OpPop, e.line(x))
	e.emitExpr(x.Right)
	e.patchJump(skip)
}

func (e *Emitter) emitUnary(x *ast.Unary) {
	if x.CastTo != nil {
		e.emitExpr(x.Operand)
		e.chunk.WriteOp(OpCast, e.line(x))
		return
	}
	e.emitExpr(x.Operand)
	switch x.Op {
	case token.MINUS:
		e.chunk.WriteOp(OpNeg, e.line(x))
	case token.BANG, token.KW_NOT:
		e.chunk.WriteOp(OpNot, e.line(x))
	case token.TILDE:
		e.chunk.WriteOp(OpBnot, e.line(x))
	default:
		e.errorf("codegen: unsupported unary operator %s", x.Op)
	}
}

func (e *Emitter) emitTernary(x *ast.Ternary) {
	e.emitExpr(x.Cond)
	elseJump := e.emitJump(OpJumpIfFalse, e.line(x))
	e.chunk.WriteOp(OpPop, e.line(x))
	e.emitExpr(x.Then)
	endJump := e.emitJump(OpJump, e.line(x))
	e.patchJump(elseJump)
	e.chunk.WriteOp(OpPop, e.line(x))
	e.emitExpr(x.Else)
	e.patchJump(endJump)
}

func (e *Emitter) emitAssign(x *ast.Assign) {
	e.emitStoreWithValue(x.Target, x.Value, e.line(x))
}

func (e *Emitter) emitVarOpAssign(x *ast.VarOpAssign) {
	e.emitStoreWithValue(x.Target, x.Value, e.line(x))
}

// emitStoreWithValue emits `target := value`, leaving the assigned
// value on the stack so assignment can itself be used as an expression
// (`y = (x = 5)`, or a compound assignment whose result feeds a larger
// expression). Each SET_* opcode pops its addressing operands and the
// value, then pushes the value straight back. The FieldAccess case
// pushes receiver and field name before value, matching SET_FIELD's
// operand order.
func (e *Emitter) emitStoreWithValue(target ast.Expression, value ast.Expression, line int) {
	switch t := target.(type) {
	case *ast.Identifier:
		e.emitExpr(value)
		if t.DeclIdx < 0 && e.atTopLevel {
			e.chunk.WriteConstant(rtvalue.Str(t.Name), line)
			e.chunk.WriteOp(OpSetGlobal, line)
			return
		}
		e.chunk.WriteOp(OpSetLocal, line)
		e.chunk.WriteU16(uint16(e.declSlot(t.DeclIdx)), line)
	case *ast.FieldAccess:
		e.emitExpr(t.Parent)
		e.chunk.WriteConstant(rtvalue.Str(t.FieldName), line)
		e.emitExpr(value)
		e.chunk.WriteOp(OpSetField, line)
	default:
		e.errorf("codegen: unsupported assignment target %T", target)
	}
}

func (e *Emitter) emitCall(x *ast.Call) {
	for _, a := range x.Args {
		e.emitExpr(a.Value)
	}
	if x.ResolvedFunc != "" {
		e.chunk.WriteOp(OpConst, e.line(x))
		idx := e.chunk.AddConstant(rtvalue.Str(x.ResolvedFunc))
		e.chunk.WriteU16(idx, e.line(x))
	} else {
		e.emitExpr(x.Callee)
	}
	e.chunk.WriteOp(OpCall, e.line(x))
	e.chunk.WriteU16(uint16(len(x.Args)), e.line(x))
}

func (e *Emitter) emitMethodCall(x *ast.MethodCall) {
	e.emitExpr(x.Target)
	for _, a := range x.Args {
		e.emitExpr(a.Value)
	}
	e.chunk.WriteOp(OpCallMethod, e.line(x))
	idx := e.chunk.AddConstant(rtvalue.Str(x.Method))
	e.chunk.WriteU16(idx, e.line(x))
	e.chunk.WriteU16(uint16(len(x.Args)), e.line(x))
}

func (e *Emitter) emitNew(x *ast.New) {
	named := map[string]ast.Expression{}
	var positional []ast.Expression
	for _, a := range x.Args {
		if a.Name != "" {
			named[a.Name] = a.Value
		} else {
			positional = append(positional, a.Value)
		}
	}
	for _, p := range positional {
		e.emitExpr(p)
	}
	idx := e.chunk.AddConstant(rtvalue.Str(x.ClassPath))
	e.chunk.WriteOp(OpMakeInstance, e.line(x))
	e.chunk.WriteU16(idx, e.line(x))
	e.chunk.WriteU16(uint16(len(positional)), e.line(x))
	for name, val := range named {
		e.chunk.WriteOp(OpDup, e.line(x))
		e.chunk.WriteConstant(rtvalue.Str(name), e.line(x))
		e.emitExpr(val)
		e.chunk.WriteOp(OpSetField, e.line(x))
		e.chunk.WriteOp(OpPop, e.line(x))
	}
}

func (e *Emitter) emitListLiteral(x *ast.ListLiteral) {
	for _, el := range x.Elements {
		e.emitExpr(el)
	}
	e.chunk.WriteOp(OpMakeList, e.line(x))
	e.chunk.WriteU16(uint16(len(x.Elements)), e.line(x))
}

func (e *Emitter) emitMapLiteral(x *ast.MapLiteral) {
	for _, entry := range x.Entries {
		e.emitExpr(entry.Key)
		e.emitExpr(entry.Value)
	}
	e.chunk.WriteOp(OpMakeMap, e.line(x))
	e.chunk.WriteU16(uint16(len(x.Entries)), e.line(x))
}

func (e *Emitter) emitFieldAccess(x *ast.FieldAccess) {
	e.emitExpr(x.Parent)
	if x.IsIndex {
		e.emitExpr(x.FieldExpr)
		e.chunk.WriteOp(OpGetIndex, e.line(x))
		return
	}
	e.chunk.WriteOp(OpGetField, e.line(x))
	idx := e.chunk.AddConstant(rtvalue.Str(x.FieldName))
	e.chunk.WriteU16(idx, e.line(x))
}

func (e *Emitter) emitExprString(x *ast.ExprString) {
	first := true
	for _, part := range x.Parts {
		if part.Expr != nil {
			e.emitExpr(part.Expr)
		} else {
			e.chunk.WriteConstant(rtvalue.Str(part.Text), e.line(x))
		}
		if !first {
			e.chunk.WriteOp(OpConcat, e.line(x))
		}
		first = false
	}
	if len(x.Parts) == 0 {
		e.chunk.WriteConstant(rtvalue.Str(""), e.line(x))
	}
}

func (e *Emitter) emitPrint(x *ast.Print) {
	e.emitExpr(x.Value)
	if x.Newline {
		e.chunk.WriteOp(OpPrintln, e.line(x))
	} else {
		e.chunk.WriteOp(OpPrint, e.line(x))
	}
	e.chunk.WriteOp(OpNil, e.line(x))
}

func (e *Emitter) emitRegexMatch(x *ast.RegexMatch) {
	e.emitExpr(x.Target)
	e.emitExpr(x.Pattern)
	e.chunk.WriteConstant(rtvalue.Str(x.Flags), e.line(x))
	if x.Negated {
		e.chunk.WriteOp(OpNoMatch, e.line(x))
	} else {
		e.chunk.WriteOp(OpMatch, e.line(x))
	}
}
