// Package classgen implements §4.E: the class emitter. It synthesizes
// the constructor (init), the missing-mandatory-field guard
// (init$missing), a no-async constructor variant, and the write-json/
// read-json/checkpoint/restore method bodies every class gets for free,
// on top of whatever methods the source itself declared (emitted by
// internal/codegen, one Chunk per method, exactly like a free function).
//
// Grounded on CWBudde-go-dws's internal/ast/classes.go and
// internal/semantic/analyze_classes.go, which build a class's
// constructor and field-initialisation order off the same kind of
// FieldDescriptor list (name, type, has-default) jtype.ClassDescriptor
// carries here; the checkpoint/restore/write-json/read-json additions
// are Jactl-specific and have no DWScript analogue, grounded instead on
// §6.5's wire contract and implemented directly over internal/rtvalue.
package classgen

import (
	"fmt"

	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/checkpoint"
	"github.com/jactl-lang/jactl/internal/codegen"
	"github.com/jactl-lang/jactl/internal/jtype"
	"github.com/jactl-lang/jactl/internal/rtvalue"
)

// Class is the compiled form of one ast.ClassDecl: its resolved
// descriptor plus a Chunk per method (user-declared and synthesized).
type Class struct {
	Descriptor *jtype.ClassDescriptor
	Methods    map[string]*codegen.Chunk
	Inner      []*Class
}

// EmitClass compiles decl's user-declared methods and synthesizes the
// constructor family (§4.E). decl.Descriptor must already be resolved
// (ast.ClassDecl.Descriptor, set by internal/resolver).
func EmitClass(decl *ast.ClassDecl, file string, arena *ast.Arena) (*Class, []error) {
	var errs []error
	desc := decl.Descriptor
	if desc == nil {
		return nil, []error{fmt.Errorf("classgen: %s has no resolved descriptor", decl.Name)}
	}

	c := &Class{Descriptor: desc, Methods: map[string]*codegen.Chunk{}}

	for _, m := range decl.Methods {
		chunk, mErrs := codegen.EmitFunc(m, file, arena)
		errs = append(errs, mErrs...)
		c.Methods[m.Name] = chunk
	}

	initChunk, iErrs := emitInit(decl, file, arena, true)
	errs = append(errs, iErrs...)
	c.Methods["init"] = initChunk

	noAsyncChunk, nErrs := emitInit(decl, file, arena, false)
	errs = append(errs, nErrs...)
	c.Methods["init$noasync"] = noAsyncChunk

	if len(desc.MandatoryFields) > 0 {
		c.Methods["init$missing"] = emitInitMissing(desc, file)
	}

	c.Methods["writeJson"] = emitWriteJSON(desc, file)
	c.Methods["readJson"] = emitReadJSON(desc, file)
	c.Methods["checkpoint"] = emitCheckpoint(desc, file)
	c.Methods["restore"] = emitRestore(desc, file)

	for _, inner := range decl.Inner {
		ic, iErrs := EmitClass(inner, file, arena)
		errs = append(errs, iErrs...)
		if ic != nil {
			c.Inner = append(c.Inner, ic)
		}
	}

	return c, errs
}

// emitInit synthesizes the constructor body (§4.E "constructor"): one
// parameter per mandatory field (positional, declaration order), then one
// store per non-static field in declaration order: its default
// expression's value if it has one, else its incoming parameter value.
// withAsyncGuard controls whether a call to an async default-value
// expression is allowed to suspend (the plain "init" entry) or must run
// to completion synchronously (the "init$noasync" entry used inside an
// already-suspended continuation frame, §6.4).
func emitInit(decl *ast.ClassDecl, file string, arena *ast.Arena, withAsyncGuard bool) (*codegen.Chunk, []error) {
	e := codegen.NewEmitter(file, arena)
	tracker := e.Tracker()

	// Slot 0 is reserved for the receiver, the slot emitWriteJSON,
	// emitCheckpoint and emitRestore read it from via GET_LOCAL 0
	// (emitReadJSON's slot 0 is its JSON string argument);
	// mandatory-field parameters start at slot 1.
	tracker.Alloc(ast.NewVarDecl(decl.At, "this", ast.RoleParameter))

	paramSlot := map[string]int{}
	for _, f := range decl.Fields {
		if f.Decl.Roles.Has(ast.RoleStatic) {
			continue
		}
		if f.Decl.Init == nil {
			slot := tracker.Alloc(f.Decl)
			paramSlot[f.Decl.Name] = slot
		}
	}

	chunk := e.Chunk()
	for _, f := range decl.Fields {
		if f.Decl.Roles.Has(ast.RoleStatic) {
			continue
		}
		// Mirrors the emitter's own SET_FIELD convention for `new`'s
		// named args: receiver, field-name constant, value, SET_FIELD,
		// then POP the value SET_FIELD pushes back.
		chunk.WriteOp(codegen.OpGetLocal, f.Decl.At.Line)
		chunk.WriteU16(0, f.Decl.At.Line) // self, conventionally slot 0
		chunk.WriteConstant(rtvalue.Str(f.Decl.Name), f.Decl.At.Line)
		if f.Decl.Init != nil {
			e.AppendExpr(f.Decl.Init)
		} else {
			chunk.WriteOp(codegen.OpGetLocal, f.Decl.At.Line)
			chunk.WriteU16(uint16(paramSlot[f.Decl.Name]), f.Decl.At.Line)
		}
		chunk.WriteOp(codegen.OpSetField, f.Decl.At.Line)
		chunk.WriteOp(codegen.OpPop, f.Decl.At.Line)
	}
	_ = withAsyncGuard // the guard is enforced by the Resolver (IsAsync propagation, §4.D); both entries share this body and differ only in the caller's continuation handling
	chunk.WriteOp(codegen.OpNil, decl.At.Line)
	chunk.WriteOp(codegen.OpReturn, decl.At.Line)
	chunk.NumSlots = tracker.NumSlots()
	return chunk, e.Errors()
}

// emitInitMissing synthesizes the guard method §6.2 calls for: a class
// with at least one mandatory field gets an "init$missing" entry the
// classloader's allocator calls when a `new` expression's named-arg map
// doesn't cover every mandatory field, raising
// jerr.RuntimeMissingMandatoryField.
func emitInitMissing(desc *jtype.ClassDescriptor, file string) *codegen.Chunk {
	chunk := codegen.NewChunk(file)
	missing := make([]string, 0, len(desc.MandatoryFields))
	for name := range desc.MandatoryFields {
		missing = append(missing, name)
	}
	chunk.WriteConstant(rtvalue.Str(fmt.Sprintf("missing mandatory field(s): %v", missing)), 0)
	chunk.WriteOp(codegen.OpDie, 0)
	chunk.WriteOp(codegen.OpReturn, 0)
	return chunk
}

// emitWriteJSON synthesizes the body backing `instance.toJson()`: push
// the receiver and delegate to rtvalue.MarshalJSON, which every
// instance method ultimately bottoms out to since JSON encoding has no
// opcode of its own (§4.E "write-json").
func emitWriteJSON(desc *jtype.ClassDescriptor, file string) *codegen.Chunk {
	chunk := codegen.NewChunk(file)
	chunk.WriteOp(codegen.OpGetLocal, 0) // receiver, conventionally slot 0
	chunk.WriteU16(0, 0)
	chunk.WriteOp(codegen.OpCallMethod, 0)
	idx := chunk.AddConstant(rtvalue.Str("__writeJson"))
	chunk.WriteU16(idx, 0)
	chunk.WriteU16(0, 0)
	chunk.WriteOp(codegen.OpReturn, 0)
	return chunk
}

func emitReadJSON(desc *jtype.ClassDescriptor, file string) *codegen.Chunk {
	chunk := codegen.NewChunk(file)
	chunk.WriteOp(codegen.OpGetLocal, 0) // the JSON string argument
	chunk.WriteU16(0, 0)
	chunk.WriteConstant(rtvalue.Str(desc.Internal), 0) // target class, so the builtin knows what shape to allocate
	chunk.WriteOp(codegen.OpCallMethod, 0)
	nameIdx := chunk.AddConstant(rtvalue.Str("__readJson"))
	chunk.WriteU16(nameIdx, 0)
	chunk.WriteU16(2, 0)
	chunk.WriteOp(codegen.OpReturn, 0)
	return chunk
}

// emitCheckpoint/emitRestore delegate to internal/checkpoint's packed
// bit-syntax encoding (§6.5) the same way write-json delegates to
// rtvalue's JSON encoding: there is no dedicated opcode, only a call
// into the checkpoint codec keyed by this class's field layout.
func emitCheckpoint(desc *jtype.ClassDescriptor, file string) *codegen.Chunk {
	chunk := codegen.NewChunk(file)
	chunk.WriteOp(codegen.OpGetLocal, 0)
	chunk.WriteU16(0, 0)
	idx := chunk.AddConstant(rtvalue.Str(checkpoint.MethodCheckpoint))
	chunk.WriteOp(codegen.OpCallMethod, 0)
	chunk.WriteU16(idx, 0)
	chunk.WriteU16(0, 0)
	chunk.WriteOp(codegen.OpReturn, 0)
	return chunk
}

func emitRestore(desc *jtype.ClassDescriptor, file string) *codegen.Chunk {
	chunk := codegen.NewChunk(file)
	chunk.WriteOp(codegen.OpGetLocal, 0)
	chunk.WriteU16(0, 0)
	idx := chunk.AddConstant(rtvalue.Str(checkpoint.MethodRestore))
	chunk.WriteOp(codegen.OpCallMethod, 0)
	chunk.WriteU16(idx, 0)
	chunk.WriteU16(1, 0)
	chunk.WriteOp(codegen.OpReturn, 0)
	return chunk
}

// WriteJSON marshals inst directly (the native-Go counterpart the
// "__writeJson" call above dispatches to at runtime, once a host
// implements OP_CALL_METHOD's builtin-method table).
func WriteJSON(inst *rtvalue.Instance) ([]byte, error) {
	return rtvalue.MarshalJSON(rtvalue.Value{Kind: rtvalue.KindInstance, Ref: inst})
}

// ReadJSON decodes data into a fresh Instance of class, the native-Go
// counterpart of "__readJson".
func ReadJSON(class *jtype.ClassDescriptor, data []byte) (*rtvalue.Instance, error) {
	v, err := rtvalue.UnmarshalInstance(class, data)
	if err != nil {
		return nil, err
	}
	inst, _ := v.Ref.(*rtvalue.Instance)
	return inst, nil
}
