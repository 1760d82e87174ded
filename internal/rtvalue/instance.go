package rtvalue

import (
	"fmt"
	"strings"

	"github.com/jactl-lang/jactl/internal/jtype"
)

// Instance is a runtime object of a user-defined class (§3.3). Fields
// are stored by slot index, matching the field order
// jtype.ClassDescriptor.AllFieldTypes() returns, the same layout
// internal/classgen's constructor/write-json/checkpoint code addresses
// fields by.
type Instance struct {
	Class  *jtype.ClassDescriptor
	Fields []Value
}

func NewInstance(class *jtype.ClassDescriptor) *Instance {
	n := len(class.AllFieldTypes())
	return &Instance{Class: class, Fields: make([]Value, n)}
}

func (i *Instance) FieldIndex(name string) int {
	for idx, f := range i.Class.AllFieldTypes() {
		if f.Name == name {
			return idx
		}
	}
	return -1
}

func (i *Instance) Get(name string) (Value, bool) {
	idx := i.FieldIndex(name)
	if idx < 0 {
		return Value{}, false
	}
	return i.Fields[idx], true
}

func (i *Instance) Set(name string, v Value) bool {
	idx := i.FieldIndex(name)
	if idx < 0 {
		return false
	}
	i.Fields[idx] = v
	return true
}

func (i *Instance) String() string {
	names := i.Class.AllFieldNames()
	parts := make([]string, len(names))
	for idx, n := range names {
		v := Value{}
		if idx < len(i.Fields) {
			v = i.Fields[idx]
		}
		parts[idx] = fmt.Sprintf("%s: %s", n, v.String())
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// Closure is a callable value: a reference to its compiled chunk (held
// as an opaque interface{} to avoid an import cycle with
// internal/codegen, which imports rtvalue for its constant pool) plus
// the bound heap-local values captured at creation (§6.4 "heap-local*
// param*").
type Closure struct {
	Name     string
	Chunk    interface{} // *codegen.Chunk
	NumSlots int
	Bound    []Value // captured heap-local values, prepended to call args
}

// Continuation is the runtime counterpart of jerr.Continuation: a
// suspended frame's saved operand-stack slots, ready to resume at
// ResumeOffset once the awaited async call produces a value.
type Continuation struct {
	Parent       *Continuation
	Chunk        interface{} // *codegen.Chunk
	ResumeOffset int
	Slots        []Value
}
