package codegen

import (
	"fmt"
	"strings"
)

// Disassemble renders a Chunk in the teacher's vm.disasm.go tabular
// style (offset, line, mnemonic, operand) — used by cmd/jactlc's
// default bytecode listing and by the codegen/classgen tests that pin
// down exact emitted bytecode.
func Disassemble(c *Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	offset := 0
	for offset < len(c.Code) {
		offset = disassembleInstruction(&b, c, offset)
	}
	return b.String()
}

func disassembleInstruction(b *strings.Builder, c *Chunk, offset int) int {
	line := 0
	if offset < len(c.Lines) {
		line = c.Lines[offset]
	}
	op := Opcode(c.Code[offset])
	fmt.Fprintf(b, "%04d %4d %s", offset, line, op)
	switch op {
	case OpConst:
		idx := c.ReadU16(offset + 1)
		fmt.Fprintf(b, " %d '%s'\n", idx, constString(c, idx))
		return offset + 3
	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue:
		idx := c.ReadU16(offset + 1)
		fmt.Fprintf(b, " slot %d\n", idx)
		return offset + 3
	case OpJump, OpJumpIfFalse, OpJumpIfTrue, OpLoop:
		dist := c.ReadU16(offset + 1)
		fmt.Fprintf(b, " -> %d\n", jumpTarget(op, offset, dist))
		return offset + 3
	case OpCall:
		argc := c.ReadU16(offset + 1)
		fmt.Fprintf(b, " argc=%d\n", argc)
		return offset + 3
	case OpCallMethod:
		nameIdx := c.ReadU16(offset + 1)
		argc := c.ReadU16(offset + 3)
		fmt.Fprintf(b, " %s argc=%d\n", constString(c, nameIdx), argc)
		return offset + 5
	case OpMakeInstance:
		classIdx := c.ReadU16(offset + 1)
		argc := c.ReadU16(offset + 3)
		fmt.Fprintf(b, " %s argc=%d\n", constString(c, classIdx), argc)
		return offset + 5
	case OpMakeList, OpMakeMap:
		n := c.ReadU16(offset + 1)
		fmt.Fprintf(b, " n=%d\n", n)
		return offset + 3
	default:
		fmt.Fprintln(b)
		return offset + 1
	}
}

func jumpTarget(op Opcode, offset int, dist uint16) int {
	if op == OpLoop {
		return offset + 3 - int(dist)
	}
	return offset + 3 + int(dist)
}

func constString(c *Chunk, idx uint16) string {
	if int(idx) >= len(c.Constants) {
		return "?"
	}
	return c.Constants[idx].String()
}
