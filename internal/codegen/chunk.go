package codegen

import "github.com/jactl-lang/jactl/internal/rtvalue"

// Chunk is one compiled method body: a flat instruction stream, a
// constant pool, and a line table for diagnostics. Mirrors
// funvibe-funxy's vm.Chunk, swapping evaluator.Object constants for
// rtvalue.Value.
type Chunk struct {
	Code      []byte
	Constants []rtvalue.Value
	Lines     []int
	File      string

	// NumSlots is the frame size the operand tracker settled on: the
	// high-water mark of locals + temporaries live at once.
	NumSlots int

	// AsyncResumePoints maps a bytecode offset that can suspend (a call
	// to an async function) to the continuation entry offset the
	// resumer jumps back to (§6.4 continuation protocol).
	AsyncResumePoints map[int]int
}

func NewChunk(file string) *Chunk {
	return &Chunk{
		Code:              make([]byte, 0, 64),
		Constants:         make([]rtvalue.Value, 0, 16),
		Lines:             make([]int, 0, 64),
		File:              file,
		AsyncResumePoints: map[int]int{},
	}
}

func (c *Chunk) Write(b byte, line int) int {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	return len(c.Code) - 1
}

func (c *Chunk) WriteOp(op Opcode, line int) int { return c.Write(byte(op), line) }

// WriteU16 writes a big-endian two-byte operand, returning the offset of
// its first byte (so callers can patch it later for forward jumps).
func (c *Chunk) WriteU16(v uint16, line int) int {
	at := c.Write(byte(v>>8), line)
	c.Write(byte(v), line)
	return at
}

func (c *Chunk) PatchU16(at int, v uint16) {
	c.Code[at] = byte(v >> 8)
	c.Code[at+1] = byte(v)
}

func (c *Chunk) ReadU16(at int) uint16 {
	return uint16(c.Code[at])<<8 | uint16(c.Code[at+1])
}

func (c *Chunk) AddConstant(v rtvalue.Value) uint16 {
	for i, existing := range c.Constants {
		if rtvalue.Equal(existing, v) {
			return uint16(i)
		}
	}
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}

func (c *Chunk) WriteConstant(v rtvalue.Value, line int) {
	idx := c.AddConstant(v)
	c.WriteOp(OpConst, line)
	c.WriteU16(idx, line)
}

func (c *Chunk) Len() int { return len(c.Code) }
