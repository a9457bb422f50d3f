package osi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TheLegendOfMataNui/lss/op"
)

// Operand is a single typed instruction operand. Integer kinds keep their
// value in Int and the float kind keeps its value in Float.
type Operand struct {
	Kind  op.OperandKind
	Int   int32
	Float float32
}

// I8 returns a signed 8-bit operand.
func I8(v int8) Operand { return Operand{Kind: op.Int8, Int: int32(v)} }

// I16 returns a signed 16-bit operand.
func I16(v int16) Operand { return Operand{Kind: op.Int16, Int: int32(v)} }

// I32 returns a signed 32-bit operand.
func I32(v int32) Operand { return Operand{Kind: op.Int32, Int: v} }

// U16 returns an unsigned 16-bit operand, used for table and slot indices.
func U16(v uint16) Operand { return Operand{Kind: op.Uint16, Int: int32(v)} }

// F32 returns a 32-bit float operand.
func F32(v float32) Operand { return Operand{Kind: op.Float32, Float: v} }

// String returns the operand value as text.
func (o Operand) String() string {
	if o.Kind == op.Float32 {
		return strconv.FormatFloat(float64(o.Float), 'g', -1, 32)
	}
	return strconv.FormatInt(int64(o.Int), 10)
}

// Instruction is one BCL instruction: an opcode and its operands.
type Instruction struct {
	Op       op.Code
	Operands []Operand
}

// NewInstruction builds an instruction, panicking if the operands do not
// match the opcode's operand kinds. A mismatch is always a compiler bug.
func NewInstruction(code op.Code, operands ...Operand) Instruction {
	info := op.GetInfo(code)
	if info.Name == "" {
		panic(fmt.Sprintf("osi: unknown opcode 0x%02x", byte(code)))
	}
	if len(operands) != len(info.Operands) {
		panic(fmt.Sprintf("osi: opcode %s expects %d operands, got %d",
			info.Name, len(info.Operands), len(operands)))
	}
	for i, kind := range info.Operands {
		if operands[i].Kind != kind {
			panic(fmt.Sprintf("osi: opcode %s operand %d must be %s, got %s",
				info.Name, i, kind, operands[i].Kind))
		}
	}
	var ops []Operand
	if len(operands) > 0 {
		ops = make([]Operand, len(operands))
		copy(ops, operands)
	}
	return Instruction{Op: code, Operands: ops}
}

// Size returns the encoded size of the instruction in bytes.
func (i Instruction) Size() uint32 {
	return op.GetInfo(i.Op).Size()
}

// Name returns the opcode name.
func (i Instruction) Name() string {
	return op.GetInfo(i.Op).Name
}

// String returns the instruction as "NAME op1 op2".
func (i Instruction) String() string {
	if len(i.Operands) == 0 {
		return i.Name()
	}
	parts := make([]string, 0, len(i.Operands)+1)
	parts = append(parts, i.Name())
	for _, o := range i.Operands {
		parts = append(parts, o.String())
	}
	return strings.Join(parts, " ")
}

// Equal reports whether two instructions have the same opcode and operands.
func (i Instruction) Equal(other Instruction) bool {
	if i.Op != other.Op || len(i.Operands) != len(other.Operands) {
		return false
	}
	for idx := range i.Operands {
		if i.Operands[idx] != other.Operands[idx] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the instruction that shares no memory with i.
func (i Instruction) Clone() Instruction {
	if len(i.Operands) == 0 {
		return Instruction{Op: i.Op}
	}
	ops := make([]Operand, len(i.Operands))
	copy(ops, i.Operands)
	return Instruction{Op: i.Op, Operands: ops}
}

// TotalSize returns the summed encoded size of the instructions.
func TotalSize(instructions []Instruction) uint32 {
	var size uint32
	for _, instr := range instructions {
		size += instr.Size()
	}
	return size
}

func cloneInstructions(instructions []Instruction) []Instruction {
	if instructions == nil {
		return nil
	}
	out := make([]Instruction, len(instructions))
	for i, instr := range instructions {
		out[i] = instr.Clone()
	}
	return out
}
