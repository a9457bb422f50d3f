package osi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/TheLegendOfMataNui/lss/op"
)

var (
	// ErrUnknownOpcode is returned when decoding meets a byte that is not a
	// BCL opcode.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrTruncated is returned when an instruction's operands run past the
	// end of the input.
	ErrTruncated = errors.New("truncated instruction")
)

// Encode serializes instructions into the BCL byte stream: the opcode byte
// followed by its operands in little-endian order.
func Encode(instructions []Instruction) []byte {
	buf := make([]byte, 0, TotalSize(instructions))
	for _, instr := range instructions {
		buf = append(buf, byte(instr.Op))
		for _, o := range instr.Operands {
			switch o.Kind {
			case op.Int8:
				buf = append(buf, byte(int8(o.Int)))
			case op.Int16:
				buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(o.Int)))
			case op.Uint16:
				buf = binary.LittleEndian.AppendUint16(buf, uint16(o.Int))
			case op.Int32:
				buf = binary.LittleEndian.AppendUint32(buf, uint32(o.Int))
			case op.Float32:
				buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(o.Float))
			}
		}
	}
	return buf
}

// Decode parses a BCL byte stream produced by Encode.
func Decode(data []byte) ([]Instruction, error) {
	var instructions []Instruction
	offset := 0
	for offset < len(data) {
		code := op.Code(data[offset])
		info := op.GetInfo(code)
		if info.Name == "" {
			return nil, fmt.Errorf("osi: offset %d: %w 0x%02x", offset, ErrUnknownOpcode, byte(code))
		}
		if offset+int(info.Size()) > len(data) {
			return nil, fmt.Errorf("osi: offset %d: %w %s", offset, ErrTruncated, info.Name)
		}
		pos := offset + 1
		var operands []Operand
		for _, kind := range info.Operands {
			var o Operand
			switch kind {
			case op.Int8:
				o = I8(int8(data[pos]))
			case op.Int16:
				o = I16(int16(binary.LittleEndian.Uint16(data[pos:])))
			case op.Uint16:
				o = U16(binary.LittleEndian.Uint16(data[pos:]))
			case op.Int32:
				o = I32(int32(binary.LittleEndian.Uint32(data[pos:])))
			case op.Float32:
				o = F32(math.Float32frombits(binary.LittleEndian.Uint32(data[pos:])))
			}
			operands = append(operands, o)
			pos += int(kind.Size())
		}
		instructions = append(instructions, Instruction{Op: code, Operands: operands})
		offset = pos
	}
	return instructions, nil
}
