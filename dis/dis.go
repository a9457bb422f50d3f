// Package dis renders OSI instruction streams as human readable listings.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/TheLegendOfMataNui/lss/op"
	"github.com/TheLegendOfMataNui/lss/osi"
)

// Instruction is one decoded instruction with its byte offset and any
// information that can be resolved from the image.
type Instruction struct {
	Offset   uint32
	Name     string
	Operands []string
	Info     string
}

// Disassemble annotates an instruction stream. Branch instructions get their
// absolute target offset; string pushes get the string value when img is
// provided.
func Disassemble(instructions []osi.Instruction, img *osi.Image) []Instruction {
	result := make([]Instruction, 0, len(instructions))
	var offset uint32
	for _, instr := range instructions {
		operands := make([]string, 0, len(instr.Operands))
		for _, operand := range instr.Operands {
			operands = append(operands, operand.String())
		}
		result = append(result, Instruction{
			Offset:   offset,
			Name:     instr.Name(),
			Operands: operands,
			Info:     info(instr, offset, img),
		})
		offset += instr.Size()
	}
	return result
}

// DisassembleBytes decodes an encoded instruction stream and annotates it.
func DisassembleBytes(code []byte, img *osi.Image) ([]Instruction, error) {
	instructions, err := osi.Decode(code)
	if err != nil {
		return nil, err
	}
	return Disassemble(instructions, img), nil
}

func info(instr osi.Instruction, offset uint32, img *osi.Image) string {
	switch {
	case op.IsBranch(instr.Op):
		// Offsets are relative to the end of the branch.
		target := int64(offset) + int64(instr.Size()) + int64(instr.Operands[0].Int)
		return fmt.Sprintf("-> %d", target)
	case instr.Op == op.PushConstantString && img != nil:
		index := uint16(instr.Operands[0].Int)
		if int(index) >= len(img.Strings) {
			return "<missing string>"
		}
		return strconv.Quote(img.StringAt(index))
	case instr.Op == op.SetVariableValue:
		return fmt.Sprintf("slot %d", instr.Operands[0].Int)
	}
	return ""
}

// Print writes instructions as a table.
func Print(instructions []Instruction, writer io.Writer) {
	table := tablewriter.NewWriter(writer)
	table.SetHeader([]string{"Offset", "Opcode", "Operands", "Info"})
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})
	for _, instr := range instructions {
		table.Append([]string{
			strconv.FormatUint(uint64(instr.Offset), 10),
			instr.Name,
			strings.Join(instr.Operands, ", "),
			instr.Info,
		})
	}
	table.Render()
}

// PrintImage writes a listing of every function and method in img.
func PrintImage(img *osi.Image, writer io.Writer) {
	first := true
	section := func(title string, instructions []osi.Instruction) {
		if !first {
			fmt.Fprintln(writer)
		}
		first = false
		fmt.Fprintf(writer, "%s [%d bytes]\n", title, osi.TotalSize(instructions))
		if len(instructions) > 0 {
			Print(Disassemble(instructions, img), writer)
		}
	}
	for _, fn := range img.Functions {
		section(fmt.Sprintf("function %s(%d)", fn.Name, fn.ParameterCount), fn.Instructions)
	}
	for _, cls := range img.Classes {
		for _, m := range cls.Methods {
			title := fmt.Sprintf("method %s.%s(%d)", cls.Name, symbolName(img, m.Symbol), m.ParameterCount)
			section(title, m.Instructions)
		}
	}
}

func symbolName(img *osi.Image, symbol uint16) string {
	if int(symbol) < len(img.Symbols) {
		return img.SymbolAt(symbol)
	}
	return "#" + strconv.Itoa(int(symbol))
}
