// Package op defines the BCL opcodes emitted by the LSS compiler and the
// operand encoding of each one.
//
// The numeric opcode values are assigned by this package and do not match
// the game engine's BCL numbering. Images are not byte compatible with the
// engine's virtual machine.
package op

// Code is a one-byte BCL opcode.
type Code byte

const (
	Nop Code = 0x00

	// Subroutine prologue
	MemberFunctionArgumentCheck Code = 0x01
	CreateStackVariables        Code = 0x02

	// Variables
	SetVariableValue Code = 0x09

	// Stack
	Pop Code = 0x10

	// Control flow
	Return                  Code = 0x18
	CompareAndBranchIfFalse Code = 0x19
	BranchAlways            Code = 0x1A

	// Comparison
	EqualTo        Code = 0x20
	LessThan       Code = 0x21
	GreaterThan    Code = 0x22
	LessOrEqual    Code = 0x23
	GreaterOrEqual Code = 0x24

	// Arithmetic
	Add      Code = 0x28
	Subtract Code = 0x29
	Multiply Code = 0x2A
	Divide   Code = 0x2B
	Power    Code = 0x2C
	Modulus  Code = 0x2D

	// Bitwise
	BitwiseAnd Code = 0x30
	BitwiseOr  Code = 0x31
	BitwiseXor Code = 0x32
	BitwiseNot Code = 0x33
	ShiftLeft  Code = 0x34
	ShiftRight Code = 0x35

	// Logical
	And Code = 0x38
	Or  Code = 0x39
	Not Code = 0x3A

	// Push constants
	PushConstant0      Code = 0x40
	PushConstantI8     Code = 0x41
	PushConstantI16    Code = 0x42
	PushConstantI32    Code = 0x43
	PushConstantF32    Code = 0x44
	PushConstantString Code = 0x45
	PushNothing        Code = 0x46
)

// OperandKind describes how an operand is encoded after the opcode byte.
type OperandKind uint8

const (
	Int8 OperandKind = iota + 1
	Int16
	Int32
	Uint16
	Float32
)

// Size returns the number of bytes used to encode an operand of this kind.
func (k OperandKind) Size() uint32 {
	switch k {
	case Int8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Float32:
		return 4
	default:
		return 0
	}
}

// String returns the name of the operand kind.
func (k OperandKind) String() string {
	switch k {
	case Int8:
		return "i8"
	case Int16:
		return "i16"
	case Int32:
		return "i32"
	case Uint16:
		return "u16"
	case Float32:
		return "f32"
	default:
		return "?"
	}
}

// Info contains information about an opcode.
type Info struct {
	Code     Code
	Name     string
	Operands []OperandKind
}

// Size returns the encoded size of an instruction with this opcode.
func (i Info) Size() uint32 {
	size := uint32(1)
	for _, k := range i.Operands {
		size += k.Size()
	}
	return size
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op       Code
		name     string
		operands []OperandKind
	}
	ops := []opInfo{
		{Add, "ADD", nil},
		{And, "AND", nil},
		{BitwiseAnd, "BITWISE_AND", nil},
		{BitwiseNot, "BITWISE_NOT", nil},
		{BitwiseOr, "BITWISE_OR", nil},
		{BitwiseXor, "BITWISE_XOR", nil},
		{BranchAlways, "BRANCH_ALWAYS", []OperandKind{Int16}},
		{CompareAndBranchIfFalse, "COMPARE_AND_BRANCH_IF_FALSE", []OperandKind{Int16}},
		{CreateStackVariables, "CREATE_STACK_VARIABLES", []OperandKind{Int8}},
		{Divide, "DIVIDE", nil},
		{EqualTo, "EQUAL_TO", nil},
		{GreaterOrEqual, "GREATER_OR_EQUAL", nil},
		{GreaterThan, "GREATER_THAN", nil},
		{LessOrEqual, "LESS_OR_EQUAL", nil},
		{LessThan, "LESS_THAN", nil},
		{MemberFunctionArgumentCheck, "MEMBER_FUNCTION_ARGUMENT_CHECK", []OperandKind{Int8}},
		{Modulus, "MODULUS", nil},
		{Multiply, "MULTIPLY", nil},
		{Nop, "NOP", nil},
		{Not, "NOT", nil},
		{Or, "OR", nil},
		{Pop, "POP", nil},
		{Power, "POWER", nil},
		{PushConstant0, "PUSH_CONSTANT_0", nil},
		{PushConstantF32, "PUSH_CONSTANT_F32", []OperandKind{Float32}},
		{PushConstantI16, "PUSH_CONSTANT_I16", []OperandKind{Int16}},
		{PushConstantI32, "PUSH_CONSTANT_I32", []OperandKind{Int32}},
		{PushConstantI8, "PUSH_CONSTANT_I8", []OperandKind{Int8}},
		{PushConstantString, "PUSH_CONSTANT_STRING", []OperandKind{Uint16}},
		{PushNothing, "PUSH_NOTHING", nil},
		{Return, "RETURN", nil},
		{SetVariableValue, "SET_VARIABLE_VALUE", []OperandKind{Uint16}},
		{ShiftLeft, "SHIFT_LEFT", nil},
		{ShiftRight, "SHIFT_RIGHT", nil},
		{Subtract, "SUBTRACT", nil},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:     o.op,
			Name:     o.name,
			Operands: o.operands,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes yield
// an Info with an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// IsValid reports whether the opcode is part of the instruction set.
func IsValid(op Code) bool {
	return infos[op].Name != ""
}

// IsBranch reports whether the opcode takes a relative byte offset operand.
func IsBranch(op Code) bool {
	return op == CompareAndBranchIfFalse || op == BranchAlways
}
