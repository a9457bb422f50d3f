// Package osi provides the in-memory form of a compiled OSI image.
//
// An [Image] holds the five tables consumed by the OSI container writer and
// the virtual machine:
//
//   - Strings: interned string constants, referenced by index
//   - Symbols: interned property and method names, referenced by index
//   - Globals: global variable names, referenced by index
//   - Functions: [FunctionInfo] records in declaration order
//   - Classes: [ClassInfo] records in declaration order
//
// Subroutine bodies are lists of [Instruction] values. Each instruction is an
// opcode from package op followed by typed operands, and its encoded size is
// fixed by the opcode. Branch operands are relative byte offsets measured from
// the end of the branch instruction.
//
// Images can be saved and restored with [MarshalSnapshot] and
// [UnmarshalSnapshot], which use canonical CBOR so identical images always
// produce identical bytes.
package osi
