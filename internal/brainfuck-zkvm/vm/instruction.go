// Package vm provides the Brainfuck virtual machine: program
// compilation, execution, and capture of the raw execution trace
// consumed by the trace builders.
package vm

import "fmt"

// InstructionType identifies one of the eight Brainfuck instructions.
// The numeric value of each instruction is its ASCII symbol, so
// instructions embed directly into field elements without a separate
// opcode table.
type InstructionType byte

const (
	// Right ('>') increments the data pointer
	Right InstructionType = '>'

	// Left ('<') decrements the data pointer
	Left InstructionType = '<'

	// Plus ('+') increments the cell at the data pointer
	Plus InstructionType = '+'

	// Minus ('-') decrements the cell at the data pointer
	Minus InstructionType = '-'

	// PutChar ('.') outputs the cell at the data pointer
	PutChar InstructionType = '.'

	// ReadChar (',') reads one input symbol into the cell at the data pointer
	ReadChar InstructionType = ','

	// JumpIfZero ('[') jumps past the matching ']' when the cell is zero
	JumpIfZero InstructionType = '['

	// JumpIfNotZero (']') jumps back past the matching '[' when the cell is nonzero
	JumpIfNotZero InstructionType = ']'
)

// ParseInstruction maps a source symbol to its instruction type.
// Any symbol outside the eight-instruction set is an error; comment
// characters must be filtered out by the caller.
func ParseInstruction(symbol byte) (InstructionType, error) {
	switch ins := InstructionType(symbol); ins {
	case Right, Left, Plus, Minus, PutChar, ReadChar, JumpIfZero, JumpIfNotZero:
		return ins, nil
	default:
		return 0, fmt.Errorf("invalid instruction symbol %q", symbol)
	}
}

// IsInstruction reports whether the symbol belongs to the instruction set
func IsInstruction(symbol byte) bool {
	_, err := ParseInstruction(symbol)
	return err == nil
}

// IsIO reports whether the instruction reads or writes the I/O tapes
func (ins InstructionType) IsIO() bool {
	return ins == PutChar || ins == ReadChar
}

// IsJump reports whether the instruction is a control-flow bracket
func (ins InstructionType) IsJump() bool {
	return ins == JumpIfZero || ins == JumpIfNotZero
}

// String returns the source symbol of the instruction
func (ins InstructionType) String() string {
	return string(byte(ins))
}
