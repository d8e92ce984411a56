package vm

import (
	"fmt"
	"io"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// DefaultMemorySize is the number of data cells available to a program
const DefaultMemorySize = 30000

// DefaultMaxSteps bounds execution so that a non-terminating program
// fails instead of spinning forever. The proof system has its own,
// tighter bound (Config.LogMaxRows) applied after execution.
const DefaultMaxSteps = 1 << 24

// Program is a compiled Brainfuck program: the instruction sequence
// plus the resolved bracket-matching table.
type Program struct {
	// Instructions is the filtered instruction sequence
	Instructions []InstructionType

	// jumps maps the index of each bracket to the index of its match
	jumps map[int]int
}

// Compile parses Brainfuck source into a Program.
//
// Non-instruction characters are treated as comments and skipped.
// Unbalanced brackets are a compilation error.
func Compile(source string) (*Program, error) {
	instructions := make([]InstructionType, 0, len(source))
	for i := 0; i < len(source); i++ {
		if !IsInstruction(source[i]) {
			continue
		}
		ins, err := ParseInstruction(source[i])
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, ins)
	}

	// Resolve bracket matching
	jumps := make(map[int]int)
	stack := make([]int, 0)
	for i, ins := range instructions {
		switch ins {
		case JumpIfZero:
			stack = append(stack, i)
		case JumpIfNotZero:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unmatched ']' at instruction %d", i)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jumps[open] = i
			jumps[i] = open
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("unmatched '[' at instruction %d", stack[len(stack)-1])
	}

	return &Program{Instructions: instructions, jumps: jumps}, nil
}

// Len returns the number of instructions in the program
func (p *Program) Len() int {
	return len(p.Instructions)
}

// Registers is the full register file of the machine at the start of
// one execution step, expressed as field elements so that trace
// builders can consume it directly:
//   - Clk: clock cycle
//   - Ip:  instruction pointer
//   - Ci:  current instruction symbol
//   - Ni:  next instruction symbol in program order (0 past the end)
//   - Mp:  memory (data) pointer
//   - Mv:  memory value at Mp
//   - Mvi: inverse of Mv, or 0 when Mv is 0
type Registers struct {
	Clk field.Element
	Ip  field.Element
	Ci  field.Element
	Ni  field.Element
	Mp  field.Element
	Mv  field.Element
	Mvi field.Element
}

// Machine executes a compiled program and records the execution trace.
//
// One Machine instance runs one program once; create a fresh instance
// per execution.
type Machine struct {
	program *Program
	memory  []field.Element
	input   io.Reader
	output  io.Writer

	ip  int
	mp  int
	clk int

	trace    []Registers
	maxSteps int
}

// NewMachine creates a machine for the given program with the given
// input and output tapes. A nil input behaves as an empty tape; a nil
// output discards written symbols.
func NewMachine(program *Program, input io.Reader, output io.Writer) *Machine {
	return &Machine{
		program:  program,
		memory:   make([]field.Element, DefaultMemorySize),
		input:    input,
		output:   output,
		trace:    make([]Registers, 0),
		maxSteps: DefaultMaxSteps,
	}
}

// SetMaxSteps overrides the execution step bound
func (m *Machine) SetMaxSteps(maxSteps int) *Machine {
	m.maxSteps = maxSteps
	return m
}

// Execute runs the program to completion, recording one trace row per
// executed instruction. The recorded row holds the register file at
// the start of the step (before the instruction takes effect).
func (m *Machine) Execute() error {
	for m.ip < m.program.Len() {
		if m.clk >= m.maxSteps {
			return fmt.Errorf("execution exceeded %d steps", m.maxSteps)
		}

		m.trace = append(m.trace, m.registers())

		ins := m.program.Instructions[m.ip]
		if err := m.step(ins); err != nil {
			return fmt.Errorf("step %d (%s at ip %d): %w", m.clk, ins, m.ip, err)
		}
		m.clk++
	}
	return nil
}

// step applies a single instruction to the machine state
func (m *Machine) step(ins InstructionType) error {
	switch ins {
	case Right:
		if m.mp+1 >= len(m.memory) {
			return fmt.Errorf("data pointer out of bounds (%d)", m.mp+1)
		}
		m.mp++
		m.ip++
	case Left:
		if m.mp == 0 {
			return fmt.Errorf("data pointer out of bounds (-1)")
		}
		m.mp--
		m.ip++
	case Plus:
		m.memory[m.mp] = m.memory[m.mp].Add(field.One)
		m.ip++
	case Minus:
		m.memory[m.mp] = m.memory[m.mp].Sub(field.One)
		m.ip++
	case PutChar:
		if m.output != nil {
			symbol := []byte{byte(m.memory[m.mp].Value())}
			if _, err := m.output.Write(symbol); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		m.ip++
	case ReadChar:
		m.memory[m.mp] = m.readSymbol()
		m.ip++
	case JumpIfZero:
		if m.memory[m.mp].IsZero() {
			m.ip = m.program.jumps[m.ip] + 1
		} else {
			m.ip++
		}
	case JumpIfNotZero:
		if !m.memory[m.mp].IsZero() {
			m.ip = m.program.jumps[m.ip] + 1
		} else {
			m.ip++
		}
	default:
		return fmt.Errorf("invalid instruction %q", byte(ins))
	}
	return nil
}

// readSymbol reads one byte from the input tape; an exhausted or
// missing tape reads as zero.
func (m *Machine) readSymbol() field.Element {
	if m.input == nil {
		return field.Zero
	}
	buf := make([]byte, 1)
	n, err := m.input.Read(buf)
	if n == 0 || err != nil {
		return field.Zero
	}
	return field.New(uint64(buf[0]))
}

// registers captures the current register file as field elements
func (m *Machine) registers() Registers {
	mv := m.memory[m.mp]

	mvi := field.Zero
	if !mv.IsZero() {
		mvi = mv.Inverse()
	}

	ni := field.Zero
	if m.ip+1 < m.program.Len() {
		ni = field.New(uint64(m.program.Instructions[m.ip+1]))
	}

	return Registers{
		Clk: field.New(uint64(m.clk)),
		Ip:  field.New(uint64(m.ip)),
		Ci:  field.New(uint64(m.program.Instructions[m.ip])),
		Ni:  ni,
		Mp:  field.New(uint64(m.mp)),
		Mv:  mv,
		Mvi: mvi,
	}
}

// Trace returns the recorded execution trace, one row per executed
// instruction in program order.
func (m *Machine) Trace() []Registers {
	return m.trace
}

// CycleCount returns the number of executed instructions
func (m *Machine) CycleCount() int {
	return m.clk
}
