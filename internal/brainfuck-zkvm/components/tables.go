package components

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/utils"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/vm"
)

// Tables holds the main trace columns of all components, built from one
// execution trace. All tables share the same power-of-two length.
type Tables struct {
	// LogSize is the binary logarithm of the shared table length
	LogSize uint32

	// Processor, Memory, Instruction and Io hold the main columns of
	// each component
	Processor   [][]field.Element
	Memory      [][]field.Element
	Instruction [][]field.Element
	Io          [][]field.Element
}

// BuildTables pads the raw execution trace to a power-of-two length and
// derives the main trace of every component from it. An empty trace is
// rejected with ErrEmptyTrace.
func BuildTables(trace []vm.Registers) (*Tables, error) {
	if len(trace) == 0 {
		return nil, ErrEmptyTrace
	}

	padded := PadTrace(trace)
	logSize, ok := utils.Log2(len(padded))
	if !ok {
		return nil, fmt.Errorf("padded trace length %d is not a power of 2", len(padded))
	}

	return &Tables{
		LogSize:     logSize,
		Processor:   BuildProcessorTable(padded),
		Memory:      BuildMemoryTable(padded),
		Instruction: BuildInstructionTable(padded),
		Io:          BuildIoTable(padded),
	}, nil
}

// PadTrace extends an execution trace to the next power-of-two length.
// Padding rows continue the clock, clear the instruction registers and
// freeze the memory registers, so every transition constraint keeps
// holding across the padding region.
func PadTrace(trace []vm.Registers) []vm.Registers {
	target := utils.NextPowerOfTwo(len(trace))
	if len(trace) == target {
		return trace
	}

	padded := make([]vm.Registers, target)
	copy(padded, trace)

	last := trace[len(trace)-1]
	clk := last.Clk
	for i := len(trace); i < target; i++ {
		clk = clk.Add(field.One)
		padded[i] = vm.Registers{
			Clk: clk,
			Ip:  last.Ip,
			Ci:  field.Zero,
			Ni:  field.Zero,
			Mp:  last.Mp,
			Mv:  last.Mv,
			Mvi: last.Mvi,
		}
	}
	return padded
}

// runningLookupSum builds a running log-derivative column: entry i is
// the partial sum of numerator_j / (Z - combine(tuple_j)) for j <= i.
// It returns the column and its final value.
func runningLookupSum(
	elements *LookupElements,
	numerators []field.Element,
	tuples [][]field.Element,
) ([]field.Element, field.Element, error) {
	column := make([]field.Element, len(numerators))
	sum := field.Zero
	for i := range numerators {
		fraction, err := elements.Fraction(numerators[i], tuples[i])
		if err != nil {
			return nil, field.Zero, fmt.Errorf("row %d: %w", i, err)
		}
		sum = sum.Add(fraction)
		column[i] = sum
	}
	return column, sum, nil
}

// notLast returns the complement of the last-row selector of a frame
func notLast(frame *stark.EvalFrame) field.Element {
	return field.One.Sub(frame.IsLast)
}
