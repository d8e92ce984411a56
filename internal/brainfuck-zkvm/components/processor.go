package components

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/vm"
)

// Processor component column indices
const (
	procClkCol = 0
	procIpCol  = 1
	procCiCol  = 2
	procNiCol  = 3
	procMpCol  = 4
	procMvCol  = 5
	procMviCol = 6
	procIosCol = 7
)

// Processor interaction column indices
const (
	procMemSumCol = 0
	procInsSumCol = 1
	procIoSumCol  = 2
)

// ProcessorColumn is the column layout marker of the processor
// component: clk, ip, ci, ni, mp, mv, mvi, ios.
type ProcessorColumn struct{}

// Count returns the number of main trace columns
func (ProcessorColumn) Count() int { return 8 }

// BuildProcessorTable builds the processor main trace from the padded
// execution trace, in execution order. The ios column selects the rows
// that touch the I/O tapes.
func BuildProcessorTable(padded []vm.Registers) [][]field.Element {
	n := len(padded)
	columns := make([][]field.Element, ProcessorColumn{}.Count())
	for i := range columns {
		columns[i] = make([]field.Element, n)
	}
	for i, row := range padded {
		columns[procClkCol][i] = row.Clk
		columns[procIpCol][i] = row.Ip
		columns[procCiCol][i] = row.Ci
		columns[procNiCol][i] = row.Ni
		columns[procMpCol][i] = row.Mp
		columns[procMvCol][i] = row.Mv
		columns[procMviCol][i] = row.Mvi
		if isIoSymbol(row.Ci) {
			columns[procIosCol][i] = field.One
		} else {
			columns[procIosCol][i] = field.Zero
		}
	}
	return columns
}

// BuildProcessorInteraction builds the processor consume columns: three
// running sums that subtract the memory, instruction and I/O tuples the
// processor uses on each row. The component's claimed sum is the total
// of the three final values.
func BuildProcessorInteraction(
	main [][]field.Element,
	memory, instruction, io *LookupElements,
) ([][]field.Element, *InteractionClaim, error) {
	n := len(main[procClkCol])
	negOne := field.Zero.Sub(field.One)

	memNumerators := make([]field.Element, n)
	memTuples := make([][]field.Element, n)
	insNumerators := make([]field.Element, n)
	insTuples := make([][]field.Element, n)
	ioNumerators := make([]field.Element, n)
	ioTuples := make([][]field.Element, n)
	for i := 0; i < n; i++ {
		memNumerators[i] = negOne
		memTuples[i] = []field.Element{main[procClkCol][i], main[procMpCol][i], main[procMvCol][i]}
		insNumerators[i] = negOne
		insTuples[i] = []field.Element{main[procIpCol][i], main[procCiCol][i], main[procNiCol][i]}
		ioNumerators[i] = field.Zero.Sub(main[procIosCol][i])
		ioTuples[i] = []field.Element{main[procCiCol][i], main[procMvCol][i]}
	}

	memColumn, memSum, err := runningLookupSum(memory, memNumerators, memTuples)
	if err != nil {
		return nil, nil, fmt.Errorf("processor memory interaction: %w", err)
	}
	insColumn, insSum, err := runningLookupSum(instruction, insNumerators, insTuples)
	if err != nil {
		return nil, nil, fmt.Errorf("processor instruction interaction: %w", err)
	}
	ioColumn, ioSum, err := runningLookupSum(io, ioNumerators, ioTuples)
	if err != nil {
		return nil, nil, fmt.Errorf("processor io interaction: %w", err)
	}

	claim := &InteractionClaim{ClaimedSum: memSum.Add(insSum).Add(ioSum)}
	return [][]field.Element{memColumn, insColumn, ioColumn}, claim, nil
}

// ProcessorEval evaluates the processor component constraints
type ProcessorEval struct {
	logSize     uint32
	span        stark.TreeSpan
	memory      LookupElements
	instruction LookupElements
	io          LookupElements
	claimedSum  field.Element
}

// NewProcessorEval creates the processor constraint evaluator
func NewProcessorEval(
	claim *Claim[ProcessorColumn],
	span stark.TreeSpan,
	memory, instruction, io LookupElements,
	interaction *InteractionClaim,
) *ProcessorEval {
	return &ProcessorEval{
		logSize:     claim.LogSize,
		span:        span,
		memory:      memory,
		instruction: instruction,
		io:          io,
		claimedSum:  interaction.ClaimedSum,
	}
}

// LogSize returns the binary logarithm of the component's trace length
func (e *ProcessorEval) LogSize() uint32 { return e.logSize }

// Span returns the component's column locations in the commitment trees
func (e *ProcessorEval) Span() stark.TreeSpan { return e.span }

// NumConstraints returns the number of constraint polynomials
func (e *ProcessorEval) NumConstraints() int { return 13 }

// EvaluateConstraints evaluates the processor constraints:
//   - the execution starts at clock 0 and program location 0
//   - the clock increments by one on every row
//   - mvi is the inverse of mv whenever mv is nonzero
//   - ios is boolean
//   - the three consume columns subtract the memory, instruction and
//     I/O tuples the row uses
//   - the total of the three final running sums equals the claimed sum
func (e *ProcessorEval) EvaluateConstraints(frame *stark.EvalFrame) []field.Element {
	mask := notLast(frame)

	clk := frame.Cur[procClkCol]
	clkNext := frame.Next[procClkCol]
	mv := frame.Cur[procMvCol]
	mvi := frame.Cur[procMviCol]
	ios := frame.Cur[procIosCol]
	iosNext := frame.Next[procIosCol]

	mvProduct := mv.Mul(mvi).Sub(field.One)

	memDenomCur := e.memory.Combine([]field.Element{
		frame.Cur[procClkCol], frame.Cur[procMpCol], frame.Cur[procMvCol],
	})
	memDenomNext := e.memory.Combine([]field.Element{
		frame.Next[procClkCol], frame.Next[procMpCol], frame.Next[procMvCol],
	})
	insDenomCur := e.instruction.Combine([]field.Element{
		frame.Cur[procIpCol], frame.Cur[procCiCol], frame.Cur[procNiCol],
	})
	insDenomNext := e.instruction.Combine([]field.Element{
		frame.Next[procIpCol], frame.Next[procCiCol], frame.Next[procNiCol],
	})
	ioDenomCur := e.io.Combine([]field.Element{
		frame.Cur[procCiCol], frame.Cur[procMvCol],
	})
	ioDenomNext := e.io.Combine([]field.Element{
		frame.Next[procCiCol], frame.Next[procMvCol],
	})

	memSum := frame.InterCur[procMemSumCol]
	memSumNext := frame.InterNext[procMemSumCol]
	insSum := frame.InterCur[procInsSumCol]
	insSumNext := frame.InterNext[procInsSumCol]
	ioSum := frame.InterCur[procIoSumCol]
	ioSumNext := frame.InterNext[procIoSumCol]

	total := memSum.Add(insSum).Add(ioSum)

	return []field.Element{
		frame.IsFirst.Mul(clk),
		frame.IsFirst.Mul(frame.Cur[procIpCol]),
		mask.Mul(clkNext.Sub(clk).Sub(field.One)),
		mv.Mul(mvProduct),
		mvi.Mul(mvProduct),
		ios.Mul(ios.Sub(field.One)),
		frame.IsFirst.Mul(memSum.Mul(memDenomCur).Add(field.One)),
		mask.Mul(memSumNext.Sub(memSum).Mul(memDenomNext).Add(field.One)),
		frame.IsFirst.Mul(insSum.Mul(insDenomCur).Add(field.One)),
		mask.Mul(insSumNext.Sub(insSum).Mul(insDenomNext).Add(field.One)),
		frame.IsFirst.Mul(ioSum.Mul(ioDenomCur).Add(ios)),
		mask.Mul(ioSumNext.Sub(ioSum).Mul(ioDenomNext).Add(iosNext)),
		frame.IsLast.Mul(total.Sub(e.claimedSum)),
	}
}
