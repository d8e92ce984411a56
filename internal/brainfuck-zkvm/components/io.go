package components

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/vm"
)

// I/O component column indices
const (
	ioCiCol  = 0
	ioMvCol  = 1
	ioPadCol = 2
)

// IoColumn is the column layout marker of the I/O component: ci, mv, pad.
type IoColumn struct{}

// Count returns the number of main trace columns
func (IoColumn) Count() int { return 3 }

// BuildIoTable builds the I/O main trace in execution order. Rows whose
// instruction is not an I/O instruction are padding.
func BuildIoTable(padded []vm.Registers) [][]field.Element {
	n := len(padded)
	ci := make([]field.Element, n)
	mv := make([]field.Element, n)
	pad := make([]field.Element, n)
	for i, row := range padded {
		ci[i] = row.Ci
		mv[i] = row.Mv
		if isIoSymbol(row.Ci) {
			pad[i] = field.Zero
		} else {
			pad[i] = field.One
		}
	}
	return [][]field.Element{ci, mv, pad}
}

// isIoSymbol reports whether the instruction symbol reads or writes the
// I/O tapes
func isIoSymbol(ci field.Element) bool {
	return ci.Equal(field.New(uint64(vm.PutChar))) || ci.Equal(field.New(uint64(vm.ReadChar)))
}

// BuildIoInteraction builds the I/O provide column: a running sum of
// (1 - pad) / (Z - combine(ci, mv)).
func BuildIoInteraction(
	main [][]field.Element,
	elements *LookupElements,
) ([][]field.Element, *InteractionClaim, error) {
	n := len(main[ioCiCol])
	numerators := make([]field.Element, n)
	tuples := make([][]field.Element, n)
	for i := 0; i < n; i++ {
		numerators[i] = field.One.Sub(main[ioPadCol][i])
		tuples[i] = []field.Element{main[ioCiCol][i], main[ioMvCol][i]}
	}

	column, sum, err := runningLookupSum(elements, numerators, tuples)
	if err != nil {
		return nil, nil, fmt.Errorf("io interaction: %w", err)
	}
	return [][]field.Element{column}, &InteractionClaim{ClaimedSum: sum}, nil
}

// IoEval evaluates the I/O component constraints
type IoEval struct {
	logSize    uint32
	span       stark.TreeSpan
	elements   LookupElements
	claimedSum field.Element
}

// NewIoEval creates the I/O constraint evaluator
func NewIoEval(
	claim *Claim[IoColumn],
	span stark.TreeSpan,
	elements LookupElements,
	interaction *InteractionClaim,
) *IoEval {
	return &IoEval{
		logSize:    claim.LogSize,
		span:       span,
		elements:   elements,
		claimedSum: interaction.ClaimedSum,
	}
}

// LogSize returns the binary logarithm of the component's trace length
func (e *IoEval) LogSize() uint32 { return e.logSize }

// Span returns the component's column locations in the commitment trees
func (e *IoEval) Span() stark.TreeSpan { return e.span }

// NumConstraints returns the number of constraint polynomials
func (e *IoEval) NumConstraints() int { return 4 }

// EvaluateConstraints evaluates the I/O constraints:
//   - pad is boolean
//   - the provide column accumulates (1 - pad) / (Z - combine(row))
//   - the final running sum equals the claimed sum
func (e *IoEval) EvaluateConstraints(frame *stark.EvalFrame) []field.Element {
	pad := frame.Cur[ioPadCol]
	padNext := frame.Next[ioPadCol]
	sum := frame.InterCur[0]
	sumNext := frame.InterNext[0]
	mask := notLast(frame)

	curDenom := e.elements.Combine([]field.Element{
		frame.Cur[ioCiCol], frame.Cur[ioMvCol],
	})
	nextDenom := e.elements.Combine([]field.Element{
		frame.Next[ioCiCol], frame.Next[ioMvCol],
	})

	return []field.Element{
		pad.Mul(pad.Sub(field.One)),
		frame.IsFirst.Mul(sum.Mul(curDenom).Sub(field.One.Sub(pad))),
		mask.Mul(sumNext.Sub(sum).Mul(nextDenom).Sub(field.One.Sub(padNext))),
		frame.IsLast.Mul(sum.Sub(e.claimedSum)),
	}
}
