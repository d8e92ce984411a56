package components

import (
	"fmt"
	"sort"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/vm"
)

// Instruction component column indices
const (
	insIpCol  = 0
	insCiCol  = 1
	insNiCol  = 2
	insPadCol = 3
)

// InstructionColumn is the column layout marker of the instruction
// component: ip, ci, ni, pad.
type InstructionColumn struct{}

// Count returns the number of main trace columns
func (InstructionColumn) Count() int { return 4 }

// BuildInstructionTable builds the instruction main trace: the padded
// execution rows reordered by (ip, clk), grouping all executions of one
// program location.
func BuildInstructionTable(padded []vm.Registers) [][]field.Element {
	n := len(padded)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ra, rb := padded[order[a]], padded[order[b]]
		if ra.Ip.Value() != rb.Ip.Value() {
			return ra.Ip.Value() < rb.Ip.Value()
		}
		return ra.Clk.Value() < rb.Clk.Value()
	})

	ip := make([]field.Element, n)
	ci := make([]field.Element, n)
	ni := make([]field.Element, n)
	pad := make([]field.Element, n)
	for i, idx := range order {
		ip[i] = padded[idx].Ip
		ci[i] = padded[idx].Ci
		ni[i] = padded[idx].Ni
		pad[i] = field.Zero
	}
	return [][]field.Element{ip, ci, ni, pad}
}

// BuildInstructionInteraction builds the instruction provide column: a
// running sum of (1 - pad) / (Z - combine(ip, ci, ni)).
func BuildInstructionInteraction(
	main [][]field.Element,
	elements *LookupElements,
) ([][]field.Element, *InteractionClaim, error) {
	n := len(main[insIpCol])
	numerators := make([]field.Element, n)
	tuples := make([][]field.Element, n)
	for i := 0; i < n; i++ {
		numerators[i] = field.One.Sub(main[insPadCol][i])
		tuples[i] = []field.Element{main[insIpCol][i], main[insCiCol][i], main[insNiCol][i]}
	}

	column, sum, err := runningLookupSum(elements, numerators, tuples)
	if err != nil {
		return nil, nil, fmt.Errorf("instruction interaction: %w", err)
	}
	return [][]field.Element{column}, &InteractionClaim{ClaimedSum: sum}, nil
}

// InstructionEval evaluates the instruction component constraints
type InstructionEval struct {
	logSize    uint32
	span       stark.TreeSpan
	elements   LookupElements
	claimedSum field.Element
}

// NewInstructionEval creates the instruction constraint evaluator
func NewInstructionEval(
	claim *Claim[InstructionColumn],
	span stark.TreeSpan,
	elements LookupElements,
	interaction *InteractionClaim,
) *InstructionEval {
	return &InstructionEval{
		logSize:    claim.LogSize,
		span:       span,
		elements:   elements,
		claimedSum: interaction.ClaimedSum,
	}
}

// LogSize returns the binary logarithm of the component's trace length
func (e *InstructionEval) LogSize() uint32 { return e.logSize }

// Span returns the component's column locations in the commitment trees
func (e *InstructionEval) Span() stark.TreeSpan { return e.span }

// NumConstraints returns the number of constraint polynomials
func (e *InstructionEval) NumConstraints() int { return 5 }

// EvaluateConstraints evaluates the instruction constraints:
//   - pad is boolean
//   - the first row holds program location 0
//   - the provide column accumulates (1 - pad) / (Z - combine(row))
//   - the final running sum equals the claimed sum
func (e *InstructionEval) EvaluateConstraints(frame *stark.EvalFrame) []field.Element {
	pad := frame.Cur[insPadCol]
	padNext := frame.Next[insPadCol]
	sum := frame.InterCur[0]
	sumNext := frame.InterNext[0]
	mask := notLast(frame)

	curDenom := e.elements.Combine([]field.Element{
		frame.Cur[insIpCol], frame.Cur[insCiCol], frame.Cur[insNiCol],
	})
	nextDenom := e.elements.Combine([]field.Element{
		frame.Next[insIpCol], frame.Next[insCiCol], frame.Next[insNiCol],
	})

	return []field.Element{
		pad.Mul(pad.Sub(field.One)),
		frame.IsFirst.Mul(frame.Cur[insIpCol]),
		frame.IsFirst.Mul(sum.Mul(curDenom).Sub(field.One.Sub(pad))),
		mask.Mul(sumNext.Sub(sum).Mul(nextDenom).Sub(field.One.Sub(padNext))),
		frame.IsLast.Mul(sum.Sub(e.claimedSum)),
	}
}
