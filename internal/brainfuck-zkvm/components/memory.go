package components

import (
	"fmt"
	"sort"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/vm"
)

// Memory component column indices
const (
	memClkCol = 0
	memMpCol  = 1
	memMvCol  = 2
	memPadCol = 3
)

// MemoryColumn is the column layout marker of the memory component:
// clk, mp, mv, pad.
type MemoryColumn struct{}

// Count returns the number of main trace columns
func (MemoryColumn) Count() int { return 4 }

// BuildMemoryTable builds the memory main trace: the padded execution
// rows reordered by (mp, clk), so that all accesses to one cell are
// adjacent and clock-ordered.
func BuildMemoryTable(padded []vm.Registers) [][]field.Element {
	n := len(padded)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ra, rb := padded[order[a]], padded[order[b]]
		if ra.Mp.Value() != rb.Mp.Value() {
			return ra.Mp.Value() < rb.Mp.Value()
		}
		return ra.Clk.Value() < rb.Clk.Value()
	})

	clk := make([]field.Element, n)
	mp := make([]field.Element, n)
	mv := make([]field.Element, n)
	pad := make([]field.Element, n)
	for i, idx := range order {
		clk[i] = padded[idx].Clk
		mp[i] = padded[idx].Mp
		mv[i] = padded[idx].Mv
		pad[i] = field.Zero
	}
	return [][]field.Element{clk, mp, mv, pad}
}

// BuildMemoryInteraction builds the memory provide column: a running
// sum of (1 - pad) / (Z - combine(clk, mp, mv)) over the memory rows.
func BuildMemoryInteraction(
	main [][]field.Element,
	elements *LookupElements,
) ([][]field.Element, *InteractionClaim, error) {
	n := len(main[memClkCol])
	numerators := make([]field.Element, n)
	tuples := make([][]field.Element, n)
	for i := 0; i < n; i++ {
		numerators[i] = field.One.Sub(main[memPadCol][i])
		tuples[i] = []field.Element{main[memClkCol][i], main[memMpCol][i], main[memMvCol][i]}
	}

	column, sum, err := runningLookupSum(elements, numerators, tuples)
	if err != nil {
		return nil, nil, fmt.Errorf("memory interaction: %w", err)
	}
	return [][]field.Element{column}, &InteractionClaim{ClaimedSum: sum}, nil
}

// MemoryEval evaluates the memory component constraints
type MemoryEval struct {
	logSize    uint32
	span       stark.TreeSpan
	elements   LookupElements
	claimedSum field.Element
}

// NewMemoryEval creates the memory constraint evaluator
func NewMemoryEval(
	claim *Claim[MemoryColumn],
	span stark.TreeSpan,
	elements LookupElements,
	interaction *InteractionClaim,
) *MemoryEval {
	return &MemoryEval{
		logSize:    claim.LogSize,
		span:       span,
		elements:   elements,
		claimedSum: interaction.ClaimedSum,
	}
}

// LogSize returns the binary logarithm of the component's trace length
func (e *MemoryEval) LogSize() uint32 { return e.logSize }

// Span returns the component's column locations in the commitment trees
func (e *MemoryEval) Span() stark.TreeSpan { return e.span }

// NumConstraints returns the number of constraint polynomials
func (e *MemoryEval) NumConstraints() int { return 7 }

// EvaluateConstraints evaluates the memory constraints:
//   - pad is boolean and can only switch from 0 to 1
//   - the first row addresses cell 0
//   - the cell pointer is sorted and moves by at most one per row
//   - the provide column accumulates (1 - pad) / (Z - combine(row))
//   - the final running sum equals the claimed sum
func (e *MemoryEval) EvaluateConstraints(frame *stark.EvalFrame) []field.Element {
	pad := frame.Cur[memPadCol]
	padNext := frame.Next[memPadCol]
	mp := frame.Cur[memMpCol]
	mpNext := frame.Next[memMpCol]
	sum := frame.InterCur[0]
	sumNext := frame.InterNext[0]

	padStep := padNext.Sub(pad)
	mpStep := mpNext.Sub(mp)
	mask := notLast(frame)

	curDenom := e.elements.Combine([]field.Element{
		frame.Cur[memClkCol], frame.Cur[memMpCol], frame.Cur[memMvCol],
	})
	nextDenom := e.elements.Combine([]field.Element{
		frame.Next[memClkCol], frame.Next[memMpCol], frame.Next[memMvCol],
	})

	return []field.Element{
		pad.Mul(pad.Sub(field.One)),
		mask.Mul(padStep.Mul(padStep.Sub(field.One))),
		frame.IsFirst.Mul(mp),
		mask.Mul(mpStep.Mul(mpStep.Sub(field.One))),
		frame.IsFirst.Mul(sum.Mul(curDenom).Sub(field.One.Sub(pad))),
		mask.Mul(sumNext.Sub(sum).Mul(nextDenom).Sub(field.One.Sub(padNext))),
		frame.IsLast.Mul(sum.Sub(e.claimedSum)),
	}
}
