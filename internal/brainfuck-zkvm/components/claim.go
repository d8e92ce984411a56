// Package components implements the AIR tables of the Brainfuck zkVM:
// the processor, memory, instruction and I/O components, their trace
// builders, their lookup interactions, and the claim types that bind
// trace shapes into the Fiat-Shamir transcript.
package components

import (
	"errors"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
)

// ErrEmptyTrace is returned when a trace builder receives an empty
// execution trace. It must be surfaced before anything is bound into
// the transcript.
var ErrEmptyTrace = errors.New("the trace is empty")

// TraceColumn describes the column layout of one component's main trace
type TraceColumn interface {
	// Count returns the number of main trace columns of the component
	Count() int
}

// TreeVec holds per-tree column log-sizes in protocol order:
// preprocessed, main, interaction.
type TreeVec [][]uint32

// Claim declares the trace shape of one component: the binary logarithm
// of its trace length. The column count is fixed by the component's
// TraceColumn type.
type Claim[T TraceColumn] struct {
	// LogSize is the binary logarithm of the component's trace length
	LogSize uint32
}

// LogSizes returns the claimed column log-sizes per commitment tree.
// The preprocessed and interaction lists are left empty: their shapes
// are derived by the protocol rather than declared by the claim.
func (c *Claim[T]) LogSizes() TreeVec {
	var column T
	main := make([]uint32, column.Count())
	for i := range main {
		main[i] = c.LogSize
	}
	return TreeVec{{}, main, {}}
}

// MixInto binds the claimed trace shape into the Fiat-Shamir transcript
func (c *Claim[T]) MixInto(channel *stark.Channel) {
	channel.MixU64(uint64(c.LogSize))
}
