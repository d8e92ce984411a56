// Package air assembles the Brainfuck AIR: it aggregates the
// per-component claims and lookup interactions in the fixed protocol
// order and drives the commit, challenge and proving phases.
package air

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/components"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
)

// Component protocol order: memory, instruction, io, processor. Every
// aggregate below iterates its parts in this order, and the commitment
// trees lay columns out in the same order, so the transcript is
// position-binding.

// numComponents is the number of components in the protocol order
const numComponents = 4

// Claim aggregates the trace-shape claims of all components
type Claim struct {
	Memory      components.Claim[components.MemoryColumn]
	Instruction components.Claim[components.InstructionColumn]
	Io          components.Claim[components.IoColumn]
	Processor   components.Claim[components.ProcessorColumn]
}

// NewClaim builds the aggregate claim for tables of the given log-size
func NewClaim(logSize uint32) *Claim {
	return &Claim{
		Memory:      components.Claim[components.MemoryColumn]{LogSize: logSize},
		Instruction: components.Claim[components.InstructionColumn]{LogSize: logSize},
		Io:          components.Claim[components.IoColumn]{LogSize: logSize},
		Processor:   components.Claim[components.ProcessorColumn]{LogSize: logSize},
	}
}

// MixInto binds every component claim into the transcript in protocol order
func (c *Claim) MixInto(channel *stark.Channel) {
	c.Memory.MixInto(channel)
	c.Instruction.MixInto(channel)
	c.Io.MixInto(channel)
	c.Processor.MixInto(channel)
}

// LogSizes concatenates the per-component column log-sizes tree by tree
func (c *Claim) LogSizes() components.TreeVec {
	parts := []components.TreeVec{
		c.Memory.LogSizes(),
		c.Instruction.LogSizes(),
		c.Io.LogSizes(),
		c.Processor.LogSizes(),
	}
	combined := make(components.TreeVec, stark.NumTrees)
	for tree := range combined {
		for _, part := range parts {
			combined[tree] = append(combined[tree], part[tree]...)
		}
	}
	return combined
}

// InteractionElements holds the lookup randomness of the three
// relations the processor participates in.
type InteractionElements struct {
	Memory      components.LookupElements
	Instruction components.LookupElements
	Io          components.LookupElements
}

// DrawInteractionElements draws the lookup randomness of every relation
// from the channel in protocol order.
func DrawInteractionElements(channel *stark.Channel) *InteractionElements {
	return &InteractionElements{
		Memory:      components.DrawLookupElements(channel, 3),
		Instruction: components.DrawLookupElements(channel, 3),
		Io:          components.DrawLookupElements(channel, 2),
	}
}

// InteractionClaim aggregates the claimed lookup sums of all components
type InteractionClaim struct {
	Memory      components.InteractionClaim
	Instruction components.InteractionClaim
	Io          components.InteractionClaim
	Processor   components.InteractionClaim
}

// MixInto binds every claimed sum into the transcript in protocol order
func (ic *InteractionClaim) MixInto(channel *stark.Channel) {
	ic.Memory.MixInto(channel)
	ic.Instruction.MixInto(channel)
	ic.Io.MixInto(channel)
	ic.Processor.MixInto(channel)
}

// LookupSumValid reports whether the claimed lookup sums telescope to
// zero: every tuple the processor consumes must be provided by exactly
// one table row.
func (ic *InteractionClaim) LookupSumValid() bool {
	total := ic.Memory.ClaimedSum.
		Add(ic.Instruction.ClaimedSum).
		Add(ic.Io.ClaimedSum).
		Add(ic.Processor.ClaimedSum)
	return total.IsZero()
}

// TraceLocationAllocator hands out consecutive column spans in the
// commitment trees, one component at a time.
type TraceLocationAllocator struct {
	preprocessed int
	main         int
	interaction  int
}

// Next reserves the spans of the next component in protocol order
func (a *TraceLocationAllocator) Next(mainColumns, interactionColumns int) stark.TreeSpan {
	span := stark.TreeSpan{
		PreprocessedIndex: a.preprocessed,
		MainStart:         a.main,
		MainEnd:           a.main + mainColumns,
		InteractionStart:  a.interaction,
		InteractionEnd:    a.interaction + interactionColumns,
	}
	a.preprocessed++
	a.main += mainColumns
	a.interaction += interactionColumns
	return span
}

// Components is the registry of constraint evaluators, one per
// component, with their tree locations resolved.
type Components struct {
	Memory      *components.MemoryEval
	Instruction *components.InstructionEval
	Io          *components.IoEval
	Processor   *components.ProcessorEval
}

// NewComponents resolves every component's tree span and wires the
// lookup randomness and claimed sums into its constraint evaluator.
func NewComponents(
	claim *Claim,
	elements *InteractionElements,
	interactionClaim *InteractionClaim,
) *Components {
	allocator := &TraceLocationAllocator{}
	return &Components{
		Memory: components.NewMemoryEval(
			&claim.Memory,
			allocator.Next(components.MemoryColumn{}.Count(), 1),
			elements.Memory,
			&interactionClaim.Memory,
		),
		Instruction: components.NewInstructionEval(
			&claim.Instruction,
			allocator.Next(components.InstructionColumn{}.Count(), 1),
			elements.Instruction,
			&interactionClaim.Instruction,
		),
		Io: components.NewIoEval(
			&claim.Io,
			allocator.Next(components.IoColumn{}.Count(), 1),
			elements.Io,
			&interactionClaim.Io,
		),
		Processor: components.NewProcessorEval(
			&claim.Processor,
			allocator.Next(components.ProcessorColumn{}.Count(), 3),
			elements.Memory,
			elements.Instruction,
			elements.Io,
			&interactionClaim.Processor,
		),
	}
}

// Components returns the constraint evaluators in protocol order
func (c *Components) Components() []stark.Component {
	return []stark.Component{c.Memory, c.Instruction, c.Io, c.Processor}
}

// Provers returns the proving-side view of the registry in protocol order
func (c *Components) Provers() []stark.ComponentProver {
	return []stark.ComponentProver{c.Memory, c.Instruction, c.Io, c.Processor}
}

// isFirstColumn builds the preprocessed selector column of a trace
// domain: 1 on row 0, 0 elsewhere.
func isFirstColumn(logSize uint32) []field.Element {
	column := make([]field.Element, 1<<logSize)
	column[0] = field.One
	for i := 1; i < len(column); i++ {
		column[i] = field.Zero
	}
	return column
}
