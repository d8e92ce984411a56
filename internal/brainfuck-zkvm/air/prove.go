package air

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/components"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/utils"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/vm"
)

// Proof is a complete proof of one Brainfuck execution: the public
// trace-shape claim, the claimed lookup sums, and the backend proof.
type Proof struct {
	// Claim declares the shape of the committed traces
	Claim *Claim

	// InteractionClaim carries the claimed lookup sums
	InteractionClaim *InteractionClaim

	// Stark is the backend proof over the committed traces
	Stark *stark.StarkProof
}

// Size returns an estimate of the proof size in bytes
func (p *Proof) Size() int {
	if p.Stark == nil {
		return 0
	}
	// Four log-size claims plus four claimed sums on top of the backend proof
	return p.Stark.Size() + 4*8 + 4*8
}

// Prove generates a proof that the machine's recorded execution trace
// is a correct run of its program.
//
// The phases follow the commit-challenge-response protocol: commit the
// preprocessed columns, bind the claim and commit the main trace, draw
// the lookup randomness, bind the interaction claim and commit the
// interaction trace, then hand over to the backend. Trace building
// happens before the transcript is created, so a rejected trace leaves
// no transcript state behind.
func Prove(machine *vm.Machine, cfg *utils.Config) (*Proof, error) {
	tables, err := components.BuildTables(machine.Trace())
	if err != nil {
		return nil, err
	}

	channel := stark.NewChannel(cfg.HashFunction)
	scheme := stark.NewCommitmentScheme()

	// Preprocessed trace: one shared is-first selector slot per component
	builder := scheme.TreeBuilder()
	for i := 0; i < numComponents; i++ {
		builder.ExtendEvals([][]field.Element{isFirstColumn(tables.LogSize)})
	}
	if _, err := builder.Commit(channel); err != nil {
		return nil, fmt.Errorf("failed to commit preprocessed trace: %w", err)
	}

	// Main trace
	claim := NewClaim(tables.LogSize)
	claim.MixInto(channel)

	builder = scheme.TreeBuilder()
	builder.ExtendEvals(tables.Memory)
	builder.ExtendEvals(tables.Instruction)
	builder.ExtendEvals(tables.Io)
	builder.ExtendEvals(tables.Processor)
	if _, err := builder.Commit(channel); err != nil {
		return nil, fmt.Errorf("failed to commit main trace: %w", err)
	}

	// Interaction trace
	elements := DrawInteractionElements(channel)

	memColumns, memClaim, err := components.BuildMemoryInteraction(tables.Memory, &elements.Memory)
	if err != nil {
		return nil, err
	}
	insColumns, insClaim, err := components.BuildInstructionInteraction(tables.Instruction, &elements.Instruction)
	if err != nil {
		return nil, err
	}
	ioColumns, ioClaim, err := components.BuildIoInteraction(tables.Io, &elements.Io)
	if err != nil {
		return nil, err
	}
	procColumns, procClaim, err := components.BuildProcessorInteraction(
		tables.Processor, &elements.Memory, &elements.Instruction, &elements.Io)
	if err != nil {
		return nil, err
	}

	interactionClaim := &InteractionClaim{
		Memory:      *memClaim,
		Instruction: *insClaim,
		Io:          *ioClaim,
		Processor:   *procClaim,
	}
	interactionClaim.MixInto(channel)

	builder = scheme.TreeBuilder()
	builder.ExtendEvals(memColumns)
	builder.ExtendEvals(insColumns)
	builder.ExtendEvals(ioColumns)
	builder.ExtendEvals(procColumns)
	if _, err := builder.Commit(channel); err != nil {
		return nil, fmt.Errorf("failed to commit interaction trace: %w", err)
	}

	// Backend proving
	registry := NewComponents(claim, elements, interactionClaim)
	starkProof, err := stark.Prove(registry.Provers(), scheme, channel, cfg)
	if err != nil {
		return nil, err
	}

	return &Proof{
		Claim:            claim,
		InteractionClaim: interactionClaim,
		Stark:            starkProof,
	}, nil
}
