package stark

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/utils"
)

// Verify replays the backend proving stage against the proof.
//
// All tree roots must already have been registered with the verifier
// scheme (and mixed into the channel) in the same order the prover
// committed them. Verify then redraws the challenges, so any divergence
// in the transcript up to this point surfaces as a mismatch with the
// proof's recorded out-of-domain point.
func Verify(
	components []Component,
	scheme *CommitmentSchemeVerifier,
	proof *StarkProof,
	channel *Channel,
	cfg *utils.Config,
) error {
	if scheme.NumTrees() != NumTrees {
		return NewVerificationError(InvalidStructure,
			"expected %d registered trees, got %d", NumTrees, scheme.NumTrees())
	}
	if len(proof.Commitments) != NumTrees {
		return NewVerificationError(InvalidStructure,
			"proof carries %d commitments, expected %d", len(proof.Commitments), NumTrees)
	}
	if len(proof.OodEvals) != len(components) {
		return NewVerificationError(InvalidStructure,
			"proof carries evaluations for %d components, expected %d",
			len(proof.OodEvals), len(components))
	}
	if err := scheme.CheckShape(proof.TreeLogSizes); err != nil {
		return err
	}
	for idx, component := range components {
		if component.LogSize() > cfg.LogMaxRows ||
			component.LogSize()+cfg.LogBlowupFactor > cfg.MaxDomainLogSize() {
			return NewVerificationError(InvalidStructure,
				"component %d trace log size %d exceeds the configured bounds",
				idx, component.LogSize())
		}
	}

	// Replayed in the same transcript position as the prover
	channel.MixU64(uint64(cfg.MaxDomainLogSize()))

	alpha := channel.DrawFelt()
	oodPoint := channel.DrawFelt()
	if !oodPoint.Equal(proof.OodPoint) {
		return NewVerificationError(OodMismatch,
			"out-of-domain point diverges from the replayed transcript")
	}

	for idx, component := range components {
		if err := checkOutOfDomain(idx, component, &proof.OodEvals[idx], alpha, oodPoint); err != nil {
			return err
		}
	}

	for _, evals := range proof.OodEvals {
		channel.MixFelts(evals.Main)
		channel.MixFelts(evals.MainNext)
		channel.MixFelts(evals.Interaction)
		channel.MixFelts(evals.InteractionNext)
		channel.MixFelt(evals.Quotient)
	}

	expectedQueries := len(components) * cfg.NumQueries
	if len(proof.Queries) != expectedQueries {
		return NewVerificationError(InvalidStructure,
			"proof carries %d query openings, expected %d", len(proof.Queries), expectedQueries)
	}

	query := 0
	for idx, component := range components {
		size := 1 << component.LogSize()
		for q := 0; q < cfg.NumQueries; q++ {
			row, err := channel.DrawIndex(size)
			if err != nil {
				return NewVerificationError(InvalidStructure,
					"failed to draw query index: %v", err)
			}
			if err := checkOpening(idx, row, size, component, &proof.Queries[query]); err != nil {
				return err
			}
			query++
		}
	}

	return nil
}

// checkOutOfDomain re-evaluates the component's constraints on the
// out-of-domain frame and checks the claimed quotient against the
// vanishing polynomial of the trace domain.
func checkOutOfDomain(
	idx int,
	component Component,
	evals *ComponentOodEvals,
	alpha field.Element,
	point field.Element,
) error {
	size := 1 << component.LogSize()
	span := component.Span()

	if len(evals.Main) != span.MainEnd-span.MainStart ||
		len(evals.MainNext) != len(evals.Main) ||
		len(evals.Interaction) != span.InteractionEnd-span.InteractionStart ||
		len(evals.InteractionNext) != len(evals.Interaction) {
		return NewVerificationError(InvalidStructure,
			"component %d evaluation widths do not match its trace shape", idx)
	}

	frame, err := oodFrame(point, size, evals)
	if err != nil {
		return NewVerificationError(OodMismatch,
			"component %d: out-of-domain selectors undefined: %v", idx, err)
	}
	composition := composeConstraints(component.EvaluateConstraints(frame), alpha)

	vanishing := powElement(point, uint64(size)).Sub(field.One)
	if !evals.Quotient.Mul(vanishing).Equal(composition) {
		return NewVerificationError(ConstraintMismatch,
			"component %d composition does not match its claimed quotient", idx)
	}
	return nil
}

// checkOpening verifies that every constraint vanishes on a sampled
// in-domain row
func checkOpening(idx, row, size int, component Component, opening *QueryOpening) error {
	if opening.Component != idx || opening.Index != row {
		return NewVerificationError(InvalidStructure,
			"query opening targets component %d row %d, expected component %d row %d",
			opening.Component, opening.Index, idx, row)
	}
	span := component.Span()
	if len(opening.Main) != span.MainEnd-span.MainStart ||
		len(opening.MainNext) != len(opening.Main) ||
		len(opening.Interaction) != span.InteractionEnd-span.InteractionStart ||
		len(opening.InteractionNext) != len(opening.Interaction) {
		return NewVerificationError(InvalidStructure,
			"query opening widths do not match component %d trace shape", idx)
	}

	frame := &EvalFrame{
		IsFirst:   field.Zero,
		IsLast:    field.Zero,
		Cur:       opening.Main,
		Next:      opening.MainNext,
		InterCur:  opening.Interaction,
		InterNext: opening.InteractionNext,
	}
	if row == 0 {
		frame.IsFirst = field.One
	}
	if row == size-1 {
		frame.IsLast = field.One
	}

	for c, value := range component.EvaluateConstraints(frame) {
		if !value.IsZero() {
			return NewVerificationError(ConstraintMismatch,
				"component %d constraint %d does not vanish at sampled row %d", idx, c, row)
		}
	}
	return nil
}
