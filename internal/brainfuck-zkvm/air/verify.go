package air

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/utils"
)

// Verify checks a proof against its public claims.
//
// The verifier replays the prover's transcript phase by phase: it
// registers each commitment root and binds the claims in the same
// order, draws the same challenges, checks the claimed lookup sums
// before trusting them, and finally hands over to the backend.
func Verify(proof *Proof, cfg *utils.Config) error {
	if proof == nil || proof.Claim == nil || proof.InteractionClaim == nil || proof.Stark == nil {
		return stark.NewVerificationError(stark.InvalidStructure, "proof is incomplete")
	}
	if len(proof.Stark.Commitments) != stark.NumTrees {
		return stark.NewVerificationError(stark.InvalidStructure,
			"proof carries %d commitments, expected %d", len(proof.Stark.Commitments), stark.NumTrees)
	}

	channel := stark.NewChannel(cfg.HashFunction)
	verifier := stark.NewCommitmentSchemeVerifier()
	logSizes := proof.Claim.LogSizes()

	if proof.Claim.Processor.LogSize > cfg.LogMaxRows {
		return stark.NewVerificationError(stark.InvalidStructure,
			"claimed trace log size %d exceeds the configured maximum %d",
			proof.Claim.Processor.LogSize, cfg.LogMaxRows)
	}

	// Preprocessed trace. Its content is public and fully determined by
	// the claimed trace shape, so the root is derived here and the one
	// the proof carries must match it.
	selector := isFirstColumn(proof.Claim.Processor.LogSize)
	preprocessed := make([][]field.Element, numComponents)
	for i := range preprocessed {
		preprocessed[i] = selector
	}
	preprocessedRoot, err := stark.ComputeRoot(preprocessed)
	if err != nil {
		return stark.NewVerificationError(stark.InvalidStructure,
			"failed to derive the preprocessed root: %v", err)
	}
	if proof.Stark.Commitments[stark.PreprocessedTreeIdx] != preprocessedRoot {
		return stark.NewVerificationError(stark.InvalidCommitment,
			"preprocessed commitment does not match the claimed trace shape")
	}
	verifier.Commit(preprocessedRoot, logSizes[stark.PreprocessedTreeIdx], channel)

	// Main trace
	proof.Claim.MixInto(channel)
	verifier.Commit(proof.Stark.Commitments[stark.MainTreeIdx],
		logSizes[stark.MainTreeIdx], channel)

	// Interaction trace
	elements := DrawInteractionElements(channel)
	if !proof.InteractionClaim.LookupSumValid() {
		return stark.NewVerificationError(stark.InvalidLookup,
			"claimed lookup sums do not cancel")
	}
	proof.InteractionClaim.MixInto(channel)
	verifier.Commit(proof.Stark.Commitments[stark.InteractionTreeIdx],
		logSizes[stark.InteractionTreeIdx], channel)

	// Backend verification
	registry := NewComponents(proof.Claim, elements, proof.InteractionClaim)
	return stark.Verify(registry.Components(), verifier, proof.Stark, channel, cfg)
}
