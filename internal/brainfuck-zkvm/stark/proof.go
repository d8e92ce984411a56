package stark

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// ComponentOodEvals holds one component's trace evaluations at the
// out-of-domain point z and its shifted point z*g, plus the claimed
// constraint quotient at z.
type ComponentOodEvals struct {
	// Main and MainNext are the main column evaluations at z and z*g
	Main     []field.Element
	MainNext []field.Element

	// Interaction and InteractionNext are the interaction column
	// evaluations at z and z*g
	Interaction     []field.Element
	InteractionNext []field.Element

	// Quotient is the claimed composition quotient at z
	Quotient field.Element
}

// QueryOpening is one sampled trace row of one component, opened for
// an in-domain spot check.
type QueryOpening struct {
	// Component is the index of the component in registry order
	Component int

	// Index is the sampled row index
	Index int

	// Main and MainNext are the main columns at the row and the next row
	Main     []field.Element
	MainNext []field.Element

	// Interaction and InteractionNext are the interaction columns at
	// the row and the next row
	Interaction     []field.Element
	InteractionNext []field.Element
}

// StarkProof is the backend proof: the commitment roots, the declared
// tree shapes, the out-of-domain evaluations, and the sampled query
// openings.
type StarkProof struct {
	// Commitments holds the Merkle roots of the committed trees in
	// protocol order (preprocessed, main, interaction)
	Commitments []hash.Digest

	// TreeLogSizes records the column log-sizes of each committed tree
	TreeLogSizes [][]uint32

	// OodPoint is the out-of-domain evaluation point z
	OodPoint field.Element

	// OodEvals holds the out-of-domain evaluations per component in
	// registry order
	OodEvals []ComponentOodEvals

	// Queries holds the sampled in-domain row openings
	Queries []QueryOpening
}

// Size returns an estimate of the proof size in bytes
func (p *StarkProof) Size() int {
	size := len(p.Commitments) * hash.DigestLen * 8
	size += 8 // OodPoint
	for _, evals := range p.OodEvals {
		felts := len(evals.Main) + len(evals.MainNext) +
			len(evals.Interaction) + len(evals.InteractionNext) + 1
		size += felts * 8
	}
	for _, query := range p.Queries {
		felts := len(query.Main) + len(query.MainNext) +
			len(query.Interaction) + len(query.InteractionNext)
		size += felts*8 + 16
	}
	return size
}
