package components

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
)

// LookupElements are the verifier-drawn randomness of one lookup
// relation: the separation challenge Z and one combination weight per
// related column.
type LookupElements struct {
	// Z is the relation's separation challenge
	Z field.Element

	// Weights are the per-column combination weights
	Weights []field.Element
}

// DrawLookupElements draws the randomness of a lookup relation over n
// columns from the channel.
func DrawLookupElements(channel *stark.Channel, n int) LookupElements {
	return LookupElements{
		Z:       channel.DrawFelt(),
		Weights: channel.DrawFelts(n),
	}
}

// Combine folds one related tuple into the lookup denominator
// Z - sum(weight_i * value_i).
func (e *LookupElements) Combine(values []field.Element) field.Element {
	combined := field.Zero
	for i, value := range values {
		combined = combined.Add(value.Mul(e.Weights[i]))
	}
	return e.Z.Sub(combined)
}

// Fraction computes numerator / (Z - combined(values)), the
// log-derivative contribution of one tuple occurrence.
func (e *LookupElements) Fraction(numerator field.Element, values []field.Element) (field.Element, error) {
	denominator := e.Combine(values)
	if denominator.IsZero() {
		return field.Zero, fmt.Errorf("lookup denominator vanished for challenge %v", e.Z)
	}
	inv := denominator.Inverse()
	return numerator.Mul(inv), nil
}

// InteractionClaim carries the claimed logUp sum of one component's
// interaction trace.
type InteractionClaim struct {
	// ClaimedSum is the final value of the component's running lookup sum
	ClaimedSum field.Element
}

// MixInto binds the claimed sum into the Fiat-Shamir transcript
func (ic *InteractionClaim) MixInto(channel *stark.Channel) {
	channel.MixFelt(ic.ClaimedSum)
}
