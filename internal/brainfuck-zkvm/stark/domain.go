package stark

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/utils"
)

// EvaluationDomain represents a multiplicative coset used for polynomial
// operations: {offset * generator^i : i = 0..length-1}.
//
// All domains have power-of-2 lengths.
type EvaluationDomain struct {
	// Offset shifts the domain (field.One for no offset)
	Offset field.Element

	// Generator is a primitive n-th root of unity where n = Length
	Generator field.Element

	// Length is the number of elements in the domain
	Length int
}

// NewEvaluationDomain creates a domain with the given length and no offset
func NewEvaluationDomain(length int) (*EvaluationDomain, error) {
	if !utils.IsPowerOfTwo(length) {
		return nil, fmt.Errorf("domain length must be a power of 2, got %d", length)
	}

	generator := field.PrimitiveRootOfUnity(uint64(length))

	return &EvaluationDomain{
		Offset:    field.One,
		Generator: generator,
		Length:    length,
	}, nil
}

// WithOffset returns a new domain with the given offset
func (d *EvaluationDomain) WithOffset(offset field.Element) *EvaluationDomain {
	return &EvaluationDomain{
		Offset:    offset,
		Generator: d.Generator,
		Length:    d.Length,
	}
}

// Elements returns all elements in the domain in order
func (d *EvaluationDomain) Elements() []field.Element {
	elements := make([]field.Element, d.Length)
	current := d.Offset
	for i := 0; i < d.Length; i++ {
		elements[i] = current
		current = current.Mul(d.Generator)
	}
	return elements
}

// At returns the i-th domain element, offset * generator^i
func (d *EvaluationDomain) At(i int) field.Element {
	element := d.Offset
	step := d.Generator
	for n := i; n > 0; n >>= 1 {
		if n&1 == 1 {
			element = element.Mul(step)
		}
		step = step.Mul(step)
	}
	return element
}

// Evaluate evaluates a polynomial over the entire domain
func (d *EvaluationDomain) Evaluate(poly *polynomial.Polynomial) []field.Element {
	elements := d.Elements()
	values := make([]field.Element, len(elements))
	for i, x := range elements {
		values[i] = poly.Evaluate(x)
	}
	return values
}

// Interpolate computes the lowest-degree polynomial taking the given
// values over this domain.
func (d *EvaluationDomain) Interpolate(values []field.Element) (*polynomial.Polynomial, error) {
	if len(values) != d.Length {
		return nil, fmt.Errorf("expected %d values for domain of length %d, got %d",
			d.Length, d.Length, len(values))
	}

	elements := d.Elements()
	points := make([][2]field.Element, d.Length)
	for i := range elements {
		points[i] = [2]field.Element{elements[i], values[i]}
	}
	return polynomial.Interpolate(points), nil
}

// VanishingEval evaluates the vanishing polynomial of the domain,
// x^length - offset^length, at the given point.
func (d *EvaluationDomain) VanishingEval(x field.Element) field.Element {
	xn := powElement(x, uint64(d.Length))
	on := powElement(d.Offset, uint64(d.Length))
	return xn.Sub(on)
}

// String returns a human-readable representation
func (d *EvaluationDomain) String() string {
	return fmt.Sprintf("Domain{length: %d, offset: %v, generator: %v}",
		d.Length, d.Offset, d.Generator)
}

// powElement raises a field element to a power by square-and-multiply
func powElement(base field.Element, exp uint64) field.Element {
	result := field.One
	for ; exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
	}
	return result
}
