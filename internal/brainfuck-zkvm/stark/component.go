package stark

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Tree indices of the three commitment trees every proof carries
const (
	// PreprocessedTreeIdx is the tree of preprocessed (fixed) columns
	PreprocessedTreeIdx = 0

	// MainTreeIdx is the tree of main (witness) trace columns
	MainTreeIdx = 1

	// InteractionTreeIdx is the tree of lookup interaction columns
	InteractionTreeIdx = 2
)

// NumTrees is the number of commitment trees in a proof
const NumTrees = 3

// TreeSpan locates a component's columns inside the commitment trees.
// Column ranges are half-open [start, end).
type TreeSpan struct {
	// PreprocessedIndex is the index of the component's is-first column
	// in the preprocessed tree
	PreprocessedIndex int

	// MainStart and MainEnd delimit the component's main columns
	MainStart int
	MainEnd   int

	// InteractionStart and InteractionEnd delimit the component's
	// interaction columns
	InteractionStart int
	InteractionEnd   int
}

// EvalFrame is the view of one trace row (or one out-of-domain point)
// that a component evaluates its constraints against.
//
// Cur and Next hold the component's main columns at the current and the
// following row; InterCur and InterNext hold its interaction columns at
// the same two rows. IsFirst and IsLast are the Lagrange selectors of
// the first and last trace row, evaluated at the same point.
type EvalFrame struct {
	IsFirst field.Element
	IsLast  field.Element

	Cur  []field.Element
	Next []field.Element

	InterCur  []field.Element
	InterNext []field.Element
}

// Component is one table of the AIR: it declares its trace shape and
// evaluates its constraints over an evaluation frame.
//
// EvaluateConstraints must return exactly NumConstraints values, each
// of which is zero on every satisfied row. Transition constraints are
// expected to self-mask with (1 - IsLast) so that the wrap-around row
// does not produce spurious failures.
type Component interface {
	// LogSize returns the binary logarithm of the component's trace length
	LogSize() uint32

	// Span returns the component's column locations in the commitment trees
	Span() TreeSpan

	// NumConstraints returns the number of constraint polynomials
	NumConstraints() int

	// EvaluateConstraints evaluates all constraints on the given frame
	EvaluateConstraints(frame *EvalFrame) []field.Element
}

// ComponentProver is implemented by components that participate in
// proving. The backend builds evaluation frames from the committed
// trees, so proving currently needs no capabilities beyond constraint
// evaluation.
type ComponentProver interface {
	Component
}

// FirstRowSelector evaluates the Lagrange selector of row 0 of a trace
// domain of size n at an arbitrary point: L_0(x) = (x^n - 1) / (n * (x - 1)).
func FirstRowSelector(x field.Element, n int) (field.Element, error) {
	return lagrangeSelector(x, n, field.One)
}

// LastRowSelector evaluates the Lagrange selector of row n-1 of a trace
// domain of size n at an arbitrary point.
func LastRowSelector(x field.Element, n int) (field.Element, error) {
	generator := field.PrimitiveRootOfUnity(uint64(n))
	last := powElement(generator, uint64(n-1))
	return lagrangeSelector(x, n, last)
}

// lagrangeSelector evaluates L_k(x) = g^k * (x^n - 1) / (n * (x - g^k))
// where point = g^k is the domain element the selector picks out.
func lagrangeSelector(x field.Element, n int, point field.Element) (field.Element, error) {
	numerator := powElement(x, uint64(n)).Sub(field.One).Mul(point)

	denominator := field.New(uint64(n)).Mul(x.Sub(point))
	if denominator.IsZero() {
		return field.Zero, fmt.Errorf("selector undefined at domain point %v", x)
	}
	inv := denominator.Inverse()

	return numerator.Mul(inv), nil
}
