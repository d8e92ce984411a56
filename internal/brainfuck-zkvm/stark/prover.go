package stark

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/utils"
)

// Prove runs the backend proving stage over an already-committed trace.
//
// All trees must have been committed through the scheme (and their
// roots mixed into the channel) before Prove is called; Prove draws the
// constraint-combination and out-of-domain challenges from the channel,
// so the transcript up to this point fixes them.
func Prove(
	components []ComponentProver,
	scheme *CommitmentScheme,
	channel *Channel,
	cfg *utils.Config,
) (*StarkProof, error) {
	if scheme.NumTrees() != NumTrees {
		return nil, NewProvingError("setup",
			fmt.Sprintf("expected %d committed trees, got %d", NumTrees, scheme.NumTrees()), nil)
	}

	domains, err := traceDomains(components, cfg)
	if err != nil {
		return nil, err
	}

	// Check every constraint on every trace row before spending any
	// transcript state. A failing row means the witness is invalid.
	for idx, component := range components {
		if err := checkTrace(idx, component, scheme); err != nil {
			return nil, err
		}
	}

	// The maximum domain size is a public protocol parameter, so it is
	// bound into the transcript before any challenge is drawn.
	channel.MixU64(uint64(cfg.MaxDomainLogSize()))

	alpha := channel.DrawFelt()
	oodPoint := channel.DrawFelt()

	oodEvals := make([]ComponentOodEvals, len(components))
	for idx, component := range components {
		evals, err := evaluateOutOfDomain(component, scheme, domains[1<<component.LogSize()], alpha, oodPoint)
		if err != nil {
			return nil, NewProvingError("ood",
				fmt.Sprintf("component %d out-of-domain evaluation failed", idx), err)
		}
		oodEvals[idx] = *evals
	}

	for _, evals := range oodEvals {
		channel.MixFelts(evals.Main)
		channel.MixFelts(evals.MainNext)
		channel.MixFelts(evals.Interaction)
		channel.MixFelts(evals.InteractionNext)
		channel.MixFelt(evals.Quotient)
	}

	queries := make([]QueryOpening, 0, len(components)*cfg.NumQueries)
	for idx, component := range components {
		size := 1 << component.LogSize()
		for q := 0; q < cfg.NumQueries; q++ {
			row, err := channel.DrawIndex(size)
			if err != nil {
				return nil, NewProvingError("queries",
					fmt.Sprintf("failed to draw query %d for component %d", q, idx), err)
			}
			queries = append(queries, openRow(idx, row, component, scheme))
		}
	}

	return &StarkProof{
		Commitments:  scheme.Roots(),
		TreeLogSizes: scheme.TreeLogSizes(),
		OodPoint:     oodPoint,
		OodEvals:     oodEvals,
		Queries:      queries,
	}, nil
}

// traceDomains checks every component's trace against the configured
// size bounds and precomputes one evaluation domain per distinct trace
// size.
func traceDomains(components []ComponentProver, cfg *utils.Config) (map[int]*EvaluationDomain, error) {
	domains := make(map[int]*EvaluationDomain)
	for idx, component := range components {
		if component.LogSize() > cfg.LogMaxRows {
			return nil, NewProvingError("setup",
				fmt.Sprintf("component %d trace log size %d exceeds the configured maximum %d",
					idx, component.LogSize(), cfg.LogMaxRows), nil)
		}
		if component.LogSize()+cfg.LogBlowupFactor > cfg.MaxDomainLogSize() {
			return nil, NewProvingError("setup",
				fmt.Sprintf("component %d blown-up domain log size %d exceeds the maximum %d",
					idx, component.LogSize()+cfg.LogBlowupFactor, cfg.MaxDomainLogSize()), nil)
		}

		size := 1 << component.LogSize()
		if _, ok := domains[size]; ok {
			continue
		}
		domain, err := NewEvaluationDomain(size)
		if err != nil {
			return nil, NewProvingError("setup",
				fmt.Sprintf("failed to build the component %d trace domain", idx), err)
		}
		domains[size] = domain
	}
	return domains, nil
}

// componentColumns extracts a component's main and interaction columns
// from the committed trees
func componentColumns(component Component, scheme *CommitmentScheme) (main, interaction [][]field.Element) {
	span := component.Span()
	main = scheme.trees[MainTreeIdx].Columns[span.MainStart:span.MainEnd]
	interaction = scheme.trees[InteractionTreeIdx].Columns[span.InteractionStart:span.InteractionEnd]
	return main, interaction
}

// rowFrame builds the evaluation frame for one in-domain trace row
func rowFrame(row, size int, main, interaction [][]field.Element) *EvalFrame {
	next := (row + 1) % size

	frame := &EvalFrame{
		IsFirst:   field.Zero,
		IsLast:    field.Zero,
		Cur:       make([]field.Element, len(main)),
		Next:      make([]field.Element, len(main)),
		InterCur:  make([]field.Element, len(interaction)),
		InterNext: make([]field.Element, len(interaction)),
	}
	if row == 0 {
		frame.IsFirst = field.One
	}
	if row == size-1 {
		frame.IsLast = field.One
	}
	for i, column := range main {
		frame.Cur[i] = column[row]
		frame.Next[i] = column[next]
	}
	for i, column := range interaction {
		frame.InterCur[i] = column[row]
		frame.InterNext[i] = column[next]
	}
	return frame
}

// checkTrace verifies that every constraint of the component vanishes
// on every row of its committed trace
func checkTrace(idx int, component Component, scheme *CommitmentScheme) error {
	size := 1 << component.LogSize()
	main, interaction := componentColumns(component, scheme)

	for row := 0; row < size; row++ {
		frame := rowFrame(row, size, main, interaction)
		for c, value := range component.EvaluateConstraints(frame) {
			if !value.IsZero() {
				return NewProvingError("trace",
					fmt.Sprintf("component %d constraint %d does not vanish at row %d", idx, c, row), nil)
			}
		}
	}
	return nil
}

// evaluateOutOfDomain interpolates the component's columns and
// evaluates them, together with the composition quotient, at the
// out-of-domain point.
func evaluateOutOfDomain(
	component Component,
	scheme *CommitmentScheme,
	domain *EvaluationDomain,
	alpha field.Element,
	point field.Element,
) (*ComponentOodEvals, error) {
	size := domain.Length
	shifted := point.Mul(domain.Generator)

	main, interaction := componentColumns(component, scheme)
	var err error

	evals := &ComponentOodEvals{
		Main:            make([]field.Element, len(main)),
		MainNext:        make([]field.Element, len(main)),
		Interaction:     make([]field.Element, len(interaction)),
		InteractionNext: make([]field.Element, len(interaction)),
	}

	interpolateAt := func(column []field.Element) (field.Element, field.Element, error) {
		poly, err := domain.Interpolate(column)
		if err != nil {
			return field.Zero, field.Zero, err
		}
		return poly.Evaluate(point), poly.Evaluate(shifted), nil
	}

	for i, column := range main {
		evals.Main[i], evals.MainNext[i], err = interpolateAt(column)
		if err != nil {
			return nil, fmt.Errorf("main column %d: %w", i, err)
		}
	}
	for i, column := range interaction {
		evals.Interaction[i], evals.InteractionNext[i], err = interpolateAt(column)
		if err != nil {
			return nil, fmt.Errorf("interaction column %d: %w", i, err)
		}
	}

	frame, err := oodFrame(point, size, evals)
	if err != nil {
		return nil, err
	}
	composition := composeConstraints(component.EvaluateConstraints(frame), alpha)

	vanishing := domain.VanishingEval(point)
	if vanishing.IsZero() {
		return nil, fmt.Errorf("out-of-domain point %v lies on the trace domain", point)
	}
	vanishingInv := vanishing.Inverse()
	evals.Quotient = composition.Mul(vanishingInv)

	return evals, nil
}

// oodFrame builds the evaluation frame at an out-of-domain point from
// the interpolated column evaluations
func oodFrame(point field.Element, size int, evals *ComponentOodEvals) (*EvalFrame, error) {
	isFirst, err := FirstRowSelector(point, size)
	if err != nil {
		return nil, err
	}
	isLast, err := LastRowSelector(point, size)
	if err != nil {
		return nil, err
	}
	return &EvalFrame{
		IsFirst:   isFirst,
		IsLast:    isLast,
		Cur:       evals.Main,
		Next:      evals.MainNext,
		InterCur:  evals.Interaction,
		InterNext: evals.InteractionNext,
	}, nil
}

// composeConstraints folds constraint evaluations into a single value
// with increasing powers of the combination challenge
func composeConstraints(constraints []field.Element, alpha field.Element) field.Element {
	composition := field.Zero
	power := field.One
	for _, value := range constraints {
		composition = composition.Add(value.Mul(power))
		power = power.Mul(alpha)
	}
	return composition
}

// openRow extracts one sampled row (and its successor) of a component
func openRow(idx, row int, component Component, scheme *CommitmentScheme) QueryOpening {
	size := 1 << component.LogSize()
	next := (row + 1) % size
	main, interaction := componentColumns(component, scheme)

	opening := QueryOpening{
		Component:       idx,
		Index:           row,
		Main:            make([]field.Element, len(main)),
		MainNext:        make([]field.Element, len(main)),
		Interaction:     make([]field.Element, len(interaction)),
		InteractionNext: make([]field.Element, len(interaction)),
	}
	for i, column := range main {
		opening.Main[i] = column[row]
		opening.MainNext[i] = column[next]
	}
	for i, column := range interaction {
		opening.Interaction[i] = column[row]
		opening.InteractionNext[i] = column[next]
	}
	return opening
}
