package brainfuckzkvm

import (
	"bytes"
	"errors"
	"io"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/air"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/components"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/utils"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/vm"
)

// ZkVM is the public entry point of the Brainfuck zkVM: it runs
// programs, proves their executions and verifies proofs.
type ZkVM struct {
	config *utils.Config

	maxSteps int
}

// New creates a zkVM with the given configuration. A nil configuration
// selects the defaults.
func New(config *Config) (*ZkVM, error) {
	if config == nil {
		config = DefaultConfig()
	}

	internal := config.internal()
	if err := internal.Validate(); err != nil {
		return nil, &VMError{
			Code:    ErrInvalidConfig,
			Message: "invalid configuration",
			Cause:   err,
		}
	}

	maxSteps := config.MaxSteps
	if maxSteps <= 0 {
		maxSteps = vm.DefaultMaxSteps
	}

	return &ZkVM{config: internal, maxSteps: maxSteps}, nil
}

// Run compiles and executes a Brainfuck program with the given input
// tape, recording the execution trace for proving.
func (z *ZkVM) Run(source string, input []byte) (*Execution, error) {
	program, err := vm.Compile(source)
	if err != nil {
		return nil, &VMError{
			Code:    ErrCompilation,
			Message: "failed to compile program",
			Cause:   err,
		}
	}

	var reader io.Reader
	if len(input) > 0 {
		reader = bytes.NewReader(input)
	}
	var output bytes.Buffer

	machine := vm.NewMachine(program, reader, &output).SetMaxSteps(z.maxSteps)
	if err := machine.Execute(); err != nil {
		return nil, &VMError{
			Code:    ErrExecution,
			Message: "program execution failed",
			Cause:   err,
		}
	}

	return &Execution{
		Output:     output.Bytes(),
		CycleCount: machine.CycleCount(),
		machine:    machine,
	}, nil
}

// Prove generates a proof that the execution is a correct run of its
// program. Executions whose trace exceeds the configured maximum
// length are rejected before any proving work starts.
func (z *ZkVM) Prove(execution *Execution) (*Proof, error) {
	if execution == nil || execution.machine == nil {
		return nil, &VMError{
			Code:    ErrInvalidInput,
			Message: "execution is missing its recorded trace",
		}
	}

	trace := execution.machine.Trace()
	if logSize := utils.CeilLog2(len(trace)); logSize > z.config.LogMaxRows {
		return nil, &VMError{
			Code:    ErrTraceTooLarge,
			Message: "execution trace exceeds the configured maximum length",
		}
	}

	proof, err := air.Prove(execution.machine, z.config)
	if err != nil {
		if errors.Is(err, components.ErrEmptyTrace) {
			return nil, &VMError{
				Code:    ErrEmptyTrace,
				Message: "cannot prove an empty execution",
				Cause:   err,
			}
		}
		return nil, &VMError{
			Code:    ErrProofGeneration,
			Message: "proof generation failed",
			Cause:   err,
		}
	}

	return &Proof{inner: proof}, nil
}

// Verify checks a proof against its public claims
func (z *ZkVM) Verify(proof *Proof) error {
	if proof == nil || proof.inner == nil {
		return &VMError{
			Code:    ErrInvalidInput,
			Message: "proof is missing",
		}
	}

	if err := air.Verify(proof.inner, z.config); err != nil {
		return &VMError{
			Code:    ErrProofVerification,
			Message: "proof rejected",
			Cause:   err,
		}
	}
	return nil
}
