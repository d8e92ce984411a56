package brainfuckzkvm

import (
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/air"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/utils"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/vm"
)

// Config represents the public configuration of the Brainfuck zkVM
type Config struct {
	// LogMaxRows is the binary logarithm of the maximum supported
	// execution trace length
	LogMaxRows uint32

	// LogBlowupFactor is the binary logarithm of the backend's
	// low-degree extension blow-up
	LogBlowupFactor uint32

	// NumQueries is the number of trace openings sampled by the backend
	NumQueries int

	// HashFunction selects the transcript hash ("sha256" or "sha3")
	HashFunction string

	// MaxSteps bounds program execution; zero selects the default bound
	MaxSteps int
}

// DefaultConfig returns the default zkVM configuration
func DefaultConfig() *Config {
	internal := utils.DefaultConfig()
	return &Config{
		LogMaxRows:      internal.LogMaxRows,
		LogBlowupFactor: internal.LogBlowupFactor,
		NumQueries:      internal.NumQueries,
		HashFunction:    internal.HashFunction,
	}
}

// internal converts the public configuration to the internal one
func (c *Config) internal() *utils.Config {
	return &utils.Config{
		LogMaxRows:      c.LogMaxRows,
		LogBlowupFactor: c.LogBlowupFactor,
		NumQueries:      c.NumQueries,
		HashFunction:    c.HashFunction,
	}
}

// Execution is the result of running a Brainfuck program: the produced
// output, the cycle count, and the recorded trace kept for proving.
type Execution struct {
	// Output holds the symbols the program wrote
	Output []byte

	// CycleCount is the number of executed instructions
	CycleCount int

	machine *vm.Machine
}

// Proof is a proof that a Brainfuck program executed correctly
type Proof struct {
	inner *air.Proof
}

// Size returns an estimate of the proof size in bytes
func (p *Proof) Size() int {
	if p.inner == nil {
		return 0
	}
	return p.inner.Size()
}
