package utils

import "fmt"

// Config represents the configuration for STARK proof generation and
// verification of a Brainfuck program execution.
//
// The same configuration must be used on the proving and the verifying
// side; all values are public parameters.
type Config struct {
	// LogMaxRows is the binary logarithm of the maximum supported trace
	// length. Programs whose execution trace would exceed 2^LogMaxRows
	// rows are rejected before proving starts.
	LogMaxRows uint32

	// LogBlowupFactor is the binary logarithm of the low-degree
	// extension blow-up applied by the proving backend.
	LogBlowupFactor uint32

	// NumQueries is the number of trace openings sampled by the backend
	NumQueries int

	// HashFunction selects the transcript hash ("sha256" or "sha3")
	HashFunction string
}

// DefaultConfig returns the default proof system configuration.
//
// LogMaxRows = 20 means the zkVM does not accept programs with more
// than 2^20 steps (1M steps).
func DefaultConfig() *Config {
	return &Config{
		LogMaxRows:      20,
		LogBlowupFactor: 1,
		NumQueries:      8,
		HashFunction:    "sha3",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.LogMaxRows == 0 || c.LogMaxRows > 30 {
		return fmt.Errorf("log max rows must be in [1, 30], got %d", c.LogMaxRows)
	}

	if c.LogBlowupFactor == 0 || c.LogBlowupFactor > 8 {
		return fmt.Errorf("log blowup factor must be in [1, 8], got %d", c.LogBlowupFactor)
	}

	if c.NumQueries <= 0 {
		return fmt.Errorf("number of queries must be positive, got %d", c.NumQueries)
	}

	if c.HashFunction != "sha256" && c.HashFunction != "sha3" {
		return fmt.Errorf("hash function must be 'sha256' or 'sha3', got '%s'", c.HashFunction)
	}

	return nil
}

// MaxDomainLogSize returns the binary logarithm of the largest
// evaluation domain the backend will ever touch for this configuration.
// The +2 margin covers the composition and quotient domains.
func (c *Config) MaxDomainLogSize() uint32 {
	return c.LogMaxRows + c.LogBlowupFactor + 2
}

// WithLogMaxRows sets the maximum trace length bound
func (c *Config) WithLogMaxRows(logMaxRows uint32) *Config {
	c.LogMaxRows = logMaxRows
	return c
}

// WithLogBlowupFactor sets the low-degree extension blow-up factor
func (c *Config) WithLogBlowupFactor(factor uint32) *Config {
	c.LogBlowupFactor = factor
	return c
}

// WithNumQueries sets the number of backend query openings
func (c *Config) WithNumQueries(queries int) *Config {
	c.NumQueries = queries
	return c
}

// WithHashFunction sets the transcript hash function
func (c *Config) WithHashFunction(hashFunc string) *Config {
	c.HashFunction = hashFunc
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	return &Config{
		LogMaxRows:      c.LogMaxRows,
		LogBlowupFactor: c.LogBlowupFactor,
		NumQueries:      c.NumQueries,
		HashFunction:    c.HashFunction,
	}
}
