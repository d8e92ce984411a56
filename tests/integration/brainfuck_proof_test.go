package integration_test

import (
	"errors"
	"testing"

	brainfuckzkvm "github.com/vybium/brainfuck-zkvm/pkg/brainfuck-zkvm"
)

// Test01_ProofLifecycle tests the full flow through the public API:
// 1. Compile and execute a Brainfuck program
// 2. Generate a proof of the execution
// 3. Verify the proof
//
// Related example: examples/02_proof_roundtrip/main.go
func Test01_ProofLifecycle(t *testing.T) {
	t.Log("=== Test 01: Execution -> Proof -> Verification ===")

	zkvm, err := brainfuckzkvm.New(nil)
	if err != nil {
		t.Fatalf("Failed to create zkVM: %v", err)
	}

	t.Log("Step 1: Executing program...")
	execution, err := zkvm.Run("++++[->++++<]>[-]", nil)
	if err != nil {
		t.Fatalf("Failed to execute program: %v", err)
	}
	t.Logf("  Execution completed in %d cycles", execution.CycleCount)

	t.Log("Step 2: Generating proof...")
	proof, err := zkvm.Prove(execution)
	if err != nil {
		t.Fatalf("Failed to generate proof: %v", err)
	}
	t.Logf("  Proof generated: %d bytes", proof.Size())

	t.Log("Step 3: Verifying proof...")
	if err := zkvm.Verify(proof); err != nil {
		t.Fatalf("Failed to verify proof: %v", err)
	}
	t.Log("  Proof verified")
}

// Test02_ProofWithIO tests proving a program that reads and writes the
// I/O tapes.
//
// Related example: examples/03_io_echo/main.go
func Test02_ProofWithIO(t *testing.T) {
	t.Log("=== Test 02: I/O Program Proof ===")

	zkvm, err := brainfuckzkvm.New(nil)
	if err != nil {
		t.Fatalf("Failed to create zkVM: %v", err)
	}

	input := []byte("stark")
	execution, err := zkvm.Run(",[.,]", input)
	if err != nil {
		t.Fatalf("Failed to execute program: %v", err)
	}
	if string(execution.Output) != string(input) {
		t.Fatalf("Output = %q, expected %q", execution.Output, input)
	}
	t.Logf("  Echoed %q in %d cycles", execution.Output, execution.CycleCount)

	proof, err := zkvm.Prove(execution)
	if err != nil {
		t.Fatalf("Failed to generate proof: %v", err)
	}
	if err := zkvm.Verify(proof); err != nil {
		t.Fatalf("Failed to verify proof: %v", err)
	}
	t.Log("  Proof verified")
}

// Test03_ConfigurationBounds tests that the proof system honors the
// configured trace length bound end to end.
func Test03_ConfigurationBounds(t *testing.T) {
	t.Log("=== Test 03: Trace Length Bound ===")

	config := brainfuckzkvm.DefaultConfig()
	config.LogMaxRows = 4 // at most 16 trace rows

	zkvm, err := brainfuckzkvm.New(config)
	if err != nil {
		t.Fatalf("Failed to create zkVM: %v", err)
	}

	short, err := zkvm.Run("++++++++", nil)
	if err != nil {
		t.Fatalf("Failed to execute short program: %v", err)
	}
	if _, err := zkvm.Prove(short); err != nil {
		t.Fatalf("Short execution should prove: %v", err)
	}
	t.Log("  Short execution proved")

	long, err := zkvm.Run("++++++++++[-]", nil)
	if err != nil {
		t.Fatalf("Failed to execute long program: %v", err)
	}
	_, err = zkvm.Prove(long)
	if !errors.Is(err, &brainfuckzkvm.VMError{Code: brainfuckzkvm.ErrTraceTooLarge}) {
		t.Fatalf("Prove = %v, expected ErrTraceTooLarge", err)
	}
	t.Log("  Long execution rejected")
}

// Test04_ProofsAreConfigBound tests that a proof generated under one
// transcript hash does not verify under another.
func Test04_ProofsAreConfigBound(t *testing.T) {
	t.Log("=== Test 04: Transcript Hash Binding ===")

	sha3Config := brainfuckzkvm.DefaultConfig()
	sha3Vm, err := brainfuckzkvm.New(sha3Config)
	if err != nil {
		t.Fatalf("Failed to create zkVM: %v", err)
	}

	execution, err := sha3Vm.Run("+++[-]", nil)
	if err != nil {
		t.Fatalf("Failed to execute program: %v", err)
	}
	proof, err := sha3Vm.Prove(execution)
	if err != nil {
		t.Fatalf("Failed to generate proof: %v", err)
	}

	sha256Config := brainfuckzkvm.DefaultConfig()
	sha256Config.HashFunction = "sha256"
	sha256Vm, err := brainfuckzkvm.New(sha256Config)
	if err != nil {
		t.Fatalf("Failed to create zkVM: %v", err)
	}

	if err := sha256Vm.Verify(proof); err == nil {
		t.Fatal("a proof must not verify under a different transcript hash")
	}
	t.Log("  Cross-configuration proof rejected")
}
