package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	brainfuckzkvm "github.com/vybium/brainfuck-zkvm/pkg/brainfuck-zkvm"
)

func main() {
	input := flag.String("input", "", "input tape passed to the program")
	logMaxRows := flag.Uint("log-max-rows", 20, "binary logarithm of the maximum trace length")
	blowup := flag.Uint("blowup", 1, "binary logarithm of the backend blow-up factor")
	queries := flag.Int("queries", 8, "number of backend query openings")
	hashFunc := flag.String("hash", "sha3", "transcript hash function (sha256 or sha3)")
	skipVerify := flag.Bool("skip-verify", false, "do not verify the generated proof")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: brainfuck-prover [flags] <program.bf>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fatal(fmt.Sprintf("Failed to read program: %v", err))
	}

	config := brainfuckzkvm.DefaultConfig()
	config.LogMaxRows = uint32(*logMaxRows)
	config.LogBlowupFactor = uint32(*blowup)
	config.NumQueries = *queries
	config.HashFunction = *hashFunc

	zkvm, err := brainfuckzkvm.New(config)
	if err != nil {
		fatal(fmt.Sprintf("Failed to create zkVM: %v", err))
	}

	logStderr("Executing program...")
	start := time.Now()
	execution, err := zkvm.Run(string(source), []byte(*input))
	if err != nil {
		fatal(fmt.Sprintf("Execution failed: %v", err))
	}
	logStderr(fmt.Sprintf("Execution completed in %d cycles (%v)", execution.CycleCount, time.Since(start)))

	if len(execution.Output) > 0 {
		os.Stdout.Write(execution.Output)
	}

	logStderr("Generating proof...")
	start = time.Now()
	proof, err := zkvm.Prove(execution)
	if err != nil {
		fatal(fmt.Sprintf("Proof generation failed: %v", err))
	}
	logStderr(fmt.Sprintf("Proof generated in %v (%d bytes)", time.Since(start), proof.Size()))

	if *skipVerify {
		return
	}

	logStderr("Verifying proof...")
	start = time.Now()
	if err := zkvm.Verify(proof); err != nil {
		fatal(fmt.Sprintf("Verification failed: %v", err))
	}
	logStderr(fmt.Sprintf("Proof verified in %v", time.Since(start)))
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "brainfuck-zkvm:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
