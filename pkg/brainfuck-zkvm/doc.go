// Package brainfuckzkvm proves and verifies the execution of Brainfuck
// programs with a STARK proof system.
//
// A program is compiled and executed on a register machine that records
// its full execution trace. The trace is split into processor, memory,
// instruction and I/O tables, committed in a commit-challenge-response
// protocol, and tied together with randomized lookup arguments. The
// resulting proof convinces a verifier that the claimed execution is
// consistent without re-running the program.
//
// Typical usage:
//
//	zkvm, err := brainfuckzkvm.New(nil)
//	if err != nil { ... }
//
//	execution, err := zkvm.Run("+>+[-]", nil)
//	if err != nil { ... }
//
//	proof, err := zkvm.Prove(execution)
//	if err != nil { ... }
//
//	if err := zkvm.Verify(proof); err != nil { ... }
package brainfuckzkvm
