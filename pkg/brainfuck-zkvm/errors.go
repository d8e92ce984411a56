package brainfuckzkvm

import "fmt"

// ErrorCode represents a Brainfuck zkVM error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrCompilation represents a program compilation error
	ErrCompilation

	// ErrExecution represents a program execution error
	ErrExecution

	// ErrEmptyTrace represents an empty execution trace error
	ErrEmptyTrace

	// ErrTraceTooLarge represents an execution trace exceeding the
	// configured maximum length
	ErrTraceTooLarge

	// ErrProofGeneration represents a proof generation error
	ErrProofGeneration

	// ErrProofVerification represents a proof verification error
	ErrProofVerification

	// ErrInvalidInput represents an invalid input error
	ErrInvalidInput
)

// VMError represents a Brainfuck zkVM error
type VMError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *VMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("brainfuck-zkvm error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("brainfuck-zkvm error [%d]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *VMError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *VMError) Is(target error) bool {
	t, ok := target.(*VMError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
