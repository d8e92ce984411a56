package stark

import "fmt"

// ProvingError represents a failure while generating a proof
type ProvingError struct {
	// Op names the proving stage that failed
	Op string

	// Message describes the failure
	Message string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface
func (e *ProvingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("proving failed at %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("proving failed at %s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause
func (e *ProvingError) Unwrap() error {
	return e.Cause
}

// NewProvingError creates a proving error for the given stage
func NewProvingError(op, message string, cause error) *ProvingError {
	return &ProvingError{Op: op, Message: message, Cause: cause}
}

// VerificationErrorKind classifies why a proof was rejected
type VerificationErrorKind int

const (
	// InvalidStructure means the proof object is malformed or its
	// declared shape does not match the claim
	InvalidStructure VerificationErrorKind = iota

	// InvalidCommitment means a commitment does not match the declared
	// column log-sizes
	InvalidCommitment

	// InvalidLookup means the claimed lookup interaction sums do not
	// cancel
	InvalidLookup

	// OodMismatch means the out-of-domain point or evaluations diverge
	// from the replayed transcript
	OodMismatch

	// ConstraintMismatch means a constraint quotient check failed
	ConstraintMismatch
)

// String returns the name of the rejection kind
func (k VerificationErrorKind) String() string {
	switch k {
	case InvalidStructure:
		return "InvalidStructure"
	case InvalidCommitment:
		return "InvalidCommitment"
	case InvalidLookup:
		return "InvalidLookup"
	case OodMismatch:
		return "OodMismatch"
	case ConstraintMismatch:
		return "ConstraintMismatch"
	default:
		return fmt.Sprintf("VerificationErrorKind(%d)", int(k))
	}
}

// VerificationError represents a rejected proof
type VerificationError struct {
	// Kind classifies the rejection
	Kind VerificationErrorKind

	// Message describes what check failed
	Message string
}

// Error implements the error interface
func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification failed (%s): %s", e.Kind, e.Message)
}

// Is reports whether target is a VerificationError of the same kind
func (e *VerificationError) Is(target error) bool {
	other, ok := target.(*VerificationError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// NewVerificationError creates a verification error of the given kind
func NewVerificationError(kind VerificationErrorKind, format string, args ...interface{}) *VerificationError {
	return &VerificationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
