package dfa

import (
	"fmt"

	"github.com/coregx/edpat/diag"
)

// ErrStateLimitExceeded indicates that determinization produced more states
// than Config.MaxStates allows. The partial table is discarded.
var ErrStateLimitExceeded = &BuildError{
	Kind:    StateLimitExceeded,
	Message: "DFA state limit exceeded",
}

// ErrCancelled indicates that construction was aborted by the caller's
// context. The partial table is discarded.
var ErrCancelled = &BuildError{
	Kind:    Cancelled,
	Message: "DFA construction cancelled",
}

// ErrInvalidConfig indicates that the provided configuration is invalid.
var ErrInvalidConfig = &BuildError{
	Kind:    InvalidConfig,
	Message: "invalid DFA configuration",
}

// ErrorKind classifies DFA errors into categories
type ErrorKind uint8

const (
	// StateLimitExceeded indicates too many states were created
	StateLimitExceeded ErrorKind = iota

	// Cancelled indicates the cancellation source fired
	Cancelled

	// InvalidConfig indicates configuration validation failed
	InvalidConfig

	// InvalidSnapshot indicates an imported snapshot is inconsistent
	InvalidSnapshot
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case StateLimitExceeded:
		return "StateLimitExceeded"
	case Cancelled:
		return "Cancelled"
	case InvalidConfig:
		return "InvalidConfig"
	case InvalidSnapshot:
		return "InvalidSnapshot"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// BuildError represents an error that occurred while building a table
type BuildError struct {
	Kind    ErrorKind
	Message string
	Cause   error // Optional underlying error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *BuildError) Is(target error) bool {
	t, ok := target.(*BuildError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// DiagCode implements diag.Coded.
func (e *BuildError) DiagCode() diag.Code {
	if e.Kind == Cancelled {
		return diag.Cancelled
	}
	return diag.AutomatonTooComplex
}
