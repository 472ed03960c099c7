// Package nfa compiles editor pattern source into a nondeterministic finite
// automaton whose boundary states split it into left context, match body and
// right context.
//
// The graph is an arena addressed by StateID with state 0 reserved as the
// null target. Every state is an epsilon node with up to two edges, a
// consuming node labelled with an alphabet.AcceptSet, or the fail sentinel.
// The graph is transient: it is handed to the determinizer and discarded.
package nfa

import (
	"fmt"

	"github.com/coregx/edpat/diag"
)

// Common compile errors, matched with errors.Is by code.
var (
	ErrUnmatchedDelimiter = &CompileError{Code: diag.UnmatchedDelimiter}
	ErrIllegalSymbol      = &CompileError{Code: diag.IllegalSymbol}
	ErrPrematureEnd       = &CompileError{Code: diag.PrematureEnd}
	ErrIllegalMarkNumber  = &CompileError{Code: diag.IllegalMarkNumber}
	ErrUndefinedSet       = &CompileError{Code: diag.UndefinedSet}
	ErrMalformedRange     = &CompileError{Code: diag.MalformedRange}
	ErrNullPattern        = &CompileError{Code: diag.NullPattern}
	ErrSpanDeref          = &CompileError{Code: diag.SpanDerefError}
	ErrTextDeref          = &CompileError{Code: diag.TextDerefError}
	ErrTooComplex         = &CompileError{Code: diag.PatternTooComplex}
)

// CompileError reports why a pattern could not be compiled.
type CompileError struct {
	Code diag.Code

	// Pos is the byte offset in the source being parsed when the error was
	// detected. Inside a dereferenced value it is relative to that value.
	Pos int

	// Pattern is the source text being parsed.
	Pattern string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	msg := e.Code.String()
	if e.Pattern != "" {
		msg = fmt.Sprintf("%s at offset %d of %q", msg, e.Pos, e.Pattern)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Is matches compile errors by code.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// DiagCode implements diag.Coded.
func (e *CompileError) DiagCode() diag.Code {
	return e.Code
}

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != NullState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}
