// Package diag defines the message codes reported when a pattern fails to
// compile or its automaton fails to build, and the sinks that receive them.
//
// Every failure is reported exactly once, by the layer that owns the cached
// automaton, before the error is returned to the caller.
package diag

import "fmt"

// Code identifies a compile or build failure.
type Code uint8

const (
	// OK is the zero Code; it is never reported.
	OK Code = iota
	UnmatchedDelimiter
	IllegalSymbol
	PrematureEnd
	IllegalMarkNumber
	UndefinedSet
	MalformedRange
	NullPattern
	SpanDerefError
	TextDerefError
	PatternTooComplex
	AutomatonTooComplex
	Cancelled
)

var messages = [...]string{
	OK:                  "no error",
	UnmatchedDelimiter:  "unmatched delimiter in pattern",
	IllegalSymbol:       "illegal symbol in pattern",
	PrematureEnd:        "premature end of pattern",
	IllegalMarkNumber:   "illegal mark number in pattern",
	UndefinedSet:        "undefined set in pattern",
	MalformedRange:      "malformed repeat range in pattern",
	NullPattern:         "null pattern",
	SpanDerefError:      "error in dereferenced span",
	TextDerefError:      "error in dereferenced text",
	PatternTooComplex:   "pattern too complex",
	AutomatonTooComplex: "pattern automaton too complex",
	Cancelled:           "pattern build cancelled",
}

// String returns the message text of the code.
func (c Code) String() string {
	if int(c) < len(messages) {
		return messages[c]
	}
	return fmt.Sprintf("Code(%d)", c)
}

// Category groups codes by the stage that raises them.
func (c Code) Category() string {
	switch c {
	case AutomatonTooComplex, Cancelled:
		return CategoryBuild
	case OK:
		return ""
	}
	return CategoryCompile
}

// Categories used by Log.
const (
	CategoryCompile = "compile"
	CategoryBuild   = "build"
)

// Sink receives one call per fatal compile or build error.
type Sink interface {
	Report(code Code, detail string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(code Code, detail string)

// Report implements Sink.
func (f SinkFunc) Report(code Code, detail string) {
	f(code, detail)
}

// Discard is a Sink that drops every report.
var Discard Sink = SinkFunc(func(Code, string) {})

// Coded is implemented by errors that carry a diagnostic code.
type Coded interface {
	error
	DiagCode() Code
}
