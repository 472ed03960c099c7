// Package prefilter finds candidate columns for a match before the
// recognizer runs.
//
// A prefilter is built from the literal alternatives of a pattern's match
// body (see package literal). It reports the earliest position at which one
// of the literals occurs; the recognizer then tries only that column.
//
// The package selects the strategy from the literals:
//   - Single literal → BoyerMoore
//   - Several literals → AhoCorasick
//
// Example usage:
//
//	seq := literal.New(literal.DefaultConfig()).Extract(n)
//	pf := prefilter.New(seq)
//	if pf != nil {
//	    pos := pf.Find(line, 0)
//	}
package prefilter

import (
	"github.com/coregx/edpat/literal"
)

// Prefilter quickly finds candidate match positions.
type Prefilter interface {
	// Find returns the index of the first candidate match starting at or after
	// start, or -1 if no candidate is found.
	//
	// A candidate is a position where one of the literals occurs. The caller
	// must still run the recognizer there unless IsComplete() is true.
	Find(haystack []byte, start int) int

	// IsComplete returns true if a candidate is always exactly a match of
	// length LiteralLen().
	IsComplete() bool

	// LiteralLen returns the length of the matched literal when IsComplete()
	// is true, and 0 otherwise.
	LiteralLen() int

	// String names the strategy, for diagnostics.
	String() string
}

// New constructs the best prefilter for the given literals, or nil when
// seq is empty or cannot be searched for.
func New(seq *literal.Seq) Prefilter {
	if seq.IsEmpty() || seq.MinLen() == 0 {
		return nil
	}
	if seq.Len() == 1 {
		lit := seq.Get(0)
		return newBoyerMoore(lit.Bytes, lit.Complete)
	}

	seq.Minimize()
	if seq.Len() == 1 {
		// Every other literal extends the survivor.
		return newBoyerMoore(seq.Get(0).Bytes, false)
	}
	pf, err := newAhoCorasick(seq)
	if err != nil {
		return nil
	}
	return pf
}
