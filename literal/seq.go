// Package literal extracts the literal strings a compiled pattern's match
// body can consist of.
//
// When every path through the match body spells a fixed string, the
// recognizer can hand those strings to a prefilter and skip straight to
// columns where one of them occurs instead of trying every column. The
// body "foo"|"bar" yields a Seq of two complete literals.
package literal

import (
	"bytes"
	"fmt"
	"sort"
)

// Literal is one spelling of a match body. Complete is false once the
// bytes only begin some longer spelling, which happens when Minimize folds
// a longer alternative into a shorter one.
//
// The body 'ab' spells four complete literals: ab, aB, Ab and AB.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral returns a literal over b.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len is the literal's width in columns.
func (l Literal) Len() int {
	return len(l.Bytes)
}

func (l Literal) String() string {
	return fmt.Sprintf("literal{%s, complete=%t}", l.Bytes, l.Complete)
}

// Seq holds the alternative spellings of one match body, as handed to a
// prefilter.
type Seq struct {
	literals []Literal
}

// NewSeq collects lits.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of spellings; a nil Seq has none.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns spelling i.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence has no literals. A nil Seq is empty.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// AllComplete reports whether every literal is a whole match body.
func (s *Seq) AllComplete() bool {
	if s.IsEmpty() {
		return false
	}
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// MinLen returns the length of the shortest literal, or 0 for an empty Seq.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := s.literals[0].Len()
	for _, lit := range s.literals[1:] {
		n = min(n, lit.Len())
	}
	return n
}

// Dedup sorts the literals and removes exact duplicates.
func (s *Seq) Dedup() {
	if s.IsEmpty() {
		return
	}
	sort.Slice(s.literals, func(i, j int) bool {
		return bytes.Compare(s.literals[i].Bytes, s.literals[j].Bytes) < 0
	})
	kept := s.literals[:1]
	for _, lit := range s.literals[1:] {
		if !bytes.Equal(kept[len(kept)-1].Bytes, lit.Bytes) {
			kept = append(kept, lit)
		}
	}
	s.literals = kept
}

// Minimize removes literals that have another literal as a prefix.
//
// For candidate search only the occurrence start matters, and every
// occurrence of "foobar" is also an occurrence of "foo". Literals that
// make another redundant lose their completeness.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.Slice(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for j := range kept {
			if bytes.HasPrefix(current.Bytes, kept[j].Bytes) {
				kept[j].Complete = false
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}
