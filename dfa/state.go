// Package dfa determinizes a sectioned NFA into a table of states with
// disjoint accept-set transitions and context-boundary annotations.
//
// Three states are reserved: KILL (no viable transition), FAIL (a fail
// sentinel was reached) and START (the epsilon closure of the pattern's
// first state). Tables are immutable once built and safe for concurrent
// readers.
package dfa

import (
	"fmt"
	"slices"
	"strings"

	"github.com/coregx/edpat/alphabet"
	"github.com/coregx/edpat/nfa"
)

// StateID identifies a DFA state within its table.
type StateID uint32

// Reserved state IDs.
const (
	// KillState has no transitions; entering it ends the current path.
	KillState StateID = 0

	// FailState stands for every closure that contained a fail sentinel.
	FailState StateID = 1

	// StartState is the closure of the pattern's first state.
	StartState StateID = 2

	firstFree = 3
)

// Flags holds the annotations computed after construction.
type Flags uint8

const (
	// FlagFinal marks states whose closure contains the pattern's final state.
	FlagFinal Flags = 1 << iota

	// FlagPatternStart marks non-final states one step from START.
	FlagPatternStart

	// FlagLeftTransition marks states whose closure contains the end of the
	// left context; entering one records the match start.
	FlagLeftTransition

	// FlagRightTransition marks states whose closure contains the end of the
	// match body; entering one records the match finish.
	FlagRightTransition

	// FlagLeftContextCheck marks left transitions whose recorded column is
	// authoritative and may overwrite an earlier record.
	FlagLeftContextCheck
)

var flagNames = [...]string{"final", "pattern-start", "left", "right", "left-check"}

func (f Flags) String() string {
	var parts []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ",")
}

// Transition moves to Next on any symbol of Set.
type Transition struct {
	Set  alphabet.AcceptSet
	Next StateID

	// StartFlag marks a KILL transition taken before a match has begun:
	// the recognizer restarts at the next column rather than failing.
	StartFlag bool
}

// State is one DFA state.
type State struct {
	id StateID

	// closure is the sorted set of NFA states this state represents.
	// It is nil for the reserved states and for imported tables.
	closure []nfa.StateID

	transitions []Transition

	// lookup maps each symbol to an index into transitions; noTransition
	// means the symbol leads to KILL without a restart flag.
	lookup []uint16

	marked bool
	flags  Flags
}

const noTransition = 0xFFFF

// ID returns the state's identifier
func (s *State) ID() StateID {
	return s.id
}

// Closure returns the NFA states this state represents, sorted.
func (s *State) Closure() []nfa.StateID {
	return s.closure
}

// Transitions returns the outgoing transitions. Their sets are disjoint.
func (s *State) Transitions() []Transition {
	return s.transitions
}

// Flags returns the state's annotations.
func (s *State) Flags() Flags {
	return s.flags
}

// IsFinal reports whether reaching this state completes the pattern.
func (s *State) IsFinal() bool {
	return s.flags&FlagFinal != 0
}

// IsPatternStart reports whether the state is one step from START.
func (s *State) IsPatternStart() bool {
	return s.flags&FlagPatternStart != 0
}

// IsLeftTransition reports whether the left-context boundary lies in this state.
func (s *State) IsLeftTransition() bool {
	return s.flags&FlagLeftTransition != 0
}

// IsRightTransition reports whether the right-context boundary lies in this state.
func (s *State) IsRightTransition() bool {
	return s.flags&FlagRightTransition != 0
}

// IsLeftContextCheck reports whether a left boundary recorded here is authoritative.
func (s *State) IsLeftContextCheck() bool {
	return s.flags&FlagLeftContextCheck != 0
}

// Step returns the transition taken on sym. Symbols outside every
// transition lead to KILL.
func (s *State) Step(sym alphabet.Symbol) Transition {
	if int(sym) >= len(s.lookup) {
		return Transition{Next: KillState}
	}
	idx := s.lookup[sym]
	if idx == noTransition {
		return Transition{Next: KillState}
	}
	return s.transitions[idx]
}

func (s *State) contains(id nfa.StateID) bool {
	_, ok := slices.BinarySearch(s.closure, id)
	return ok
}

// index builds the per-symbol lookup from the transition list.
func (s *State) index() {
	if len(s.transitions) == 0 {
		s.lookup = nil
		return
	}
	s.lookup = make([]uint16, alphabet.Size)
	for i := range s.lookup {
		s.lookup[i] = noTransition
	}
	for i, tr := range s.transitions {
		for _, sym := range tr.Set.Symbols() {
			s.lookup[sym] = uint16(i)
		}
	}
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", stateName(s.id))
	if s.flags != 0 {
		fmt.Fprintf(&b, " [%s]", s.flags)
	}
	if s.closure != nil {
		fmt.Fprintf(&b, " %v", s.closure)
	}
	return b.String()
}

func stateName(id StateID) string {
	switch id {
	case KillState:
		return "KILL"
	case FailState:
		return "FAIL"
	case StartState:
		return "START"
	}
	return fmt.Sprintf("D%d", id)
}
