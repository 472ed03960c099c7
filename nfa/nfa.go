package nfa

import (
	"fmt"

	"github.com/coregx/edpat/alphabet"
)

// StateID identifies an NFA state. State 0 is the null target meaning
// "no edge" and is never allocated as real content.
type StateID uint32

// NullState is the reserved "no edge" target.
const NullState StateID = 0

// StateKind identifies the type of NFA state and determines which fields are valid.
type StateKind uint8

const (
	// StateNull is the kind of the reserved state 0.
	StateNull StateKind = iota

	// StateEpsilon follows up to two edges without consuming input.
	// Used for sequencing, alternation and repetition.
	StateEpsilon

	// StateConsume consumes one symbol of its accept set.
	StateConsume

	// StateFail marks a branch that can never contribute to a match.
	StateFail
)

// String returns a human-readable representation of the StateKind
func (k StateKind) String() string {
	switch k {
	case StateNull:
		return "Null"
	case StateEpsilon:
		return "Epsilon"
	case StateConsume:
		return "Consume"
	case StateFail:
		return "Fail"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Section tells which comma-separated part of a pattern a state belongs to.
type Section uint8

const (
	SectionLeft Section = iota
	SectionMiddle
	SectionRight
)

func (s Section) String() string {
	switch s {
	case SectionLeft:
		return "left"
	case SectionMiddle:
		return "middle"
	case SectionRight:
		return "right"
	}
	return fmt.Sprintf("Section(%d)", s)
}

// State represents a single NFA state with its transitions.
// The state's kind determines which fields are valid.
type State struct {
	id      StateID
	kind    StateKind
	section Section

	// For Epsilon: up to two outgoing edges; NullState means absent.
	out1, out2 StateID

	// indefinite marks the head of a loop with no upper bound.
	indefinite bool

	// For Consume
	set  alphabet.AcceptSet
	next StateID
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// Kind returns the state's type
func (s *State) Kind() StateKind {
	return s.kind
}

// Section returns the pattern section the state was compiled for.
func (s *State) Section() Section {
	return s.section
}

// Epsilon returns both epsilon edges. Non-epsilon states return two NullState.
func (s *State) Epsilon() (out1, out2 StateID) {
	if s.kind == StateEpsilon {
		return s.out1, s.out2
	}
	return NullState, NullState
}

// Consume returns the accept set and target of a consuming state.
func (s *State) Consume() (set alphabet.AcceptSet, next StateID) {
	if s.kind == StateConsume {
		return s.set, s.next
	}
	return alphabet.AcceptSet{}, NullState
}

// IsIndefinite reports whether the state heads an unbounded repetition loop.
func (s *State) IsIndefinite() bool {
	return s.indefinite
}

// IsFail reports whether the state is the fail sentinel.
func (s *State) IsFail() bool {
	return s.kind == StateFail
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	switch s.kind {
	case StateEpsilon:
		flag := ""
		if s.indefinite {
			flag = " indefinite"
		}
		return fmt.Sprintf("State(%d, Epsilon -> [%d, %d]%s)", s.id, s.out1, s.out2, flag)
	case StateConsume:
		return fmt.Sprintf("State(%d, Consume %v -> %d)", s.id, s.set, s.next)
	case StateFail:
		return fmt.Sprintf("State(%d, Fail)", s.id)
	default:
		return fmt.Sprintf("State(%d, %s)", s.id, s.kind)
	}
}

// NFA is a compiled pattern graph with the three context boundaries marked.
//
// The boundary states split the graph into left context, match body and
// right context:
//
//	Start --left--> LeftContextEnd --middle--> MiddleContextEnd --right--> Final
//
// An omitted section is a direct epsilon edge, so its two boundaries share
// an epsilon closure.
type NFA struct {
	// states contains all NFA states indexed by StateID; states[0] is the null state.
	states []State

	start     StateID
	leftEnd   StateID
	middleEnd StateID
	final     StateID

	// sections is the number of comma-separated sections in the source (1..3).
	sections int

	def Definition
}

// Start returns first_pattern_start.
func (n *NFA) Start() StateID {
	return n.start
}

// LeftContextEnd returns the boundary between left context and match body.
func (n *NFA) LeftContextEnd() StateID {
	return n.leftEnd
}

// MiddleContextEnd returns the boundary between match body and right context.
func (n *NFA) MiddleContextEnd() StateID {
	return n.middleEnd
}

// Final returns pattern_final_state.
func (n *NFA) Final() StateID {
	return n.final
}

// Sections returns how many comma-separated sections the pattern had.
func (n *NFA) Sections() int {
	return n.sections
}

// Definition returns the canonical text the pattern was compiled from.
func (n *NFA) Definition() Definition {
	return n.def
}

// State returns the state with the given ID.
// Returns nil for NullState and out-of-range IDs.
func (n *NFA) State(id StateID) *State {
	if id == NullState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// States returns the size of the state arena, including the null state.
func (n *NFA) States() int {
	return len(n.states)
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, start: %d, leftEnd: %d, middleEnd: %d, final: %d, sections: %d}",
		len(n.states)-1, n.start, n.leftEnd, n.middleEnd, n.final, n.sections)
}
