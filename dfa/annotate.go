package dfa

import (
	"slices"

	"github.com/coregx/edpat/nfa"
)

// annotate sets the boundary and restart flags once every state exists.
func (b *Builder) annotate(t *Table) {
	leftEnd := b.nfa.LeftContextEnd()
	middleEnd := b.nfa.MiddleContextEnd()
	final := b.nfa.Final()

	// The frontier of the left boundary: everything reachable from it
	// without consuming input.
	frontier, _ := b.closure([]nfa.StateID{leftEnd})

	for _, s := range t.states[StartState:] {
		if s.closure == nil {
			continue
		}
		if s.contains(final) {
			s.flags |= FlagFinal
		}
		if s.contains(middleEnd) {
			s.flags |= FlagRightTransition
		}
		if s.contains(leftEnd) {
			s.flags |= FlagLeftTransition
			if b.authoritativeLeft(s, frontier) {
				s.flags |= FlagLeftContextCheck
			}
		}
	}

	start := t.states[StartState]
	for _, tr := range start.transitions {
		if tr.Next < firstFree {
			continue
		}
		if next := t.states[tr.Next]; !next.IsFinal() {
			next.flags |= FlagPatternStart
		}
	}
	for _, s := range t.states[StartState:] {
		if s.id != StartState && !s.IsPatternStart() {
			continue
		}
		for i := range s.transitions {
			if s.transitions[i].Next == KillState {
				s.transitions[i].StartFlag = true
			}
		}
	}
}

// authoritativeLeft reports whether a left boundary recorded in s can be
// trusted over an earlier one. It cannot when s already holds match-body
// states beyond the boundary's own frontier, or when s loops on itself
// through an indefinite repetition of the match body, since the boundary
// could then sit at several columns.
func (b *Builder) authoritativeLeft(s *State, frontier []nfa.StateID) bool {
	loops := false
	for _, tr := range s.transitions {
		if tr.Next == s.id {
			loops = true
			break
		}
	}
	for _, id := range s.closure {
		ns := b.nfa.State(id)
		if ns.Section() == nfa.SectionLeft {
			continue
		}
		if _, ok := slices.BinarySearch(frontier, id); !ok {
			return false
		}
		if loops && ns.Section() == nfa.SectionMiddle && ns.IsIndefinite() {
			return false
		}
	}
	return true
}
