package dfa

import (
	"fmt"
	"strings"

	"github.com/coregx/edpat/alphabet"
	"github.com/coregx/edpat/nfa"
)

// Table is a determinized pattern: an arena of states plus the definition
// it was compiled from.
//
// Besides START the table holds the entry states of the match body and the
// right context, so the recognizer can check a proposed split of a match
// into its three sections without a second table.
type Table struct {
	states []*State

	middleStart StateID
	rightStart  StateID
	sections    int

	def nfa.Definition
}

// State returns the state with the given ID, or nil if out of range.
func (t *Table) State(id StateID) *State {
	if int(id) >= len(t.states) {
		return nil
	}
	return t.states[id]
}

// Len returns the number of states including the reserved ones.
func (t *Table) Len() int {
	return len(t.states)
}

// Start returns the state recognition begins in.
func (t *Table) Start() StateID {
	return StartState
}

// MiddleStart returns the state representing the closure of the left
// context's end: running from it recognizes the match body.
func (t *Table) MiddleStart() StateID {
	return t.middleStart
}

// RightStart returns the state representing the closure of the match body's
// end: running from it recognizes the right context.
func (t *Table) RightStart() StateID {
	return t.rightStart
}

// Sections returns the number of sections of the source pattern.
func (t *Table) Sections() int {
	return t.sections
}

// Definition returns the canonical text the table was compiled from.
func (t *Table) Definition() nfa.Definition {
	return t.def
}

// Step returns the transition from state id on sym.
func (t *Table) Step(id StateID, sym alphabet.Symbol) Transition {
	s := t.State(id)
	if s == nil {
		return Transition{Next: KillState}
	}
	return s.Step(sym)
}

// String dumps the table, one state per line followed by its transitions.
func (t *Table) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DFA %q: %d states, %d sections, middle=%s right=%s\n",
		t.def.Text(), len(t.states), t.sections, stateName(t.middleStart), stateName(t.rightStart))
	for _, s := range t.states {
		fmt.Fprintf(&b, "%s\n", s)
		for _, tr := range s.transitions {
			flag := ""
			if tr.StartFlag {
				flag = " (restart)"
			}
			fmt.Fprintf(&b, "  %v -> %s%s\n", tr.Set, stateName(tr.Next), flag)
		}
	}
	return b.String()
}
