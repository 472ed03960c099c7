package dfa

import (
	"fmt"

	"github.com/coregx/edpat/alphabet"
	"github.com/coregx/edpat/internal/conv"
	"github.com/coregx/edpat/nfa"
)

// Snapshot is a plain-data export of a table, suitable for serialization
// or code generation. Closures are not exported; an imported table can
// recognize but not be extended.
type Snapshot struct {
	Definition  string
	Sections    int
	MiddleStart uint32
	RightStart  uint32
	States      []StateSnapshot
}

// StateSnapshot is the exported form of one state.
type StateSnapshot struct {
	Flags       uint8
	Transitions []TransitionSnapshot
}

// TransitionSnapshot is the exported form of one transition. Set holds the
// accept set's words, lowest symbols first.
type TransitionSnapshot struct {
	Set       []uint64
	Next      uint32
	StartFlag bool
}

// Snapshot exports the table.
func (t *Table) Snapshot() Snapshot {
	snap := Snapshot{
		Definition:  t.def.Text(),
		Sections:    t.sections,
		MiddleStart: uint32(t.middleStart),
		RightStart:  uint32(t.rightStart),
		States:      make([]StateSnapshot, len(t.states)),
	}
	for i, s := range t.states {
		ss := StateSnapshot{Flags: uint8(s.flags)}
		for _, tr := range s.transitions {
			ss.Transitions = append(ss.Transitions, TransitionSnapshot{
				Set:       tr.Set.Words(),
				Next:      uint32(tr.Next),
				StartFlag: tr.StartFlag,
			})
		}
		snap.States[i] = ss
	}
	return snap
}

// FromSnapshot rebuilds a table from an exported snapshot.
func FromSnapshot(snap Snapshot) (*Table, error) {
	invalid := func(format string, args ...any) error {
		return &BuildError{
			Kind:    InvalidSnapshot,
			Message: "invalid DFA snapshot",
			Cause:   fmt.Errorf(format, args...),
		}
	}
	n := len(snap.States)
	if n < firstFree {
		return nil, invalid("%d states, need at least %d", n, firstFree)
	}
	if snap.Sections < 1 || snap.Sections > 3 {
		return nil, invalid("%d sections", snap.Sections)
	}
	if conv.Uint32ToInt(snap.MiddleStart) >= n || conv.Uint32ToInt(snap.RightStart) >= n {
		return nil, invalid("section entry out of range")
	}

	t := &Table{
		states:      make([]*State, n),
		middleStart: StateID(snap.MiddleStart),
		rightStart:  StateID(snap.RightStart),
		sections:    snap.Sections,
		def:         nfa.NewDefinition(snap.Definition),
	}
	for i, ss := range snap.States {
		s := &State{id: StateID(i), marked: true, flags: Flags(ss.Flags)}
		var seen alphabet.AcceptSet
		for j, ts := range ss.Transitions {
			if conv.Uint32ToInt(ts.Next) >= n {
				return nil, invalid("state %d transition %d targets %d", i, j, ts.Next)
			}
			set := alphabet.FromWords(ts.Set)
			if set.Overlaps(seen) {
				return nil, invalid("state %d transition %d overlaps an earlier one", i, j)
			}
			seen = seen.Union(set)
			s.transitions = append(s.transitions, Transition{
				Set:       set,
				Next:      StateID(ts.Next),
				StartFlag: ts.StartFlag,
			})
		}
		s.index()
		t.states[i] = s
	}
	return t, nil
}
