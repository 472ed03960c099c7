package nfa

import (
	"fmt"

	"github.com/coregx/edpat/alphabet"
	"github.com/coregx/edpat/internal/conv"
)

// Builder constructs NFAs incrementally using a low-level API.
// This provides full control over NFA construction and is used by the Compiler.
//
// Every Add* call fails with ErrTooComplex once the arena would exceed the
// configured number of states.
type Builder struct {
	states    []State
	maxStates int
	section   Section
}

// NewBuilder creates a new NFA builder allowing at most maxStates states.
// A non-positive maxStates removes the limit.
func NewBuilder(maxStates int) *Builder {
	b := &Builder{
		states:    make([]State, 1, 16),
		maxStates: maxStates,
		section:   SectionMiddle,
	}
	b.states[0] = State{id: NullState, kind: StateNull}
	return b
}

// SetSection sets the section recorded on states added from now on.
func (b *Builder) SetSection(s Section) {
	b.section = s
}

// SetSectionRange re-tags the states in [from, to) with s.
func (b *Builder) SetSectionRange(from, to StateID, s Section) {
	for id := from; id < to && int(id) < len(b.states); id++ {
		b.states[id].section = s
	}
}

func (b *Builder) add(s State) (StateID, error) {
	if b.maxStates > 0 && len(b.states)-1 >= b.maxStates {
		return NullState, &CompileError{
			Code: ErrTooComplex.Code,
			Err:  fmt.Errorf("more than %d NFA states", b.maxStates),
		}
	}
	id := StateID(conv.IntToUint32(len(b.states)))
	s.id = id
	s.section = b.section
	b.states = append(b.states, s)
	return id, nil
}

// AddEpsilon adds a state with up to two epsilon edges.
func (b *Builder) AddEpsilon(out1, out2 StateID) (StateID, error) {
	return b.add(State{kind: StateEpsilon, out1: out1, out2: out2})
}

// AddConsume adds a state that consumes one symbol of set and moves to next.
func (b *Builder) AddConsume(set alphabet.AcceptSet, next StateID) (StateID, error) {
	return b.add(State{kind: StateConsume, set: set, next: next})
}

// AddFail adds the fail sentinel.
func (b *Builder) AddFail() (StateID, error) {
	return b.add(State{kind: StateFail})
}

// Patch updates a state's single target: out1 of an epsilon state or the
// target of a consuming state. This is used during compilation to handle
// forward references.
func (b *Builder) Patch(stateID, target StateID) error {
	s, err := b.state(stateID)
	if err != nil {
		return err
	}
	switch s.kind {
	case StateEpsilon:
		s.out1 = target
		return nil
	case StateConsume:
		s.next = target
		return nil
	default:
		return &BuildError{
			Message: fmt.Sprintf("cannot patch state of kind %s", s.kind),
			StateID: stateID,
		}
	}
}

// PatchSplit sets both edges of an epsilon state.
func (b *Builder) PatchSplit(stateID, out1, out2 StateID) error {
	s, err := b.state(stateID)
	if err != nil {
		return err
	}
	if s.kind != StateEpsilon {
		return &BuildError{
			Message: fmt.Sprintf("expected Epsilon state, got %s", s.kind),
			StateID: stateID,
		}
	}
	s.out1, s.out2 = out1, out2
	return nil
}

// SetIndefinite flags an epsilon state as the head of an unbounded loop.
func (b *Builder) SetIndefinite(stateID StateID) error {
	s, err := b.state(stateID)
	if err != nil {
		return err
	}
	if s.kind != StateEpsilon {
		return &BuildError{
			Message: fmt.Sprintf("expected Epsilon state, got %s", s.kind),
			StateID: stateID,
		}
	}
	s.indefinite = true
	return nil
}

func (b *Builder) state(id StateID) (*State, error) {
	if id == NullState || int(id) >= len(b.states) {
		return nil, &BuildError{
			Message: "state ID out of bounds",
			StateID: id,
		}
	}
	return &b.states[id], nil
}

// States returns the current arena size, including the null state.
func (b *Builder) States() int {
	return len(b.states)
}

// Next returns the ID the next added state will receive.
func (b *Builder) Next() StateID {
	return StateID(conv.IntToUint32(len(b.states)))
}

// Validate checks that every edge points at an allocated state.
func (b *Builder) Validate() error {
	valid := func(id StateID) bool {
		return int(id) < len(b.states)
	}
	for i := 1; i < len(b.states); i++ {
		s := &b.states[i]
		switch s.kind {
		case StateEpsilon:
			if !valid(s.out1) || !valid(s.out2) {
				return &BuildError{
					Message: fmt.Sprintf("invalid epsilon edge [%d, %d]", s.out1, s.out2),
					StateID: s.id,
				}
			}
		case StateConsume:
			if !valid(s.next) {
				return &BuildError{
					Message: fmt.Sprintf("invalid next state %d", s.next),
					StateID: s.id,
				}
			}
		case StateNull:
			return &BuildError{Message: "null state allocated as content", StateID: s.id}
		}
	}
	return nil
}

// Boundaries names the four boundary states of a compiled pattern.
type Boundaries struct {
	Start, LeftEnd, MiddleEnd, Final StateID
}

// Build finalizes and returns the constructed NFA.
func (b *Builder) Build(bounds Boundaries, sections int, def Definition) (*NFA, error) {
	for _, id := range []StateID{bounds.Start, bounds.LeftEnd, bounds.MiddleEnd, bounds.Final} {
		if id == NullState || int(id) >= len(b.states) {
			return nil, &BuildError{Message: "boundary state out of bounds", StateID: id}
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &NFA{
		states:    b.states,
		start:     bounds.Start,
		leftEnd:   bounds.LeftEnd,
		middleEnd: bounds.MiddleEnd,
		final:     bounds.Final,
		sections:  sections,
		def:       def,
	}, nil
}
