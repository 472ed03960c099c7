package dfa

import (
	"context"
	"fmt"

	"github.com/coregx/edpat/alphabet"
	"github.com/coregx/edpat/internal/conv"
	"github.com/coregx/edpat/internal/sparse"
	"github.com/coregx/edpat/nfa"
)

// Builder performs subset construction over a sectioned NFA.
type Builder struct {
	nfa    *nfa.NFA
	config Config

	states []*State
	index  map[string]StateID

	// closure work storage reused across calls
	set   *sparse.Set[nfa.StateID]
	stack []nfa.StateID
}

// NewBuilder creates a builder for n.
func NewBuilder(n *nfa.NFA, config Config) *Builder {
	return &Builder{
		nfa:    n,
		config: config,
		index:  make(map[string]StateID),
		set:    sparse.New[nfa.StateID](n.States()),
	}
}

// Build compiles n into a table with the default configuration.
func Build(ctx context.Context, n *nfa.NFA) (*Table, error) {
	return NewBuilder(n, DefaultConfig()).Build(ctx)
}

// BuildWithConfig compiles n into a table.
func BuildWithConfig(ctx context.Context, n *nfa.NFA, config Config) (*Table, error) {
	return NewBuilder(n, config).Build(ctx)
}

// Build runs subset construction. ctx is polled once per state processed;
// on cancellation or when the state budget is exceeded the partial table is
// dropped and an error returned.
func (b *Builder) Build(ctx context.Context) (*Table, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	b.states = []*State{
		{id: KillState, marked: true},
		{id: FailState, marked: true},
	}

	start, failed := b.closure([]nfa.StateID{b.nfa.Start()})
	if failed {
		// Every attempt fails immediately.
		s := &State{id: StartState, marked: true}
		s.transitions = []Transition{{Set: alphabet.All(), Next: FailState}}
		s.index()
		b.states = append(b.states, s)
	} else if _, err := b.intern(start); err != nil {
		return nil, err
	}

	// Without a left context the match body starts where the pattern does.
	middle := StartState
	if b.nfa.Sections() > 1 {
		var err error
		if middle, err = b.seed(b.nfa.LeftContextEnd()); err != nil {
			return nil, err
		}
	}
	right, err := b.seed(b.nfa.MiddleContextEnd())
	if err != nil {
		return nil, err
	}

	for i := StartState; int(i) < len(b.states); i++ {
		if err := ctx.Err(); err != nil {
			return nil, &BuildError{Kind: Cancelled, Message: ErrCancelled.Message, Cause: err}
		}
		s := b.states[i]
		if s.marked {
			continue
		}
		s.marked = true
		if err := b.expand(s); err != nil {
			return nil, err
		}
	}

	t := &Table{
		states:      b.states,
		middleStart: middle,
		rightStart:  right,
		sections:    b.nfa.Sections(),
		def:         b.nfa.Definition(),
	}
	b.annotate(t)
	for _, s := range t.states {
		s.index()
	}
	return t, nil
}

func (b *Builder) seed(id nfa.StateID) (StateID, error) {
	ids, failed := b.closure([]nfa.StateID{id})
	if failed {
		return FailState, nil
	}
	return b.intern(ids)
}

// closure returns the sorted epsilon closure of seeds. failed is true when
// a fail sentinel is reachable; the closure then collapses to FAIL.
func (b *Builder) closure(seeds []nfa.StateID) (ids []nfa.StateID, failed bool) {
	b.set.Clear()
	b.stack = append(b.stack[:0], seeds...)
	for len(b.stack) > 0 {
		id := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		if id == nfa.NullState || !b.set.Insert(id) {
			continue
		}
		s := b.nfa.State(id)
		switch s.Kind() {
		case nfa.StateFail:
			return nil, true
		case nfa.StateEpsilon:
			out1, out2 := s.Epsilon()
			b.stack = append(b.stack, out2, out1)
		}
	}
	return b.set.Sorted(), false
}

// intern returns the state with the given closure, creating it if needed.
func (b *Builder) intern(closure []nfa.StateID) (StateID, error) {
	key := sparse.KeyOf(closure)
	if id, ok := b.index[key]; ok {
		return id, nil
	}
	if len(b.states) >= b.config.MaxStates {
		return KillState, &BuildError{
			Kind:    StateLimitExceeded,
			Message: ErrStateLimitExceeded.Message,
			Cause:   fmt.Errorf("more than %d states for %q", b.config.MaxStates, b.nfa.Definition().Text()),
		}
	}
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, &State{id: id, closure: closure})
	b.index[key] = id
	return id, nil
}

// piece is one block of the accept-set partition and the NFA states its
// symbols lead to.
type piece struct {
	set     alphabet.AcceptSet
	targets []nfa.StateID
}

// partition refines the (possibly overlapping) accept sets of the consuming
// states in closure into disjoint pieces.
func (b *Builder) partition(closure []nfa.StateID) []piece {
	var pieces []piece
	for _, id := range closure {
		s := b.nfa.State(id)
		if s.Kind() != nfa.StateConsume {
			continue
		}
		set, next := s.Consume()
		rest := set
		out := make([]piece, 0, len(pieces)+2)
		for _, p := range pieces {
			common := p.set.Intersect(rest)
			if common.IsEmpty() {
				out = append(out, p)
				continue
			}
			if only := p.set.Difference(common); !only.IsEmpty() {
				out = append(out, piece{set: only, targets: p.targets})
			}
			targets := make([]nfa.StateID, len(p.targets), len(p.targets)+1)
			copy(targets, p.targets)
			out = append(out, piece{set: common, targets: append(targets, next)})
			rest = rest.Difference(common)
		}
		if !rest.IsEmpty() {
			out = append(out, piece{set: rest, targets: []nfa.StateID{next}})
		}
		pieces = out
	}
	return pieces
}

// expand computes the transitions of s, interning new destination states.
func (b *Builder) expand(s *State) error {
	pieces := b.partition(s.closure)

	var covered alphabet.AcceptSet
	slot := make(map[StateID]int)
	for _, p := range pieces {
		covered = covered.Union(p.set)
		ids, failed := b.closure(p.targets)
		dest := FailState
		if !failed {
			var err error
			if dest, err = b.intern(ids); err != nil {
				return err
			}
		}
		if i, ok := slot[dest]; ok {
			s.transitions[i].Set = s.transitions[i].Set.Union(p.set)
			continue
		}
		slot[dest] = len(s.transitions)
		s.transitions = append(s.transitions, Transition{Set: p.set, Next: dest})
	}
	if rest := covered.Complement(); !rest.IsEmpty() {
		s.transitions = append(s.transitions, Transition{Set: rest, Next: KillState})
	}
	return nil
}
