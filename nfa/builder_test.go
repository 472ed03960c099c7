package nfa

import (
	"errors"
	"testing"

	"github.com/coregx/edpat/alphabet"
)

func TestBuilder_Basic(t *testing.T) {
	b := NewBuilder(0)
	if b.States() != 1 {
		t.Fatalf("new builder has %d states, want the null state only", b.States())
	}
	if b.Next() != 1 {
		t.Fatalf("Next() = %d, want 1", b.Next())
	}

	end, err := b.AddEpsilon(NullState, NullState)
	if err != nil {
		t.Fatal(err)
	}
	c, err := b.AddConsume(alphabet.Of('a'), end)
	if err != nil {
		t.Fatal(err)
	}
	start, err := b.AddEpsilon(c, NullState)
	if err != nil {
		t.Fatal(err)
	}

	n, err := b.Build(Boundaries{Start: start, LeftEnd: start, MiddleEnd: end, Final: end}, 1, NewDefinition(`"a"`))
	if err != nil {
		t.Fatal(err)
	}
	if n.States() != 4 {
		t.Errorf("States() = %d, want 4", n.States())
	}
	if n.State(c).Kind() != StateConsume {
		t.Errorf("state %d kind = %s, want consume", c, n.State(c).Kind())
	}
	set, next := n.State(c).Consume()
	if !set.Contains('a') || next != end {
		t.Errorf("Consume() = %v -> %d, want {a} -> %d", set, next, end)
	}
	if n.State(99) != nil {
		t.Error("State(99) should be nil")
	}
}

func TestBuilder_Limit(t *testing.T) {
	b := NewBuilder(2)
	for i := 0; i < 2; i++ {
		if _, err := b.AddEpsilon(NullState, NullState); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	_, err := b.AddEpsilon(NullState, NullState)
	if !errors.Is(err, ErrTooComplex) {
		t.Errorf("third add: err = %v, want ErrTooComplex", err)
	}
}

func TestBuilder_PatchErrors(t *testing.T) {
	b := NewBuilder(0)
	f, err := b.AddFail()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		err  error
	}{
		{"patch fail", b.Patch(f, NullState)},
		{"split fail", b.PatchSplit(f, NullState, NullState)},
		{"indefinite fail", b.SetIndefinite(f)},
		{"out of bounds", b.Patch(42, NullState)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var be *BuildError
			if !errors.As(tt.err, &be) {
				t.Errorf("err = %v, want *BuildError", tt.err)
			}
		})
	}
}

func TestBuilder_ValidateRejectsDanglingEdge(t *testing.T) {
	b := NewBuilder(0)
	if _, err := b.AddEpsilon(9, NullState); err != nil {
		t.Fatal(err)
	}
	if err := b.Validate(); err == nil {
		t.Error("Validate() accepted an edge to an unallocated state")
	}
}

func TestBuilder_Copy(t *testing.T) {
	b := NewBuilder(0)
	exit, _ := b.AddEpsilon(NullState, NullState)
	c, _ := b.AddConsume(alphabet.Of('x'), exit)
	loop, _ := b.AddEpsilon(c, exit)
	if err := b.SetIndefinite(loop); err != nil {
		t.Fatal(err)
	}

	before := b.States()
	ns, ne, err := b.Copy(loop, exit)
	if err != nil {
		t.Fatal(err)
	}
	if b.States() != before+3 {
		t.Fatalf("copy added %d states, want 3", b.States()-before)
	}
	if ns == loop || ne == exit {
		t.Fatalf("copy reused original states: start %d exit %d", ns, ne)
	}

	s, _ := b.state(ns)
	if !s.IsIndefinite() {
		t.Error("copied loop head lost its indefinite flag")
	}
	out1, out2 := s.Epsilon()
	if out2 != ne {
		t.Errorf("copied loop exit edge = %d, want %d", out2, ne)
	}
	cs, _ := b.state(out1)
	set, next := cs.Consume()
	if !set.Contains('x') || next != ne {
		t.Errorf("copied consume = %v -> %d, want {x} -> %d", set, next, ne)
	}
}
