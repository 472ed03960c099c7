// Package deref resolves the $span$ and &text& references a pattern may
// contain.
//
// Spans are named pieces of text held by the editor; text values come from
// the process environment or a fixed map. Both satisfy nfa.Resolver, and
// Combine routes each marker to the right one.
package deref

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/armon/go-radix"

	"github.com/coregx/edpat/nfa"
)

var (
	// ErrUndefined is returned for a name with no value.
	ErrUndefined = errors.New("deref: undefined name")

	// ErrBadName is returned when defining a span with an unusable name.
	ErrBadName = errors.New("deref: invalid name")

	// ErrWrongMarker is returned when a resolver is asked for a marker it
	// does not serve.
	ErrWrongMarker = errors.New("deref: wrong marker")
)

// Spans is a registry of named spans. It is safe for concurrent use.
type Spans struct {
	mu   sync.RWMutex
	tree *radix.Tree
}

// NewSpans creates an empty registry.
func NewSpans() *Spans {
	return &Spans{tree: radix.New()}
}

// Define sets span name to text, replacing any previous value.
func (s *Spans) Define(name, text string) error {
	if name == "" || strings.ContainsAny(name, string([]byte{nfa.SpanMarker, nfa.TextMarker})) {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Insert(name, text)
	return nil
}

// Undefine removes span name and reports whether it existed.
func (s *Spans) Undefine(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tree.Delete(name)
	return ok
}

// Lookup returns the text of span name.
func (s *Spans) Lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.tree.Get(name)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Len returns the number of spans.
func (s *Spans) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// Names lists the span names with the given prefix in sorted order.
// An empty prefix lists every span.
func (s *Spans) Names(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	s.tree.WalkPrefix(prefix, func(name string, _ interface{}) bool {
		names = append(names, name)
		return false
	})
	return names
}

// Resolve implements nfa.Resolver for span references.
func (s *Spans) Resolve(marker byte, name string) (string, error) {
	if marker != nfa.SpanMarker {
		return "", fmt.Errorf("%w: spans do not serve %q", ErrWrongMarker, marker)
	}
	text, ok := s.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: span %q", ErrUndefined, name)
	}
	return text, nil
}

// Text resolves &name& references from a lookup function.
type Text struct {
	lookup func(string) (string, bool)
}

// NewEnv resolves text values from the process environment.
func NewEnv() *Text {
	return &Text{lookup: os.LookupEnv}
}

// TextFrom resolves text values from a fixed map.
func TextFrom(values map[string]string) *Text {
	return &Text{lookup: func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}}
}

// Resolve implements nfa.Resolver for text references.
func (t *Text) Resolve(marker byte, name string) (string, error) {
	if marker != nfa.TextMarker {
		return "", fmt.Errorf("%w: text values do not serve %q", ErrWrongMarker, marker)
	}
	v, ok := t.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: text %q", ErrUndefined, name)
	}
	return v, nil
}

// Combine returns a resolver that sends $span$ references to spans and
// &text& references to text. Either may be nil, which leaves that marker
// undefined.
func Combine(spans, text nfa.Resolver) nfa.Resolver {
	return nfa.ResolverFunc(func(marker byte, name string) (string, error) {
		var r nfa.Resolver
		switch marker {
		case nfa.SpanMarker:
			r = spans
		case nfa.TextMarker:
			r = text
		}
		if r == nil {
			return "", fmt.Errorf("%w: %c%s%c", ErrUndefined, marker, name, marker)
		}
		return r.Resolve(marker, name)
	})
}

// Dump renders every span as name=text lines in name order.
func (s *Spans) Dump() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]string, 0, s.tree.Len())
	s.tree.Walk(func(name string, v interface{}) bool {
		lines = append(lines, fmt.Sprintf("%s=%q", name, v.(string)))
		return false
	})
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
