package main

import (
	"fmt"
	"strings"

	"github.com/coregx/edpat/deref"
)

// spanFlag collects --span name=text definitions.
type spanFlag struct {
	spans *deref.Spans
	defs  []string
}

func (s *spanFlag) String() string {
	return strings.Join(s.defs, ",")
}

func (s *spanFlag) Set(v string) error {
	name, text, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("span %q is not name=text", v)
	}
	if s.spans == nil {
		s.spans = deref.NewSpans()
	}
	if err := s.spans.Define(name, text); err != nil {
		return err
	}
	s.defs = append(s.defs, v)
	return nil
}

// registry returns the defined spans.
func (s *spanFlag) registry() *deref.Spans {
	if s.spans == nil {
		s.spans = deref.NewSpans()
	}
	return s.spans
}
