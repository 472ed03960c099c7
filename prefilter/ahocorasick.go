package prefilter

import (
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/edpat/literal"
)

// AhoCorasick searches for any of several literals at once.
type AhoCorasick struct {
	automaton *ahocorasick.Automaton
	patterns  int
}

func newAhoCorasick(seq *literal.Seq) (*AhoCorasick, error) {
	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &AhoCorasick{automaton: auto, patterns: seq.Len()}, nil
}

// Find implements Prefilter.
func (p *AhoCorasick) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.automaton.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsComplete implements Prefilter. The longest alternative at a position
// is decided by the recognizer, so candidates always need verification.
func (p *AhoCorasick) IsComplete() bool {
	return false
}

// LiteralLen implements Prefilter.
func (p *AhoCorasick) LiteralLen() int {
	return 0
}

func (p *AhoCorasick) String() string {
	return fmt.Sprintf("AhoCorasick(%d patterns)", p.patterns)
}
