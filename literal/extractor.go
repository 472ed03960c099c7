package literal

import (
	"github.com/coregx/edpat/nfa"
)

// ExtractorConfig configures literal extraction limits.
type ExtractorConfig struct {
	// MaxLiterals limits the number of alternative literals. Case-insensitive
	// letters double the count per letter, so this bounds the expansion.
	// Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each literal.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize is the largest accept set expanded into alternatives.
	// Default: 4.
	MaxClassSize int

	// MaxSteps bounds the total work of the path walk.
	// Default: 10,000.
	MaxSteps int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  4,
		MaxSteps:      10_000,
	}
}

// Extractor finds the literal alternatives of a compiled pattern.
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// Extract returns the complete set of literals the match body of n can
// spell, or nil when the body is not such a finite set.
//
// Only single-section patterns qualify, since context sections constrain
// where a body occurrence counts. Extraction also gives up on positional
// symbols, large accept sets, unbounded repetition, empty alternatives and
// exceeding any configured limit.
func (e *Extractor) Extract(n *nfa.NFA) *Seq {
	if n == nil || n.Sections() != 1 {
		return nil
	}
	w := &walker{
		cfg:    e.config,
		nfa:    n,
		target: n.MiddleContextEnd(),
	}
	if !w.walk(n.Start(), nil) || len(w.out) == 0 {
		return nil
	}
	seq := NewSeq(w.out...)
	seq.Dedup()
	return seq
}

type walker struct {
	cfg    ExtractorConfig
	nfa    *nfa.NFA
	target nfa.StateID
	steps  int
	out    []Literal
}

// walk follows every path from id to the target, extending prefix.
// It returns false as soon as extraction is impossible.
func (w *walker) walk(id nfa.StateID, prefix []byte) bool {
	for {
		w.steps++
		if w.steps > w.cfg.MaxSteps {
			return false
		}
		if id == w.target {
			if len(prefix) == 0 || len(w.out) >= w.cfg.MaxLiterals {
				return false
			}
			w.out = append(w.out, NewLiteral(append([]byte(nil), prefix...), true))
			return true
		}

		s := w.nfa.State(id)
		if s == nil {
			return false
		}
		switch s.Kind() {
		case nfa.StateEpsilon:
			if s.IsIndefinite() {
				return false
			}
			out1, out2 := s.Epsilon()
			if out2 != nfa.NullState {
				if !w.walk(out2, prefix) {
					return false
				}
			}
			if out1 == nfa.NullState {
				return true
			}
			id = out1

		case nfa.StateConsume:
			set, next := s.Consume()
			if set.HasPseudo() || set.Len() > w.cfg.MaxClassSize {
				return false
			}
			if len(prefix) >= w.cfg.MaxLiteralLen {
				return false
			}
			syms := set.Symbols()
			for _, sym := range syms[1:] {
				if !w.walk(next, append(prefix[:len(prefix):len(prefix)], byte(sym))) {
					return false
				}
			}
			prefix = append(prefix[:len(prefix):len(prefix)], byte(syms[0]))
			id = next

		default:
			// A fail sentinel contributes no literal.
			return true
		}
	}
}
