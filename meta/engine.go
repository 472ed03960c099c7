package meta

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/coregx/edpat/dfa"
	"github.com/coregx/edpat/diag"
	"github.com/coregx/edpat/linebuf"
	"github.com/coregx/edpat/literal"
	"github.com/coregx/edpat/nfa"
	"github.com/coregx/edpat/prefilter"
)

// ErrNoPattern is returned when searching before any pattern was compiled.
var ErrNoPattern = errors.New("meta: no pattern compiled")

// EngineStats counts the work of an Engine's cache slot.
type EngineStats struct {
	// Compiles counts calls to Compile and CompileBody.
	Compiles uint64

	// CacheHits counts compiles whose definition equalled the installed one,
	// so no table was built.
	CacheHits uint64

	// Builds counts tables built and installed.
	Builds uint64

	// Failures counts compile and build errors.
	Failures uint64
}

// Engine owns the cached table of one search target, such as the pattern
// of the last GET or EQS command.
//
// Compiling pattern source always runs the compiler, since the canonical
// definition is the cache key; the table is rebuilt only when the
// definition differs from the installed one. A failed compile or build is
// reported to the diagnostic sink exactly once and leaves the installed
// table in place.
//
// Example:
//
//	engine, _ := meta.NewEngine(meta.DefaultConfig(), resolver, diag.Discard)
//	if err := engine.Compile(ctx, `/"abc"/`); err != nil {
//	    return err
//	}
//	m, _ := engine.Find(buf, line, 1, false)
type Engine struct {
	stats EngineStats

	config    Config
	compiler  *nfa.Compiler
	extractor *literal.Extractor
	sink      diag.Sink

	mu  sync.RWMutex
	rec *Recognizer
}

// NewEngine creates an engine with an empty cache slot. resolver serves
// $span$ and &text& references and may be nil; sink may be nil, which
// discards diagnostics.
func NewEngine(config Config, resolver nfa.Resolver, sink diag.Sink) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = diag.Discard
	}
	cc := nfa.CompilerConfig{
		MaxStates:         config.MaxNFAStates,
		MaxRecursionDepth: config.MaxRecursionDepth,
		MaxDerefDepth:     config.MaxDerefDepth,
	}
	return &Engine{
		config:    config,
		compiler:  nfa.NewCompiler(cc, resolver),
		extractor: literal.New(literal.DefaultConfig()),
		sink:      sink,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Compile compiles delimited pattern source such as /"abc"/ and installs
// its table.
func (e *Engine) Compile(ctx context.Context, src string) error {
	atomic.AddUint64(&e.stats.Compiles, 1)
	n, err := e.compiler.Compile(src)
	if err != nil {
		return e.report(err)
	}
	return e.install(ctx, n)
}

// CompileBody compiles an undelimited pattern body and installs its table.
func (e *Engine) CompileBody(ctx context.Context, body string) error {
	atomic.AddUint64(&e.stats.Compiles, 1)
	n, err := e.compiler.CompileBody(body)
	if err != nil {
		return e.report(err)
	}
	return e.install(ctx, n)
}

func (e *Engine) install(ctx context.Context, n *nfa.NFA) error {
	e.mu.RLock()
	cur := e.rec
	e.mu.RUnlock()
	if cur != nil && cur.Table().Definition().Equal(n.Definition()) {
		atomic.AddUint64(&e.stats.CacheHits, 1)
		return nil
	}

	t, err := dfa.BuildWithConfig(ctx, n, dfa.DefaultConfig().WithMaxStates(e.config.MaxDFAStates))
	if err != nil {
		return e.report(err)
	}
	rec := NewRecognizer(t, e.prefilterFor(n))

	e.mu.Lock()
	e.rec = rec
	e.mu.Unlock()
	atomic.AddUint64(&e.stats.Builds, 1)
	return nil
}

// prefilterFor builds a prefilter for single-section patterns whose match
// body is a finite set of literals. A literal ending in a space is left
// to the automaton, which can complete it through the virtual space past
// the end of a line.
func (e *Engine) prefilterFor(n *nfa.NFA) prefilter.Prefilter {
	if !e.config.EnablePrefilter {
		return nil
	}
	seq := e.extractor.Extract(n)
	if seq == nil || seq.IsEmpty() {
		return nil
	}
	for i := 0; i < seq.Len(); i++ {
		b := seq.Get(i).Bytes
		if len(b) > 0 && b[len(b)-1] == ' ' {
			return nil
		}
	}
	return prefilter.New(seq)
}

// report hands err to the sink and returns it.
func (e *Engine) report(err error) error {
	atomic.AddUint64(&e.stats.Failures, 1)
	code := diag.PatternTooComplex
	var coded diag.Coded
	if errors.As(err, &coded) {
		code = coded.DiagCode()
	}
	e.sink.Report(code, err.Error())
	return err
}

// Recognizer returns the installed recognizer, or nil.
func (e *Engine) Recognizer() *Recognizer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rec
}

// Table returns the installed table, or nil.
func (e *Engine) Table() *dfa.Table {
	if rec := e.Recognizer(); rec != nil {
		return rec.Table()
	}
	return nil
}

// Definition returns the definition of the installed pattern, or the zero
// definition when the slot is empty.
func (e *Engine) Definition() nfa.Definition {
	if t := e.Table(); t != nil {
		return t.Definition()
	}
	return nfa.Definition{}
}

// Reset empties the cache slot.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.rec = nil
	e.mu.Unlock()
}

// Find searches line for the leftmost match at or after col (GET within a
// line).
func (e *Engine) Find(text linebuf.Text, line linebuf.LineID, col int, markFlag bool) (Match, error) {
	rec := e.Recognizer()
	if rec == nil {
		return Match{}, ErrNoPattern
	}
	return rec.Find(text, line, col, markFlag), nil
}

// Match reports whether the pattern matches at the cursor column (EQS).
func (e *Engine) Match(text linebuf.Text, line linebuf.LineID, col int) (Match, error) {
	rec := e.Recognizer()
	if rec == nil {
		return Match{}, ErrNoPattern
	}
	return rec.MatchAt(text, line, col, false), nil
}

// Searcher returns a multi-line searcher over text for the installed
// pattern.
func (e *Engine) Searcher(text linebuf.Text) (*Searcher, error) {
	rec := e.Recognizer()
	if rec == nil {
		return nil, ErrNoPattern
	}
	return NewSearcher(rec, text), nil
}

// Stats returns a snapshot of the cache slot counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Compiles:  atomic.LoadUint64(&e.stats.Compiles),
		CacheHits: atomic.LoadUint64(&e.stats.CacheHits),
		Builds:    atomic.LoadUint64(&e.stats.Builds),
		Failures:  atomic.LoadUint64(&e.stats.Failures),
	}
}
