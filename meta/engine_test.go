package meta

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/edpat/deref"
	"github.com/coregx/edpat/dfa"
	"github.com/coregx/edpat/diag"
	"github.com/coregx/edpat/linebuf"
	"github.com/coregx/edpat/nfa"
)

func TestEngine_CacheHit(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, e.Compile(ctx, `/"abc"/`))
	first := e.Table()
	require.NotNil(t, first)

	// Same definition from different source text.
	require.NoError(t, e.CompileBody(ctx, `  "abc" `))
	assert.Same(t, first, e.Table())

	require.NoError(t, e.Compile(ctx, `!"abc"!`))
	assert.Same(t, first, e.Table())

	st := e.Stats()
	assert.Equal(t, uint64(3), st.Compiles)
	assert.Equal(t, uint64(2), st.CacheHits)
	assert.Equal(t, uint64(1), st.Builds)

	require.NoError(t, e.CompileBody(ctx, `"abd"`))
	assert.NotSame(t, first, e.Table())
	assert.Equal(t, `"abd"`, e.Definition().Text())
}

func TestEngine_QuoteLiteralAndAdjacentLiteralsRebuild(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, e.CompileBody(ctx, `"a""b"`))
	joined := e.Table()
	require.NoError(t, e.CompileBody(ctx, `"a" "b"`))
	assert.NotSame(t, joined, e.Table())

	st := e.Stats()
	assert.Equal(t, uint64(0), st.CacheHits)
	assert.Equal(t, uint64(2), st.Builds)

	m, err := e.Find(linebuf.New("ab"), 0, 1, false)
	require.NoError(t, err)
	assert.Equal(t, found(1, 3), m)
}

func TestEngine_DefinitionsCompareEqual(t *testing.T) {
	c := nfa.NewDefaultCompiler()
	for _, src := range []string{`/"abc","def"/`, `/<n+'x'[1,3]>/`, `/D:a..z:*/`} {
		a, err := c.Compile(src)
		require.NoError(t, err)
		b, err := c.Compile(src)
		require.NoError(t, err)
		assert.True(t, a.Definition().Equal(b.Definition()), src)
	}
}

func TestEngine_CompileErrorKeepsTable(t *testing.T) {
	log := diag.NewLog(16)
	e, err := NewEngine(DefaultConfig(), nil, log)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, e.CompileBody(ctx, `"abc"`))
	installed := e.Table()

	err = e.Compile(ctx, `/"abc"`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, nfa.ErrUnmatchedDelimiter))
	assert.Same(t, installed, e.Table())

	entries := log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, diag.UnmatchedDelimiter, entries[0].Code)
	assert.Equal(t, diag.CategoryCompile, entries[0].Category)

	err = e.CompileBody(ctx, `@0`)
	assert.True(t, errors.Is(err, nfa.ErrIllegalMarkNumber))
	assert.Equal(t, 2, log.Len())
	assert.Equal(t, uint64(2), e.Stats().Failures)

	m, err := e.Find(linebuf.New("xabc"), 0, 1, false)
	require.NoError(t, err)
	assert.Equal(t, found(2, 5), m)
}

func TestEngine_BuildErrors(t *testing.T) {
	var codes []diag.Code
	sink := diag.SinkFunc(func(code diag.Code, _ string) { codes = append(codes, code) })
	e, err := NewEngine(DefaultConfig().WithMaxDFAStates(5), nil, sink)
	require.NoError(t, err)

	err = e.CompileBody(context.Background(), `"abcdefgh"`)
	assert.True(t, errors.Is(err, dfa.ErrStateLimitExceeded))
	assert.Nil(t, e.Table())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = e.CompileBody(ctx, `"a"`)
	assert.True(t, errors.Is(err, dfa.ErrCancelled))
	assert.Nil(t, e.Table())

	assert.Equal(t, []diag.Code{diag.AutomatonTooComplex, diag.Cancelled}, codes)
}

func TestEngine_NoPattern(t *testing.T) {
	e, err := NewEngine(DefaultConfig(), nil, nil)
	require.NoError(t, err)
	buf := linebuf.New("abc")

	_, err = e.Find(buf, buf.First(), 1, false)
	assert.ErrorIs(t, err, ErrNoPattern)
	_, err = e.Match(buf, buf.First(), 1)
	assert.ErrorIs(t, err, ErrNoPattern)
	_, err = e.Searcher(buf)
	assert.ErrorIs(t, err, ErrNoPattern)
	assert.True(t, e.Definition().IsZero())

	require.NoError(t, e.CompileBody(context.Background(), `"b"`))
	e.Reset()
	assert.Nil(t, e.Recognizer())
}

func TestEngine_Match(t *testing.T) {
	e := newEngine(t, DefaultConfig(), `'abc'`)
	buf := linebuf.New("xABCx")

	m, err := e.Match(buf, buf.First(), 2)
	require.NoError(t, err)
	assert.Equal(t, found(2, 5), m)

	m, err = e.Match(buf, buf.First(), 1)
	require.NoError(t, err)
	assert.False(t, m.Found)
}

func TestEngine_Dereference(t *testing.T) {
	spans := deref.NewSpans()
	require.NoError(t, spans.Define("num", "n+"))
	resolver := deref.Combine(spans, deref.TextFrom(map[string]string{"sep": `"-"`}))

	log := diag.NewLog(8)
	e, err := NewEngine(DefaultConfig(), resolver, log)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, e.CompileBody(ctx, `$num$&sep&$num$`))
	m, err := e.Find(linebuf.New("call 555-1234 now"), 0, 1, false)
	require.NoError(t, err)
	assert.Equal(t, found(6, 14), m)

	err = e.CompileBody(ctx, `$missing$`)
	assert.True(t, errors.Is(err, nfa.ErrSpanDeref))
	require.Equal(t, 1, log.Len())
	assert.Equal(t, diag.SpanDerefError, log.Entries()[0].Code)

	// Redefining a span changes the definition, so the table is rebuilt.
	require.NoError(t, spans.Define("num", "n"))
	require.NoError(t, e.CompileBody(ctx, `$num$&sep&$num$`))
	m, err = e.Find(linebuf.New("call 555-1234 now"), 0, 1, false)
	require.NoError(t, err)
	assert.Equal(t, found(8, 11), m)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	_, err := NewEngine(Config{}, nil, nil)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "MaxNFAStates", ce.Field)
}
