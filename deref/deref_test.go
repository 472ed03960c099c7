package deref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/edpat/nfa"
)

func TestSpans(t *testing.T) {
	s := NewSpans()
	require.NoError(t, s.Define("word", `"hello"`))
	require.NoError(t, s.Define("wide", "N+"))
	require.NoError(t, s.Define("x", "abc"))

	assert.Equal(t, 3, s.Len())
	v, ok := s.Lookup("word")
	assert.True(t, ok)
	assert.Equal(t, `"hello"`, v)

	assert.Equal(t, []string{"wide", "word"}, s.Names("w"))
	assert.Equal(t, []string{"wide", "word", "x"}, s.Names(""))

	require.NoError(t, s.Define("x", "xyz"))
	v, _ = s.Lookup("x")
	assert.Equal(t, "xyz", v)

	assert.True(t, s.Undefine("x"))
	assert.False(t, s.Undefine("x"))
	assert.Equal(t, "wide=\"N+\"\nword=\"\\\"hello\\\"\"", s.Dump())

	assert.ErrorIs(t, s.Define("", "v"), ErrBadName)
	assert.ErrorIs(t, s.Define("a$b", "v"), ErrBadName)
}

func TestSpans_Resolve(t *testing.T) {
	s := NewSpans()
	require.NoError(t, s.Define("n", "N"))

	v, err := s.Resolve(nfa.SpanMarker, "n")
	require.NoError(t, err)
	assert.Equal(t, "N", v)

	_, err = s.Resolve(nfa.SpanMarker, "missing")
	assert.ErrorIs(t, err, ErrUndefined)

	_, err = s.Resolve(nfa.TextMarker, "n")
	assert.ErrorIs(t, err, ErrWrongMarker)
}

func TestText(t *testing.T) {
	text := TextFrom(map[string]string{"user": "'root'"})

	v, err := text.Resolve(nfa.TextMarker, "user")
	require.NoError(t, err)
	assert.Equal(t, "'root'", v)

	_, err = text.Resolve(nfa.TextMarker, "home")
	assert.ErrorIs(t, err, ErrUndefined)

	t.Setenv("EDPAT_DEREF_TEST", `"v"`)
	v, err = NewEnv().Resolve(nfa.TextMarker, "EDPAT_DEREF_TEST")
	require.NoError(t, err)
	assert.Equal(t, `"v"`, v)
}

func TestCombine(t *testing.T) {
	spans := NewSpans()
	require.NoError(t, spans.Define("digits", "N+"))
	r := Combine(spans, TextFrom(map[string]string{"sep": `"-"`}))

	v, err := r.Resolve(nfa.SpanMarker, "digits")
	require.NoError(t, err)
	assert.Equal(t, "N+", v)

	v, err = r.Resolve(nfa.TextMarker, "sep")
	require.NoError(t, err)
	assert.Equal(t, `"-"`, v)

	_, err = Combine(spans, nil).Resolve(nfa.TextMarker, "sep")
	assert.ErrorIs(t, err, ErrUndefined)

	n, err := nfa.NewCompiler(nfa.DefaultCompilerConfig(), r).CompileBody(`$digits$&sep&$digits$`)
	require.NoError(t, err)
	assert.Contains(t, n.Definition().Text(), "(N+)")
	assert.NotContains(t, n.Definition().Text(), "$")
}
