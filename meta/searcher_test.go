package meta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/edpat/linebuf"
)

func TestSearcher_All(t *testing.T) {
	e := newEngine(t, DefaultConfig(), `"foo"`)
	buf := linebuf.FromLines("foo bar foo", "nothing", "foo")
	s, err := e.Searcher(buf)
	require.NoError(t, err)

	locs, err := s.All(context.Background(), buf.First(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []Location{
		{Line: 0, Start: 1, Finish: 4},
		{Line: 0, Start: 9, Finish: 12},
		{Line: 2, Start: 1, Finish: 4},
	}, locs)

	locs, err = s.All(context.Background(), buf.First(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []Location{{Line: 0, Start: 9, Finish: 12}}, locs)
}

func TestSearcher_FindN(t *testing.T) {
	e := newEngine(t, DefaultConfig(), `n+`)
	buf := linebuf.FromLines("1 22", "", "333 4")
	s := NewSearcher(e.Recognizer(), buf)
	ctx := context.Background()

	loc, ok, err := s.FindN(ctx, buf.First(), 1, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Location{Line: 2, Start: 1, Finish: 4}, loc)

	_, ok, err = s.FindN(ctx, buf.First(), 1, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearcher_EmptyMatchesAdvance(t *testing.T) {
	e := newEngine(t, DefaultConfig(), `"a"*`)
	buf := linebuf.FromLines("ba")
	s := NewSearcher(e.Recognizer(), buf)

	locs, err := s.All(context.Background(), buf.First(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []Location{
		{Line: 0, Start: 1, Finish: 1},
		{Line: 0, Start: 2, Finish: 3},
		{Line: 0, Start: 3, Finish: 3},
	}, locs)
}

func TestSearcher_LineAnchors(t *testing.T) {
	e := newEngine(t, DefaultConfig(), `<"x"`)
	buf := linebuf.FromLines("x", "ax", "xx")
	s := NewSearcher(e.Recognizer(), buf)

	locs, err := s.All(context.Background(), buf.First(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []Location{
		{Line: 0, Start: 1, Finish: 2},
		{Line: 2, Start: 1, Finish: 2},
	}, locs)
}

func TestSearcher_Cancelled(t *testing.T) {
	e := newEngine(t, DefaultConfig(), `"q"`)
	buf := linebuf.FromLines("a", "b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewSearcher(e.Recognizer(), buf).Find(ctx, buf.First(), 1, false)
	assert.ErrorIs(t, err, context.Canceled)
}
