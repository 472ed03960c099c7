package linebuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/edpat/alphabet"
)

func TestBuffer_Lines(t *testing.T) {
	b := New("first\nsecond\r\nthird\n")

	require.Equal(t, 3, b.Len())
	assert.Equal(t, LineID(0), b.First())
	assert.Equal(t, "second", b.Line(1))
	assert.Equal(t, 6, b.UsedLength(1))

	next, ok := b.NextLine(0)
	assert.True(t, ok)
	assert.Equal(t, LineID(1), next)

	_, ok = b.NextLine(2)
	assert.False(t, ok)

	prev, ok := b.PrevLine(2)
	assert.True(t, ok)
	assert.Equal(t, LineID(1), prev)

	_, ok = b.PrevLine(0)
	assert.False(t, ok)

	empty := FromLines()
	assert.Equal(t, NoLine, empty.First())
	assert.Equal(t, 1, New("").Len())
}

func TestBuffer_Char(t *testing.T) {
	b := FromLines("abc")

	assert.Equal(t, byte('a'), b.Char(0, 1))
	assert.Equal(t, byte('c'), b.Char(0, 3))
	assert.Equal(t, byte(' '), b.Char(0, 4), "beyond the used length reads as space")
	assert.Equal(t, byte(' '), b.Char(0, 0))
	assert.Equal(t, byte(' '), b.Char(5, 1))
}

func TestBuffer_Marks(t *testing.T) {
	b := FromLines("one", "two")

	require.NoError(t, b.SetMark(Mark3, 1, 2))
	require.NoError(t, b.SetMark(MarkEquals, 1, 1))
	require.NoError(t, b.SetMark(Mark1, 0, 1))

	assert.Equal(t, []Mark{{ID: MarkEquals, Col: 1}, {ID: Mark3, Col: 2}}, b.MarksOn(1))
	assert.Equal(t, []Mark{{ID: Mark1, Col: 1}}, b.MarksOn(0))

	line, col, ok := b.Mark(Mark3)
	assert.True(t, ok)
	assert.Equal(t, LineID(1), line)
	assert.Equal(t, 2, col)

	b.ClearMark(Mark3)
	_, _, ok = b.Mark(Mark3)
	assert.False(t, ok)

	assert.ErrorIs(t, b.SetMark(Mark2, 7, 1), ErrNoSuchLine)
	assert.ErrorIs(t, b.SetMark(Mark2, 0, 0), ErrBadColumn)
	assert.Error(t, b.SetMark(MarkID(99), 0, 1))
}

func TestBuffer_Margins(t *testing.T) {
	b := FromLines("x")

	left, right := b.Margins()
	assert.Equal(t, 1, left)
	assert.Equal(t, DefaultRightMargin, right)

	require.NoError(t, b.SetMargins(5, 20))
	left, right = b.Margins()
	assert.Equal(t, 5, left)
	assert.Equal(t, 20, right)

	assert.ErrorIs(t, b.SetMargins(10, 10), ErrBadMargins)
}

func TestMarkID_Symbol(t *testing.T) {
	tests := []struct {
		id   MarkID
		want alphabet.Symbol
	}{
		{Mark1, alphabet.Mark1},
		{Mark9, alphabet.Mark9},
		{MarkEquals, alphabet.MarkEquals},
		{MarkModified, alphabet.MarkModified},
		{MarkDot, alphabet.DotColumn},
	}
	for _, tt := range tests {
		got, ok := tt.id.Symbol()
		assert.True(t, ok, tt.id.String())
		assert.Equal(t, tt.want, got, tt.id.String())
	}

	_, ok := MarkID(0).Symbol()
	assert.False(t, ok)
}

// plainText hides Buffer's LineReader to exercise the character fallback.
type plainText struct{ Text }

func TestBytes(t *testing.T) {
	b := FromLines("hello")
	assert.Equal(t, []byte("hello"), Bytes(b, 0))
	assert.Equal(t, []byte("hello"), Bytes(plainText{b}, 0))
}
