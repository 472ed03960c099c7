package diag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func TestLogReport(t *testing.T) {
	l := NewLog(10)
	l.now = fixedClock()

	l.Report(IllegalSymbol, "at 3")
	l.Report(AutomatonTooComplex, "")
	l.Report(NullPattern, "")

	require.Equal(t, 3, l.Len())
	assert.Equal(t, []string{CategoryBuild, CategoryCompile}, l.Categories())

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, IllegalSymbol, entries[0].Code)
	assert.Equal(t, AutomatonTooComplex, entries[1].Code)
	assert.Equal(t, NullPattern, entries[2].Code)
	assert.Contains(t, l.String(), "compile: illegal symbol in pattern: at 3")
}

func TestLogBoundedPerCategory(t *testing.T) {
	l := NewLog(2)
	l.now = fixedClock()

	l.Report(IllegalSymbol, "1")
	l.Report(PrematureEnd, "2")
	l.Report(MalformedRange, "3")
	l.Report(Cancelled, "4")

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "2", entries[0].Detail)
	assert.Equal(t, "3", entries[1].Detail)
	assert.Equal(t, "4", entries[2].Detail)

	l.Clear()
	assert.Zero(t, l.Len())
}

func TestCodeStrings(t *testing.T) {
	assert.Equal(t, "null pattern", NullPattern.String())
	assert.Equal(t, CategoryBuild, Cancelled.Category())
	assert.Equal(t, CategoryCompile, UndefinedSet.Category())
	assert.Equal(t, "Code(200)", Code(200).String())
}

func TestSinkFunc(t *testing.T) {
	var got []Code
	s := SinkFunc(func(c Code, _ string) { got = append(got, c) })
	s.Report(TextDerefError, "")
	Discard.Report(TextDerefError, "")
	assert.Equal(t, []Code{TextDerefError}, got)
}
