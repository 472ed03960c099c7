// Package linebuf describes the line-structured text the recognizer runs
// over and provides a simple in-memory implementation.
//
// Columns are 1-based. A line's used length is the number of stored
// characters; columns beyond it read as spaces.
package linebuf

import (
	"fmt"

	"github.com/coregx/edpat/alphabet"
)

// LineID identifies a line within a Text.
type LineID int

// NoLine is returned where no line exists.
const NoLine LineID = -1

// MarkID names a mark that can be tested by a pattern.
type MarkID uint8

const (
	Mark1 MarkID = iota + 1
	Mark2
	Mark3
	Mark4
	Mark5
	Mark6
	Mark7
	Mark8
	Mark9

	// MarkEquals is the "=" mark: the start of the last matched or inserted text.
	MarkEquals

	// MarkModified is the "%" mark: the position of the last modification.
	MarkModified

	// MarkDot is the editing cursor; patterns test its column with ^.
	MarkDot
)

// Symbol returns the pseudo-symbol a mark at the current column offers.
func (m MarkID) Symbol() (alphabet.Symbol, bool) {
	switch {
	case m >= Mark1 && m <= Mark9:
		return alphabet.NumberedMark(int(m))
	case m == MarkEquals:
		return alphabet.MarkEquals, true
	case m == MarkModified:
		return alphabet.MarkModified, true
	case m == MarkDot:
		return alphabet.DotColumn, true
	}
	return 0, false
}

func (m MarkID) String() string {
	switch {
	case m >= Mark1 && m <= Mark9:
		return fmt.Sprintf("@%d", int(m))
	case m == MarkEquals:
		return "="
	case m == MarkModified:
		return "%"
	case m == MarkDot:
		return "dot"
	}
	return fmt.Sprintf("MarkID(%d)", m)
}

// Mark is a mark located on a line.
type Mark struct {
	ID  MarkID
	Col int
}

// Text is the view of an editor buffer that recognition needs.
type Text interface {
	// Char returns the character at col, or a space beyond the used length.
	Char(line LineID, col int) byte

	// UsedLength returns the number of characters stored on line.
	UsedLength(line LineID) int

	// NextLine and PrevLine walk the line list. ok is false at either end.
	NextLine(line LineID) (next LineID, ok bool)
	PrevLine(line LineID) (prev LineID, ok bool)

	// MarksOn lists the marks located on line.
	MarksOn(line LineID) []Mark

	// Margins returns the left and right margin columns.
	Margins() (left, right int)
}

// LineReader is implemented by Texts that can expose a line's stored bytes
// without copying character by character.
type LineReader interface {
	LineBytes(line LineID) []byte
}

// Bytes returns the stored characters of line. The result must not be
// modified.
func Bytes(t Text, line LineID) []byte {
	if lr, ok := t.(LineReader); ok {
		return lr.LineBytes(line)
	}
	n := t.UsedLength(line)
	out := make([]byte, n)
	for col := 1; col <= n; col++ {
		out[col-1] = t.Char(line, col)
	}
	return out
}
