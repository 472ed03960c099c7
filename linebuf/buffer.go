package linebuf

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultRightMargin is the right margin of a new Buffer.
const DefaultRightMargin = 80

var (
	// ErrNoSuchLine is returned for a LineID outside the buffer.
	ErrNoSuchLine = errors.New("linebuf: no such line")

	// ErrBadColumn is returned for a column below 1.
	ErrBadColumn = errors.New("linebuf: column out of range")

	// ErrBadMargins is returned when the margins are not 1 <= left < right.
	ErrBadMargins = errors.New("linebuf: invalid margins")
)

type position struct {
	line LineID
	col  int
}

// Buffer is an in-memory Text.
type Buffer struct {
	lines [][]byte
	marks map[MarkID]position
	left  int
	right int
}

// New creates a buffer from text, one line per newline-separated segment.
// A trailing newline does not start an extra line.
func New(text string) *Buffer {
	text = strings.TrimSuffix(text, "\n")
	return FromLines(strings.Split(text, "\n")...)
}

// FromLines creates a buffer holding the given lines.
func FromLines(lines ...string) *Buffer {
	b := &Buffer{
		lines: make([][]byte, len(lines)),
		marks: make(map[MarkID]position),
		left:  1,
		right: DefaultRightMargin,
	}
	for i, l := range lines {
		b.lines[i] = []byte(strings.TrimSuffix(l, "\r"))
	}
	return b
}

// Len returns the number of lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// First returns the first line, or NoLine for an empty buffer.
func (b *Buffer) First() LineID {
	if len(b.lines) == 0 {
		return NoLine
	}
	return 0
}

func (b *Buffer) valid(line LineID) bool {
	return line >= 0 && int(line) < len(b.lines)
}

// Line returns the text of line.
func (b *Buffer) Line(line LineID) string {
	if !b.valid(line) {
		return ""
	}
	return string(b.lines[line])
}

// LineBytes implements LineReader.
func (b *Buffer) LineBytes(line LineID) []byte {
	if !b.valid(line) {
		return nil
	}
	return b.lines[line]
}

// Char implements Text.
func (b *Buffer) Char(line LineID, col int) byte {
	if !b.valid(line) || col < 1 || col > len(b.lines[line]) {
		return ' '
	}
	return b.lines[line][col-1]
}

// UsedLength implements Text.
func (b *Buffer) UsedLength(line LineID) int {
	if !b.valid(line) {
		return 0
	}
	return len(b.lines[line])
}

// NextLine implements Text.
func (b *Buffer) NextLine(line LineID) (LineID, bool) {
	if !b.valid(line) || !b.valid(line+1) {
		return NoLine, false
	}
	return line + 1, true
}

// PrevLine implements Text.
func (b *Buffer) PrevLine(line LineID) (LineID, bool) {
	if !b.valid(line) || !b.valid(line-1) {
		return NoLine, false
	}
	return line - 1, true
}

// MarksOn implements Text. Marks are listed by column, then by ID.
func (b *Buffer) MarksOn(line LineID) []Mark {
	var out []Mark
	for id, pos := range b.marks {
		if pos.line == line {
			out = append(out, Mark{ID: id, Col: pos.col})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Col != out[j].Col {
			return out[i].Col < out[j].Col
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Margins implements Text.
func (b *Buffer) Margins() (left, right int) {
	return b.left, b.right
}

// SetMargins sets the margin columns.
func (b *Buffer) SetMargins(left, right int) error {
	if left < 1 || right <= left {
		return fmt.Errorf("%w: left %d, right %d", ErrBadMargins, left, right)
	}
	b.left, b.right = left, right
	return nil
}

// SetMark places mark id at col on line.
func (b *Buffer) SetMark(id MarkID, line LineID, col int) error {
	if !b.valid(line) {
		return fmt.Errorf("%w: %d", ErrNoSuchLine, line)
	}
	if col < 1 {
		return fmt.Errorf("%w: %d", ErrBadColumn, col)
	}
	if _, ok := id.Symbol(); !ok {
		return fmt.Errorf("linebuf: unknown mark %d", id)
	}
	b.marks[id] = position{line: line, col: col}
	return nil
}

// ClearMark removes mark id.
func (b *Buffer) ClearMark(id MarkID) {
	delete(b.marks, id)
}

// Mark returns the position of mark id.
func (b *Buffer) Mark(id MarkID) (line LineID, col int, ok bool) {
	pos, ok := b.marks[id]
	if !ok {
		return NoLine, 0, false
	}
	return pos.line, pos.col, true
}
