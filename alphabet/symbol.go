// Package alphabet defines the extended input alphabet of the pattern engine
// and the AcceptSet bitset used to label automaton transitions.
//
// The alphabet is the 256 byte values of a line followed by a closed set of
// pseudo-symbols. A pseudo-symbol stands for a position rather than a
// character: the start or end of a line, the frame margins, the dot column,
// and the editor marks. The recognizer offers pseudo-symbols at a column
// before it consumes the real character found there.
package alphabet

import "fmt"

// Symbol is one member of the extended alphabet.
// Values 0..255 are real characters, larger values are pseudo-symbols.
type Symbol uint16

// Pseudo-symbols, in the order the recognizer offers them at a column.
const (
	LineStart Symbol = 256 + iota
	LineEnd
	LeftMargin
	RightMargin
	DotColumn
	Mark1
	Mark2
	Mark3
	Mark4
	Mark5
	Mark6
	Mark7
	Mark8
	Mark9
	MarkEquals
	MarkModified
)

const (
	// NumChars is the number of real characters.
	NumChars = 256

	// Size is the number of symbols in the extended alphabet.
	Size = int(MarkModified) + 1

	// FirstPseudo is the first pseudo-symbol.
	FirstPseudo = LineStart

	// PrintableLo and PrintableHi bound the meaningful character range.
	// Negated classes and sets are complemented inside this range only.
	PrintableLo = ' '
	PrintableHi = '~'
)

// Char returns the symbol for a real character.
func Char(c byte) Symbol {
	return Symbol(c)
}

// IsPseudo reports whether s stands for a position rather than a character.
func (s Symbol) IsPseudo() bool {
	return s >= FirstPseudo
}

// NumberedMark returns the pseudo-symbol of mark n (1..9).
// The second result is false when n is out of range.
func NumberedMark(n int) (Symbol, bool) {
	if n < 1 || n > 9 {
		return 0, false
	}
	return Mark1 + Symbol(n-1), true
}

// Pseudo lists every pseudo-symbol in offering order.
func Pseudo() []Symbol {
	out := make([]Symbol, 0, Size-NumChars)
	for s := FirstPseudo; int(s) < Size; s++ {
		out = append(out, s)
	}
	return out
}

// String returns the pattern-language spelling of the symbol.
func (s Symbol) String() string {
	switch s {
	case LineStart:
		return "<"
	case LineEnd:
		return ">"
	case LeftMargin:
		return "{"
	case RightMargin:
		return "}"
	case DotColumn:
		return "^"
	case MarkEquals:
		return "="
	case MarkModified:
		return "%"
	}
	if s >= Mark1 && s <= Mark9 {
		return fmt.Sprintf("@%d", int(s-Mark1)+1)
	}
	if s < NumChars {
		c := byte(s)
		if c >= PrintableLo && c <= PrintableHi {
			return string(rune(c))
		}
		return fmt.Sprintf("\\x%02x", c)
	}
	return fmt.Sprintf("Symbol(%d)", uint16(s))
}
