package alphabet

// Class identifies one of the predefined character classes.
type Class uint8

const (
	ClassSpace Class = iota
	ClassPrintable
	ClassAlpha
	ClassLower
	ClassUpper
	ClassNumeric
	ClassPunctuation
)

var classSets = [...]AcceptSet{
	ClassSpace:       Of(' '),
	ClassPrintable:   Printable(),
	ClassAlpha:       Range('a', 'z').AddRange('A', 'Z'),
	ClassLower:       Range('a', 'z'),
	ClassUpper:       Range('A', 'Z'),
	ClassNumeric:     Range('0', '9'),
	ClassPunctuation: Printable().Difference(Range('a', 'z').AddRange('A', 'Z').AddRange('0', '9').Add(' ')),
}

// ClassFor maps a class selector letter to its class. Selectors are
// case-insensitive: s c a l u n p.
func ClassFor(letter byte) (Class, bool) {
	switch letter | 0x20 {
	case 's':
		return ClassSpace, true
	case 'c':
		return ClassPrintable, true
	case 'a':
		return ClassAlpha, true
	case 'l':
		return ClassLower, true
	case 'u':
		return ClassUpper, true
	case 'n':
		return ClassNumeric, true
	case 'p':
		return ClassPunctuation, true
	}
	return 0, false
}

// Set returns the characters of the class.
func (c Class) Set() AcceptSet {
	if int(c) >= len(classSets) {
		return AcceptSet{}
	}
	return classSets[c]
}

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassSpace:
		return "space"
	case ClassPrintable:
		return "printable"
	case ClassAlpha:
		return "alpha"
	case ClassLower:
		return "lower"
	case ClassUpper:
		return "upper"
	case ClassNumeric:
		return "numeric"
	case ClassPunctuation:
		return "punctuation"
	}
	return "unknown"
}

// FoldCase returns the set accepting both cases of a letter, or just c for
// any other character.
func FoldCase(c byte) AcceptSet {
	switch {
	case c >= 'a' && c <= 'z':
		return Of(Char(c), Char(c-'a'+'A'))
	case c >= 'A' && c <= 'Z':
		return Of(Char(c), Char(c-'A'+'a'))
	}
	return Of(Char(c))
}
