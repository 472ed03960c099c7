package alphabet

import "testing"

func TestAcceptSetBasic(t *testing.T) {
	s := Of('a', 'c', LineStart)
	if !s.Contains('a') || !s.Contains('c') || !s.Contains(LineStart) {
		t.Fatalf("Of(a, c, <) = %v, missing members", s)
	}
	if s.Contains('b') || s.Contains(LineEnd) {
		t.Errorf("Of(a, c, <) = %v, unexpected members", s)
	}
	if got := s.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if !(AcceptSet{}).IsEmpty() {
		t.Error("zero AcceptSet should be empty")
	}
}

func TestAcceptSetAlgebra(t *testing.T) {
	az := Range('a', 'z')
	mz := Range('m', 'z')

	tests := []struct {
		name string
		got  AcceptSet
		want AcceptSet
	}{
		{"union", Range('a', 'f').Union(Range('g', 'z')), az},
		{"intersect", az.Intersect(Range('k', 'p')), Range('m', 'p').Union(Range('k', 'l'))},
		{"difference", az.Difference(mz), Range('a', 'l')},
		{"complement twice", az.Complement().Complement(), az},
		{"inverted range", Range('z', 'a'), AcceptSet{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestAcceptSetNegateStaysInPrintableRange(t *testing.T) {
	n := Range('0', '9').Negate()
	if n.Contains('5') {
		t.Error("negated numeric contains '5'")
	}
	if !n.Contains('x') || !n.Contains(' ') || !n.Contains('~') {
		t.Error("negated numeric misses printable characters")
	}
	if n.Contains('\t') || n.Contains(0x80) {
		t.Error("negation leaked outside the printable range")
	}
	if n.HasPseudo() {
		t.Error("negation produced pseudo-symbols")
	}
}

func TestAcceptSetComplementCoversPseudo(t *testing.T) {
	c := Printable().Complement()
	for _, sym := range Pseudo() {
		if !c.Contains(sym) {
			t.Errorf("complement misses %v", sym)
		}
	}
	if got := All().Len(); got != Size {
		t.Errorf("All().Len() = %d, want %d", got, Size)
	}
}

func TestAcceptSetSingle(t *testing.T) {
	if sym, ok := Of(Mark3).Single(); !ok || sym != Mark3 {
		t.Errorf("Single() = %v, %v; want @3, true", sym, ok)
	}
	if _, ok := Of('a', 'b').Single(); ok {
		t.Error("Single() on two members should fail")
	}
}

func TestAcceptSetWordsRoundTrip(t *testing.T) {
	s := Range('A', 'Z').Add(MarkModified).Add(0)
	if got := FromWords(s.Words()); got != s {
		t.Errorf("FromWords(Words()) = %v, want %v", got, s)
	}
}

func TestClassFor(t *testing.T) {
	tests := []struct {
		letter byte
		want   Class
	}{
		{'s', ClassSpace}, {'S', ClassSpace},
		{'c', ClassPrintable}, {'a', ClassAlpha}, {'A', ClassAlpha},
		{'l', ClassLower}, {'u', ClassUpper}, {'N', ClassNumeric}, {'p', ClassPunctuation},
	}
	for _, tt := range tests {
		got, ok := ClassFor(tt.letter)
		if !ok || got != tt.want {
			t.Errorf("ClassFor(%q) = %v, %v; want %v", tt.letter, got, ok, tt.want)
		}
	}
	if _, ok := ClassFor('x'); ok {
		t.Error("ClassFor('x') should fail")
	}
}

func TestPunctuationClass(t *testing.T) {
	p := ClassPunctuation.Set()
	for _, c := range []byte("!,.;:?-_~") {
		if !p.Contains(Char(c)) {
			t.Errorf("punctuation misses %q", c)
		}
	}
	for _, c := range []byte("aZ5 ") {
		if p.Contains(Char(c)) {
			t.Errorf("punctuation contains %q", c)
		}
	}
}

func TestFoldCase(t *testing.T) {
	if got := FoldCase('q'); got != Of('q', 'Q') {
		t.Errorf("FoldCase('q') = %v", got)
	}
	if got := FoldCase('7'); got != Of('7') {
		t.Errorf("FoldCase('7') = %v", got)
	}
}

func TestNumberedMark(t *testing.T) {
	if s, ok := NumberedMark(9); !ok || s != Mark9 {
		t.Errorf("NumberedMark(9) = %v, %v", s, ok)
	}
	for _, n := range []int{0, 10, -1} {
		if _, ok := NumberedMark(n); ok {
			t.Errorf("NumberedMark(%d) should fail", n)
		}
	}
	if Mark4.String() != "@4" {
		t.Errorf("Mark4.String() = %q", Mark4.String())
	}
}
