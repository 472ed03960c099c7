package nfa

import (
	"fmt"
	"strings"

	"github.com/coregx/edpat/alphabet"
	"github.com/coregx/edpat/diag"
)

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// MaxStates bounds the NFA arena. Repetition counts multiply the size of
	// their operand, so this is the main defence against huge patterns.
	// Default: 4000
	MaxStates int

	// MaxRecursionDepth limits group nesting during compilation.
	// Default: 100
	MaxRecursionDepth int

	// MaxDerefDepth limits nested $span$ / &text& dereferences.
	// Default: 8
	MaxDerefDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxStates:         4000,
		MaxRecursionDepth: 100,
		MaxDerefDepth:     8,
	}
}

// Compiler compiles pattern source into NFAs.
//
// A Compiler holds no per-pattern state and may be reused.
type Compiler struct {
	config   CompilerConfig
	resolver Resolver
}

// NewCompiler creates a new NFA compiler. A nil resolver makes every
// dereference fail.
func NewCompiler(config CompilerConfig, resolver Resolver) *Compiler {
	def := DefaultCompilerConfig()
	if config.MaxRecursionDepth <= 0 {
		config.MaxRecursionDepth = def.MaxRecursionDepth
	}
	if config.MaxDerefDepth <= 0 {
		config.MaxDerefDepth = def.MaxDerefDepth
	}
	return &Compiler{config: config, resolver: resolver}
}

// NewDefaultCompiler creates a compiler with the default configuration and no resolver.
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig(), nil)
}

// Compile compiles a delimited pattern such as /"abc"|'def'/.
// The first byte of src is the delimiter.
func (c *Compiler) Compile(src string) (*NFA, error) {
	body, err := SplitDelimited(src)
	if err != nil {
		return nil, err
	}
	return c.CompileBody(body)
}

// CompileBody compiles an undelimited pattern body.
func (c *Compiler) CompileBody(body string) (*NFA, error) {
	p := &parser{
		c:   c,
		b:   NewBuilder(c.config.MaxStates),
		src: body,
	}
	return p.parsePattern()
}

// SplitDelimited returns the body of a delimited pattern. The body ends at
// the first delimiter that is not inside a quoted literal, a dereference
// or a set body.
// Anything after the closing delimiter is an illegal symbol.
func SplitDelimited(src string) (string, error) {
	if src == "" {
		return "", &CompileError{Code: diag.NullPattern}
	}
	delim := src[0]
	unmatched := func(pos int) error {
		return &CompileError{Code: diag.UnmatchedDelimiter, Pos: pos, Pattern: src}
	}
	i := 1
	for i < len(src) {
		ch := src[i]
		switch {
		case ch == delim:
			if i+1 != len(src) {
				return "", &CompileError{Code: diag.IllegalSymbol, Pos: i + 1, Pattern: src}
			}
			return src[1:i], nil
		case ch == '"' || ch == '\'':
			j := i + 1
			for {
				k := strings.IndexByte(src[j:], ch)
				if k < 0 {
					return "", unmatched(i)
				}
				j += k + 1
				if j < len(src) && src[j] == ch {
					j++
					continue
				}
				break
			}
			i = j
		case ch == SpanMarker || ch == TextMarker:
			k := strings.IndexByte(src[i+1:], ch)
			if k < 0 {
				return "", unmatched(i)
			}
			i += 1 + k + 1
		case (ch == 'D' || ch == 'd') && i+1 < len(src) && src[i+1] != delim:
			sd := src[i+1]
			k := strings.IndexByte(src[i+2:], sd)
			if k < 0 {
				return "", unmatched(i)
			}
			i += 2 + k + 1
		default:
			i++
		}
	}
	return "", unmatched(0)
}

// parser is the mutable state threaded through the recursive descent.
type parser struct {
	c      *Compiler
	b      *Builder
	src    string
	pos    int
	def    []byte
	depth  int
	derefs int
}

func (p *parser) fail(code diag.Code) error {
	return &CompileError{Code: code, Pos: p.pos, Pattern: p.src}
}

func (p *parser) failf(code diag.Code, format string, args ...any) error {
	return &CompileError{Code: code, Pos: p.pos, Pattern: p.src, Err: fmt.Errorf(format, args...)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) skipBlanks() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) emit(b ...byte) {
	p.def = append(p.def, b...)
}

func (p *parser) emitString(s string) {
	p.def = append(p.def, s...)
}

func (p *parser) epsilon() (StateID, error) {
	return p.b.AddEpsilon(NullState, NullState)
}

// parsePattern parses up to three comma-separated sections and links them
// between the four boundary states.
func (p *parser) parsePattern() (*NFA, error) {
	p.skipBlanks()
	if p.eof() {
		return nil, p.fail(diag.NullPattern)
	}

	type fragment struct {
		start, end StateID
		from, to   StateID
	}
	var frags []fragment
	for {
		from := p.b.Next()
		start, end, err := p.parseCompound()
		if err != nil {
			return nil, err
		}
		frags = append(frags, fragment{start: start, end: end, from: from, to: p.b.Next()})

		p.skipBlanks()
		if p.eof() {
			break
		}
		if p.src[p.pos] != ',' || len(frags) == 3 {
			return nil, p.fail(diag.IllegalSymbol)
		}
		p.pos++
		p.emit(',')
	}

	var left, middle, right *fragment
	switch len(frags) {
	case 1:
		middle = &frags[0]
	case 2:
		left, middle = &frags[0], &frags[1]
	case 3:
		left, middle, right = &frags[0], &frags[1], &frags[2]
	}
	if left != nil {
		p.b.SetSectionRange(left.from, left.to, SectionLeft)
	}
	p.b.SetSectionRange(middle.from, middle.to, SectionMiddle)
	if right != nil {
		p.b.SetSectionRange(right.from, right.to, SectionRight)
	}

	var bounds Boundaries
	var err error
	p.b.SetSection(SectionLeft)
	if bounds.Start, err = p.epsilon(); err != nil {
		return nil, err
	}
	p.b.SetSection(SectionMiddle)
	if bounds.LeftEnd, err = p.epsilon(); err != nil {
		return nil, err
	}
	p.b.SetSection(SectionRight)
	if bounds.MiddleEnd, err = p.epsilon(); err != nil {
		return nil, err
	}
	if bounds.Final, err = p.epsilon(); err != nil {
		return nil, err
	}

	link := func(from StateID, f *fragment, to StateID) error {
		if f == nil {
			return p.b.Patch(from, to)
		}
		if err := p.b.Patch(from, f.start); err != nil {
			return err
		}
		return p.b.Patch(f.end, to)
	}
	if err := link(bounds.Start, left, bounds.LeftEnd); err != nil {
		return nil, err
	}
	if err := link(bounds.LeftEnd, middle, bounds.MiddleEnd); err != nil {
		return nil, err
	}
	if err := link(bounds.MiddleEnd, right, bounds.Final); err != nil {
		return nil, err
	}

	return p.b.Build(bounds, len(frags), NewDefinition(string(p.def)))
}

// parseCompound parses alternatives separated by '|'.
// Returns (start, end) state IDs for the compiled fragment; end is an
// unlinked epsilon state.
func (p *parser) parseCompound() (start, end StateID, err error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.c.config.MaxRecursionDepth {
		return NullState, NullState, p.failf(diag.PatternTooComplex, "nesting deeper than %d", p.c.config.MaxRecursionDepth)
	}

	type alt struct{ start, end StateID }
	var alts []alt
	for {
		s, e, err := p.parseSequence()
		if err != nil {
			return NullState, NullState, err
		}
		alts = append(alts, alt{s, e})
		p.skipBlanks()
		if !p.eof() && p.src[p.pos] == '|' {
			p.pos++
			p.emit('|')
			continue
		}
		break
	}
	if len(alts) == 1 {
		return alts[0].start, alts[0].end, nil
	}

	join, err := p.epsilon()
	if err != nil {
		return NullState, NullState, err
	}
	entry := alts[len(alts)-1].start
	for i := len(alts) - 2; i >= 0; i-- {
		if entry, err = p.b.AddEpsilon(alts[i].start, entry); err != nil {
			return NullState, NullState, err
		}
	}
	for _, a := range alts {
		if err := p.b.Patch(a.end, join); err != nil {
			return NullState, NullState, err
		}
	}
	return entry, join, nil
}

// parseSequence parses terms up to the next ',', '|', ')' or the end.
func (p *parser) parseSequence() (start, end StateID, err error) {
	for {
		p.skipBlanks()
		if p.eof() {
			break
		}
		if ch := p.src[p.pos]; ch == ',' || ch == '|' || ch == ')' {
			break
		}
		s, e, err := p.parseTerm()
		if err != nil {
			return NullState, NullState, err
		}
		if start == NullState {
			start, end = s, e
			continue
		}
		if err := p.b.Patch(end, s); err != nil {
			return NullState, NullState, err
		}
		end = e
	}
	if start == NullState {
		e, err := p.epsilon()
		return e, e, err
	}
	return start, end, nil
}

// parseTerm parses one term with its optional negation prefix and
// repetition suffixes.
func (p *parser) parseTerm() (start, end StateID, err error) {
	negate := false
	if p.src[p.pos] == '-' {
		negate = true
		p.pos++
		p.emit('-')
		p.skipBlanks()
		if p.eof() {
			return NullState, NullState, p.fail(diag.PrematureEnd)
		}
	}

	ch := p.src[p.pos]
	class, isClass := alphabet.ClassFor(ch)
	switch {
	case ch == '"' || ch == '\'':
		if negate {
			return NullState, NullState, p.fail(diag.IllegalSymbol)
		}
		start, end, err = p.parseLiteral()

	case ch == '(':
		if negate {
			return NullState, NullState, p.fail(diag.IllegalSymbol)
		}
		p.pos++
		p.emit('(')
		if start, end, err = p.parseCompound(); err != nil {
			return NullState, NullState, err
		}
		p.skipBlanks()
		if p.eof() {
			return NullState, NullState, p.fail(diag.PrematureEnd)
		}
		if p.src[p.pos] != ')' {
			return NullState, NullState, p.fail(diag.IllegalSymbol)
		}
		p.pos++
		p.emit(')')

	case ch == 'D' || ch == 'd':
		var set alphabet.AcceptSet
		if set, err = p.parseSet(); err != nil {
			return NullState, NullState, err
		}
		if negate {
			set = set.Negate()
		}
		start, end, err = p.consuming(set)

	case isClass:
		p.pos++
		p.emit(ch)
		set := class.Set()
		if negate {
			set = set.Negate()
		}
		start, end, err = p.consuming(set)

	case ch == SpanMarker || ch == TextMarker:
		if negate {
			return NullState, NullState, p.fail(diag.IllegalSymbol)
		}
		start, end, err = p.parseDeref(ch)

	default:
		sym, ok, perr := p.parsePosition()
		if perr != nil {
			return NullState, NullState, perr
		}
		if !ok || negate {
			return NullState, NullState, p.fail(diag.IllegalSymbol)
		}
		start, end, err = p.consuming(alphabet.Of(sym))
	}
	if err != nil {
		return NullState, NullState, err
	}
	return p.parseRepeats(start, end)
}

// parsePosition parses an anchor or mark reference. ok is false when the
// current byte does not start one.
func (p *parser) parsePosition() (sym alphabet.Symbol, ok bool, err error) {
	ch := p.src[p.pos]
	switch ch {
	case '<':
		sym = alphabet.LineStart
	case '>':
		sym = alphabet.LineEnd
	case '{':
		sym = alphabet.LeftMargin
	case '}':
		sym = alphabet.RightMargin
	case '^':
		sym = alphabet.DotColumn
	case '=':
		sym = alphabet.MarkEquals
	case '%':
		sym = alphabet.MarkModified
	case '@':
		p.pos++
		if p.eof() {
			return 0, false, p.fail(diag.PrematureEnd)
		}
		d := p.src[p.pos]
		if d < '0' || d > '9' {
			return 0, false, p.fail(diag.IllegalMarkNumber)
		}
		if sym, ok = alphabet.NumberedMark(int(d - '0')); !ok {
			return 0, false, p.fail(diag.IllegalMarkNumber)
		}
		p.pos++
		p.emit('@', d)
		return sym, true, nil
	default:
		return 0, false, nil
	}
	p.pos++
	p.emit(ch)
	return sym, true, nil
}

// consuming builds a single consuming state, or the fail sentinel when the
// set can never be satisfied.
func (p *parser) consuming(set alphabet.AcceptSet) (start, end StateID, err error) {
	if set.IsEmpty() {
		if start, err = p.b.AddFail(); err != nil {
			return NullState, NullState, err
		}
		end, err = p.epsilon()
		return start, end, err
	}
	if end, err = p.epsilon(); err != nil {
		return NullState, NullState, err
	}
	start, err = p.b.AddConsume(set, end)
	return start, end, err
}

// parseLiteral parses "exact" or 'case-insensitive' text. A doubled quote
// stands for one quote character.
func (p *parser) parseLiteral() (start, end StateID, err error) {
	q := p.src[p.pos]
	open := p.pos
	p.pos++

	var content []byte
	closed := false
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		p.pos++
		if ch == q {
			if p.pos < len(p.src) && p.src[p.pos] == q {
				content = append(content, q)
				p.pos++
				continue
			}
			closed = true
			break
		}
		content = append(content, ch)
	}
	if !closed {
		p.pos = open
		return NullState, NullState, p.fail(diag.UnmatchedDelimiter)
	}

	text := string(content)
	if marker, name, ok := derefName(text); ok {
		if text, err = p.resolve(marker, name, derefCode(marker)); err != nil {
			return NullState, NullState, err
		}
	}

	// A literal right after one closed by the same quote would read back
	// as a doubled quote.
	if n := len(p.def); n > 0 && p.def[n-1] == q {
		p.emit(' ')
	}
	p.emit(q)
	p.emitString(strings.ReplaceAll(text, string(q), string([]byte{q, q})))
	p.emit(q)

	if end, err = p.epsilon(); err != nil {
		return NullState, NullState, err
	}
	next := end
	for i := len(text) - 1; i >= 0; i-- {
		set := alphabet.Of(alphabet.Char(text[i]))
		if q == '\'' {
			set = alphabet.FoldCase(text[i])
		}
		if next, err = p.b.AddConsume(set, next); err != nil {
			return NullState, NullState, err
		}
	}
	return next, end, nil
}

// derefName reports whether literal text is entirely a dereference such as
// $name$. Text that opens with a marker but does not close with it is plain
// literal text.
func derefName(text string) (marker byte, name string, ok bool) {
	if len(text) < 3 {
		return 0, "", false
	}
	marker = text[0]
	if marker != SpanMarker && marker != TextMarker {
		return 0, "", false
	}
	if text[len(text)-1] != marker {
		return 0, "", false
	}
	name = text[1 : len(text)-1]
	if strings.IndexByte(name, marker) >= 0 {
		return 0, "", false
	}
	return marker, name, true
}

func derefCode(marker byte) diag.Code {
	if marker == TextMarker {
		return diag.TextDerefError
	}
	return diag.SpanDerefError
}

// resolve asks the resolver for a dereferenced value. Failures carry code.
func (p *parser) resolve(marker byte, name string, code diag.Code) (string, error) {
	if p.c.resolver == nil {
		return "", p.failf(code, "cannot resolve %c%s%c: no resolver", marker, name, marker)
	}
	text, err := p.c.resolver.Resolve(marker, name)
	if err != nil {
		return "", &CompileError{Code: code, Pos: p.pos, Pattern: p.src, Err: err}
	}
	return text, nil
}

// parseDeref parses $name$ or &name& as a term: the resolved text is
// compiled in place as a parenthesised sub-pattern.
func (p *parser) parseDeref(marker byte) (start, end StateID, err error) {
	open := p.pos
	p.pos++
	k := strings.IndexByte(p.src[p.pos:], marker)
	if k < 0 {
		p.pos = open
		return NullState, NullState, p.fail(diag.UnmatchedDelimiter)
	}
	name := p.src[p.pos : p.pos+k]
	p.pos += k + 1

	if p.derefs >= p.c.config.MaxDerefDepth {
		return NullState, NullState, p.failf(diag.PatternTooComplex, "dereferences nested deeper than %d", p.c.config.MaxDerefDepth)
	}
	code := derefCode(marker)
	text, err := p.resolve(marker, name, code)
	if err != nil {
		return NullState, NullState, err
	}

	savedSrc, savedPos := p.src, p.pos
	p.src, p.pos = text, 0
	p.derefs++
	p.emit('(')
	start, end, err = p.parseCompound()
	if err == nil {
		p.skipBlanks()
		if !p.eof() {
			err = p.fail(diag.IllegalSymbol)
		}
	}
	p.derefs--
	p.src, p.pos = savedSrc, savedPos
	if err != nil {
		if ce, ok := err.(*CompileError); ok && ce.Code == diag.PatternTooComplex {
			return NullState, NullState, err
		}
		return NullState, NullState, &CompileError{Code: code, Pos: open, Pattern: p.src, Err: err}
	}
	p.emit(')')
	return start, end, nil
}

// setDelimiters are tried in order when a dereferenced set body is inlined
// into the definition.
const setDelimiters = "/|!#:;~\"'"

// parseSet parses D<d>chars<d> (exact) or d<d>chars<d> (letters match both
// cases). Content is characters and x..y ranges; D$name$ takes the content
// from the resolver.
func (p *parser) parseSet() (alphabet.AcceptSet, error) {
	letter := p.src[p.pos]
	p.pos++
	if p.eof() {
		return alphabet.AcceptSet{}, p.fail(diag.PrematureEnd)
	}
	delim := p.src[p.pos]
	open := p.pos
	p.pos++
	k := strings.IndexByte(p.src[p.pos:], delim)
	if k < 0 {
		p.pos = open
		return alphabet.AcceptSet{}, p.fail(diag.UnmatchedDelimiter)
	}
	content := p.src[p.pos : p.pos+k]
	p.pos += k + 1

	if delim == SpanMarker || delim == TextMarker {
		text, err := p.resolve(delim, content, diag.UndefinedSet)
		if err != nil {
			return alphabet.AcceptSet{}, err
		}
		content = text
		delim = SpanMarker
		for i := 0; i < len(setDelimiters); i++ {
			if strings.IndexByte(content, setDelimiters[i]) < 0 {
				delim = setDelimiters[i]
				break
			}
		}
	}
	p.emit(letter, delim)
	p.emitString(content)
	p.emit(delim)

	var set alphabet.AcceptSet
	for i := 0; i < len(content); {
		lo := content[i]
		if i+2 < len(content) && content[i+1] == '.' && content[i+2] == '.' {
			if i+3 >= len(content) {
				return alphabet.AcceptSet{}, p.failf(diag.MalformedRange, "set range %c.. has no upper bound", lo)
			}
			hi := content[i+3]
			if hi < lo {
				return alphabet.AcceptSet{}, p.failf(diag.MalformedRange, "set range %c..%c is inverted", lo, hi)
			}
			set = set.AddRange(lo, hi)
			i += 4
			continue
		}
		set = set.Add(alphabet.Char(lo))
		i++
	}
	if letter == 'd' {
		var folded alphabet.AcceptSet
		for _, sym := range set.Symbols() {
			folded = folded.Union(alphabet.FoldCase(byte(sym)))
		}
		set = folded
	}
	return set, nil
}

// unbounded is the upper repetition bound of *, + and [n,].
const unbounded = -1

// maxCount caps repetition counts when the state budget is disabled.
const maxCount = 1 << 20

// parseRepeats applies every repetition suffix following a term.
func (p *parser) parseRepeats(start, end StateID) (StateID, StateID, error) {
	for {
		p.skipBlanks()
		if p.eof() {
			return start, end, nil
		}
		var lo, hi int
		var err error
		switch ch := p.src[p.pos]; {
		case ch == '*':
			p.pos++
			p.emit('*')
			lo, hi = 0, unbounded
		case ch == '+':
			p.pos++
			p.emit('+')
			lo, hi = 1, unbounded
		case isDigit(ch):
			if lo, err = p.parseCount(); err != nil {
				return NullState, NullState, err
			}
			hi = lo
		case ch == '[':
			if lo, hi, err = p.parseRange(); err != nil {
				return NullState, NullState, err
			}
		default:
			return start, end, nil
		}
		if start, end, err = p.repeat(start, end, lo, hi); err != nil {
			return NullState, NullState, err
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// parseCount parses a decimal count and echoes its digits to the definition.
func (p *parser) parseCount() (int, error) {
	from := p.pos
	n := 0
	for !p.eof() && isDigit(p.src[p.pos]) {
		n = n*10 + int(p.src[p.pos]-'0')
		if n > maxCount {
			return 0, p.failf(diag.PatternTooComplex, "repeat count exceeds %d", maxCount)
		}
		p.pos++
	}
	p.emitString(p.src[from:p.pos])
	return n, nil
}

// parseRange parses [lo,hi]; lo defaults to 0 and an empty hi is unbounded.
func (p *parser) parseRange() (lo, hi int, err error) {
	p.pos++
	p.emit('[')
	p.skipBlanks()
	if !p.eof() && isDigit(p.src[p.pos]) {
		if lo, err = p.parseCount(); err != nil {
			return 0, 0, err
		}
	}
	p.skipBlanks()
	if p.eof() {
		return 0, 0, p.fail(diag.PrematureEnd)
	}
	if p.src[p.pos] != ',' {
		return 0, 0, p.fail(diag.MalformedRange)
	}
	p.pos++
	p.emit(',')
	p.skipBlanks()
	hi = unbounded
	if !p.eof() && isDigit(p.src[p.pos]) {
		if hi, err = p.parseCount(); err != nil {
			return 0, 0, err
		}
	}
	p.skipBlanks()
	if p.eof() {
		return 0, 0, p.fail(diag.PrematureEnd)
	}
	if p.src[p.pos] != ']' {
		return 0, 0, p.fail(diag.MalformedRange)
	}
	p.pos++
	p.emit(']')
	if hi != unbounded && hi < lo {
		return 0, 0, p.failf(diag.MalformedRange, "upper bound %d below lower bound %d", hi, lo)
	}
	return lo, hi, nil
}

// repeat realizes a bounded or unbounded repetition of the fragment
// start..end.
//
// The fragment is duplicated so that max(lo,1) copies run in sequence. An
// unbounded upper limit turns the last copy into a loop whose head is
// flagged indefinite; a finite one appends hi-max(lo,1) nested optional
// copies. A zero lower bound adds a diversion edge around the whole block.
func (p *parser) repeat(start, end StateID, lo, hi int) (StateID, StateID, error) {
	if hi == 0 {
		e, err := p.epsilon()
		return e, e, err
	}
	n := lo
	if n == 0 {
		n = 1
	}
	total := n
	if hi != unbounded {
		total = hi
	}
	if limit := p.c.config.MaxStates; limit > 0 && total > limit {
		return NullState, NullState, p.failf(diag.PatternTooComplex, "repeat count %d exceeds state budget", total)
	}

	type frag struct{ start, end StateID }
	copies := make([]frag, total)
	copies[0] = frag{start, end}
	for i := 1; i < total; i++ {
		s, e, err := p.b.Copy(start, end)
		if err != nil {
			return NullState, NullState, err
		}
		copies[i] = frag{s, e}
	}

	entry, tail := NullState, NullState
	chain := func(s, e StateID) error {
		if entry == NullState {
			entry, tail = s, e
			return nil
		}
		if err := p.b.Patch(tail, s); err != nil {
			return err
		}
		tail = e
		return nil
	}

	for i := 0; i < n-1; i++ {
		if err := chain(copies[i].start, copies[i].end); err != nil {
			return NullState, NullState, err
		}
	}

	last := copies[n-1]
	if hi == unbounded {
		exit, err := p.epsilon()
		if err != nil {
			return NullState, NullState, err
		}
		head, err := p.b.AddEpsilon(last.start, exit)
		if err != nil {
			return NullState, NullState, err
		}
		if err := p.b.SetIndefinite(head); err != nil {
			return NullState, NullState, err
		}
		if err := p.b.Patch(last.end, head); err != nil {
			return NullState, NullState, err
		}
		if err := chain(last.start, exit); err != nil {
			return NullState, NullState, err
		}
	} else {
		if err := chain(last.start, last.end); err != nil {
			return NullState, NullState, err
		}
		if total > n {
			join, err := p.epsilon()
			if err != nil {
				return NullState, NullState, err
			}
			next := join
			for i := total - 1; i >= n; i-- {
				if err := p.b.Patch(copies[i].end, next); err != nil {
					return NullState, NullState, err
				}
				if next, err = p.b.AddEpsilon(copies[i].start, join); err != nil {
					return NullState, NullState, err
				}
			}
			if err := chain(next, join); err != nil {
				return NullState, NullState, err
			}
		}
	}

	if lo == 0 {
		exit, err := p.epsilon()
		if err != nil {
			return NullState, NullState, err
		}
		div, err := p.b.AddEpsilon(entry, exit)
		if err != nil {
			return NullState, NullState, err
		}
		if err := p.b.Patch(tail, exit); err != nil {
			return NullState, NullState, err
		}
		entry, tail = div, exit
	}
	return entry, tail, nil
}
