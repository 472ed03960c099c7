// Package edpat provides the pattern engine of a line-oriented text editor.
//
// Patterns are written in the editor's own language rather than as regular
// expressions. A pattern is usually delimited by its first character and
// consists of terms:
//
//	"abc"       exact literal
//	'abc'       literal matching letters in either case
//	n+ a* s3    classes (space, printable, alpha, lower, upper, numeric,
//	            punctuation) with repeat counts
//	D/a..f/     user-defined set
//	< > { } ^   line start, line end, margins, dot column
//	@1 = %      marks
//	x,y,z       left context, match body, right context
//
// Basic usage:
//
//	p, err := edpat.Compile(`/'error' s* ":"/`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(p.FindString("Error : disk full")) // "Error :"
//
// Matching is leftmost, then longest. Only the match body of a pattern with
// context sections is reported:
//
//	p := edpat.MustCompile(`/"(", n+, ")"/`)
//	fmt.Println(p.FindString("call(42)")) // "42"
//
// The editor-facing API, which works on a mutable buffer with marks and
// margins, lives in package meta.
package edpat

import (
	"context"
	"strings"

	"github.com/coregx/edpat/linebuf"
	"github.com/coregx/edpat/meta"
	"github.com/coregx/edpat/nfa"
)

// Pattern is a compiled pattern. It is safe for concurrent use.
type Pattern struct {
	engine *meta.Engine
	source string
}

// Compile compiles delimited pattern source such as /"abc"/.
func Compile(src string) (*Pattern, error) {
	return CompileWithConfig(src, meta.DefaultConfig(), nil)
}

// CompileBody compiles an undelimited pattern body such as "abc".
func CompileBody(body string) (*Pattern, error) {
	e, err := meta.NewEngine(meta.DefaultConfig(), nil, nil)
	if err != nil {
		return nil, err
	}
	if err := e.CompileBody(context.Background(), body); err != nil {
		return nil, err
	}
	return &Pattern{engine: e, source: body}, nil
}

// CompileWithConfig compiles delimited pattern source with explicit budgets.
// resolver serves $span$ and &text& references and may be nil.
func CompileWithConfig(src string, config meta.Config, resolver nfa.Resolver) (*Pattern, error) {
	e, err := meta.NewEngine(config, resolver, nil)
	if err != nil {
		return nil, err
	}
	if err := e.Compile(context.Background(), src); err != nil {
		return nil, err
	}
	return &Pattern{engine: e, source: src}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
// It simplifies safe initialization of global variables holding patterns.
func MustCompile(src string) *Pattern {
	p, err := Compile(src)
	if err != nil {
		panic(`edpat: Compile(` + quote(src) + `): ` + err.Error())
	}
	return p
}

func quote(s string) string {
	return "`" + s + "`"
}

// String returns the source text used to compile the pattern.
func (p *Pattern) String() string {
	return p.source
}

// Definition returns the canonical text of the pattern. Two patterns with
// equal definitions match identically.
func (p *Pattern) Definition() string {
	return p.engine.Definition().Text()
}

// Engine returns the underlying engine.
func (p *Pattern) Engine() *meta.Engine {
	return p.engine
}

// Stats returns the recognizer counters.
func (p *Pattern) Stats() meta.Stats {
	return p.engine.Recognizer().Stats()
}

// text wraps s as a buffer and remembers where each line starts in s.
type text struct {
	buf     *linebuf.Buffer
	offsets []int
}

func newText(s string) text {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	offsets := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		offsets[i] = off
		off += len(l) + 1
	}
	return text{buf: linebuf.FromLines(lines...), offsets: offsets}
}

// index converts a match to byte offsets in the original string. A match
// completed through the virtual space past the end of a line ends at the
// line end.
func (t text) index(loc meta.Location) []int {
	n := t.buf.UsedLength(loc.Line)
	base := t.offsets[loc.Line]
	start := min(loc.Start-1, n)
	end := min(loc.Finish-1, n)
	return []int{base + start, base + end}
}

// FindStringIndex returns the byte offsets [start, end) of the leftmost
// match in s, or nil if there is none. A match never spans lines.
func (p *Pattern) FindStringIndex(s string) []int {
	all := p.FindAllStringIndex(s, 1)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// FindString returns the text of the leftmost match in s. An empty string
// is returned both for no match and for an empty match; use
// FindStringIndex to tell them apart.
func (p *Pattern) FindString(s string) string {
	loc := p.FindStringIndex(s)
	if loc == nil {
		return ""
	}
	return s[loc[0]:loc[1]]
}

// MatchString reports whether s contains a match.
func (p *Pattern) MatchString(s string) bool {
	return p.FindStringIndex(s) != nil
}

// FindAllStringIndex returns the offsets of successive matches in s. If n
// is non-negative at most n matches are returned.
func (p *Pattern) FindAllStringIndex(s string, n int) [][]int {
	if n == 0 {
		return nil
	}
	t := newText(s)
	searcher, err := p.engine.Searcher(t.buf)
	if err != nil {
		return nil
	}
	locs, err := searcher.All(context.Background(), t.buf.First(), 1, max(n, 0))
	if err != nil {
		return nil
	}
	out := make([][]int, 0, len(locs))
	for _, loc := range locs {
		out = append(out, t.index(loc))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FindAllString returns the text of successive matches in s. If n is
// non-negative at most n matches are returned.
func (p *Pattern) FindAllString(s string, n int) []string {
	idx := p.FindAllStringIndex(s, n)
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx))
	for i, loc := range idx {
		out[i] = s[loc[0]:loc[1]]
	}
	return out
}

// QuoteLiteral returns an exact literal term matching s, doubling any
// quote inside it.
func QuoteLiteral(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
