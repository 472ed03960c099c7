package meta

import (
	"context"

	"github.com/coregx/edpat/linebuf"
)

// Location is a match found by a Searcher.
type Location struct {
	Line   linebuf.LineID
	Start  int
	Finish int
}

// Searcher repeats a forward search over the lines of a text, the way a
// GET command with a count walks the buffer.
type Searcher struct {
	rec  *Recognizer
	text linebuf.Text
}

// NewSearcher creates a searcher running rec over text.
func NewSearcher(rec *Recognizer, text linebuf.Text) *Searcher {
	return &Searcher{rec: rec, text: text}
}

// Find returns the first match at or after (line, col), moving to the
// start of following lines as needed. A column past the end of a line
// moves straight to the next one. ctx is checked once per line.
func (s *Searcher) Find(ctx context.Context, line linebuf.LineID, col int, markFlag bool) (Location, bool, error) {
	for line != linebuf.NoLine {
		if err := ctx.Err(); err != nil {
			return Location{}, false, err
		}
		if col <= s.text.UsedLength(line)+1 {
			if m := s.rec.Find(s.text, line, col, markFlag); m.Found {
				return Location{Line: line, Start: m.Start, Finish: m.Finish}, true, nil
			}
		}
		next, ok := s.text.NextLine(line)
		if !ok {
			break
		}
		line, col, markFlag = next, 1, false
	}
	return Location{}, false, nil
}

// Next returns the match after prev. The search resumes at the end of
// prev with positional symbols suppressed there; after an empty match it
// resumes one column further so that the same position is not reported
// twice.
func (s *Searcher) Next(ctx context.Context, prev Location) (Location, bool, error) {
	if prev.Finish > prev.Start {
		return s.Find(ctx, prev.Line, prev.Finish, true)
	}
	return s.Find(ctx, prev.Line, prev.Finish+1, false)
}

// FindN returns the count-th match at or after (line, col). found is false
// when the text holds fewer matches.
func (s *Searcher) FindN(ctx context.Context, line linebuf.LineID, col, count int) (loc Location, found bool, err error) {
	if count < 1 {
		count = 1
	}
	loc, found, err = s.Find(ctx, line, col, false)
	for i := 1; i < count && found && err == nil; i++ {
		loc, found, err = s.Next(ctx, loc)
	}
	return loc, found, err
}

// All returns up to limit matches at or after (line, col) in text order.
// A non-positive limit returns every match.
func (s *Searcher) All(ctx context.Context, line linebuf.LineID, col, limit int) ([]Location, error) {
	var out []Location
	loc, found, err := s.Find(ctx, line, col, false)
	for found && err == nil {
		out = append(out, loc)
		if limit > 0 && len(out) >= limit {
			break
		}
		loc, found, err = s.Next(ctx, loc)
	}
	return out, err
}
