package meta

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/coregx/edpat/alphabet"
	"github.com/coregx/edpat/dfa"
	"github.com/coregx/edpat/internal/sparse"
	"github.com/coregx/edpat/linebuf"
	"github.com/coregx/edpat/prefilter"
)

// Match is the outcome of one recognition call. Columns are 1-based and
// Finish is the first column after the match body; Start == Finish is an
// empty match. Start and Finish are meaningful only when Found is true.
type Match struct {
	Found  bool
	Start  int
	Finish int
}

// Len returns the width of the match body.
func (m Match) Len() int {
	if !m.Found {
		return 0
	}
	return m.Finish - m.Start
}

// Stats counts recognizer work. All counters are updated atomically, so a
// Recognizer may be shared by concurrent searches.
type Stats struct {
	// Searches counts Find and MatchAt calls.
	Searches uint64

	// Trials counts start columns START was seeded at.
	Trials uint64

	// Steps counts table transitions taken, positional offers included.
	Steps uint64

	// Restarts counts paths dropped by a KILL before the match started.
	Restarts uint64

	// Kills counts paths dropped by a KILL after the match started.
	Kills uint64

	// Fails counts runs stopped by the FAIL state.
	Fails uint64

	// PrefilterSkips counts start columns skipped by the prefilter, including
	// whole lines where it found no candidate.
	PrefilterSkips uint64

	// PrefilterHits counts matches reported from the prefilter alone.
	PrefilterHits uint64

	// VirtualSpace counts matches completed through the virtual space
	// after the end of a line.
	VirtualSpace uint64

	// SplitSearches counts matches whose recorded boundaries had to be
	// replaced by a search for a valid split.
	SplitSearches uint64
}

// Recognizer runs a determinized pattern over lines of text.
//
// The table is read-only once built; a Recognizer keeps its per-search
// scratch space in a pool and may be used from several goroutines.
type Recognizer struct {
	// stats must stay first for 64-bit alignment of the atomic counters on
	// 32-bit platforms.
	stats Stats

	table *dfa.Table
	pf    prefilter.Prefilter
	pool  sync.Pool
}

// NewRecognizer creates a recognizer for t. pf may be nil; it is only
// consulted for single-section patterns.
func NewRecognizer(t *dfa.Table, pf prefilter.Prefilter) *Recognizer {
	r := &Recognizer{table: t}
	if t.Sections() == 1 {
		r.pf = pf
	}
	r.pool = sync.Pool{
		New: func() any {
			return &scratch{set: sparse.New[dfa.StateID](t.Len())}
		},
	}
	return r
}

// Table returns the table the recognizer runs.
func (r *Recognizer) Table() *dfa.Table {
	return r.table
}

// Prefilter returns the prefilter in use, or nil.
func (r *Recognizer) Prefilter() prefilter.Prefilter {
	return r.pf
}

// Stats returns a snapshot of the counters.
func (r *Recognizer) Stats() Stats {
	return Stats{
		Searches:       atomic.LoadUint64(&r.stats.Searches),
		Trials:         atomic.LoadUint64(&r.stats.Trials),
		Steps:          atomic.LoadUint64(&r.stats.Steps),
		Restarts:       atomic.LoadUint64(&r.stats.Restarts),
		Kills:          atomic.LoadUint64(&r.stats.Kills),
		Fails:          atomic.LoadUint64(&r.stats.Fails),
		PrefilterSkips: atomic.LoadUint64(&r.stats.PrefilterSkips),
		PrefilterHits:  atomic.LoadUint64(&r.stats.PrefilterHits),
		VirtualSpace:   atomic.LoadUint64(&r.stats.VirtualSpace),
		SplitSearches:  atomic.LoadUint64(&r.stats.SplitSearches),
	}
}

// ResetStats zeroes the counters.
func (r *Recognizer) ResetStats() {
	atomic.StoreUint64(&r.stats.Searches, 0)
	atomic.StoreUint64(&r.stats.Trials, 0)
	atomic.StoreUint64(&r.stats.Steps, 0)
	atomic.StoreUint64(&r.stats.Restarts, 0)
	atomic.StoreUint64(&r.stats.Kills, 0)
	atomic.StoreUint64(&r.stats.Fails, 0)
	atomic.StoreUint64(&r.stats.PrefilterSkips, 0)
	atomic.StoreUint64(&r.stats.PrefilterHits, 0)
	atomic.StoreUint64(&r.stats.VirtualSpace, 0)
	atomic.StoreUint64(&r.stats.SplitSearches, 0)
}

// Find searches line for the leftmost match beginning at or after column
// col. Within the winning start column the longest match is reported.
//
// When markFlag is set, positional symbols (line start, margins, marks) are
// not offered at col itself; a caller repeating a search from the end of
// a previous match sets it to make progress past a zero-width position.
//
// The line is scanned once. START is seeded afresh at every candidate
// column and paths reaching the same state merge into the earliest start,
// so the work is bounded by the line length times the number of states.
func (r *Recognizer) Find(text linebuf.Text, line linebuf.LineID, col int, markFlag bool) Match {
	atomic.AddUint64(&r.stats.Searches, 1)
	if col < 1 {
		col = 1
	}
	sc := r.get()
	defer r.put(sc)
	sc.load(text, line)

	skip := 0
	if markFlag {
		skip = col
	}
	last := max(col, sc.n+1)
	if r.pf == nil {
		return r.scan(sc, col, last, skip)
	}

	first := r.candidate(sc, col)
	if first == 0 {
		return Match{}
	}
	if r.pf.IsComplete() {
		atomic.AddUint64(&r.stats.PrefilterHits, 1)
		return Match{Found: true, Start: first, Finish: first + r.pf.LiteralLen()}
	}
	return r.scan(sc, first, last, skip)
}

// MatchAt reports whether a match begins exactly at column col. For a
// pattern with a left context it is the left context that must begin at
// col; the returned span is still the match body.
func (r *Recognizer) MatchAt(text linebuf.Text, line linebuf.LineID, col int, markFlag bool) Match {
	atomic.AddUint64(&r.stats.Searches, 1)
	if col < 1 {
		col = 1
	}
	sc := r.get()
	defer r.put(sc)
	sc.load(text, line)

	skip := 0
	if markFlag {
		skip = col
	}
	return r.scan(sc, col, col, skip)
}

// candidate returns the first column at or after col where the prefilter
// sees a literal, or 0 when there is none.
func (r *Recognizer) candidate(sc *scratch, col int) int {
	cand := r.pf.Find(sc.bytes, col-1)
	if cand < 0 {
		atomic.AddUint64(&r.stats.PrefilterSkips, 1)
		return 0
	}
	if cand+1 > col {
		atomic.AddUint64(&r.stats.PrefilterSkips, 1)
	}
	return cand + 1
}

func (r *Recognizer) get() *scratch {
	return r.pool.Get().(*scratch)
}

func (r *Recognizer) put(sc *scratch) {
	sc.text = nil
	sc.bytes = nil
	sc.marks = nil
	r.pool.Put(sc)
}

// path is one live DFA state of a run together with the column it was
// seeded at and the boundary columns recorded on the way to it. Zero means
// not yet recorded.
type path struct {
	state dfa.StateID
	start int
	left  int
	right int
}

// accept is the first path found final at a column.
type accept struct {
	col  int
	path path
}

// scratch holds the mutable state of one search.
type scratch struct {
	text  linebuf.Text
	line  linebuf.LineID
	bytes []byte
	n     int
	marks []linebuf.Mark
	left  int
	right int

	set     *sparse.Set[dfa.StateID]
	index   []int
	failed  []int
	targets []dfa.StateID
	cur     []path
	next    []path
	syms    []alphabet.Symbol
	accepts []accept
}

func (sc *scratch) load(text linebuf.Text, line linebuf.LineID) {
	sc.text = text
	sc.line = line
	sc.bytes = linebuf.Bytes(text, line)
	sc.n = len(sc.bytes)
	sc.marks = text.MarksOn(line)
	sc.left, sc.right = text.Margins()
}

// char returns the character at col; columns past the end of the line
// read as spaces.
func (sc *scratch) char(col int) byte {
	if col >= 1 && col <= sc.n {
		return sc.bytes[col-1]
	}
	return ' '
}

// positions collects the pseudo-symbols present at col.
func (sc *scratch) positions(col int) []alphabet.Symbol {
	syms := sc.syms[:0]
	if col == 1 {
		syms = append(syms, alphabet.LineStart)
	}
	if col == sc.n+1 {
		syms = append(syms, alphabet.LineEnd)
	}
	if col == sc.left {
		syms = append(syms, alphabet.LeftMargin)
	}
	if col == sc.right {
		syms = append(syms, alphabet.RightMargin)
	}
	for _, m := range sc.marks {
		if m.Col != col {
			continue
		}
		if sym, ok := m.ID.Symbol(); ok {
			syms = append(syms, sym)
		}
	}
	sc.syms = syms
	return syms
}

// live reports whether id is a real state rather than KILL or FAIL.
func live(id dfa.StateID) bool {
	return id != dfa.KillState && id != dfa.FailState
}

// enter moves p into state id at boundary column col, recording the
// context boundaries the state marks.
func (r *Recognizer) enter(p path, id dfa.StateID, col int) path {
	s := r.table.State(id)
	np := path{state: id, start: p.start, left: p.left, right: p.right}
	if s.IsLeftTransition() && (np.left == 0 || s.IsLeftContextCheck()) {
		np.left = col
	}
	if s.IsRightTransition() {
		np.right = col
	}
	return np
}

// offer extends paths with every state reachable at col through the
// positional symbols present there. Offers are optional: the original
// paths stay, and offers leading to KILL or FAIL are ignored.
func (r *Recognizer) offer(sc *scratch, col int, paths []path) []path {
	syms := sc.positions(col)
	if len(syms) == 0 {
		return paths
	}
	sc.set.Clear()
	for _, p := range paths {
		sc.set.Insert(p.state)
	}
	for i := 0; i < len(paths); i++ {
		for _, sym := range syms {
			atomic.AddUint64(&r.stats.Steps, 1)
			tr := r.table.Step(paths[i].state, sym)
			if !live(tr.Next) || !sc.set.Insert(tr.Next) {
				continue
			}
			paths = append(paths, r.enter(paths[i], tr.Next, col))
		}
	}
	return paths
}

// run drives the table from seed over columns from..to of the loaded line.
//
// At every column the positional symbols are offered first (except at
// column skip), then visit sees the live paths; visit returning true stops
// the run. The real character at the column is consumed next. Past the end
// of the line a single virtual space is consumed. A FAIL ends the run, and
// run reports it.
func (r *Recognizer) run(sc *scratch, seed dfa.StateID, from, to, skip int, visit func(col int, paths []path) bool) (failed bool) {
	if !live(seed) {
		return seed == dfa.FailState
	}
	end := max(sc.n+1, from)
	paths := append(sc.cur[:0], r.enter(path{}, seed, from))
	next := sc.next[:0]
	defer func() {
		sc.cur, sc.next = paths[:0], next[:0]
	}()

	for col := from; col <= to; col++ {
		if col != skip {
			paths = r.offer(sc, col, paths)
		}
		if visit(col, paths) || col == to {
			return false
		}
		if col > end {
			return false
		}
		sym := alphabet.Char(sc.char(col))

		next = next[:0]
		sc.set.Clear()
		for _, p := range paths {
			tr := r.table.Step(p.state, sym)
			switch tr.Next {
			case dfa.KillState:
				if tr.StartFlag {
					atomic.AddUint64(&r.stats.Restarts, 1)
				} else {
					atomic.AddUint64(&r.stats.Kills, 1)
				}
				continue
			case dfa.FailState:
				atomic.AddUint64(&r.stats.Fails, 1)
				return true
			}
			if sc.set.Insert(tr.Next) {
				next = append(next, r.enter(p, tr.Next, col+1))
			}
		}
		if len(next) == 0 {
			return false
		}
		paths, next = next, paths
	}
	return false
}

// scan runs the table over the loaded line from column col, seeding START
// at every column up to lastSeed (at prefilter candidates only, when there
// is a prefilter), and returns the longest match of the leftmost start
// column that has one.
//
// A path stands for the earliest start that reached its state. Entering
// FAIL abandons that start column. A KILL drops the path;
// with the restart flag it was dropped before its match began. Once some
// start has accepted, later starts are pruned and no more seeds are added,
// while earlier starts still running may take over.
func (r *Recognizer) scan(sc *scratch, col, lastSeed, skip int) Match {
	last := max(col, sc.n+1)
	if cap(sc.index) < r.table.Len() {
		sc.index = make([]int, r.table.Len())
	}
	sc.index = sc.index[:r.table.Len()]
	sc.accepts = sc.accepts[:0]

	paths := sc.cur[:0]
	next := sc.next[:0]
	var steps uint64
	defer func() {
		sc.cur, sc.next = paths[:0], next[:0]
		atomic.AddUint64(&r.stats.Steps, steps)
	}()

	best := 0
	seed := col
	sc.set.Clear()
	for c := col; c <= last+1; c++ {
		if best == 0 && seed == c && c <= lastSeed {
			atomic.AddUint64(&r.stats.Trials, 1)
			paths = r.merge(sc, paths, r.enter(path{start: c}, dfa.StartState, c))
			seed = r.nextSeed(sc, c+1, lastSeed)
		}
		if len(paths) == 0 {
			if best != 0 || seed == 0 || seed > lastSeed {
				break
			}
			c = seed - 1
			continue
		}

		if c != skip {
			paths = r.offerAll(sc, c, paths)
		}
		best = r.record(sc, c, paths, best)
		if best != 0 {
			paths = prune(paths, best)
			sc.reindex(paths)
		}
		if c > last {
			break
		}

		sym := alphabet.Char(sc.char(c))
		sc.failed = sc.failed[:0]
		sc.targets = sc.targets[:0]
		steps += uint64(len(paths))
		for _, p := range paths {
			tr := r.table.Step(p.state, sym)
			switch tr.Next {
			case dfa.KillState:
				if tr.StartFlag {
					atomic.AddUint64(&r.stats.Restarts, 1)
				} else {
					atomic.AddUint64(&r.stats.Kills, 1)
				}
			case dfa.FailState:
				atomic.AddUint64(&r.stats.Fails, 1)
				sc.failed = append(sc.failed, p.start)
			}
			sc.targets = append(sc.targets, tr.Next)
		}
		next = next[:0]
		sc.set.Clear()
		for i, p := range paths {
			if !live(sc.targets[i]) || slices.Contains(sc.failed, p.start) {
				continue
			}
			next = r.merge(sc, next, r.enter(p, sc.targets[i], c+1))
		}
		paths, next = next, paths
	}

	if best == 0 {
		return Match{}
	}
	return r.settle(sc, best, skip)
}

// reindex rebuilds the state index of paths.
func (sc *scratch) reindex(paths []path) {
	sc.set.Clear()
	for i, p := range paths {
		sc.set.Insert(p.state)
		sc.index[p.state] = i
	}
}

// nextSeed returns the next column START is seeded at, or 0 when there is
// none left.
func (r *Recognizer) nextSeed(sc *scratch, c, lastSeed int) int {
	if c > lastSeed {
		return 0
	}
	if r.pf == nil {
		return c
	}
	return r.candidate(sc, c)
}

// merge adds p to paths unless its state is already there; of two paths
// in one state the one with the earlier start survives, since both have
// the same future.
func (r *Recognizer) merge(sc *scratch, paths []path, p path) []path {
	if sc.set.Insert(p.state) {
		sc.index[p.state] = len(paths)
		return append(paths, p)
	}
	if q := &paths[sc.index[p.state]]; p.start < q.start {
		*q = p
	}
	return paths
}

// offerAll offers the positional symbols at c until no path changes.
func (r *Recognizer) offerAll(sc *scratch, c int, paths []path) []path {
	syms := sc.positions(c)
	if len(syms) == 0 {
		return paths
	}
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(paths); i++ {
			for _, sym := range syms {
				atomic.AddUint64(&r.stats.Steps, 1)
				tr := r.table.Step(paths[i].state, sym)
				if !live(tr.Next) {
					continue
				}
				np := r.enter(paths[i], tr.Next, c)
				if sc.set.Insert(np.state) {
					sc.index[np.state] = len(paths)
					paths = append(paths, np)
					continue
				}
				if j := sc.index[np.state]; np.start < paths[j].start {
					paths[j] = np
					changed = changed || j < i
				}
			}
		}
	}
	return paths
}

// record notes the first final path of the earliest start at column c and
// returns the start column that currently wins.
func (r *Recognizer) record(sc *scratch, c int, paths []path, best int) int {
	first := -1
	for i, p := range paths {
		if !r.table.State(p.state).IsFinal() {
			continue
		}
		if first < 0 || p.start < paths[first].start {
			first = i
		}
	}
	if first < 0 {
		return best
	}
	p := paths[first]
	switch {
	case best == 0 || p.start < best:
		sc.accepts = append(sc.accepts[:0], accept{col: c, path: p})
		return p.start
	case p.start == best:
		sc.accepts = append(sc.accepts, accept{col: c, path: p})
	}
	return best
}

// prune drops paths seeded after best.
func prune(paths []path, best int) []path {
	kept := paths[:0]
	for _, p := range paths {
		if p.start <= best {
			kept = append(kept, p)
		}
	}
	return kept
}

// settle turns the accepts recorded for start column t into a match.
func (r *Recognizer) settle(sc *scratch, t, skip int) Match {
	end := max(sc.n+1, t)

	// Accepts were recorded in column order. One reached only through the
	// virtual space counts when nothing on the line itself matched.
	onLine := sc.accepts
	for len(onLine) > 0 && onLine[len(onLine)-1].col > end {
		onLine = onLine[:len(onLine)-1]
	}
	candidates := onLine
	if len(onLine) == 0 {
		candidates = sc.accepts
	}

	if r.table.Sections() == 1 {
		z := candidates[len(candidates)-1].col
		if z > end {
			atomic.AddUint64(&r.stats.VirtualSpace, 1)
		}
		return Match{Found: true, Start: t, Finish: z}
	}

	for i := len(candidates) - 1; i >= 0; i-- {
		a := candidates[i]
		m, ok := r.split(sc, t, skip, a)
		if !ok {
			continue
		}
		if a.col > end {
			atomic.AddUint64(&r.stats.VirtualSpace, 1)
		}
		return m
	}
	return Match{}
}

// split finds the match body of a multi-section match spanning t..a.col.
// The boundaries recorded during the run are tried first; when they do not
// hold up, the split with the earliest body start and then the latest body
// end is searched for.
func (r *Recognizer) split(sc *scratch, t, skip int, a accept) (Match, bool) {
	z := a.col
	if r.verify(sc, t, a.path.left, a.path.right, z, skip) {
		return Match{Found: true, Start: a.path.left, Finish: a.path.right}, true
	}
	atomic.AddUint64(&r.stats.SplitSearches, 1)
	for left := t; left <= z; left++ {
		if !r.reach(sc, dfa.StartState, t, left, skip, dfa.FlagLeftTransition) {
			continue
		}
		for right := z; right >= left; right-- {
			if r.reach(sc, r.table.MiddleStart(), left, right, skip, dfa.FlagRightTransition) &&
				r.reach(sc, r.table.RightStart(), right, z, skip, dfa.FlagFinal) {
				return Match{Found: true, Start: left, Finish: right}, true
			}
		}
	}
	return Match{}, false
}

// verify checks that t..left is a left context, left..right a match body
// and right..z a right context.
func (r *Recognizer) verify(sc *scratch, t, left, right, z, skip int) bool {
	if left < t || right < left || z < right {
		return false
	}
	return r.reach(sc, dfa.StartState, t, left, skip, dfa.FlagLeftTransition) &&
		r.reach(sc, r.table.MiddleStart(), left, right, skip, dfa.FlagRightTransition) &&
		r.reach(sc, r.table.RightStart(), right, z, skip, dfa.FlagFinal)
}

// reach reports whether running from seed at column from arrives at column
// to in a state carrying flag.
func (r *Recognizer) reach(sc *scratch, seed dfa.StateID, from, to, skip int, flag dfa.Flags) bool {
	found := false
	r.run(sc, seed, from, to, skip, func(col int, paths []path) bool {
		if col < to {
			return false
		}
		for _, p := range paths {
			if r.table.State(p.state).Flags()&flag != 0 {
				found = true
				break
			}
		}
		return true
	})
	return found
}
