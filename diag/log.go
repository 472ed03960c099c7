package diag

import (
	"bytes"
	"container/list"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Log is a Sink that keeps the most recent reports per category.
type Log struct {
	entries map[string]*list.List
	max     int
	lock    sync.Mutex
	now     func() time.Time
}

// Entry is one recorded report.
type Entry struct {
	When     time.Time
	Category string
	Code     Code
	Detail   string
}

func (e Entry) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s: %s", e.When.Format("15:04:05.000"), e.Category, e.Code)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.When.Format("15:04:05.000"), e.Category, e.Code, e.Detail)
}

// NewLog returns a Log retaining at most maxEntries reports per category.
func NewLog(maxEntries int) *Log {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Log{max: maxEntries, now: time.Now}
}

// Report implements Sink.
func (l *Log) Report(code Code, detail string) {
	l.lock.Lock()
	defer l.lock.Unlock()

	cat := code.Category()
	c := l.listForCategory(cat)
	c.PushBack(Entry{When: l.now(), Category: cat, Code: code, Detail: detail})
	if c.Len() > l.max && c.Front() != nil {
		c.Remove(c.Front())
	}
}

func (l *Log) listForCategory(category string) *list.List {
	if l.entries == nil {
		l.entries = make(map[string]*list.List)
	}
	c, ok := l.entries[category]
	if !ok {
		c = list.New()
		l.entries[category] = c
	}
	return c
}

// Categories returns the categories that have entries, sorted.
func (l *Log) Categories() []string {
	l.lock.Lock()
	defer l.lock.Unlock()

	c := make([]string, 0, len(l.entries))
	for k := range l.entries {
		c = append(c, k)
	}
	sort.Strings(c)
	return c
}

// Entries returns the entries of every category merged in time order.
func (l *Log) Entries() []Entry {
	l.lock.Lock()
	defer l.lock.Unlock()

	var all []Entry
	for _, c := range l.entries {
		for e := c.Front(); e != nil; e = e.Next() {
			all = append(all, e.Value.(Entry))
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].When.Before(all[j].When)
	})
	return all
}

// Len returns the total number of retained entries.
func (l *Log) Len() int {
	l.lock.Lock()
	defer l.lock.Unlock()

	n := 0
	for _, c := range l.entries {
		n += c.Len()
	}
	return n
}

// Clear drops every entry.
func (l *Log) Clear() {
	l.lock.Lock()
	l.entries = nil
	l.lock.Unlock()
}

// String merges the log into one multi-line report.
func (l *Log) String() string {
	var buf bytes.Buffer
	for _, e := range l.Entries() {
		buf.WriteString(e.String())
		buf.WriteByte('\n')
	}
	return buf.String()
}
