package routing

import (
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
)

// Entry is one routed path: the owning bean, the declaring type and the
// handler descriptor built for the mapped method.
type Entry struct {
	Path    string
	Bean    string
	TypeID  string
	Handler *Handler
}

// Table maps normalized paths to entries. It is written by Build, frozen,
// and only read afterwards.
type Table struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
	frozen  atomic.Bool
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Put stores e under e.Path and returns the entry it replaced, if any.
// A replaced path keeps its original position.
func (t *Table) Put(e *Entry) *Entry {
	if t.frozen.Load() {
		panic("routing: write to frozen route table " + e.Path)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, ok := t.entries[e.Path]
	if !ok {
		t.order = append(t.order, e.Path)
	}
	t.entries[e.Path] = e
	return prev
}

// Freeze makes the table read-only.
func (t *Table) Freeze() { t.frozen.Store(true) }

// Lookup finds the entry for an already normalized path.
func (t *Table) Lookup(path string) (*Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[path]
	return e, ok
}

// Entries returns every entry in registration order.
func (t *Table) Entries() []*Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Entry, len(t.order))
	for i, p := range t.order {
		out[i] = t.entries[p]
	}
	return out
}

// Len returns the number of routes.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// ── Paths ────────────────────────────────────────────────────────────────────

var slashes = regexp.MustCompile(`/+`)

// Normalize collapses every run of "/" into one.
//
//	Normalize("//demo///query")  // "/demo/query"
func Normalize(path string) string {
	return slashes.ReplaceAllString(path, "/")
}

// Strip removes the first occurrence of contextPath from uri.
func Strip(uri, contextPath string) string {
	if contextPath == "" {
		return uri
	}
	return strings.Replace(uri, contextPath, "", 1)
}
