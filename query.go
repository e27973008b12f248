package codemap

import (
	"fmt"
	"sort"

	"github.com/jward/codemap/internal/graph"
)

// Query is a read-only facade over a published map snapshot. All methods
// are safe for concurrent use; the snapshot never changes underneath them.
type Query struct {
	m *graph.CodeMap
}

// Query returns a facade over the engine's current snapshot. Errors before
// the first successful index run.
func (e *Engine) Query() (*Query, error) {
	m := e.Snapshot()
	if m == nil {
		return nil, fmt.Errorf("no snapshot: index first")
	}
	return &Query{m: m}, nil
}

// NewQuery wraps an existing map, typically one loaded from the store.
func NewQuery(m *graph.CodeMap) *Query {
	return &Query{m: m}
}

// Map exposes the underlying snapshot.
func (q *Query) Map() *graph.CodeMap {
	return q.m
}

// SymbolsNamed returns the symbols with the exact name, optionally
// restricted to the given categories, ordered by identity.
func (q *Query) SymbolsNamed(name string, categories ...Category) []*Symbol {
	wanted := make(map[Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	var out []*Symbol
	for _, s := range q.m.Symbols {
		if s.Name != name {
			continue
		}
		if len(wanted) > 0 && !wanted[s.Category] {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Dependencies walks everything the symbol uses, transitively.
func (q *Query) Dependencies(id string) ([]Visit, error) {
	s, ok := q.m.Get(id)
	if !ok {
		return nil, fmt.Errorf("no symbol %s", id)
	}
	return q.m.WalkDependencies(s), nil
}

// Dependents walks everything using the symbol, transitively.
func (q *Query) Dependents(id string) ([]Visit, error) {
	s, ok := q.m.Get(id)
	if !ok {
		return nil, fmt.Errorf("no symbol %s", id)
	}
	return q.m.WalkDependents(s), nil
}

// RelevantForNames extracts minimal covering sources for every symbol with
// one of the given names. Unknown names are reported, not silently dropped.
func (q *Query) RelevantForNames(names []string, categories ...Category) ([]*RelevantSource, error) {
	var symbols []*Symbol
	for _, name := range names {
		found := q.SymbolsNamed(name, categories...)
		if len(found) == 0 {
			return nil, fmt.Errorf("no symbol named %q", name)
		}
		symbols = append(symbols, found...)
	}
	return q.m.CollectRelevantSources(symbols)
}

// RelevantForText token-scans free text for symbol names and extracts
// minimal covering sources for the matches.
func (q *Query) RelevantForText(text string, categories ...Category) ([]*RelevantSource, error) {
	if len(categories) == 0 {
		categories = []Category{CategoryType, CategoryFunction, CategoryVariable}
	}
	symbols := q.m.CollectSymbolsFromText(text, categories...)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols matched")
	}
	return q.m.CollectRelevantSources(symbols)
}
