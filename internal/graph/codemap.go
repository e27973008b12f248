// Package graph holds the code map: a directed graph of named source
// constructs (symbols) and their structural and dependency relations.
//
// The map may contain cycles whenever the source code does (mutual
// recursion, circular imports). Every recursive traversal threads a set of
// visited identities and therefore terminates in time proportional to the
// graph size.
package graph

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/jward/codemap/internal/editing"
)

// CodeMap owns every symbol of a project plus the line-indexed documents
// backing relevant-source extraction. It is populated by parsers, mutated
// exactly once by CrossReference, and read-only afterwards.
type CodeMap struct {
	// Symbols maps derived identity to symbol.
	Symbols map[string]*Symbol

	// Sources maps file path to its backing document.
	Sources map[string]*editing.Document

	hashedIDs bool
}

// New creates an empty code map. With hashedIDs set, symbol identities are
// opaque SHA-1 digests instead of readable tuples.
func New(hashedIDs bool) *CodeMap {
	return &CodeMap{
		Symbols:   make(map[string]*Symbol),
		Sources:   make(map[string]*editing.Document),
		hashedIDs: hashedIDs,
	}
}

// HashedIDs reports whether symbol identities are hashed.
func (m *CodeMap) HashedIDs() bool {
	return m.hashedIDs
}

// NewSource creates the root SOURCE symbol for the document, spanning its
// full line count, and registers the document for extraction.
func (m *CodeMap) NewSource(doc *editing.Document) *Symbol {
	block := editing.Block{Begin: 0, End: doc.LineCount()}
	s := newSymbol(doc.Path, block, nil, CategorySource, doc.Path, m.hashedIDs)
	if existing, ok := m.Symbols[s.id]; ok {
		return existing
	}
	m.Symbols[s.id] = s
	m.Sources[doc.Path] = doc
	return s
}

// NewSymbol creates a child symbol under parent, keyed by derived identity.
// Creating the same (path, block, category, name) tuple twice returns the
// existing node, which makes repeated attach calls idempotent.
func (m *CodeMap) NewSymbol(parent *Symbol, category Category, name string, block editing.Block) *Symbol {
	id := symbolID(parent.Path, block, category, name, m.hashedIDs)
	if existing, ok := m.Symbols[id]; ok {
		return existing
	}
	s := newSymbol(parent.Path, block, parent, category, name, m.hashedIDs)
	m.Symbols[s.id] = s
	return s
}

// PutSymbol inserts a symbol without linking it to a parent. Used when
// rehydrating a persisted map; links are restored separately.
func (m *CodeMap) PutSymbol(path string, block editing.Block, category Category, name string) *Symbol {
	s := newSymbol(path, block, nil, category, name, m.hashedIDs)
	if existing, ok := m.Symbols[s.id]; ok {
		return existing
	}
	m.Symbols[s.id] = s
	return s
}

// Get returns the symbol with the given identity.
func (m *CodeMap) Get(id string) (*Symbol, bool) {
	s, ok := m.Symbols[id]
	return s, ok
}

// Source returns the root SOURCE symbol for path, or nil.
func (m *CodeMap) Source(path string) *Symbol {
	doc, ok := m.Sources[path]
	if !ok {
		return nil
	}
	block := editing.Block{Begin: 0, End: doc.LineCount()}
	return m.Symbols[symbolID(path, block, CategorySource, path, m.hashedIDs)]
}

// Merge adopts every symbol and source of other. Overlapping identities are
// a caller-contract violation: callers must partition work by disjoint file
// sets before merging.
func (m *CodeMap) Merge(other *CodeMap) error {
	var conflicts []string
	for id := range other.Symbols {
		if _, ok := m.Symbols[id]; ok {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return fmt.Errorf("conflicting symbols: %v", conflicts)
	}
	for id, s := range other.Symbols {
		m.Symbols[id] = s
	}
	for path, doc := range other.Sources {
		m.Sources[path] = doc
	}
	return nil
}

// Parent returns the parent symbol, or nil for SOURCE symbols.
func (m *CodeMap) Parent(s *Symbol) *Symbol {
	if s.Parent == "" {
		return nil
	}
	return m.Symbols[s.Parent]
}

// Reparent moves a symbol under a new parent. Identity is unaffected; only
// the structural links change. Used for directives that close before their
// apparent container.
func (m *CodeMap) Reparent(s, newParent *Symbol) {
	if old := m.Parent(s); old != nil {
		delete(old.Children, s.id)
	}
	s.Parent = newParent.id
	newParent.Children[s.id] = true
}

// FindParent returns the nearest ancestor of the given category, starting at
// the symbol itself, or nil if no such ancestor exists.
func (m *CodeMap) FindParent(s *Symbol, category Category) *Symbol {
	for _, p := range m.IterParents(s) {
		if p.Category == category {
			return p
		}
	}
	return nil
}

// IterParents returns the chain from the symbol up to its SOURCE root,
// starting at the symbol itself.
func (m *CodeMap) IterParents(s *Symbol) []*Symbol {
	var out []*Symbol
	for s != nil {
		out = append(out, s)
		s = m.Parent(s)
	}
	return out
}

// ChildrenOf returns the direct children with the given category, ordered by
// identity.
func (m *CodeMap) ChildrenOf(s *Symbol, category Category) []*Symbol {
	var out []*Symbol
	for _, id := range sortedIDs(s.Children) {
		if child, ok := m.Symbols[id]; ok && child.Category == category {
			out = append(out, child)
		}
	}
	return out
}

// SymbolsWithCategory returns every symbol of the category, ordered by
// identity.
func (m *CodeMap) SymbolsWithCategory(category Category) []*Symbol {
	var out []*Symbol
	for _, s := range m.Symbols {
		if s.Category == category {
			out = append(out, s)
		}
	}
	sortSymbols(out)
	return out
}

// NamespacesByName returns every NAMESPACE symbol whose name is in names,
// ordered by identity.
func (m *CodeMap) NamespacesByName(names map[string]bool) []*Symbol {
	var out []*Symbol
	for _, s := range m.Symbols {
		if s.Category == CategoryNamespace && names[s.Name] {
			out = append(out, s)
		}
	}
	sortSymbols(out)
	return out
}

// Visit pairs a symbol with its depth relative to the traversal start.
type Visit struct {
	Symbol *Symbol
	Depth  int
}

// WalkChildren traverses the structural tree below parent depth-first,
// in identity order. The visited set is seeded with the start node, so a
// symbol is never yielded as its own descendant and cycles terminate.
func (m *CodeMap) WalkChildren(parent *Symbol) []Visit {
	visited := map[string]bool{parent.id: true}
	return m.walk(parent, 1, visited, func(s *Symbol) map[string]bool { return s.Children })
}

// WalkDependencies traverses everything the symbol uses, transitively.
func (m *CodeMap) WalkDependencies(s *Symbol) []Visit {
	visited := map[string]bool{s.id: true}
	return m.walk(s, 1, visited, func(s *Symbol) map[string]bool { return s.Dependencies })
}

// WalkDependents traverses everything using the symbol, transitively.
func (m *CodeMap) WalkDependents(s *Symbol) []Visit {
	visited := map[string]bool{s.id: true}
	return m.walk(s, 1, visited, func(s *Symbol) map[string]bool { return s.Dependents })
}

func (m *CodeMap) walk(s *Symbol, depth int, visited map[string]bool, next func(*Symbol) map[string]bool) []Visit {
	var out []Visit
	for _, id := range sortedIDs(next(s)) {
		if visited[id] {
			continue
		}
		visited[id] = true
		target, ok := m.Symbols[id]
		if !ok {
			continue
		}
		out = append(out, Visit{Symbol: target, Depth: depth})
		if len(next(target)) > 0 {
			out = append(out, m.walk(target, depth+1, visited, next)...)
		}
	}
	return out
}

var identifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// CollectSymbolsFromText token-scans free text (an error message, a task
// description) for identifier-shaped substrings and returns the symbols of
// the requested categories whose name appears in the text.
func (m *CodeMap) CollectSymbolsFromText(text string, categories ...Category) []*Symbol {
	wanted := make(map[Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	names := make(map[string]bool)
	for _, token := range identifierPattern.FindAllString(text, -1) {
		names[token] = true
	}

	var out []*Symbol
	for _, s := range m.Symbols {
		if wanted[s.Category] && names[s.Name] {
			out = append(out, s)
		}
	}
	sortSymbols(out)
	return out
}

func sortedIDs(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortSymbols(symbols []*Symbol) {
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].id < symbols[j].id })
}
