package parser

import "github.com/jward/codemap/internal/graph"

// Relation describes how a symbol pushed on the context stack relates to the
// context it was pushed under.
type Relation int

const (
	// RelationChild nests the new symbol in the current context. The
	// structural links are already set by CodeMap.NewSymbol.
	RelationChild Relation = iota

	// RelationParent re-parents the current context under the new symbol —
	// the rare case of a directive closing before its apparent container.
	RelationParent

	// RelationUses records a non-hierarchical dependency from the current
	// context on the new symbol.
	RelationUses
)

// contextEntry is one open construct: the symbol acting as parse context,
// how it was attached, and the first line past its definition.
type contextEntry struct {
	symbol   *graph.Symbol
	relation Relation
	endLine  int
}

// contextStack tracks the open constructs while walking a syntax tree. The
// bottom entry is the file's SOURCE symbol and is never popped; entries
// above it are discarded once the cursor's line passes their end line.
type contextStack struct {
	m       *graph.CodeMap
	entries []contextEntry
}

func newContextStack(m *graph.CodeMap, source *graph.Symbol) *contextStack {
	return &contextStack{
		m: m,
		entries: []contextEntry{{
			symbol:   source,
			relation: RelationChild,
			endLine:  source.Block.End,
		}},
	}
}

// current returns the innermost open context symbol.
func (cs *contextStack) current() *graph.Symbol {
	return cs.entries[len(cs.entries)-1].symbol
}

// push opens a new context and applies its attach relation.
func (cs *contextStack) push(s *graph.Symbol, relation Relation, endLine int) {
	switch relation {
	case RelationParent:
		cs.m.Reparent(cs.current(), s)
	case RelationUses:
		cs.current().Uses(s)
	}
	cs.entries = append(cs.entries, contextEntry{symbol: s, relation: relation, endLine: endLine})
}

// popPast closes every context whose definition ended before the given
// line. The SOURCE entry stays.
func (cs *contextStack) popPast(line int) {
	for len(cs.entries) > 1 && line >= cs.entries[len(cs.entries)-1].endLine {
		cs.entries = cs.entries[:len(cs.entries)-1]
	}
}
