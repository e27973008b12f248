package graph

import "fmt"

// namespaceIndex maps a namespace name to a name -> symbols index over the
// namespace itself and every namespace-aware descendant. Namespaces reopened
// under the same name across files share one index. The index is built and
// discarded within a single CrossReference call.
type namespaceIndex map[string]map[string][]*Symbol

// CrossReference converts the references collected while parsing into
// dependency edges, respecting namespace scope and import visibility. One
// non-incremental batch pass over a fully populated map; requires exclusive
// access to the whole graph.
//
// Resolution matches name + expected category, never full signatures. A
// reference may therefore link to several same-named symbols across
// accessible namespaces; all candidates are linked, ambiguity is preserved.
//
// The returned warnings flag structural integrity violations (identities
// referenced but no longer present). They signal a parser defect, not a
// runtime fault; the graph remains usable.
func (m *CodeMap) CrossReference() []string {
	m.pruneExternalReferences()
	index := m.indexNamespaces()
	m.resolveReferences(index)
	m.cleanup(index)
	return m.verify()
}

// pruneExternalReferences drops every reference whose name is not defined
// anywhere in the graph. Such references necessarily point at code outside
// the indexed project; dropping them early bounds the resolution work and
// avoids false positives against common external names.
func (m *CodeMap) pruneExternalReferences() {
	defined := make(map[string]bool, len(m.Symbols))
	for _, s := range m.Symbols {
		defined[s.Name] = true
	}
	for _, s := range m.Symbols {
		for ref := range s.References {
			if !defined[ref.Name] {
				delete(s.References, ref)
			}
		}
	}
}

// indexNamespaces builds the per-namespace name index over each namespace
// and its namespace-aware descendants.
func (m *CodeMap) indexNamespaces() namespaceIndex {
	index := make(namespaceIndex)
	for _, ns := range m.SymbolsWithCategory(CategoryNamespace) {
		byName, ok := index[ns.Name]
		if !ok {
			byName = make(map[string][]*Symbol)
			index[ns.Name] = byName
		}
		byName[ns.Name] = append(byName[ns.Name], ns)
	}

	for nsName, byName := range index {
		for _, ns := range byName[nsName] {
			if ns.Category != CategoryNamespace {
				continue
			}
			for _, visit := range m.WalkChildren(ns) {
				if visit.Symbol.Category.NamespaceAware() {
					byName[visit.Symbol.Name] = append(byName[visit.Symbol.Name], visit.Symbol)
				}
			}
		}
	}
	return index
}

// resolveReferences links every nested symbol's references against the
// accessible namespaces: the enclosing namespace itself plus every namespace
// named by a USING directive that is a direct child of the enclosing SOURCE.
func (m *CodeMap) resolveReferences(index namespaceIndex) {
	for nsName, byName := range index {
		for _, ns := range byName[nsName] {
			if ns.Category != CategoryNamespace {
				continue
			}

			accessible := map[string]bool{nsName: true}
			if source := m.FindParent(ns, CategorySource); source != nil {
				for _, using := range m.ChildrenOf(source, CategoryUsing) {
					if _, ok := index[using.Name]; ok {
						accessible[using.Name] = true
					}
				}
			}

			for otherName := range accessible {
				otherByName, ok := index[otherName]
				if !ok {
					continue
				}
				for _, visit := range m.WalkChildren(ns) {
					for ref := range visit.Symbol.References {
						for _, candidate := range otherByName[ref.Name] {
							if candidate.Category == ref.Category {
								visit.Symbol.Uses(candidate)
							}
						}
					}
				}
			}
		}
	}
}

// cleanup discards the transient reference sets and deletes USING symbols
// whose named namespace does not exist in the project (dangling imports).
func (m *CodeMap) cleanup(index namespaceIndex) {
	var dangling []*Symbol
	for _, s := range m.Symbols {
		s.References = nil
		if s.Category == CategoryUsing {
			if _, ok := index[s.Name]; !ok {
				dangling = append(dangling, s)
			}
		}
	}
	for _, s := range dangling {
		if parent := m.Parent(s); parent != nil {
			delete(parent.Children, s.ID())
		}
		delete(m.Symbols, s.ID())
	}
}

// verify walks every symbol's links and reports identities that no longer
// exist. Violations are returned, never raised: they indicate a parser
// defect and the graph stays usable.
func (m *CodeMap) verify() []string {
	var warnings []string
	for _, id := range sortedIDs(allIDs(m.Symbols)) {
		s := m.Symbols[id]
		for _, childID := range sortedIDs(s.Children) {
			if _, ok := m.Symbols[childID]; !ok {
				warnings = append(warnings, fmt.Sprintf("missing child %q in parent %q", childID, id))
			}
		}
		for _, depID := range sortedIDs(s.Dependencies) {
			if _, ok := m.Symbols[depID]; !ok {
				warnings = append(warnings, fmt.Sprintf("missing dependency %q in symbol %q", depID, id))
			}
		}
		for _, depID := range sortedIDs(s.Dependents) {
			if _, ok := m.Symbols[depID]; !ok {
				warnings = append(warnings, fmt.Sprintf("missing dependent %q in symbol %q", depID, id))
			}
		}
	}
	return warnings
}

func allIDs(symbols map[string]*Symbol) map[string]bool {
	ids := make(map[string]bool, len(symbols))
	for id := range symbols {
		ids[id] = true
	}
	return ids
}
