package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jward/codemap/internal/editing"
)

// RelevantSource is the extraction result for one file: the minimal merged
// hunks covering every relevant symbol plus the identities actually covered.
type RelevantSource struct {
	Document  *editing.Document
	Hunks     []*editing.Hunk
	SymbolIDs []string
}

// CollectRelevantSources reduces a symbol subset to the smallest covering
// line ranges per file:
//
//   - every relevant symbol's own block is covered;
//   - symbols below function granularity are promoted to their enclosing
//     FUNCTION block, since partial-function context is not independently
//     meaningful;
//   - USING lines in a covered file are always included;
//   - top-level NAMESPACE blocks contribute only their brace-delimiting
//     lines unless a relevant range already overlaps them.
//
// The per-file candidate blocks are folded into a minimal covering set and
// turned into hunks, which are then hunk-merged for the editing layer.
//
// A selected file yielding zero relevant blocks is a caller-contract
// violation and fails immediately.
func (m *CodeMap) CollectRelevantSources(symbols []*Symbol) ([]*RelevantSource, error) {
	blocksByPath := make(map[string][]editing.Block)
	includedByPath := make(map[string]map[string]bool)

	include := func(path string, block editing.Block, id string) {
		blocksByPath[path] = append(blocksByPath[path], block)
		if includedByPath[path] == nil {
			includedByPath[path] = make(map[string]bool)
		}
		includedByPath[path][id] = true
	}

	for _, s := range symbols {
		if _, ok := m.Sources[s.Path]; !ok {
			return nil, fmt.Errorf("no document for %s", s.Path)
		}
		block := s.Block
		id := s.ID()
		// Promote below-function symbols to the enclosing function.
		if fn := m.FindParent(s, CategoryFunction); fn != nil && fn.ID() != s.ID() {
			block = fn.Block
			id = fn.ID()
		}
		include(s.Path, block, id)
		includedByPath[s.Path][s.ID()] = true
	}

	for path := range blocksByPath {
		source := m.Source(path)
		if source == nil {
			continue
		}

		// Using lines are cheap and almost always required for the
		// surrounding code to stay valid.
		for _, visit := range m.WalkChildren(source) {
			if visit.Symbol.Category == CategoryUsing {
				include(path, visit.Symbol.Block, visit.Symbol.ID())
			}
		}

		// Enclosing-namespace context: only the brace-delimiting lines,
		// unless a relevant range already overlaps them.
		doc := m.Sources[path]
		for _, ns := range m.ChildrenOf(source, CategoryNamespace) {
			for _, brace := range namespaceBraceBlocks(doc, ns.Block) {
				if overlapsAny(blocksByPath[path], brace) {
					continue
				}
				include(path, brace, ns.ID())
			}
		}
	}

	var out []*RelevantSource
	for _, path := range sortedPaths(blocksByPath) {
		doc := m.Sources[path]
		merged := foldBlocks(blocksByPath[path], doc.LineCount())
		if len(merged) == 0 {
			return nil, fmt.Errorf("no relevant blocks for %s", path)
		}

		hunks := make([]*editing.Hunk, 0, len(merged))
		for _, block := range merged {
			hunks = append(hunks, editing.NewHunk(doc, block))
		}
		patch := editing.NewPatch(doc, hunks)
		if err := patch.MergeHunks(); err != nil {
			return nil, fmt.Errorf("merge hunks for %s: %w", path, err)
		}

		out = append(out, &RelevantSource{
			Document:  doc,
			Hunks:     patch.Hunks,
			SymbolIDs: sortedIDs(includedByPath[path]),
		})
	}
	return out, nil
}

// foldBlocks sorts candidate blocks by start line and left-folds them into a
// minimal covering set: a block starting at or before the current merge's
// end extends it, anything else starts a new range. Ends are clamped to the
// document length.
func foldBlocks(blocks []editing.Block, lineCount int) []editing.Block {
	if len(blocks) == 0 {
		return nil
	}
	sorted := make([]editing.Block, len(blocks))
	copy(sorted, blocks)
	for i := range sorted {
		if sorted[i].End > lineCount {
			sorted[i].End = lineCount
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Begin != sorted[j].Begin {
			return sorted[i].Begin < sorted[j].Begin
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []editing.Block{sorted[0]}
	for _, b := range sorted[1:] {
		current := &merged[len(merged)-1]
		if b.Begin <= current.End {
			if b.End > current.End {
				current.End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

// namespaceBraceBlocks returns the opening block (first line of the
// namespace through the first line containing "{") and the closing block
// (the last line containing "}" through the last line of the namespace).
// Brace-less blocks yield nothing.
func namespaceBraceBlocks(doc *editing.Document, block editing.Block) []editing.Block {
	end := block.End
	if end > doc.LineCount() {
		end = doc.LineCount()
	}

	open := -1
	for i := block.Begin; i < end; i++ {
		if strings.Contains(doc.Lines[i], "{") {
			open = i
			break
		}
	}
	if open < 0 {
		return nil
	}

	closing := -1
	for i := end - 1; i >= block.Begin; i-- {
		if strings.Contains(doc.Lines[i], "}") {
			closing = i
			break
		}
	}
	if closing < 0 {
		return []editing.Block{{Begin: block.Begin, End: open + 1}}
	}
	return []editing.Block{
		{Begin: block.Begin, End: open + 1},
		{Begin: closing, End: end},
	}
}

func overlapsAny(blocks []editing.Block, b editing.Block) bool {
	for _, other := range blocks {
		if b.Overlaps(other) {
			return true
		}
	}
	return false
}

func sortedPaths(byPath map[string][]editing.Block) []string {
	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
