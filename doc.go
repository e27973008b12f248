// Package codemap builds a cross-referenced map of a codebase: symbols,
// their containment hierarchy and their dependency edges, plus minimal
// relevant-source extraction for downstream consumers that need just enough
// code to reason about a set of symbols.
//
// # Pipeline
//
// The engine operates in three phases:
//
//  1. Parse: each supported file is parsed with tree-sitter and a
//     language-specific parser attaches symbols and raw name references to
//     an isolated per-file map. Files are independent, so this phase runs
//     on a worker pool by default.
//
//  2. Merge: the per-file maps are merged into one map. Identities are
//     derived from file-local data, so merging is conflict-free for
//     disjoint file sets.
//
//  3. Cross-reference: format-specific passes resolve references the
//     generic engine cannot (markup attributes naming C# symbols by
//     string), then the generic engine prunes external references, indexes
//     namespaces, resolves the remaining references into dependency edges
//     and verifies graph integrity.
//
// # Usage
//
// Create an Engine, index a directory, and query the published snapshot:
//
//	e := codemap.New(codemap.WithLanguages("csharp", "cshtml"))
//	if err := e.IndexDirectory(ctx, "path/to/project"); err != nil { ... }
//
//	m := e.Snapshot()
//	symbols := m.CollectSymbolsFromText(taskDescription, codemap.CategoryType)
//	sources, err := m.CollectRelevantSources(symbols)
//
// The snapshot is immutable once published; callers may read it
// concurrently while a new index run builds its replacement.
package codemap
