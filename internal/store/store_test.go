package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/codemap/internal/editing"
	"github.com/jward/codemap/internal/graph"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

// buildTestMap assembles a small cross-referenced map: one namespace, one
// type with a method using a sibling helper type.
func buildTestMap(t *testing.T, hashed bool) *graph.CodeMap {
	t.Helper()
	m := graph.New(hashed)
	doc := editing.NewDocument("a.cs",
		"namespace Foo\n{\n    class C\n    {\n        void M()\n        {\n        }\n    }\n    class Helper\n    {\n    }\n}")
	source := m.NewSource(doc)
	ns := m.NewSymbol(source, graph.CategoryNamespace, "Foo", editing.Block{Begin: 0, End: 12})
	typ := m.NewSymbol(ns, graph.CategoryType, "C", editing.Block{Begin: 2, End: 8})
	fn := m.NewSymbol(typ, graph.CategoryFunction, "M", editing.Block{Begin: 4, End: 7})
	helper := m.NewSymbol(ns, graph.CategoryType, "Helper", editing.Block{Begin: 8, End: 11})
	fn.Uses(helper)
	return m
}

func TestMigrate_TablesExistAndIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, table := range []string{"metadata", "sources", "symbols", "symbol_edges"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	require.NoError(t, s.Migrate())
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	m := buildTestMap(t, false)
	require.NoError(t, s.Save(m))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.False(t, loaded.HashedIDs())
	assert.Len(t, loaded.Symbols, len(m.Symbols))
	require.Contains(t, loaded.Sources, "a.cs")
	assert.Equal(t, m.Sources["a.cs"].Text(), loaded.Sources["a.cs"].Text())

	for id, want := range m.Symbols {
		got, ok := loaded.Get(id)
		require.True(t, ok, "missing symbol %s", id)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Category, got.Category)
		assert.Equal(t, want.Block, got.Block)
		assert.Equal(t, want.Parent, got.Parent)
		assert.Equal(t, want.Children, got.Children)
		assert.Equal(t, want.Dependencies, got.Dependencies)
		assert.Equal(t, want.Dependents, got.Dependents)
	}
}

func TestSaveLoad_HashedIDs(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Save(buildTestMap(t, true)))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.True(t, loaded.HashedIDs())
	for id := range loaded.Symbols {
		assert.Len(t, id, 40)
	}
}

func TestSave_ReplacesPreviousSnapshot(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Save(buildTestMap(t, false)))

	// Save a different, smaller map on top.
	m := graph.New(false)
	m.NewSource(editing.NewDocument("b.cs", "class B { }"))
	require.NoError(t, s.Save(m))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Symbols, 1)
	assert.NotContains(t, loaded.Sources, "a.cs")
	assert.Contains(t, loaded.Sources, "b.cs")
}

func TestLoad_EmptyDatabase(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	_, err := s.Load()
	assert.ErrorContains(t, err, "no snapshot")
}

func TestSaveLoad_SurvivesWalkQueries(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	m := buildTestMap(t, false)
	require.NoError(t, s.Save(m))

	loaded, err := s.Load()
	require.NoError(t, err)

	fn := loaded.SymbolsWithCategory(graph.CategoryFunction)
	require.Len(t, fn, 1)
	deps := loaded.WalkDependencies(fn[0])
	require.Len(t, deps, 1)
	assert.Equal(t, "Helper", deps[0].Symbol.Name)
}
