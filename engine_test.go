package codemap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderSource = `using System;

namespace Shop
{
    class Order
    {
        void Submit()
        {
            var invoice = new Invoice();
        }
    }
}
`

const invoiceSource = `namespace Shop
{
    class Invoice
    {
    }
}
`

// writeProject lays out a small two-file C# project in a temp dir.
func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Order.cs"), []byte(orderSource), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Models", "Invoice.cs"), []byte(invoiceSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# shop"), 0o644))
	return root
}

func findSymbol(t *testing.T, m *CodeMap, category Category, name string) *Symbol {
	t.Helper()
	for _, s := range m.SymbolsWithCategory(category) {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no %s named %s", category, name)
	return nil
}

func TestEngine_IndexDirectory(t *testing.T) {
	t.Parallel()
	root := writeProject(t)

	e := New()
	require.NoError(t, e.IndexDirectory(context.Background(), root))

	m := e.Snapshot()
	require.NotNil(t, m)
	assert.Contains(t, m.Sources, "Order.cs")
	assert.Contains(t, m.Sources, "Models/Invoice.cs")
	assert.NotContains(t, m.Sources, "README.md")
	assert.Empty(t, e.Warnings())

	// Cross-file resolution within the shared namespace.
	submit := findSymbol(t, m, CategoryFunction, "Submit")
	invoice := findSymbol(t, m, CategoryType, "Invoice")
	assert.True(t, submit.Dependencies[invoice.ID()])
}

func TestEngine_SerialAndParallelAgree(t *testing.T) {
	t.Parallel()
	root := writeProject(t)
	ctx := context.Background()

	parallel := New(WithParallel(true))
	require.NoError(t, parallel.IndexDirectory(ctx, root))
	serial := New(WithParallel(false))
	require.NoError(t, serial.IndexDirectory(ctx, root))

	ids := func(m *CodeMap) []string {
		var out []string
		for id := range m.Symbols {
			out = append(out, id)
		}
		return out
	}
	assert.ElementsMatch(t, ids(parallel.Snapshot()), ids(serial.Snapshot()))
}

func TestEngine_LanguageFilter(t *testing.T) {
	t.Parallel()
	root := writeProject(t)

	e := New(WithLanguages("cshtml"))
	require.NoError(t, e.IndexDirectory(context.Background(), root))
	assert.Empty(t, e.Snapshot().Sources)
}

func TestEngine_Excludes(t *testing.T) {
	t.Parallel()
	root := writeProject(t)

	e := New(WithExcludes("Models/**"))
	require.NoError(t, e.IndexDirectory(context.Background(), root))

	m := e.Snapshot()
	assert.Contains(t, m.Sources, "Order.cs")
	assert.NotContains(t, m.Sources, "Models/Invoice.cs")
}

func TestEngine_BadExcludePattern(t *testing.T) {
	t.Parallel()
	e := New(WithExcludes("[unclosed"))
	err := e.IndexDirectory(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "exclude pattern")
}

func TestEngine_HashedIDs(t *testing.T) {
	t.Parallel()
	root := writeProject(t)

	e := New(WithHashedIDs(true))
	require.NoError(t, e.IndexDirectory(context.Background(), root))
	for id := range e.Snapshot().Symbols {
		assert.Len(t, id, 40)
	}
}

func TestEngine_QueryBeforeIndex(t *testing.T) {
	t.Parallel()
	_, err := New().Query()
	assert.ErrorContains(t, err, "no snapshot")
}

func TestQuery_RelevantForText(t *testing.T) {
	t.Parallel()
	root := writeProject(t)

	e := New()
	require.NoError(t, e.IndexDirectory(context.Background(), root))
	q, err := e.Query()
	require.NoError(t, err)

	sources, err := q.RelevantForText("Submit throws when the Invoice is missing")
	require.NoError(t, err)
	require.Len(t, sources, 2)

	paths := []string{sources[0].Document.Path, sources[1].Document.Path}
	assert.ElementsMatch(t, []string{"Order.cs", "Models/Invoice.cs"}, paths)

	for _, rs := range sources {
		require.NotEmpty(t, rs.Hunks)
		text := strings.Join(rs.Hunks[0].Lines(), "\n")
		assert.NotEmpty(t, text)
	}
}

func TestQuery_Dependencies(t *testing.T) {
	t.Parallel()
	root := writeProject(t)

	e := New()
	require.NoError(t, e.IndexDirectory(context.Background(), root))
	q, err := e.Query()
	require.NoError(t, err)

	submit := findSymbol(t, q.Map(), CategoryFunction, "Submit")
	visits, err := q.Dependencies(submit.ID())
	require.NoError(t, err)
	require.NotEmpty(t, visits)
	assert.Equal(t, "Invoice", visits[0].Symbol.Name)

	// And the reverse direction.
	invoice := findSymbol(t, q.Map(), CategoryType, "Invoice")
	visits, err = q.Dependents(invoice.ID())
	require.NoError(t, err)
	names := make([]string, 0, len(visits))
	for _, v := range visits {
		names = append(names, v.Symbol.Name)
	}
	assert.Contains(t, names, "Submit")
}

func TestQuery_RelevantForNamesUnknown(t *testing.T) {
	t.Parallel()
	root := writeProject(t)

	e := New()
	require.NoError(t, e.IndexDirectory(context.Background(), root))
	q, err := e.Query()
	require.NoError(t, err)

	_, err = q.RelevantForNames([]string{"NoSuchSymbol"})
	assert.ErrorContains(t, err, "no symbol named")
}
