package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/codemap/internal/graph"
)

const csharpFixture = `using System;
using Bar;

namespace Foo
{
    class C
    {
        int count;

        void M()
        {
            var x = 1;
            count = x + Helper.Add(x);
        }
    }

    class Helper
    {
        public static int Add(int n)
        {
            return n;
        }
    }
}
`

func parseCSharp(t *testing.T, path, content string) *graph.CodeMap {
	t.Helper()
	m := graph.New(false)
	p := &CSharpParser{}
	require.NoError(t, p.Parse(m, path, []byte(content)))
	return m
}

// symbolNamed finds the unique symbol with the given name and category.
func symbolNamed(t *testing.T, m *graph.CodeMap, category graph.Category, name string) *graph.Symbol {
	t.Helper()
	var found []*graph.Symbol
	for _, s := range m.SymbolsWithCategory(category) {
		if s.Name == name {
			found = append(found, s)
		}
	}
	require.Len(t, found, 1, "expected exactly one %s named %s", category, name)
	return found[0]
}

func TestCSharpParser_Detect(t *testing.T) {
	t.Parallel()
	p := Detect("Models/Food.cs")
	require.NotNil(t, p)
	assert.Equal(t, "CSharp", p.Name())
	assert.Nil(t, Detect("Makefile"))
}

func TestCSharpParser_SymbolTree(t *testing.T) {
	t.Parallel()
	m := parseCSharp(t, "a.cs", csharpFixture)

	source := m.Source("a.cs")
	require.NotNil(t, source)

	ns := symbolNamed(t, m, graph.CategoryNamespace, "Foo")
	assert.Equal(t, source.ID(), ns.Parent)

	c := symbolNamed(t, m, graph.CategoryType, "C")
	helper := symbolNamed(t, m, graph.CategoryType, "Helper")
	assert.Equal(t, ns.ID(), c.Parent)
	assert.Equal(t, ns.ID(), helper.Parent)

	method := symbolNamed(t, m, graph.CategoryFunction, "M")
	add := symbolNamed(t, m, graph.CategoryFunction, "Add")
	assert.Equal(t, c.ID(), method.Parent)
	assert.Equal(t, helper.ID(), add.Parent)

	field := symbolNamed(t, m, graph.CategoryVariable, "count")
	assert.Equal(t, c.ID(), field.Parent)

	// Local variables are symbols under the enclosing function.
	local := symbolNamed(t, m, graph.CategoryVariable, "x")
	assert.Equal(t, method.ID(), local.Parent)
}

func TestCSharpParser_Usings(t *testing.T) {
	t.Parallel()
	m := parseCSharp(t, "a.cs", csharpFixture)
	source := m.Source("a.cs")

	usings := m.ChildrenOf(source, graph.CategoryUsing)
	names := make([]string, 0, len(usings))
	for _, u := range usings {
		names = append(names, u.Name)
	}
	assert.ElementsMatch(t, []string{"System", "Bar"}, names)

	// The first using covers exactly its line.
	system := symbolNamed(t, m, graph.CategoryUsing, "System")
	assert.Equal(t, 0, system.Block.Begin)
	assert.Equal(t, 1, system.Block.End)
}

func TestCSharpParser_ReferencesResolveToEdges(t *testing.T) {
	t.Parallel()
	m := parseCSharp(t, "a.cs", csharpFixture)
	warnings := m.CrossReference()
	assert.Empty(t, warnings)

	method := symbolNamed(t, m, graph.CategoryFunction, "M")
	helper := symbolNamed(t, m, graph.CategoryType, "Helper")
	add := symbolNamed(t, m, graph.CategoryFunction, "Add")
	field := symbolNamed(t, m, graph.CategoryVariable, "count")
	local := symbolNamed(t, m, graph.CategoryVariable, "x")

	assert.True(t, method.Dependencies[helper.ID()], "M should use Helper")
	assert.True(t, method.Dependencies[add.ID()], "M should use Add")
	assert.True(t, method.Dependencies[field.ID()], "M should use count")
	assert.True(t, method.Dependencies[local.ID()], "M should use x")
}

func TestCSharpParser_BlockEndsCoverBodies(t *testing.T) {
	t.Parallel()
	m := parseCSharp(t, "a.cs", csharpFixture)

	ns := symbolNamed(t, m, graph.CategoryNamespace, "Foo")
	c := symbolNamed(t, m, graph.CategoryType, "C")
	method := symbolNamed(t, m, graph.CategoryFunction, "M")

	assert.True(t, c.Block.Inside(ns.Block))
	assert.True(t, method.Block.Inside(c.Block))
	assert.Greater(t, method.Block.LineCount(), 3)
}

func TestCSharpParser_RelevantSourceForLocal(t *testing.T) {
	t.Parallel()
	m := graph.New(false)
	p := &CSharpParser{}
	require.NoError(t, p.Parse(m, "a.cs", []byte(csharpFixture)))
	// A second file declares Bar, so the "using Bar;" directive survives
	// cross-reference cleanup; System names nothing in the project.
	require.NoError(t, p.Parse(m, "b.cs", []byte("namespace Bar\n{\n}\n")))
	require.Empty(t, m.CrossReference())

	local := symbolNamed(t, m, graph.CategoryVariable, "x")
	method := symbolNamed(t, m, graph.CategoryFunction, "M")

	sources, err := m.CollectRelevantSources([]*graph.Symbol{local})
	require.NoError(t, err)
	require.Len(t, sources, 1)

	rs := sources[0]
	assert.Contains(t, rs.SymbolIDs, local.ID())
	assert.Contains(t, rs.SymbolIDs, method.ID())

	require.Len(t, rs.Hunks, 1)
	rendered := strings.Join(rs.Hunks[0].Lines(), "\n")
	assert.Contains(t, rendered, "void M()")
	assert.Contains(t, rendered, "var x = 1;")
	// The sibling class body is hidden behind a marker.
	assert.NotContains(t, rendered, "return n;")
	// The surviving using line is always included; the deleted one is not.
	assert.Contains(t, rendered, "using Bar;")
	assert.NotContains(t, rendered, "using System;")
}

func TestCSharpParser_FileScopedNamespace(t *testing.T) {
	t.Parallel()
	m := parseCSharp(t, "b.cs", "namespace Flat;\n\nclass D\n{\n}\n")

	ns := symbolNamed(t, m, graph.CategoryNamespace, "Flat")
	d := symbolNamed(t, m, graph.CategoryType, "D")
	// File-scoped namespaces span the rest of the file, so the class nests
	// under the namespace.
	assert.Equal(t, ns.ID(), d.Parent)
}
