package editing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatch_ApplyProducesNewDocument(t *testing.T) {
	t.Parallel()

	doc := testDocument(t, "a.txt", "zero", "one", "two", "three")
	h := NewHunk(doc, Block{Begin: 1, End: 3})
	h.Replacement = []string{"replaced"}

	applied, err := NewPatch(doc, []*Hunk{h}).Apply()
	require.NoError(t, err)
	assert.Equal(t, "zero\nreplaced\nthree", applied.Text())

	// The original stays untouched.
	assert.Equal(t, "zero\none\ntwo\nthree", doc.Text())
}

func TestPatch_ApplyRejectsOverlap(t *testing.T) {
	t.Parallel()

	doc := testDocument(t, "a.txt", "zero", "one", "two", "three")
	p := NewPatch(doc, []*Hunk{
		NewHunk(doc, Block{Begin: 0, End: 2}),
		NewHunk(doc, Block{Begin: 1, End: 3}),
	})
	_, err := p.Apply()
	assert.ErrorContains(t, err, "overlapping hunks")
}

func TestPatch_ApplyRejectsOutOfBounds(t *testing.T) {
	t.Parallel()

	doc := testDocument(t, "a.txt", "zero", "one")
	p := NewPatch(doc, []*Hunk{NewHunk(doc, Block{Begin: 0, End: 5})})
	_, err := p.Apply()
	assert.ErrorContains(t, err, "outside of the document")
}

func TestPatch_MergeHunksFoldsGapsIntoMarkers(t *testing.T) {
	t.Parallel()

	doc := testDocument(t, "a.cs",
		"using System;",
		"",
		"class A {",
		"}",
		"",
		"class B {",
		"}",
	)
	p := NewPatch(doc, []*Hunk{
		NewHunk(doc, Block{Begin: 0, End: 1}),
		NewHunk(doc, Block{Begin: 5, End: 7}),
	})
	require.NoError(t, p.MergeHunks())

	require.Len(t, p.Hunks, 1)
	merged := p.Hunks[0]
	assert.Equal(t, Block{Begin: 0, End: 7}, merged.Block)

	// The non-blank gap became one marker; the blank line at its edges is
	// part of the marker range.
	require.Len(t, merged.Markers, 1)
	assert.Equal(t, Block{Begin: 1, End: 5}, merged.Markers[0])
}

func TestPatch_MergeHunksKeepsBlankGapsVisible(t *testing.T) {
	t.Parallel()

	doc := testDocument(t, "a.txt", "one", "", "three")
	p := NewPatch(doc, []*Hunk{
		NewHunk(doc, Block{Begin: 0, End: 1}),
		NewHunk(doc, Block{Begin: 2, End: 3}),
	})
	require.NoError(t, p.MergeHunks())

	require.Len(t, p.Hunks, 1)
	assert.Empty(t, p.Hunks[0].Markers)
	assert.Equal(t, []string{"one", "", "three"}, p.Hunks[0].Lines())
}

func TestPatch_MergeHunksSingleHunkNoop(t *testing.T) {
	t.Parallel()

	doc := testDocument(t, "a.txt", "one", "two")
	h := NewHunk(doc, Block{Begin: 0, End: 1})
	p := NewPatch(doc, []*Hunk{h})
	require.NoError(t, p.MergeHunks())
	assert.Equal(t, []*Hunk{h}, p.Hunks)
}
