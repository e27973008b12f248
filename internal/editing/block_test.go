package editing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlock_Validation(t *testing.T) {
	t.Parallel()

	b, err := NewBlock(2, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, b.LineCount())

	_, err = NewBlock(-1, 5)
	assert.Error(t, err)

	_, err = NewBlock(5, 2)
	assert.Error(t, err)

	// Empty blocks are allowed.
	b, err = NewBlock(3, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, b.LineCount())
}

func TestBlock_Overlaps(t *testing.T) {
	t.Parallel()

	a := Block{Begin: 0, End: 5}
	assert.True(t, a.Overlaps(Block{Begin: 4, End: 8}))
	assert.True(t, a.Overlaps(Block{Begin: 1, End: 3}))

	// Half-open ranges: touching blocks do not overlap.
	assert.False(t, a.Overlaps(Block{Begin: 5, End: 8}))
	assert.False(t, a.Overlaps(Block{Begin: 8, End: 10}))
}

func TestBlock_Inside(t *testing.T) {
	t.Parallel()

	outer := Block{Begin: 2, End: 10}
	assert.True(t, Block{Begin: 2, End: 10}.Inside(outer))
	assert.True(t, Block{Begin: 3, End: 9}.Inside(outer))
	assert.False(t, Block{Begin: 1, End: 9}.Inside(outer))
	assert.False(t, Block{Begin: 3, End: 11}.Inside(outer))
}

func TestBlock_MarkerPerDocType(t *testing.T) {
	t.Parallel()

	b := Block{Begin: 3, End: 7}
	assert.Equal(t, `**CodeMap.Marker#3:7**`, b.Marker(DocTypeMarkdown))
	assert.Equal(t, `CodeMap.Marker("3:7")`, b.Marker(DocTypeGo))
	assert.Equal(t, `CodeMap.Marker("3:7");`, b.Marker(DocTypeCSharp))
	assert.Equal(t, `<span class="CodeMap.Marker">3:7</span>`, b.Marker(DocTypeCshtml))
}

func TestInsortBlock(t *testing.T) {
	t.Parallel()

	blocks, err := insortBlock(nil, Block{Begin: 5, End: 8})
	require.NoError(t, err)
	blocks, err = insortBlock(blocks, Block{Begin: 0, End: 2})
	require.NoError(t, err)
	blocks, err = insortBlock(blocks, Block{Begin: 2, End: 5})
	require.NoError(t, err)

	assert.Equal(t, []Block{{0, 2}, {2, 5}, {5, 8}}, blocks)

	_, err = insortBlock(blocks, Block{Begin: 4, End: 6})
	assert.ErrorContains(t, err, "overlapping block")
}
