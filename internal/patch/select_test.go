package patch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cellpatch/internal/notebook"
)

func docOf(cells ...notebook.Cell) *notebook.Document {
	return &notebook.Document{Cells: cells}
}

func code(src string) notebook.Cell     { return notebook.Cell{Type: "code", Source: src} }
func markdown(src string) notebook.Cell { return notebook.Cell{Type: "markdown", Source: src} }

func TestSelectPositional(t *testing.T) {
	doc := docOf(markdown("intro"), code("a = 1"), code("b = 2"))

	idx, err := At(2).Find(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestSelectPositionalOutOfRange(t *testing.T) {
	doc := docOf(code("a"))

	for _, index := range []int{1, 17, -1} {
		idx, err := At(index).Find(doc, nil)
		assert.Equal(t, -1, idx)

		var se *SelectionError
		require.True(t, errors.As(err, &se), "index %d", index)
		assert.Equal(t, index, se.Index)
		assert.Contains(t, se.Error(), "out of range")
	}
}

func TestSelectPositionalNotCode(t *testing.T) {
	doc := docOf(markdown("# md"))

	idx, err := At(0).Find(doc, nil)
	assert.Equal(t, -1, idx)

	var se *SelectionError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Error(), `"markdown"`)
}

func TestSelectPositionalWithContains(t *testing.T) {
	doc := docOf(code("save(df)"))

	idx, err := At(0, "save(df").Find(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = At(0, "other").Find(doc, nil)
	require.NoError(t, err, "content mismatch is not a selection error")
	assert.Equal(t, -1, idx)
}

func TestSelectFirstMatch(t *testing.T) {
	doc := docOf(
		markdown("MONTHLY STATISTICS and MEDIAN & AVERAGE"), // narrative cells never match
		code("MONTHLY STATISTICS only"),
		code("MONTHLY STATISTICS (MEDIAN & AVERAGE)"),
		code("MONTHLY STATISTICS (MEDIAN & AVERAGE) again"),
	)

	var visited []int
	idx, err := First("MONTHLY STATISTICS", "MEDIAN & AVERAGE").Find(doc, func(i int) {
		visited = append(visited, i)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, []int{0, 1, 2}, visited, "scan stops at the first match")
}

func TestSelectFirstNoMatch(t *testing.T) {
	doc := docOf(code("a"), code("b"))

	var visited int
	idx, err := First("zzz").Find(doc, func(int) { visited++ })
	require.NoError(t, err)
	assert.Equal(t, -1, idx)
	assert.Equal(t, 2, visited)
}
