package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cellpatch/internal/testutil"
)

func TestSourceHashIgnoresFormatting(t *testing.T) {
	asString, err := Parse(testutil.NotebookJSON(testutil.Code("a\nb\n")))
	require.NoError(t, err)
	asLines, err := Parse(testutil.NotebookJSON(testutil.CodeLines("a\nb\n")))
	require.NoError(t, err)

	assert.Equal(t, SourceHash(asString), SourceHash(asLines))
	assert.Len(t, SourceHash(asString), 64)
}

func TestSourceHashNFC(t *testing.T) {
	composed := &Document{Cells: []Cell{{Type: "markdown", Source: "caf\u00e9"}}}
	decomposed := &Document{Cells: []Cell{{Type: "markdown", Source: "cafe\u0301"}}}
	assert.Equal(t, SourceHash(composed), SourceHash(decomposed))
}

func TestSourceHashSensitiveToContent(t *testing.T) {
	a := &Document{Cells: []Cell{{Type: "code", Source: "x"}}}
	b := &Document{Cells: []Cell{{Type: "markdown", Source: "x"}}}
	c := &Document{Cells: []Cell{{Type: "code", Source: "y"}}}
	// Boundaries matter: one cell "ab" differs from cells "a" and "b".
	d := &Document{Cells: []Cell{{Type: "code", Source: "ab"}}}
	e := &Document{Cells: []Cell{{Type: "code", Source: "a"}, {Type: "code", Source: "b"}}}

	assert.NotEqual(t, SourceHash(a), SourceHash(b))
	assert.NotEqual(t, SourceHash(a), SourceHash(c))
	assert.NotEqual(t, SourceHash(d), SourceHash(e))
}
