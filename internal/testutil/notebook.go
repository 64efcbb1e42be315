// Package testutil builds notebook fixtures shared by tests across packages.
//
// It deliberately imports no internal package so that any package's tests,
// including in-package tests, can use it without import cycles.
package testutil

import (
	"encoding/json"
	"strings"
)

// CellFixture describes one cell of a fixture notebook. Source is either a
// string or a []string (nbformat line array).
type CellFixture struct {
	Type   string
	Source any
}

// Code returns a code cell whose source is stored as a single string.
func Code(source string) CellFixture {
	return CellFixture{Type: "code", Source: source}
}

// CodeLines returns a code cell whose source is stored as an array of
// line-strings, split the way nbformat writes them.
func CodeLines(source string) CellFixture {
	return CellFixture{Type: "code", Source: splitLines(source)}
}

// Markdown returns a narrative cell.
func Markdown(source string) CellFixture {
	return CellFixture{Type: "markdown", Source: source}
}

// Raw returns a raw cell.
func Raw(source string) CellFixture {
	return CellFixture{Type: "raw", Source: source}
}

// NotebookJSON renders cells as an nbformat 4 notebook.
func NotebookJSON(cells ...CellFixture) []byte {
	items := make([]map[string]any, len(cells))
	for i, c := range cells {
		item := map[string]any{
			"cell_type": c.Type,
			"metadata":  map[string]any{},
			"source":    c.Source,
		}
		if c.Type == "code" {
			item["execution_count"] = nil
			item["outputs"] = []any{}
		}
		items[i] = item
	}
	metadata := map[string]any{
		"language_info": map[string]any{"name": "python"},
	}
	nb := map[string]any{
		"cells":          items,
		"metadata":       metadata,
		"nbformat":       4,
		"nbformat_minor": 5,
	}
	data, err := json.MarshalIndent(nb, "", " ")
	if err != nil {
		panic(err)
	}
	return data
}

func splitLines(source string) []string {
	parts := strings.SplitAfter(source, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
