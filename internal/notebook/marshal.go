package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Style selects how cell sources are written.
type Style string

const (
	// StyleLines writes each source as an array of line-strings, every line
	// but the last keeping its trailing "\n". This is the nbformat on-disk form.
	StyleLines Style = "lines"
	// StyleString writes each source as a single string.
	StyleString Style = "string"
)

// ValidStyles lists the accepted Style values.
var ValidStyles = []Style{StyleLines, StyleString}

// ParseStyle converts a flag value to a Style. The empty string selects
// StyleLines.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case "", StyleLines:
		return StyleLines, nil
	case StyleString:
		return StyleString, nil
	default:
		return "", fmt.Errorf("invalid source style %q: must be one of %v", s, ValidStyles)
	}
}

// MarshalOptions controls Marshal.
type MarshalOptions struct {
	Style Style

	// Expect, when non-nil, is the shape the document must still have.
	// A mismatch fails with *InvariantError before any output is produced.
	Expect Shape
}

// Marshal serializes the document deterministically: object keys sorted,
// two-space indentation, no HTML escaping, trailing newline.
func Marshal(doc *Document, opts MarshalOptions) ([]byte, error) {
	if opts.Expect != nil {
		if err := CheckShape(opts.Expect, doc.Shape()); err != nil {
			return nil, err
		}
	}

	style := opts.Style
	if style == "" {
		style = StyleLines
	}

	cells := make([]map[string]any, len(doc.Cells))
	for i, c := range doc.Cells {
		obj := make(map[string]any, len(c.Extra)+2)
		for k, v := range c.Extra {
			obj[k] = v
		}
		obj["cell_type"] = c.Type
		obj["source"] = encodeSource(c.Source, style)
		cells[i] = obj
	}

	top := make(map[string]any, len(doc.Extra)+1)
	for k, v := range doc.Extra {
		top[k] = v
	}
	top["cells"] = cells

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(top); err != nil {
		return nil, fmt.Errorf("marshal notebook: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeSource(source string, style Style) any {
	if style == StyleString {
		return source
	}
	return SplitSourceLines(source)
}

// SplitSourceLines splits a source into nbformat line-strings: every element
// except possibly the last ends with "\n". An empty source yields an empty
// (non-nil) slice.
func SplitSourceLines(source string) []string {
	parts := strings.SplitAfter(source, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
