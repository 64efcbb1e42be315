package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Load reads and parses a notebook from r.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read notebook: %w", err)
	}
	return Parse(data)
}

// Parse decodes a notebook. Any structural problem is reported as a
// *FormatError; nothing beyond cell_type and source is validated.
func Parse(data []byte) (*Document, error) {
	if !json.Valid(data) {
		// Re-run the decoder to get a positioned syntax error.
		var v any
		err := json.Unmarshal(data, &v)
		return nil, &FormatError{Cell: -1, Message: "invalid JSON", Err: err}
	}

	if jsonKind(data) != '{' {
		return nil, &FormatError{Cell: -1, Message: "top level must be an object"}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &FormatError{Cell: -1, Message: "decode top level", Err: err}
	}

	rawCells, ok := top["cells"]
	if !ok {
		return nil, &FormatError{Cell: -1, Field: "cells", Message: "missing"}
	}
	if jsonKind(rawCells) != '[' {
		return nil, &FormatError{Cell: -1, Field: "cells", Message: "must be an array"}
	}
	delete(top, "cells")

	var items []json.RawMessage
	if err := json.Unmarshal(rawCells, &items); err != nil {
		return nil, &FormatError{Cell: -1, Field: "cells", Message: "decode", Err: err}
	}

	doc := &Document{
		Cells: make([]Cell, 0, len(items)),
		Extra: top,
	}
	for i, item := range items {
		cell, err := parseCell(i, item)
		if err != nil {
			return nil, err
		}
		doc.Cells = append(doc.Cells, cell)
	}

	return doc, nil
}

func parseCell(index int, raw json.RawMessage) (Cell, error) {
	if jsonKind(raw) != '{' {
		return Cell{}, &FormatError{Cell: index, Message: "cell must be an object"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Cell{}, &FormatError{Cell: index, Message: "decode cell", Err: err}
	}

	rawType, ok := fields["cell_type"]
	if !ok || jsonKind(rawType) != '"' {
		return Cell{}, &FormatError{Cell: index, Field: "cell_type", Message: "missing or not a string"}
	}
	var cellType string
	if err := json.Unmarshal(rawType, &cellType); err != nil {
		return Cell{}, &FormatError{Cell: index, Field: "cell_type", Message: "decode", Err: err}
	}

	rawSource, ok := fields["source"]
	if !ok {
		return Cell{}, &FormatError{Cell: index, Field: "source", Message: "missing"}
	}
	source, err := decodeSource(rawSource)
	if err != nil {
		return Cell{}, &FormatError{Cell: index, Field: "source", Message: err.Error()}
	}

	delete(fields, "cell_type")
	delete(fields, "source")

	return Cell{Type: cellType, Source: source, Extra: fields}, nil
}

// decodeSource accepts either a single string or an array of strings. The
// array form is concatenated without separators; nbformat lines carry their
// own trailing "\n".
func decodeSource(raw json.RawMessage) (string, error) {
	switch jsonKind(raw) {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil {
			return "", err
		}
		var b strings.Builder
		for i, p := range parts {
			if jsonKind(p) != '"' {
				return "", fmt.Errorf("element %d is not a string", i)
			}
			var s string
			if err := json.Unmarshal(p, &s); err != nil {
				return "", fmt.Errorf("element %d: %w", i, err)
			}
			b.WriteString(s)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("must be a string or an array of strings")
	}
}

// jsonKind returns the first significant byte of a JSON value.
func jsonKind(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
