package notebook

import (
	"encoding/json"
	"strings"
)

// Kind classifies a cell for patching purposes. Only KindCode cells are
// eligible targets.
type Kind string

const (
	KindCode      Kind = "code"
	KindNarrative Kind = "narrative"
	KindOther     Kind = "other"
)

// Document is an ordered sequence of cells plus the top-level fields of the
// notebook (metadata, nbformat, nbformat_minor, ...) kept as raw JSON.
type Document struct {
	Cells []Cell
	Extra map[string]json.RawMessage
}

// Cell is one unit of a document.
//
// Type is the raw cell_type value ("code", "markdown", "raw", ...). Source is
// the normalized cell content. Extra holds every other cell field verbatim.
type Cell struct {
	Type   string
	Source string
	Extra  map[string]json.RawMessage
}

// Kind maps the raw cell_type to a Kind.
func (c Cell) Kind() Kind {
	switch c.Type {
	case "code":
		return KindCode
	case "markdown":
		return KindNarrative
	default:
		return KindOther
	}
}

// Line endings recognized by Cell.EOL.
const (
	LF   = "\n"
	CRLF = "\r\n"
)

// EOL returns CRLF when every newline in the source is part of a "\r\n"
// pair, otherwise LF.
func (c Cell) EOL() string {
	n := strings.Count(c.Source, "\n")
	if n > 0 && strings.Count(c.Source, CRLF) == n {
		return CRLF
	}
	return LF
}

// Lines splits the source on its EOL. A trailing newline yields a final
// empty element, so JoinLines(c.Lines(), c.EOL()) == c.Source.
func (c Cell) Lines() []string {
	return strings.Split(c.Source, c.EOL())
}

// JoinLines is the inverse of Cell.Lines.
func JoinLines(lines []string, eol string) string {
	return strings.Join(lines, eol)
}

// Len returns the number of cells.
func (d *Document) Len() int {
	return len(d.Cells)
}

// Clone returns a copy of the document that can be mutated without affecting
// the receiver. Raw JSON values are shared; they are never modified in place.
func (d *Document) Clone() *Document {
	out := &Document{
		Cells: make([]Cell, len(d.Cells)),
		Extra: cloneRaw(d.Extra),
	}
	for i, c := range d.Cells {
		out.Cells[i] = Cell{Type: c.Type, Source: c.Source, Extra: cloneRaw(c.Extra)}
	}
	return out
}

// Shape is the ordered list of cell types of a document. Two documents with
// equal shapes have the same cell count and the same type at every index.
type Shape []string

// Shape returns the document's current shape.
func (d *Document) Shape() Shape {
	s := make(Shape, len(d.Cells))
	for i, c := range d.Cells {
		s[i] = c.Type
	}
	return s
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
