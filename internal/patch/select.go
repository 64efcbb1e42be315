package patch

import (
	"fmt"
	"strings"

	"github.com/roach88/cellpatch/internal/notebook"
)

// Find returns the index of the selected cell, or -1 when nothing matches.
// visit is called for every cell the selector inspects; it may be nil.
//
// A positional selector returns *SelectionError when the index is out of
// range or the cell is not code. A predicate scan never returns an error.
func (s Selector) Find(doc *notebook.Document, visit func(int)) (int, error) {
	if visit == nil {
		visit = func(int) {}
	}
	if s.Index != nil {
		return selectAt(doc, *s.Index, s.Contains, visit)
	}
	return selectFirst(doc, s.Contains, visit), nil
}

func selectAt(doc *notebook.Document, index int, contains []string, visit func(int)) (int, error) {
	if index < 0 || index >= doc.Len() {
		return -1, &SelectionError{
			Index:  index,
			Reason: fmt.Sprintf("out of range (document has %d cells)", doc.Len()),
		}
	}
	visit(index)

	cell := doc.Cells[index]
	if cell.Kind() != notebook.KindCode {
		return -1, &SelectionError{
			Index:  index,
			Reason: fmt.Sprintf("cell type is %q, not code", cell.Type),
		}
	}
	if !containsAll(cell.Source, contains) {
		return -1, nil
	}
	return index, nil
}

// selectFirst stops at the first code cell containing every substring.
func selectFirst(doc *notebook.Document, contains []string, visit func(int)) int {
	for i, cell := range doc.Cells {
		visit(i)
		if cell.Kind() == notebook.KindCode && containsAll(cell.Source, contains) {
			return i
		}
	}
	return -1
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
