package patch

import (
	"strings"

	"github.com/roach88/cellpatch/internal/notebook"
)

// Apply runs specs in order against a copy of doc and returns the patched
// copy with a report. Each spec sees the output of the previous one. doc
// itself is never modified, and Apply never adds, removes or retypes cells.
//
// Apply does not validate specs; callers loading specs from outside the
// program should run Validate first.
func Apply(doc *notebook.Document, specs []Spec) (*notebook.Document, *Report) {
	out := doc.Clone()
	report := newReport()
	for _, spec := range specs {
		report.Results = append(report.Results, applySpec(out, spec, report))
	}
	return out, report
}

// ApplyOne is Apply for a single spec.
func ApplyOne(doc *notebook.Document, spec Spec) (*notebook.Document, Result) {
	out, report := Apply(doc, []Spec{spec})
	return out, report.Results[0]
}

func applySpec(doc *notebook.Document, spec Spec, report *Report) Result {
	res := Result{Patch: spec.Name, Cell: -1}

	idx, err := spec.Select.Find(doc, report.examine)
	if idx < 0 {
		res.Status = StatusCellNotFound
		res.Err = err
		return res
	}
	res.Cell = idx

	cell := doc.Cells[idx]
	source := cell.Source

	// Idempotency short-circuit: the document records whether this patch
	// already happened.
	if spec.Marker != "" && strings.Contains(source, spec.Marker) {
		res.Status = StatusAlreadyPatched
		return res
	}

	// Ops work on bare lines; a CRLF cell gets its endings back on join.
	eol := cell.EOL()
	lines, opResults := ApplyOps(cell.Lines(), spec.Ops)
	res.Ops = opResults

	for _, r := range opResults {
		if r.Kind == OpInsertAfterAnchor && !r.Applied {
			// Discard every op of this spec; a half-applied patch would not be
			// caught by the marker check on the next run.
			res.Status = StatusAnchorNotFound
			return res
		}
	}

	patched := notebook.JoinLines(lines, eol)
	if patched == source {
		bare := notebook.JoinLines(cell.Lines(), notebook.LF)
		if spec.Marker == "" && replacementPresent(bare, spec.Ops) {
			res.Status = StatusAlreadyPatched
		} else {
			res.Status = StatusAnchorNotFound
		}
		return res
	}

	// Without a marker the only proof of idempotence is that a second pass
	// is a no-op.
	if spec.Marker == "" {
		again, _ := ApplyOps(lines, spec.Ops)
		if notebook.JoinLines(again, eol) != patched {
			res.Status = StatusAnchorNotFound
			res.Err = &UnstableError{Patch: spec.Name, Cell: idx}
			return res
		}
	}

	doc.Cells[idx].Source = patched
	report.mutate(idx)
	res.Status = StatusPatched
	return res
}

// replacementPresent reports whether the replacement text of some
// replace_literal op is already in source. For marker-less specs this is
// the only evidence that the rewrite happened before.
func replacementPresent(source string, ops []Op) bool {
	for _, op := range ops {
		if op.Kind == OpReplaceLiteral && op.To != "" && strings.Contains(source, op.To) {
			return true
		}
	}
	return false
}
