package patch

import "strings"

// OpResult records what one Op did.
type OpResult struct {
	Kind    OpKind `json:"kind"`
	Applied bool   `json:"applied"`
	// Line is the 0-based index of the anchor or marker line in the input to
	// this op, or -1 when not applicable.
	Line int `json:"line"`
	// Replacements counts literal replacements (replace_literal only).
	Replacements int `json:"replacements,omitempty"`
}

// ApplyOps runs ops in order over lines and returns the resulting lines. Each
// op sees the output of the previous one. The input slice is not modified.
func ApplyOps(lines []string, ops []Op) ([]string, []OpResult) {
	cur := lines
	results := make([]OpResult, 0, len(ops))
	for _, op := range ops {
		var res OpResult
		cur, res = applyOp(cur, op)
		results = append(results, res)
	}
	return cur, results
}

func applyOp(lines []string, op Op) ([]string, OpResult) {
	switch op.Kind {
	case OpInsertAfterAnchor:
		return insertAfterAnchor(lines, op)
	case OpReplaceLiteral:
		return replaceLiteral(lines, op)
	case OpInsertBeforeMarker:
		return insertBeforeMarker(lines, op)
	default:
		return lines, OpResult{Kind: op.Kind, Line: -1}
	}
}

// insertAfterAnchor is first-match-wins: later lines matching the anchor are
// left alone.
func insertAfterAnchor(lines []string, op Op) ([]string, OpResult) {
	res := OpResult{Kind: op.Kind, Line: -1}
	if len(op.Anchor) == 0 {
		return lines, res
	}
	for i, line := range lines {
		if !containsAll(line, op.Anchor) {
			continue
		}
		res.Applied = true
		res.Line = i
		return splice(lines, i+1, op.Lines), res
	}
	return lines, res
}

// replaceLiteral works on the joined text so From and To may span lines.
func replaceLiteral(lines []string, op Op) ([]string, OpResult) {
	res := OpResult{Kind: op.Kind, Line: -1}
	if op.From == "" {
		return lines, res
	}
	text := strings.Join(lines, "\n")
	n := strings.Count(text, op.From)
	if n == 0 {
		return lines, res
	}
	res.Applied = true
	res.Replacements = n
	return strings.Split(strings.ReplaceAll(text, op.From, op.To), "\n"), res
}

// insertBeforeMarker is a no-op when the block already sits directly above
// the marker line.
func insertBeforeMarker(lines []string, op Op) ([]string, OpResult) {
	res := OpResult{Kind: op.Kind, Line: -1}
	if op.Marker == "" {
		return lines, res
	}
	for i, line := range lines {
		if !strings.Contains(line, op.Marker) {
			continue
		}
		res.Line = i
		if precededBy(lines, i, op.Lines) {
			return lines, res
		}
		res.Applied = true
		return splice(lines, i, op.Lines), res
	}
	return lines, res
}

func precededBy(lines []string, at int, block []string) bool {
	if at < len(block) {
		return false
	}
	start := at - len(block)
	for j, b := range block {
		if lines[start+j] != b {
			return false
		}
	}
	return true
}

// splice returns a new slice with block inserted before index at.
func splice(lines []string, at int, block []string) []string {
	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:at]...)
	out = append(out, block...)
	out = append(out, lines[at:]...)
	return out
}
