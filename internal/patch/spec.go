package patch

// OpKind tags the variant of an Op.
type OpKind string

const (
	// OpInsertAfterAnchor inserts Lines after the first line containing every
	// Anchor substring.
	OpInsertAfterAnchor OpKind = "insert_after_anchor"
	// OpReplaceLiteral replaces every occurrence of From with To.
	OpReplaceLiteral OpKind = "replace_literal"
	// OpInsertBeforeMarker inserts Lines before the first line containing
	// Marker, keeping that line.
	OpInsertBeforeMarker OpKind = "insert_before_marker"
)

// ValidOpKinds lists every OpKind the interpreter understands.
var ValidOpKinds = []OpKind{OpInsertAfterAnchor, OpReplaceLiteral, OpInsertBeforeMarker}

// Op is one line-level operation. Which fields are meaningful depends on Kind.
type Op struct {
	Kind OpKind

	// Anchor substrings must all appear on the same line (insert_after_anchor).
	Anchor []string

	// Lines is the block to insert (insert_after_anchor, insert_before_marker).
	Lines []string

	// From and To are the literal replacement pair (replace_literal).
	From string
	To   string

	// Marker locates the line to insert before (insert_before_marker).
	Marker string
}

// Selector identifies the cell a spec targets.
//
// With Index set the selection is positional and Contains, if present, is an
// extra requirement on that cell. With Index nil the first code cell
// containing every Contains substring is selected.
type Selector struct {
	Index    *int
	Contains []string
}

// At returns a positional selector.
func At(index int, contains ...string) Selector {
	return Selector{Index: &index, Contains: contains}
}

// First returns a predicate-scan selector.
func First(contains ...string) Selector {
	return Selector{Contains: contains}
}

// Spec is a declarative description of one transformation.
type Spec struct {
	Name   string
	Select Selector

	// Marker is the idempotency marker. When it already occurs in the selected
	// cell the spec is skipped. Required when the spec inserts after an anchor.
	Marker string

	Ops []Op
}
