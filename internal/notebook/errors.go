package notebook

import (
	"fmt"
)

// FormatError reports input that is not a well-formed notebook.
// It is fatal: callers must not mutate or write anything after receiving it.
type FormatError struct {
	// Cell is the index of the offending cell, or -1 for document-level problems.
	Cell    int
	Field   string
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Cell >= 0 {
		return fmt.Sprintf("malformed notebook: cells[%d].%s: %s", e.Cell, e.Field, msg)
	}
	if e.Field != "" {
		return fmt.Sprintf("malformed notebook: %s: %s", e.Field, msg)
	}
	return "malformed notebook: " + msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// InvariantError reports that a document about to be written no longer has
// the shape it was loaded with. This indicates a bug in whatever mutated the
// document, never a user error.
type InvariantError struct {
	Expected Shape
	Actual   Shape
	// Index is the first differing cell, or -1 when only the count differs.
	Index int
}

func (e *InvariantError) Error() string {
	if len(e.Expected) != len(e.Actual) {
		return fmt.Sprintf("document shape invariant violated: cell count %d, expected %d",
			len(e.Actual), len(e.Expected))
	}
	return fmt.Sprintf("document shape invariant violated: cells[%d] is %q, expected %q",
		e.Index, e.Actual[e.Index], e.Expected[e.Index])
}

// CheckShape compares actual against expected and returns an *InvariantError
// on the first difference.
func CheckShape(expected, actual Shape) error {
	if len(expected) != len(actual) {
		return &InvariantError{Expected: expected, Actual: actual, Index: -1}
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return &InvariantError{Expected: expected, Actual: actual, Index: i}
		}
	}
	return nil
}
