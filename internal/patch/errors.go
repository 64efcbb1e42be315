package patch

import "fmt"

// SelectionError reports that a positional selector could not be satisfied.
// It is recoverable: the spec is skipped and the run continues.
type SelectionError struct {
	Index  int
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("select cell %d: %s", e.Index, e.Reason)
}

// UnstableError reports that a marker-less spec would change its own output
// again on the next run, typically because a replacement recreates its from
// text out of the surrounding source. The cell is left untouched.
type UnstableError struct {
	Patch string
	Cell  int
}

func (e *UnstableError) Error() string {
	return fmt.Sprintf("patch %q does not settle on cell %d: applying it again would change the result; add a marker", e.Patch, e.Cell)
}
