package patch

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome of one spec.
type Status string

const (
	StatusPatched        Status = "patched"
	StatusAlreadyPatched Status = "already-patched"
	StatusAnchorNotFound Status = "anchor-not-found"
	StatusCellNotFound   Status = "cell-not-found"
)

// Result is the outcome of applying one spec.
type Result struct {
	Patch  string
	Status Status
	// Cell is the selected cell index, or -1 when no cell was selected.
	Cell int
	// Err is set when a positional selector failed.
	Err error
	Ops []OpResult
}

// Detail returns a human-readable explanation, empty when there is none.
func (r Result) Detail() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return ""
}

// MarshalJSON renders Err as a string.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Patch  string     `json:"patch"`
		Status Status     `json:"status"`
		Cell   int        `json:"cell"`
		Detail string     `json:"detail,omitempty"`
		Ops    []OpResult `json:"ops,omitempty"`
	}{r.Patch, r.Status, r.Cell, r.Detail(), r.Ops})
}

// Report summarizes an Apply call.
type Report struct {
	Results []Result `json:"results"`
	// CellsExamined counts distinct cells inspected by any selector.
	CellsExamined int `json:"cells_examined"`
	// CellsMutated counts distinct cells whose source changed.
	CellsMutated int `json:"cells_mutated"`

	examined map[int]bool
	mutated  map[int]bool
}

func newReport() *Report {
	return &Report{
		Results:  []Result{},
		examined: make(map[int]bool),
		mutated:  make(map[int]bool),
	}
}

func (r *Report) examine(i int) {
	if !r.examined[i] {
		r.examined[i] = true
		r.CellsExamined++
	}
}

func (r *Report) mutate(i int) {
	if !r.mutated[i] {
		r.mutated[i] = true
		r.CellsMutated++
	}
}

// Count returns how many results have the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Changed reports whether any spec modified the document.
func (r *Report) Changed() bool {
	return r.CellsMutated > 0
}

// String renders a one-line summary.
func (r *Report) String() string {
	return fmt.Sprintf("%d patch(es): %d patched, %d already patched, %d anchor not found, %d cell not found; %d cell(s) examined, %d mutated",
		len(r.Results),
		r.Count(StatusPatched), r.Count(StatusAlreadyPatched),
		r.Count(StatusAnchorNotFound), r.Count(StatusCellNotFound),
		r.CellsExamined, r.CellsMutated)
}
