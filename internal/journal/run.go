package journal

import (
	"github.com/roach88/cellpatch/internal/patch"
)

// Run is one recorded invocation of a plan against a document.
type Run struct {
	ID         string        `json:"id"`
	Seq        int64         `json:"seq"`
	Document   string        `json:"document"`
	Dest       string        `json:"dest"`
	Plan       string        `json:"plan"`
	PlanOrigin string        `json:"plan_origin,omitempty"`
	InputHash  string        `json:"input_hash"`
	OutputHash string        `json:"output_hash"`
	CellCount  int           `json:"cell_count"`
	Examined   int           `json:"cells_examined"`
	Mutated    int           `json:"cells_mutated"`
	DryRun     bool          `json:"dry_run"`
	Written    bool          `json:"written"`
	Results    []PatchResult `json:"results,omitempty"`
}

// PatchResult is the stored outcome of one patch within a run.
type PatchResult struct {
	Position int              `json:"position"`
	Patch    string           `json:"patch"`
	Status   patch.Status     `json:"status"`
	Cell     int              `json:"cell"`
	Detail   string           `json:"detail,omitempty"`
	Ops      []patch.OpResult `json:"ops,omitempty"`
}

// ResultsFromReport converts a patch report into journal rows, in order.
func ResultsFromReport(r *patch.Report) []PatchResult {
	if r == nil {
		return nil
	}
	out := make([]PatchResult, len(r.Results))
	for i, res := range r.Results {
		out[i] = PatchResult{
			Position: i,
			Patch:    res.Patch,
			Status:   res.Status,
			Cell:     res.Cell,
			Detail:   res.Detail(),
			Ops:      res.Ops,
		}
	}
	return out
}
