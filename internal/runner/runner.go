// Package runner executes a plan against a stored notebook: load, patch,
// serialize, write back and journal.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/cellpatch/internal/blob"
	"github.com/roach88/cellpatch/internal/journal"
	"github.com/roach88/cellpatch/internal/notebook"
	"github.com/roach88/cellpatch/internal/patch"
	"github.com/roach88/cellpatch/internal/plan"
)

// OpenFunc resolves a location to a store and the key inside it.
type OpenFunc func(ctx context.Context, location string) (blob.Store, string, error)

// Recorder persists finished runs. *journal.Journal implements it.
type Recorder interface {
	RecordRun(ctx context.Context, run journal.Run) (journal.Run, error)
}

// Options configures a single run.
type Options struct {
	Source string
	// Dest defaults to Source.
	Dest   string
	Plan   *plan.Plan
	Style  notebook.Style
	DryRun bool

	// Journal is optional.
	Journal Recorder
	// Open defaults to blob.Resolve.
	Open   OpenFunc
	Logger *slog.Logger
}

// Outcome describes what a run did.
type Outcome struct {
	Source     string        `json:"source"`
	Dest       string        `json:"dest"`
	Plan       string        `json:"plan"`
	Report     *patch.Report `json:"report"`
	InputHash  string        `json:"input_hash"`
	OutputHash string        `json:"output_hash"`
	// Changed is true when the serialized output differs from the input bytes.
	Changed bool `json:"changed"`
	Written bool `json:"written"`
	DryRun  bool `json:"dry_run"`
	// RunID is set when the run was journaled.
	RunID string `json:"run_id,omitempty"`

	output []byte
}

// Output returns the serialized notebook, whether or not it was written.
func (o *Outcome) Output() []byte { return o.output }

// Pending lists patches that would still modify the document.
func (o *Outcome) Pending() []string {
	return o.names(patch.StatusPatched)
}

// Missing lists patches whose anchor or cell could not be found.
func (o *Outcome) Missing() []string {
	return append(o.names(patch.StatusAnchorNotFound), o.names(patch.StatusCellNotFound)...)
}

func (o *Outcome) names(s patch.Status) []string {
	var names []string
	if o.Report == nil {
		return names
	}
	for _, r := range o.Report.Results {
		if r.Status == s {
			names = append(names, r.Patch)
		}
	}
	return names
}

// Run executes opts.Plan against opts.Source.
//
// A malformed notebook returns *notebook.FormatError before anything is
// patched. A shape violation returns *notebook.InvariantError and nothing is
// written. The destination is left untouched on dry runs, and when it is the
// source and the output bytes equal the input.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	if opts.Plan == nil {
		return nil, fmt.Errorf("run: no plan")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	open := opts.Open
	if open == nil {
		open = blob.Resolve
	}
	dest := opts.Dest
	if dest == "" {
		dest = opts.Source
	}
	logger = logger.With("source", opts.Source, "plan", opts.Plan.Name)

	src, srcKey, err := open(ctx, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	input, err := src.Get(ctx, srcKey)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	logger.Debug("loaded notebook", "driver", src.Driver(), "bytes", len(input))

	doc, err := notebook.Parse(input)
	if err != nil {
		return nil, err
	}

	patched, report := patch.Apply(doc, opts.Plan.Patches)
	for _, r := range report.Results {
		logger.Debug("patch result", "patch", r.Patch, "status", r.Status, "cell", r.Cell)
		if r.Err != nil {
			logger.Warn("patch skipped", "patch", r.Patch, "error", r.Err)
		}
	}

	output, err := notebook.Marshal(patched, notebook.MarshalOptions{Style: opts.Style, Expect: doc.Shape()})
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Source:     opts.Source,
		Dest:       dest,
		Plan:       opts.Plan.Name,
		Report:     report,
		InputHash:  notebook.SourceHash(doc),
		OutputHash: notebook.SourceHash(patched),
		Changed:    !bytes.Equal(input, output),
		DryRun:     opts.DryRun,
		output:     output,
	}

	if !opts.DryRun && (out.Changed || dest != opts.Source) {
		if err := write(ctx, open, dest, output); err != nil {
			return nil, err
		}
		out.Written = true
	}
	logger.Info("run finished", "dest", dest, "written", out.Written, "summary", report.String())

	if opts.Journal != nil {
		run, err := opts.Journal.RecordRun(ctx, journal.Run{
			Document:   opts.Source,
			Dest:       dest,
			Plan:       opts.Plan.Name,
			PlanOrigin: opts.Plan.Origin,
			InputHash:  out.InputHash,
			OutputHash: out.OutputHash,
			CellCount:  patched.Len(),
			Examined:   report.CellsExamined,
			Mutated:    report.CellsMutated,
			DryRun:     opts.DryRun,
			Written:    out.Written,
			Results:    journal.ResultsFromReport(report),
		})
		if err != nil {
			return out, fmt.Errorf("journal run: %w", err)
		}
		out.RunID = run.ID
		logger.Debug("journaled run", "run_id", run.ID, "seq", run.Seq)
	}
	return out, nil
}

func write(ctx context.Context, open OpenFunc, dest string, data []byte) error {
	st, key, err := open(ctx, dest)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	if err := st.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}
