package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cellpatch/internal/journal"
	"github.com/roach88/cellpatch/internal/notebook"
	"github.com/roach88/cellpatch/internal/patch"
	"github.com/roach88/cellpatch/internal/plan"
	"github.com/roach88/cellpatch/internal/runner"
)

// PlanFlags selects the plan a command applies.
type PlanFlags struct {
	Plan    string // plan file (.yaml, .yml, .cue)
	Builtin string // embedded plan name, used when Plan is empty
}

func (p *PlanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.Plan, "plan", "", "plan file (.yaml, .yml or .cue)")
	cmd.Flags().StringVar(&p.Builtin, "builtin", plan.DefaultBuiltin, "embedded plan to apply when --plan is not set")
}

func (p *PlanFlags) load() (*plan.Plan, error) {
	if p.Plan != "" {
		return plan.LoadFile(p.Plan)
	}
	return plan.Builtin(p.Builtin)
}

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	PlanFlags
	Out      string
	Style    string
	DryRun   bool
	Database string
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <notebook>",
		Short: "Apply a patch plan to a notebook",
		Long: `Apply a patch plan to a notebook and write the result back.

The notebook is rewritten only when its serialized bytes change. Patches that
are already present are skipped, so running apply twice is safe.

Examples:
  cellpatch apply drift_analysis.ipynb
  cellpatch apply --plan ./plans/footer.yaml --out patched.ipynb nb.ipynb
  cellpatch apply --db ./cellpatch.db s3://notebooks/drift_analysis.ipynb`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), opts, args[0], cmd)
		},
	}

	opts.PlanFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the patched notebook here instead of in place")
	cmd.Flags().StringVar(&opts.Style, "style", string(notebook.StyleLines), "source encoding in the output (lines|string)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().StringVar(&opts.Database, "db", os.Getenv("CELLPATCH_DB"), "journal database (env CELLPATCH_DB)")

	return cmd
}

func runApply(ctx context.Context, opts *ApplyOptions, source string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	p, err := opts.PlanFlags.load()
	if err != nil {
		return formatter.Fail("failed to load plan", err)
	}
	style, err := notebook.ParseStyle(opts.Style)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --style", err)
	}
	formatter.VerboseLog("Applying plan %s (%s) with %d patch(es)", p.Name, p.Origin, len(p.Patches))

	runOpts := runner.Options{
		Source: source,
		Dest:   opts.Out,
		Plan:   p,
		Style:  style,
		DryRun: opts.DryRun,
		Logger: newLogger(opts.RootOptions, cmd.ErrOrStderr()),
	}
	if opts.Database != "" {
		j, err := journal.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer j.Close()
		runOpts.Journal = j
	}

	out, err := runner.Run(ctx, runOpts)
	if err != nil {
		if out != nil {
			// The notebook was handled; only journaling failed.
			_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to journal run", err)
		}
		return formatter.Fail("apply failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}
	printOutcome(formatter.Writer, out)
	return nil
}

func statusSymbol(s patch.Status) string {
	switch s {
	case patch.StatusPatched:
		return "✓"
	case patch.StatusAlreadyPatched:
		return "·"
	default:
		return "✗"
	}
}

// printOutcome writes the per-patch text report shared by apply and status.
func printOutcome(w io.Writer, out *runner.Outcome) {
	for _, r := range out.Report.Results {
		fmt.Fprintf(w, "%s %s: %s", statusSymbol(r.Status), r.Patch, r.Status)
		if r.Cell >= 0 {
			fmt.Fprintf(w, " (cell %d)", r.Cell)
		}
		if d := r.Detail(); d != "" {
			fmt.Fprintf(w, ": %s", d)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, out.Report.String())

	switch {
	case out.Written:
		fmt.Fprintf(w, "Wrote %s\n", out.Dest)
	case out.DryRun && out.Changed:
		fmt.Fprintf(w, "Dry run: %s not written\n", out.Dest)
	default:
		fmt.Fprintf(w, "No changes to %s\n", out.Dest)
	}
	if out.RunID != "" {
		fmt.Fprintf(w, "Journaled run %s\n", out.RunID)
	}
}
