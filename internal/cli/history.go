package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cellpatch/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Document string // optional - one document only
	Limit    int
	Results  bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled patch runs",
		Long: `List runs recorded by apply --db, oldest first.

Examples:
  cellpatch history --db ./cellpatch.db
  cellpatch history --db ./cellpatch.db --document drift_analysis.ipynb --results`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", os.Getenv("CELLPATCH_DB"), "journal database (env CELLPATCH_DB)")
	cmd.Flags().StringVar(&opts.Document, "document", "", "only runs for this notebook location")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "most recent runs to show (0 for all)")
	cmd.Flags().BoolVar(&opts.Results, "results", false, "include per-patch results")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Database == "" {
		_ = formatter.Error(ErrCodeJournal, "--db (or CELLPATCH_DB) is required", nil)
		return NewExitError(ExitCommandError, "no journal database")
	}
	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeJournal, fmt.Sprintf("journal not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, "journal not found", err)
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(ctx, opts.Document, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if opts.Results {
		for i := range runs {
			if runs[i].Results, err = j.Results(ctx, runs[i].ID); err != nil {
				_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to read results", err)
			}
		}
	}

	if opts.Format == "json" {
		return formatter.Success(runs)
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found in journal.")
		return nil
	}
	for _, run := range runs {
		state := "unchanged"
		switch {
		case run.Written:
			state = "written"
		case run.DryRun:
			state = "dry-run"
		}
		fmt.Fprintf(w, "#%d %s %s %s -> %s: %d cell(s) mutated, %s\n",
			run.Seq, run.ID, run.Plan, run.Document, run.Dest, run.Mutated, state)
		for _, res := range run.Results {
			fmt.Fprintf(w, "  %s %s: %s\n", statusSymbol(res.Status), res.Patch, res.Status)
		}
	}
	return nil
}
