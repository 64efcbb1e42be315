package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cellpatch/internal/runner"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	PlanFlags
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status <notebook>",
		Short: "Check whether a notebook is fully patched",
		Long: `Dry-run a plan and report each patch's status without writing.

Exit codes:
  0 - Every patch is already present
  1 - Some patch is pending, or its anchor or cell is missing
  2 - Command error (malformed notebook, storage error, bad plan)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), opts, args[0], cmd)
		},
	}

	opts.PlanFlags.register(cmd)
	return cmd
}

func runStatus(ctx context.Context, opts *StatusOptions, source string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	p, err := opts.PlanFlags.load()
	if err != nil {
		return formatter.Fail("failed to load plan", err)
	}

	out, err := runner.Run(ctx, runner.Options{
		Source: source,
		Plan:   p,
		DryRun: true,
		Logger: newLogger(opts.RootOptions, cmd.ErrOrStderr()),
	})
	if err != nil {
		return formatter.Fail("status failed", err)
	}

	code, message := "", ""
	if missing := out.Missing(); len(missing) > 0 {
		code = ErrCodeMissing
		message = fmt.Sprintf("%d patch(es) cannot be applied: %s", len(missing), strings.Join(missing, ", "))
	} else if pending := out.Pending(); len(pending) > 0 {
		code = ErrCodePending
		message = fmt.Sprintf("%d patch(es) pending: %s", len(pending), strings.Join(pending, ", "))
	}

	if opts.Format == "json" {
		if code == "" {
			return formatter.Success(out)
		}
		if err := formatter.Failure(code, message, out); err != nil {
			return err
		}
		return NewExitError(ExitFailure, message)
	}

	printOutcome(formatter.Writer, out)
	if code == "" {
		fmt.Fprintln(formatter.Writer, "✓ Notebook is up to date")
		return nil
	}
	fmt.Fprintf(formatter.Writer, "✗ %s\n", message)
	return NewExitError(ExitFailure, message)
}
