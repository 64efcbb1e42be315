package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cellpatch/internal/patch"
	"github.com/roach88/cellpatch/internal/plan"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                    `json:"valid"`
	Plan    string                  `json:"plan,omitempty"`
	Patches []string                `json:"patches,omitempty"`
	Errors  []patch.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <plan-file>",
		Short: "Validate a patch plan without applying it",
		Long: `Load a YAML or CUE patch plan and check every patch.

Checks syntax, schema (unknown fields are rejected), payload files, and the
idempotency rules: each inserting patch needs a marker that its inserted text
contains exactly once.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	p, err := plan.LoadFile(path)
	if err != nil {
		var loadErr *plan.LoadError
		if errors.As(err, &loadErr) && len(loadErr.Validation) > 0 {
			return outputValidationErrors(formatter, loadErr.Validation)
		}
		return formatter.Fail("failed to load plan", err)
	}

	formatter.VerboseLog("Loaded %d patch(es) from %s", len(p.Patches), path)
	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Plan: p.Name, Patches: p.PatchNames()})
	}
	fmt.Fprintf(formatter.Writer, "✓ Plan %s valid (%d patch(es))\n", p.Name, len(p.Patches))
	return nil
}

// outputValidationErrors outputs the patch validation errors of a plan.
func outputValidationErrors(formatter *OutputFormatter, errs []patch.ValidationError) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		if err := formatter.Failure(errs[0].Code, errs[0].Message, ValidationResult{Valid: false, Errors: errs}); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	}
	return failure
}
