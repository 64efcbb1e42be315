package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cellpatch/internal/plan"
)

// PlanInfo describes an embedded plan.
type PlanInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Patches     []string `json:"patches"`
	Default     bool     `json:"default,omitempty"`
}

// NewPlansCommand creates the plans command.
func NewPlansCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "plans",
		Short:         "List the embedded patch plans",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlans(rootOpts, cmd)
		},
	}
}

func runPlans(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	infos := []PlanInfo{}
	for _, name := range plan.BuiltinNames() {
		p, err := plan.Builtin(name)
		if err != nil {
			return formatter.Fail(fmt.Sprintf("failed to load builtin plan %s", name), err)
		}
		infos = append(infos, PlanInfo{
			Name:        p.Name,
			Description: p.Description,
			Patches:     p.PatchNames(),
			Default:     name == plan.DefaultBuiltin,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}
	w := formatter.Writer
	for _, info := range infos {
		suffix := ""
		if info.Default {
			suffix = " (default)"
		}
		fmt.Fprintf(w, "%s%s\n", info.Name, suffix)
		if info.Description != "" {
			fmt.Fprintf(w, "  %s\n", info.Description)
		}
		for _, name := range info.Patches {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}
	return nil
}
