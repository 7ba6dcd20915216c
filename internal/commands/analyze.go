package commands

import (
	"fmt"

	"github.com/simonhull/firebird-suite/hatch/internal/enhance"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/spf13/cobra"
)

// AnalyzeCmd creates the 'analyze' command, a read-only preview of 'enhance'
func AnalyzeCmd() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Show detected features and the enhancements that would be applied",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot(args)

			family, err := resolveFamily(template, root)
			if err != nil {
				return err
			}

			analysis, err := enhance.NewEngine().Analyze(root, family)
			if err != nil {
				return err
			}

			output.Info(fmt.Sprintf("%s project at %s (%d files)", title(string(family)), analysis.Snapshot.Root, len(analysis.Snapshot.Files)))

			output.Info("Detected features:")
			for _, f := range analysis.Features.List() {
				output.Step(fmt.Sprintf("%s %s", check(f.Present), f.Name))
			}

			if len(analysis.Enhancements) == 0 {
				output.Success("Nothing to enhance")
				return nil
			}

			output.Info(fmt.Sprintf("Planned enhancements (%d):", len(analysis.Enhancements)))
			for _, e := range analysis.Enhancements {
				output.Step(fmt.Sprintf("[%s] %s (%s)", e.Priority, e.Description, e.Category))
				for _, step := range e.Action.Steps {
					output.Verbose("    " + step.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Template family (detected when empty)")

	return cmd
}
