package commands

import (
	"fmt"

	"github.com/simonhull/firebird-suite/hatch/internal/enhance"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/spf13/cobra"
)

// EnhanceCmd creates the 'enhance' command, which improves an existing project
func EnhanceCmd() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "enhance [path]",
		Short: "Add missing logging, error handling, tests and more to a project",
		Long: `Inspects a project, decides which cross-cutting concerns are missing and
adds them: files are only created when absent, dependencies are only added
or upgraded, and running it twice changes nothing.

The template family is detected unless --template is given. A summary is
written to ENHANCEMENTS.md in the project root.

Example:
  hatch enhance ./myapp
  hatch enhance --template python`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot(args)

			family, err := resolveFamily(template, root)
			if err != nil {
				return err
			}

			output.Info(fmt.Sprintf("Enhancing %s project at %s", family, displayPath(root)))

			summary, err := enhance.NewEngine().Run(cmd.Context(), root, family)
			if err != nil {
				return err
			}

			printEnhanceSummary(summary)
			if summary.Err != nil {
				output.Warning(fmt.Sprintf("Enhancement stopped early, earlier changes were kept: %v", summary.Err))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Template family (detected when empty)")

	return cmd
}
