package commands

import (
	"github.com/simonhull/firebird-suite/hatch"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root command for the hatch CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "hatch",
		Short: "Scaffold Node, React, Python and full-stack projects",
		Long: `Hatch creates ready-to-run projects from bundled templates.

Every project gets:
• CI, CodeQL and Dependabot workflows
• Optional deployment configuration (Vercel, Netlify, AWS, GCP)
• Optional enhancements: logging, error handling, validation, tests and more

Existing projects can be enhanced in place with 'hatch enhance'.

Learn more: https://github.com/simonhull/firebird-suite`,
		Version:       hatch.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}
