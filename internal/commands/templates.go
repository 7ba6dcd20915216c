package commands

import (
	"fmt"

	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/scaffold"
	"github.com/spf13/cobra"
)

// TemplatesCmd lists the bundled templates
func TemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available project templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptors, err := scaffold.List()
			if err != nil {
				return err
			}

			output.Info("Available templates:")
			for _, d := range descriptors {
				output.Step(fmt.Sprintf("%-10s %s (%s)", d.Name, d.Description, d.Runtime))
			}
			return nil
		},
	}
}
