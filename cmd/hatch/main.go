package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/simonhull/firebird-suite/hatch/internal/commands"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.NewCmd())
	rootCmd.AddCommand(commands.EnhanceCmd())
	rootCmd.AddCommand(commands.AnalyzeCmd())
	rootCmd.AddCommand(commands.TemplatesCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
