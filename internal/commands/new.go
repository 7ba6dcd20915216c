package commands

import (
	"fmt"
	"path/filepath"

	"github.com/simonhull/firebird-suite/hatch/internal/config"
	"github.com/simonhull/firebird-suite/hatch/internal/enhance"
	"github.com/simonhull/firebird-suite/hatch/internal/generators/deploy"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
	"github.com/simonhull/firebird-suite/hatch/internal/project/create"
	"github.com/spf13/cobra"
)

// NewCmd creates and returns the 'new' command for scaffolding projects
func NewCmd() *cobra.Command {
	var (
		template       string
		deployTarget   string
		packageManager string
		description    string
		dir            string
		noInstall      bool
		noGit          bool
		enhanceFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Create a new project from a template",
		Long: `Creates a new project with:
• The chosen template (node, react, python, full-stack)
• CI, CodeQL, Dependabot and SECURITY.md
• Deployment configuration when --deploy is set
• Installed dependencies and an initial git commit

Defaults come from hatch.yml in ~/.config/hatch or the current directory.

Example:
  hatch new myapp --template react --deploy vercel --enhance`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.File != "" {
				output.Verbose(fmt.Sprintf("Using config %s", cfg.File))
			}

			if !cmd.Flags().Changed("template") {
				template, err = selectTemplate(cfg.Defaults.Template)
				if err != nil {
					return err
				}
			}
			family, err := project.ParseFamily(template)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("deploy") {
				deployTarget = cfg.Defaults.Deploy
			}
			target, err := deploy.ParseTarget(deployTarget)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("package-manager") {
				packageManager = cfg.Defaults.PackageManager
			}
			if err := config.ValidatePackageManager(packageManager); err != nil {
				return err
			}

			opts := create.Options{
				Name:           args[0],
				Description:    description,
				Family:         family,
				Deploy:         target,
				PackageManager: packageManager,
				Author:         cfg.Author,
				Install:        cfg.Defaults.Install && !noInstall,
				Git:            cfg.Defaults.Git && !noGit,
				Enhance:        cfg.Defaults.Enhance || enhanceFlag,
				Dir:            dir,
				Writer:         cmd.OutOrStdout(),
			}

			output.Verbose(fmt.Sprintf("Creating %s project: %s", family, opts.Name))

			result, err := create.NewScaffolder(opts).Scaffold(cmd.Context())
			if err != nil {
				return err
			}

			output.Success(fmt.Sprintf("Created %s project: %s", family, opts.Name))
			if result.Enhancements != nil {
				printEnhanceSummary(result.Enhancements)
			}

			output.Info("Next steps:")
			output.Step(fmt.Sprintf("cd %s", filepath.Join(dir, opts.Name)))
			for _, c := range result.Commands {
				output.Step(c)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "node", "Template: node, react, python or full-stack")
	cmd.Flags().StringVar(&deployTarget, "deploy", "none", "Deployment target: none, vercel, netlify, aws or gcp")
	cmd.Flags().StringVar(&packageManager, "package-manager", "npm", "Package manager for JavaScript templates: npm, yarn or pnpm")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	cmd.Flags().StringVar(&dir, "dir", "", "Parent directory for the project (default: current directory)")
	cmd.Flags().BoolVar(&noInstall, "no-install", false, "Skip dependency installation")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "Skip git initialization")
	cmd.Flags().BoolVar(&enhanceFlag, "enhance", false, "Apply enhancements after scaffolding")

	return cmd
}

// printEnhanceSummary reports the outcome of an enhancement run
func printEnhanceSummary(s *enhance.Summary) {
	applied := s.Count(enhance.StatusApplied)
	failed := s.Count(enhance.StatusFailed)
	skipped := s.Count(enhance.StatusSkipped)

	switch {
	case len(s.Results) == 0:
		output.Info("No enhancements needed")
	case failed > 0:
		output.Warning(fmt.Sprintf("Applied %d of %d enhancements (%d failed, %d skipped)", applied, len(s.Results), failed, skipped))
	default:
		output.Success(fmt.Sprintf("Applied %d enhancements", applied))
	}

	if s.ReportPath != "" {
		output.Step(fmt.Sprintf("Report: %s", s.ReportPath))
	}
}
