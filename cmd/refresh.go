package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/starboard-dev/starboard/internal/refresh"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [id-or-name]",
	Short: "Re-fetch GitHub metadata for bookmarked projects",
	Long: `Re-fetch stats, languages, counts, and release info for one or all
bookmarked projects. Category annotations are preserved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return refreshOneRun(args[0])
		}
		return refreshAllRun()
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func refreshOneRun(idOrName string) error {
	d, err := getDashboard()
	if err != nil {
		return err
	}

	p, err := resolveProject(d, idOrName)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would refresh project: %s", p.Name)
		return nil
	}

	if _, err := refresh.Project(context.Background(), d, getGitHub(), p); err != nil {
		return err
	}

	ui.Success("Refreshed %s", p.Name)
	return nil
}

func refreshAllRun() error {
	d, err := getDashboard()
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would refresh %d projects", len(d.Projects()))
		return nil
	}

	result := refresh.All(context.Background(), d, getGitHub())
	for _, r := range result.Results {
		if r.Error != "" {
			ui.Warning("%s: %s", r.Name, r.Error)
		} else {
			ui.VerboseLog("Refreshed %s", r.Name)
		}
	}

	ui.Success("Refreshed %d/%d projects (%d failed)", result.Refreshed, result.Total, result.Failed)
	return nil
}
