package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starboard-dev/starboard/internal/dashboard"
	"github.com/starboard-dev/starboard/internal/output"
)

var addCmd = &cobra.Command{
	Use:   "add <owner/repo>",
	Short: "Bookmark a GitHub repository",
	Long: `Bookmark a repository by its full name, fetching extended metadata
(languages, contributor/branch/commit counts, topics, latest release)
from the GitHub API.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addRun(args[0])
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func addRun(fullName string) error {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return fmt.Errorf("expected <owner/repo>, got %q", fullName)
	}

	d, err := getDashboard()
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would bookmark repository: %s", fullName)
		return nil
	}

	ctx := context.Background()
	client := getGitHub()

	repo, err := client.GetRepo(ctx, owner, name)
	if err != nil {
		return err
	}

	disc := dashboard.NewDiscoverer(d, client)
	p, err := disc.Add(ctx, *repo)
	if err != nil {
		return err
	}

	ui.Success("Bookmarked %s (%d ★)", output.Cyan(fullName), p.Stats.Stars)
	if len(p.Languages) > 0 {
		ui.VerboseLog("Top language: %s (%d%%)", p.Languages[0].Name, p.Languages[0].Percentage)
	}
	if p.LastRelease != nil {
		ui.VerboseLog("Latest release: %s", p.LastRelease.Name)
	}
	return nil
}
