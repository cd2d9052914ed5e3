package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starboard-dev/starboard/internal/output"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <query>",
	Short: "Search GitHub for repositories",
	Long: `Search GitHub repositories matching the query. Bookmark a result
with 'starboard add <owner/repo>'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return discoverRun(strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func discoverRun(query string) error {
	client := getGitHub()

	repos, err := client.Search(context.Background(), query)
	if err != nil {
		return err
	}

	if len(repos) == 0 {
		ui.Info("No repositories found for %q", query)
		return nil
	}

	table := ui.Table([]string{"Repository", "Stars", "Description"})
	for _, r := range repos {
		_ = table.Append([]string{
			output.Cyan(r.FullName),
			output.StarsColor(r.StargazersCount),
			output.Truncate(r.Description, 60),
		})
	}
	_ = table.Render()
	return nil
}
