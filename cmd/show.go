package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starboard-dev/starboard/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show detailed project information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showRun(args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func showRun(idOrName string) error {
	d, err := getDashboard()
	if err != nil {
		return err
	}

	p, err := resolveProject(d, idOrName)
	if err != nil {
		return err
	}

	// Route through the selection controller so category commands issued
	// later in the same process act on this project.
	d.Select(p.ID)

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(p.Name), p.URL)
	if p.Description != "" {
		fmt.Fprintf(ui.Out, "%s\n", p.Description)
	}
	fmt.Fprintln(ui.Out)

	fmt.Fprintf(ui.Out, "  Owner:         %s\n", p.Owner)
	fmt.Fprintf(ui.Out, "  Stars:         %s   Forks: %d   Watchers: %d   Issues: %d\n",
		output.StarsColor(p.Stats.Stars), p.Stats.Forks, p.Stats.Watchers, p.Stats.Issues)
	fmt.Fprintf(ui.Out, "  Contributors:  %d   Branches: %d   Commits: %d   Open PRs: %d\n",
		p.Contributors, p.Branches, p.Commits, p.PullRequests)
	if p.License != "" {
		fmt.Fprintf(ui.Out, "  License:       %s\n", p.License)
	}
	if p.Homepage != "" {
		fmt.Fprintf(ui.Out, "  Homepage:      %s\n", p.Homepage)
	}
	if p.LastActivity != "" {
		fmt.Fprintf(ui.Out, "  Last activity: %s\n", p.LastActivity)
	}
	if p.LastRelease != nil {
		fmt.Fprintf(ui.Out, "  Last release:  %s (%s)\n", p.LastRelease.Name, p.LastRelease.PublishedAt)
	}

	if len(p.Languages) > 0 {
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "  Languages:")
		for _, l := range p.Languages {
			fmt.Fprintf(ui.Out, "    %-16s %3d%%  %s\n", l.Name, l.Percentage, output.LanguageColor(l.Name))
		}
	}

	if len(p.Topics) > 0 {
		fmt.Fprintln(ui.Out)
		fmt.Fprintf(ui.Out, "  Topics: %s\n", strings.Join(p.Topics, ", "))
	}

	if len(p.Categories) > 0 {
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "  Categories:")
		for _, c := range p.Categories {
			fmt.Fprintf(ui.Out, "    %s  %s (%s)\n", output.Green(c.Name), c.Color, c.ID)
		}
	}

	return nil
}
