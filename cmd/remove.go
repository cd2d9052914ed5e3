package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starboard-dev/starboard/internal/dashboard"
	"github.com/starboard-dev/starboard/internal/models"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id-or-name>",
	Aliases: []string{"rm"},
	Short:   "Remove a bookmarked project",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeRun(args[0])
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

// resolveProject finds a project by id first, then by exact name.
func resolveProject(d *dashboard.Dashboard, idOrName string) (models.Project, error) {
	if p, ok := d.Project(idOrName); ok {
		return p, nil
	}
	for _, p := range d.Projects() {
		if p.Name == idOrName {
			return p, nil
		}
	}
	return models.Project{}, fmt.Errorf("project not found: %s", idOrName)
}

func removeRun(idOrName string) error {
	d, err := getDashboard()
	if err != nil {
		return err
	}

	p, err := resolveProject(d, idOrName)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would remove project: %s", p.Name)
		return nil
	}

	if _, err := d.RemoveProject(context.Background(), p.ID); err != nil {
		return err
	}

	ui.Success("Removed project: %s", p.Name)
	return nil
}
