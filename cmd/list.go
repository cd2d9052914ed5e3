package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starboard-dev/starboard/internal/models"
	"github.com/starboard-dev/starboard/internal/output"
)

var (
	listSearch     string
	listCategories []string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List bookmarked projects",
	Long: `List bookmarked projects, optionally narrowed by a search string
(matched against name and description) and category ids. All given
categories must be present on a project for it to show.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRun(listSearch, listCategories)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by name/description substring")
	listCmd.Flags().StringSliceVarP(&listCategories, "category", "c", nil, "Filter by category id (repeatable, AND semantics)")
	rootCmd.AddCommand(listCmd)
}

func listRun(search string, categoryIDs []string) error {
	d, err := getDashboard()
	if err != nil {
		return err
	}

	projects := d.Filter(search, categoryIDs)
	if len(projects) == 0 {
		if search == "" && len(categoryIDs) == 0 {
			ui.Info("No projects yet. Use 'starboard add <owner/repo>' to bookmark one.")
		} else {
			ui.Info("No projects match the current filters.")
		}
		return nil
	}

	table := ui.Table([]string{"ID", "Name", "Owner", "Stars", "Language", "Categories", "Updated"})
	for _, p := range projects {
		_ = table.Append([]string{
			p.ID,
			output.Cyan(p.Name),
			p.Owner,
			output.StarsColor(p.Stats.Stars),
			primaryLanguage(&p),
			categoryNames(&p),
			p.LastActivity,
		})
	}
	_ = table.Render()
	return nil
}

func primaryLanguage(p *models.Project) string {
	if len(p.Languages) == 0 {
		return ""
	}
	top := p.Languages[0]
	return fmt.Sprintf("%s (%d%%)", top.Name, top.Percentage)
}

func categoryNames(p *models.Project) string {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}
