package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starboard-dev/starboard/internal/dashboard"
	"github.com/starboard-dev/starboard/internal/models"
	"github.com/starboard-dev/starboard/internal/output"
)

var categoryColor string

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage the category palette and project annotations",
	Long:  "Create, list, and delete categories, and assign them to bookmarked projects.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return categoryListRun()
	},
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return categoryListRun()
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category to the global palette",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return categoryAddRun(args[0], categoryColor)
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:     "delete <id-or-name>",
	Aliases: []string{"rm"},
	Short:   "Delete a category from the global palette",
	Long: `Delete a category from the palette. Projects that carry the category
keep their copies of it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return categoryDeleteRun(args[0])
	},
}

var categoryAssignCmd = &cobra.Command{
	Use:   "assign <project> <category-name>",
	Short: "Assign a category to a project",
	Long: `Assign a category to a project. The category is looked up in the
palette by name; a new one is created (and added to the palette) when no
entry with that name exists.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return categoryAssignRun(args[0], args[1])
	},
}

var categoryUnassignCmd = &cobra.Command{
	Use:   "unassign <project> <category-id-or-name>",
	Short: "Remove a category from a project",
	Long: `Remove a category from a project. The global palette keeps the
category even when no project uses it anymore.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return categoryUnassignRun(args[0], args[1])
	},
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryColor, "color", "#8b949e", "Display color (hex)")
	categoryAssignCmd.Flags().StringVar(&categoryColor, "color", "#8b949e", "Display color for a newly created category (hex)")

	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
	categoryCmd.AddCommand(categoryAssignCmd)
	categoryCmd.AddCommand(categoryUnassignCmd)
	rootCmd.AddCommand(categoryCmd)
}

func categoryListRun() error {
	d, err := getDashboard()
	if err != nil {
		return err
	}

	categories := d.Categories()
	if len(categories) == 0 {
		ui.Info("No categories. Use 'starboard category add <name>' to create one.")
		return nil
	}

	table := ui.Table([]string{"ID", "Name", "Color"})
	for _, c := range categories {
		_ = table.Append([]string{c.ID, output.Cyan(c.Name), c.Color})
	}
	_ = table.Render()
	return nil
}

func categoryAddRun(name, color string) error {
	d, err := getDashboard()
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would add category: %s", name)
		return nil
	}

	c := models.Category{ID: dashboard.NewID(), Name: name, Color: color}
	added, err := d.AddGlobalCategory(context.Background(), c)
	if err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	if !added {
		return fmt.Errorf("category already exists: %s", name)
	}

	ui.Success("Added category: %s", output.Cyan(name))
	return nil
}

// resolveCategory finds a palette category by id first, then by name.
func resolveCategory(d *dashboard.Dashboard, idOrName string) (models.Category, bool) {
	var byName *models.Category
	for _, c := range d.Categories() {
		if c.ID == idOrName {
			return c, true
		}
		if byName == nil && c.Name == idOrName {
			clone := c
			byName = &clone
		}
	}
	if byName != nil {
		return *byName, true
	}
	return models.Category{}, false
}

func categoryDeleteRun(idOrName string) error {
	d, err := getDashboard()
	if err != nil {
		return err
	}

	c, ok := resolveCategory(d, idOrName)
	if !ok {
		return fmt.Errorf("category not found: %s", idOrName)
	}

	if dryRun {
		ui.DryRunMsg("Would delete category: %s", c.Name)
		return nil
	}

	if _, err := d.RemoveGlobalCategory(context.Background(), c.ID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	ui.Success("Deleted category: %s", c.Name)
	return nil
}

func categoryAssignRun(project, categoryName string) error {
	d, err := getDashboard()
	if err != nil {
		return err
	}

	p, err := resolveProject(d, project)
	if err != nil {
		return err
	}

	// Reuse the palette entry when one with this name exists so the copy
	// on the project shares its id and color.
	c, ok := resolveCategory(d, categoryName)
	if !ok {
		c = models.Category{ID: dashboard.NewID(), Name: categoryName, Color: categoryColor}
	}

	if dryRun {
		ui.DryRunMsg("Would assign category %s to %s", c.Name, p.Name)
		return nil
	}

	d.Select(p.ID)
	if err := d.AddCategoryToSelected(context.Background(), c); err != nil {
		return fmt.Errorf("assign category: %w", err)
	}

	ui.Success("Assigned %s to %s", output.Green(c.Name), output.Cyan(p.Name))
	return nil
}

func categoryUnassignRun(project, category string) error {
	d, err := getDashboard()
	if err != nil {
		return err
	}

	p, err := resolveProject(d, project)
	if err != nil {
		return err
	}

	// Resolve against the project's own categories; the palette may have
	// diverged from the copies the project carries.
	var target *models.Category
	for _, c := range p.Categories {
		if c.ID == category || c.Name == category {
			clone := c
			target = &clone
			break
		}
	}
	if target == nil {
		return fmt.Errorf("project %s has no category %q", p.Name, category)
	}

	if dryRun {
		ui.DryRunMsg("Would remove category %s from %s", target.Name, p.Name)
		return nil
	}

	d.Select(p.ID)
	if err := d.RemoveCategoryFromSelected(context.Background(), target.ID); err != nil {
		return fmt.Errorf("unassign category: %w", err)
	}

	ui.Success("Removed %s from %s", target.Name, output.Cyan(p.Name))
	return nil
}
