// Package refresh re-fetches GitHub metadata for bookmarked projects,
// keeping user annotations intact.
package refresh

import (
	"context"
	"fmt"

	"github.com/starboard-dev/starboard/internal/dashboard"
	"github.com/starboard-dev/starboard/internal/github"
	"github.com/starboard-dev/starboard/internal/models"
)

// Result holds the outcome of refreshing a single project.
type Result struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Changed bool   `json:"changed"`
	Error   string `json:"error,omitempty"`
}

// AllResult holds the outcome of refreshing all projects.
type AllResult struct {
	Refreshed int      `json:"refreshed"`
	Total     int      `json:"total"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

// Project re-fetches repository metadata for p and writes the updated
// record back to the dashboard. The id, category annotations, and primary
// category are preserved; everything fetched from GitHub is replaced.
func Project(ctx context.Context, d *dashboard.Dashboard, client github.Client, p models.Project) (*Result, error) {
	result := &Result{ID: p.ID, Name: p.Name}

	if p.Owner == "" || p.Name == "" {
		return nil, fmt.Errorf("project %s has no owner/name to refresh from", p.ID)
	}

	repo, err := client.GetRepo(ctx, p.Owner, p.Name)
	if err != nil {
		return nil, fmt.Errorf("refresh %s/%s: %w", p.Owner, p.Name, err)
	}
	details, err := client.RepoDetails(ctx, p.Owner, p.Name)
	if err != nil {
		return nil, fmt.Errorf("refresh %s/%s: %w", p.Owner, p.Name, err)
	}

	updated := dashboard.ProjectFromRepo(*repo, details)
	updated.ID = p.ID
	updated.Category = p.Category
	updated.Categories = p.Categories

	changed, err := d.UpdateProject(ctx, updated)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("project no longer in list: %s", p.ID)
	}

	result.Changed = true
	return result, nil
}

// All refreshes metadata for every bookmarked project, collecting
// per-project outcomes instead of stopping at the first failure.
func All(ctx context.Context, d *dashboard.Dashboard, client github.Client) *AllResult {
	projects := d.Projects()

	result := &AllResult{Total: len(projects)}
	for _, p := range projects {
		r, err := Project(ctx, d, client, p)
		if err != nil {
			result.Failed++
			result.Results = append(result.Results, Result{ID: p.ID, Name: p.Name, Error: err.Error()})
			continue
		}
		result.Refreshed++
		result.Results = append(result.Results, *r)
	}
	return result
}
