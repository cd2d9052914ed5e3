package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/starboard-dev/starboard/internal/github"
	"github.com/starboard-dev/starboard/internal/models"
)

// Discoverer attaches repositories found via search to the dashboard,
// fetching extended metadata from GitHub and normalizing it into a Project.
type Discoverer struct {
	dash    *Dashboard
	client  github.Client
	loading atomic.Bool
}

// NewDiscoverer creates a Discoverer for the given dashboard and client.
func NewDiscoverer(dash *Dashboard, client github.Client) *Discoverer {
	return &Discoverer{dash: dash, client: client}
}

// Loading reports whether a metadata fetch is in flight. Overlapping
// fetches are not coordinated; the flag clears when the last one finishes.
func (d *Discoverer) Loading() bool {
	return d.loading.Load()
}

// Add fetches extended metadata for repo, normalizes it into a Project,
// and appends it to the dashboard. On fetch failure nothing is added and
// the error is returned to the caller. No uniqueness check is made:
// attaching the same repository twice yields two identical entries.
func (d *Discoverer) Add(ctx context.Context, repo models.Repo) (*models.Project, error) {
	d.loading.Store(true)
	defer d.loading.Store(false)

	owner, name, ok := strings.Cut(repo.FullName, "/")
	if !ok {
		return nil, fmt.Errorf("invalid repository full name: %q", repo.FullName)
	}

	details, err := d.client.RepoDetails(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("fetch details for %s: %w", repo.FullName, err)
	}

	p := ProjectFromRepo(repo, details)
	if err := d.dash.AddProject(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProjectFromRepo builds a Project from a discovery search result and its
// extended metadata.
func ProjectFromRepo(repo models.Repo, details *models.RepoDetails) models.Project {
	p := models.Project{
		ID:           strconv.FormatInt(repo.ID, 10),
		Name:         repo.Name,
		Description:  repo.Description,
		URL:          repo.HTMLURL,
		Logo:         repo.Owner.AvatarURL,
		Owner:        repo.Owner.Login,
		Stats: models.Stats{
			Stars:    repo.StargazersCount,
			Forks:    repo.ForksCount,
			Watchers: repo.WatchersCount,
			Issues:   repo.OpenIssuesCount,
		},
		LastActivity: repo.UpdatedAt,
		Contributors: details.Contributors,
		Branches:     details.Branches,
		Commits:      details.Commits,
		PullRequests: details.PullRequests,
		Languages:    NormalizeLanguages(details.Languages),
		Topics:       details.Topics,
		License:      repo.License,
		Size:         repo.Size,
		LastRelease:  details.LastRelease,
		Homepage:     repo.Homepage,
	}
	p.Normalize()
	return p
}

// NormalizeLanguages converts a byte-count map into a percentage breakdown:
// percentage = round(100 * bytes / total), sorted descending by percentage
// with ties broken by name so the result is deterministic.
func NormalizeLanguages(byteCounts map[string]int) []models.LanguageStat {
	stats := make([]models.LanguageStat, 0, len(byteCounts))

	total := 0
	for _, b := range byteCounts {
		total += b
	}
	if total <= 0 {
		return stats
	}

	for name, b := range byteCounts {
		stats = append(stats, models.LanguageStat{
			Name:       name,
			Percentage: int(math.Round(100 * float64(b) / float64(total))),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Percentage != stats[j].Percentage {
			return stats[i].Percentage > stats[j].Percentage
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}
