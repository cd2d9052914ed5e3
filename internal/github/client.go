// Package github wraps the GitHub REST API behind the small surface the
// dashboard needs: repository search, single-repo lookup, and the extended
// metadata fetched when a repository is bookmarked.
package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/starboard-dev/starboard/internal/models"
)

// Client fetches repository metadata from GitHub.
type Client interface {
	Search(ctx context.Context, query string) ([]models.Repo, error)
	GetRepo(ctx context.Context, owner, repo string) (*models.Repo, error)
	RepoDetails(ctx context.Context, owner, repo string) (*models.RepoDetails, error)
}

// APIClient implements Client against the GitHub REST API.
type APIClient struct {
	gh *gh.Client
}

// NewClient returns an APIClient. An empty token makes unauthenticated
// requests, which GitHub rate-limits far more aggressively.
func NewClient(ctx context.Context, token string) *APIClient {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	}
	return &APIClient{gh: gh.NewClient(hc)}
}

// NewFromGitHub wraps an already configured go-github client. Tests use
// this to point the client at a local fake server.
func NewFromGitHub(c *gh.Client) *APIClient {
	return &APIClient{gh: c}
}

// Search runs a repository search and maps the first page of results.
func (c *APIClient) Search(ctx context.Context, query string) ([]models.Repo, error) {
	result, _, err := c.gh.Search.Repositories(ctx, query, &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: 30},
	})
	if err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}

	repos := make([]models.Repo, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		repos = append(repos, repoFromGitHub(r))
	}
	return repos, nil
}

// GetRepo fetches a single repository record.
func (c *APIClient) GetRepo(ctx context.Context, owner, repo string) (*models.Repo, error) {
	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("get repository %s/%s: %w", owner, repo, err)
	}
	out := repoFromGitHub(r)
	return &out, nil
}

// RepoDetails aggregates the extended metadata for a repository. The
// language breakdown is mandatory; count endpoints that fail individually
// degrade to zero so one flaky endpoint does not sink the whole fetch.
func (c *APIClient) RepoDetails(ctx context.Context, owner, repo string) (*models.RepoDetails, error) {
	languages, _, err := c.gh.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("list languages for %s/%s: %w", owner, repo, err)
	}

	details := &models.RepoDetails{
		Languages: languages,
	}

	if r, _, err := c.gh.Repositories.Get(ctx, owner, repo); err == nil {
		details.Topics = r.Topics
	}

	one := gh.ListOptions{PerPage: 1}

	contributors, resp, err := c.gh.Repositories.ListContributors(ctx, owner, repo,
		&gh.ListContributorsOptions{ListOptions: one})
	details.Contributors = lastPageCount(len(contributors), resp, err)

	branches, resp, err := c.gh.Repositories.ListBranches(ctx, owner, repo,
		&gh.BranchListOptions{ListOptions: one})
	details.Branches = lastPageCount(len(branches), resp, err)

	commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo,
		&gh.CommitsListOptions{ListOptions: one})
	details.Commits = lastPageCount(len(commits), resp, err)

	prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo,
		&gh.PullRequestListOptions{State: "open", ListOptions: one})
	details.PullRequests = lastPageCount(len(prs), resp, err)

	release, resp, err := c.gh.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		// Repositories without releases return 404; that is not a failure.
		if resp == nil || resp.StatusCode != http.StatusNotFound {
			return nil, fmt.Errorf("latest release for %s/%s: %w", owner, repo, err)
		}
	} else if release != nil {
		details.LastRelease = &models.Release{
			Name:        release.GetName(),
			PublishedAt: release.GetPublishedAt().Format("2006-01-02T15:04:05Z"),
			URL:         release.GetHTMLURL(),
		}
		if details.LastRelease.Name == "" {
			details.LastRelease.Name = release.GetTagName()
		}
	}

	return details, nil
}

// lastPageCount turns a per_page=1 listing into a total count: GitHub's
// Link header exposes the last page number, which equals the item count.
// Falls back to the page length when there is only one page, and to zero
// when the endpoint errored.
func lastPageCount(pageLen int, resp *gh.Response, err error) int {
	if err != nil || resp == nil {
		return 0
	}
	if resp.LastPage > 0 {
		return resp.LastPage
	}
	return pageLen
}

func repoFromGitHub(r *gh.Repository) models.Repo {
	out := models.Repo{
		ID:              r.GetID(),
		FullName:        r.GetFullName(),
		Name:            r.GetName(),
		Description:     r.GetDescription(),
		HTMLURL:         r.GetHTMLURL(),
		StargazersCount: r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		WatchersCount:   r.GetWatchersCount(),
		OpenIssuesCount: r.GetOpenIssuesCount(),
		Size:            r.GetSize(),
		Homepage:        r.GetHomepage(),
	}
	if owner := r.GetOwner(); owner != nil {
		out.Owner = models.RepoOwner{
			Login:     owner.GetLogin(),
			AvatarURL: owner.GetAvatarURL(),
		}
	}
	if license := r.GetLicense(); license != nil {
		out.License = license.GetName()
	}
	if !r.GetUpdatedAt().IsZero() {
		out.UpdatedAt = r.GetUpdatedAt().Format("2006-01-02T15:04:05Z")
	}
	return out
}
