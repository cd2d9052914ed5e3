package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starboard-dev/starboard/internal/models"
)

// fakeClient serves canned search results and repo details.
type fakeClient struct {
	details    map[string]*models.RepoDetails // keyed by owner/repo
	detailsErr error
	calls      int
}

func (f *fakeClient) Search(ctx context.Context, query string) ([]models.Repo, error) {
	return nil, nil
}

func (f *fakeClient) GetRepo(ctx context.Context, owner, repo string) (*models.Repo, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) RepoDetails(ctx context.Context, owner, repo string) (*models.RepoDetails, error) {
	f.calls++
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	d, ok := f.details[owner+"/"+repo]
	if !ok {
		return nil, errors.New("unknown repository")
	}
	return d, nil
}

func vueRepo() models.Repo {
	return models.Repo{
		ID:              11730342,
		FullName:        "vuejs/vue",
		Name:            "vue",
		Description:     "progressive frontend framework",
		HTMLURL:         "https://github.com/vuejs/vue",
		Owner:           models.RepoOwner{Login: "vuejs", AvatarURL: "https://avatars.example/vuejs.png"},
		StargazersCount: 207000,
		ForksCount:      33000,
		WatchersCount:   207000,
		OpenIssuesCount: 600,
		UpdatedAt:       "2026-08-01T12:00:00Z",
		License:         "MIT License",
		Size:            30000,
		Homepage:        "https://vuejs.org",
	}
}

func TestDiscovererAdd_BuildsProject(t *testing.T) {
	d, _ := newTestDashboard(t)
	client := &fakeClient{details: map[string]*models.RepoDetails{
		"vuejs/vue": {
			Languages:    map[string]int{"TypeScript": 300, "JavaScript": 100},
			Contributors: 350,
			Branches:     40,
			Commits:      3500,
			PullRequests: 150,
			Topics:       []string{"vue", "frontend"},
			LastRelease:  &models.Release{Name: "v3.4.0", PublishedAt: "2026-07-01T00:00:00Z", URL: "https://github.com/vuejs/vue/releases/v3.4.0"},
		},
	}}
	disc := NewDiscoverer(d, client)

	p, err := disc.Add(context.Background(), vueRepo())
	require.NoError(t, err)
	require.NotNil(t, p)

	// The GitHub numeric id becomes the project id.
	assert.Equal(t, "11730342", p.ID)
	assert.Equal(t, "vue", p.Name)
	assert.Equal(t, "vuejs", p.Owner)
	assert.Equal(t, "https://avatars.example/vuejs.png", p.Logo)
	assert.Equal(t, 207000, p.Stats.Stars)
	assert.Equal(t, 600, p.Stats.Issues)
	assert.Equal(t, 350, p.Contributors)
	assert.Equal(t, 150, p.PullRequests)
	assert.Equal(t, []string{"vue", "frontend"}, p.Topics)
	require.NotNil(t, p.LastRelease)
	assert.Equal(t, "v3.4.0", p.LastRelease.Name)

	// 300/100 bytes normalizes to 75/25.
	require.Len(t, p.Languages, 2)
	assert.Equal(t, models.LanguageStat{Name: "TypeScript", Percentage: 75}, p.Languages[0])
	assert.Equal(t, models.LanguageStat{Name: "JavaScript", Percentage: 25}, p.Languages[1])

	// The project landed on the dashboard.
	assert.Len(t, d.Projects(), 1)
	assert.False(t, disc.Loading())
}

func TestDiscovererAdd_SameRepoTwiceAppendsTwice(t *testing.T) {
	d, _ := newTestDashboard(t)
	client := &fakeClient{details: map[string]*models.RepoDetails{
		"vuejs/vue": {Languages: map[string]int{"JavaScript": 100}},
	}}
	disc := NewDiscoverer(d, client)

	_, err := disc.Add(context.Background(), vueRepo())
	require.NoError(t, err)
	_, err = disc.Add(context.Background(), vueRepo())
	require.NoError(t, err)

	// Each selection fetches and appends independently.
	assert.Equal(t, 2, client.calls)
	projects := d.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, projects[0].ID, projects[1].ID)
}

func TestDiscovererAdd_FetchFailureAddsNothing(t *testing.T) {
	d, _ := newTestDashboard(t)
	client := &fakeClient{detailsErr: errors.New("boom")}
	disc := NewDiscoverer(d, client)

	_, err := disc.Add(context.Background(), vueRepo())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vuejs/vue")

	assert.Empty(t, d.Projects())
	assert.False(t, disc.Loading())
}

func TestDiscovererAdd_InvalidFullName(t *testing.T) {
	d, _ := newTestDashboard(t)
	client := &fakeClient{}
	disc := NewDiscoverer(d, client)

	repo := vueRepo()
	repo.FullName = "no-slash"

	_, err := disc.Add(context.Background(), repo)
	require.Error(t, err)
	assert.Zero(t, client.calls)
}

func TestNormalizeLanguages(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]int
		want []models.LanguageStat
	}{
		{
			name: "three to one split",
			in:   map[string]int{"TypeScript": 300, "JavaScript": 100},
			want: []models.LanguageStat{{Name: "TypeScript", Percentage: 75}, {Name: "JavaScript", Percentage: 25}},
		},
		{
			name: "single language",
			in:   map[string]int{"Go": 12345},
			want: []models.LanguageStat{{Name: "Go", Percentage: 100}},
		},
		{
			name: "rounding",
			in:   map[string]int{"Go": 2, "Shell": 1},
			want: []models.LanguageStat{{Name: "Go", Percentage: 67}, {Name: "Shell", Percentage: 33}},
		},
		{
			name: "ties break by name",
			in:   map[string]int{"Rust": 50, "C": 50},
			want: []models.LanguageStat{{Name: "C", Percentage: 50}, {Name: "Rust", Percentage: 50}},
		},
		{
			name: "empty map",
			in:   map[string]int{},
			want: []models.LanguageStat{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLanguages(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}
