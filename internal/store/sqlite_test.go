package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starboard-dev/starboard/internal/models"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := NewSQLiteRepository(dbPath)
	require.NoError(t, err)

	err = s.Migrate(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProject(id string) models.Project {
	return models.Project{
		ID:           id,
		Name:         "vue",
		Description:  "progressive frontend framework",
		Category:     "frontend",
		URL:          "https://github.com/vuejs/vue",
		Logo:         "https://avatars.example/vuejs.png",
		Owner:        "vuejs",
		Stats:        models.Stats{Stars: 207000, Forks: 33000, Watchers: 207000, Issues: 600},
		LastActivity: "2026-08-01T12:00:00Z",
		Contributors: 350,
		Branches:     40,
		Commits:      3500,
		PullRequests: 150,
		Categories:   []models.Category{{ID: "c1", Name: "frontend", Color: "#41b883"}},
		Languages:    []models.LanguageStat{{Name: "TypeScript", Percentage: 75}, {Name: "JavaScript", Percentage: 25}},
		Topics:       []string{"vue", "frontend"},
		License:      "MIT License",
		Size:         30000,
		LastRelease:  &models.Release{Name: "v3.4.0", PublishedAt: "2026-07-01T00:00:00Z", URL: "https://example.com/release"},
		Homepage:     "https://vuejs.org",
	}
}

func TestNewSQLiteRepository_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "subdir", "test.db")

	s, err := NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "subdir"))
	assert.NoError(t, err, "should create parent directory")
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestRepository(t)
	ctx := context.Background()

	// Running migrate again should be a no-op
	err := s.Migrate(ctx)
	assert.NoError(t, err)
}

func TestProjects_EmptyByDefault(t *testing.T) {
	s := newTestRepository(t)

	projects, err := s.GetProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjects_RoundTrip(t *testing.T) {
	s := newTestRepository(t)
	ctx := context.Background()

	want := sampleProject("11730342")
	require.NoError(t, s.SetProjects(ctx, []models.Project{want}))

	got, err := s.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestProjects_OrderPreserved(t *testing.T) {
	s := newTestRepository(t)
	ctx := context.Background()

	list := []models.Project{
		{ID: "3", Name: "c"},
		{ID: "1", Name: "a"},
		{ID: "2", Name: "b"},
	}
	require.NoError(t, s.SetProjects(ctx, list))

	got, err := s.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "1", got[1].ID)
	assert.Equal(t, "2", got[2].ID)
}

func TestProjects_SetReplacesWholeList(t *testing.T) {
	s := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, s.SetProjects(ctx, []models.Project{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}))
	require.NoError(t, s.SetProjects(ctx, []models.Project{{ID: "2", Name: "b"}}))

	got, err := s.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	// Clearing with an empty list works too.
	require.NoError(t, s.SetProjects(ctx, nil))
	got, err = s.GetProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProjects_DuplicateIDsAllowed(t *testing.T) {
	s := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, s.SetProjects(ctx, []models.Project{{ID: "1", Name: "a"}, {ID: "1", Name: "a"}}))

	got, err := s.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, got[0].ID, got[1].ID)
}

func TestProjects_NoRelease(t *testing.T) {
	s := newTestRepository(t)
	ctx := context.Background()

	p := sampleProject("1")
	p.LastRelease = nil
	require.NoError(t, s.SetProjects(ctx, []models.Project{p}))

	got, err := s.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].LastRelease)
}

func TestCategories_RoundTrip(t *testing.T) {
	s := newTestRepository(t)
	ctx := context.Background()

	categories, err := s.GetCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	want := []models.Category{
		{ID: "c1", Name: "frontend", Color: "#41b883"},
		{ID: "c2", Name: "tooling", Color: "#f1e05a"},
	}
	require.NoError(t, s.SetCategories(ctx, want))

	got, err := s.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Replace with a shorter list.
	require.NoError(t, s.SetCategories(ctx, want[:1]))
	got, err = s.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "frontend", got[0].Name)
}
