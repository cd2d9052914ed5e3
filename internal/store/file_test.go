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

func newTestFileRepository(t *testing.T) (*FileRepository, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFileRepository(dir)
	require.NoError(t, err)
	return f, dir
}

func TestFileRepository_MissingFilesLoadEmpty(t *testing.T) {
	f, _ := newTestFileRepository(t)
	ctx := context.Background()

	projects, err := f.GetProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	categories, err := f.GetCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestFileRepository_ProjectsRoundTrip(t *testing.T) {
	f, dir := newTestFileRepository(t)
	ctx := context.Background()

	want := sampleProject("11730342")
	require.NoError(t, f.SetProjects(ctx, []models.Project{want}))

	// The document landed on disk.
	_, err := os.Stat(filepath.Join(dir, "projects.json"))
	require.NoError(t, err)

	got, err := f.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestFileRepository_NormalizesOnLoad(t *testing.T) {
	f, dir := newTestFileRepository(t)
	ctx := context.Background()

	// A document written by hand may omit the slice fields entirely.
	doc := `[{"id": "1", "name": "vue", "description": "", "category": "", "url": "", "owner": "", "stats": {"stars": 0, "forks": 0, "watchers": 0, "issues": 0}, "lastActivity": "", "contributors": 0, "branches": 0, "commits": 0, "pullRequests": 0}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.json"), []byte(doc), 0644))

	got, err := f.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Categories)
	assert.NotNil(t, got[0].Languages)
	assert.NotNil(t, got[0].Topics)
}

func TestFileRepository_SetReplacesWholeList(t *testing.T) {
	f, _ := newTestFileRepository(t)
	ctx := context.Background()

	require.NoError(t, f.SetProjects(ctx, []models.Project{{ID: "1"}, {ID: "2"}}))
	require.NoError(t, f.SetProjects(ctx, []models.Project{{ID: "2"}}))

	got, err := f.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFileRepository_CategoriesRoundTrip(t *testing.T) {
	f, _ := newTestFileRepository(t)
	ctx := context.Background()

	want := []models.Category{{ID: "c1", Name: "frontend", Color: "#41b883"}}
	require.NoError(t, f.SetCategories(ctx, want))

	got, err := f.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileRepository_CorruptFileErrors(t *testing.T) {
	f, dir := newTestFileRepository(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.json"), []byte("{not json"), 0644))

	_, err := f.GetProjects(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "projects.json")
}
