package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/starboard-dev/starboard/internal/models"
)

const (
	projectsFile   = "projects.json"
	categoriesFile = "categories.json"
)

// FileRepository stores each list as a JSON document in a directory.
// Writes go through a rename so readers never observe a partial file.
type FileRepository struct {
	dir string
}

// NewFileRepository creates the data directory if needed.
func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileRepository{dir: dir}, nil
}

// Close is a no-op; the repository holds no open handles.
func (f *FileRepository) Close() error { return nil }

func (f *FileRepository) GetProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := f.load(projectsFile, &projects); err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Normalize()
	}
	return projects, nil
}

func (f *FileRepository) SetProjects(ctx context.Context, projects []models.Project) error {
	return f.save(projectsFile, projects)
}

func (f *FileRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := f.load(categoriesFile, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (f *FileRepository) SetCategories(ctx context.Context, categories []models.Category) error {
	return f.save(categoriesFile, categories)
}

// load reads the named file into v. A missing file is not an error: the
// list simply has never been saved, and v is left empty.
func (f *FileRepository) load(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (f *FileRepository) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')
	path := filepath.Join(f.dir, name)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
