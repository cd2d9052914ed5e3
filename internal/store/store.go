package store

import (
	"context"

	"github.com/starboard-dev/starboard/internal/models"
)

// Repository persists the project list and the global category palette.
// Both lists are loaded and saved whole; every Set replaces the previous
// contents and the stored order is the order handed in.
type Repository interface {
	GetProjects(ctx context.Context) ([]models.Project, error)
	SetProjects(ctx context.Context, projects []models.Project) error
	GetCategories(ctx context.Context) ([]models.Category, error)
	SetCategories(ctx context.Context, categories []models.Category) error
	Close() error
}
