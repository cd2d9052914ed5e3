package dashboard

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/starboard-dev/starboard/internal/models"
	"github.com/starboard-dev/starboard/internal/store"
)

// Dashboard owns the in-memory project list, the global category palette,
// and the single-project selection. Every mutation writes the entire
// affected list back through the repository; reads are served from memory.
//
// The original surface was single-threaded; here the same state is shared
// by HTTP handlers, so a mutex serializes access.
type Dashboard struct {
	mu   sync.Mutex
	repo store.Repository

	projects   []models.Project
	categories []models.Category
	selected   *models.Project
}

// New creates a Dashboard backed by repo. Call Load before use.
func New(repo store.Repository) *Dashboard {
	return &Dashboard{repo: repo}
}

// NewID generates a ULID string for manually created projects and categories.
func NewID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Load populates the in-memory lists from the repository.
func (d *Dashboard) Load(ctx context.Context) error {
	projects, err := d.repo.GetProjects(ctx)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	categories, err := d.repo.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.projects = projects
	d.categories = categories
	return nil
}

// Projects returns a copy of the full project list in insertion order.
func (d *Dashboard) Projects() []models.Project {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Project, len(d.projects))
	copy(out, d.projects)
	return out
}

// Categories returns a copy of the global category palette.
func (d *Dashboard) Categories() []models.Category {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Category, len(d.categories))
	copy(out, d.categories)
	return out
}

// Project returns the first project with the given id.
func (d *Dashboard) Project(id string) (models.Project, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// AddProject appends p to the end of the list and persists the whole list.
// No de-duplication by id is performed: attaching the same repository twice
// yields two entries with the same id.
func (d *Dashboard) AddProject(ctx context.Context, p models.Project) error {
	p.Normalize()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.projects = append(d.projects, p)
	return d.persistProjects(ctx)
}

// RemoveProject filters out every project with the given id, clearing the
// selection if it pointed at one of them. Returns whether anything was
// removed; the new list is persisted either way.
func (d *Dashboard) RemoveProject(ctx context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.projects[:0]
	removed := false
	for _, p := range d.projects {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	d.projects = kept

	if d.selected != nil && d.selected.ID == id {
		d.selected = nil
	}

	return removed, d.persistProjects(ctx)
}

// UpdateProject replaces every project whose id matches updated.ID and
// persists the list. Returns whether any entry matched. The selection is
// refreshed if it points at the updated id.
func (d *Dashboard) UpdateProject(ctx context.Context, updated models.Project) (bool, error) {
	updated.Normalize()

	d.mu.Lock()
	defer d.mu.Unlock()

	matched := false
	for i := range d.projects {
		if d.projects[i].ID == updated.ID {
			d.projects[i] = updated
			matched = true
		}
	}
	if !matched {
		return false, nil
	}

	if d.selected != nil && d.selected.ID == updated.ID {
		clone := updated
		d.selected = &clone
	}

	return true, d.persistProjects(ctx)
}

// AddGlobalCategory appends c to the palette unless an existing entry
// already has the same name (case-sensitive exact match; ids are not
// deduplicated). Returns whether the palette changed.
func (d *Dashboard) AddGlobalCategory(ctx context.Context, c models.Category) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addGlobalCategoryLocked(ctx, c)
}

func (d *Dashboard) addGlobalCategoryLocked(ctx context.Context, c models.Category) (bool, error) {
	for _, existing := range d.categories {
		if existing.Name == c.Name {
			return false, nil
		}
	}
	d.categories = append(d.categories, c)
	return true, d.persistCategories(ctx)
}

// RemoveGlobalCategory removes the palette entry with the given id.
// Projects that carry the category keep their copies.
func (d *Dashboard) RemoveGlobalCategory(ctx context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.categories[:0]
	removed := false
	for _, c := range d.categories {
		if c.ID == id {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	d.categories = kept

	if !removed {
		return false, nil
	}
	return true, d.persistCategories(ctx)
}

// --- Selection ---

// Select puts the first project with the given id into detail view.
// Returns false (leaving any previous selection intact) if no project
// has that id.
func (d *Dashboard) Select(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.projects {
		if p.ID == id {
			clone := p
			d.selected = &clone
			return true
		}
	}
	return false
}

// ClearSelection exits detail view.
func (d *Dashboard) ClearSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = nil
}

// Selected returns a copy of the project currently in detail view, or nil.
func (d *Dashboard) Selected() *models.Project {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == nil {
		return nil
	}
	clone := *d.selected
	return &clone
}

// AddCategoryToSelected appends c to the selected project's categories,
// writes the project back into the list by id match, keeps the selected
// view in sync, and registers the category in the global palette if its
// name is new. A silent no-op when nothing is selected.
func (d *Dashboard) AddCategoryToSelected(ctx context.Context, c models.Category) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == nil {
		return nil
	}
	return d.addCategoryLocked(ctx, d.selected.ID, c)
}

// RemoveCategoryFromSelected removes the category with the given id from
// the selected project. The global palette retains the category even if no
// project uses it anymore. A silent no-op when nothing is selected.
func (d *Dashboard) RemoveCategoryFromSelected(ctx context.Context, categoryID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == nil {
		return nil
	}
	return d.removeCategoryLocked(ctx, d.selected.ID, categoryID)
}

// AddCategoryToProject is the id-addressed form used by the HTTP API, where
// selection state would be shared between unrelated clients. Returns false
// if no project has the given id.
func (d *Dashboard) AddCategoryToProject(ctx context.Context, projectID string, c models.Category) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasProjectLocked(projectID) {
		return false, nil
	}
	return true, d.addCategoryLocked(ctx, projectID, c)
}

// RemoveCategoryFromProject is the id-addressed form of
// RemoveCategoryFromSelected.
func (d *Dashboard) RemoveCategoryFromProject(ctx context.Context, projectID, categoryID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasProjectLocked(projectID) {
		return false, nil
	}
	return true, d.removeCategoryLocked(ctx, projectID, categoryID)
}

func (d *Dashboard) hasProjectLocked(id string) bool {
	for _, p := range d.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (d *Dashboard) addCategoryLocked(ctx context.Context, projectID string, c models.Category) error {
	for i := range d.projects {
		if d.projects[i].ID != projectID {
			continue
		}
		categories := make([]models.Category, len(d.projects[i].Categories), len(d.projects[i].Categories)+1)
		copy(categories, d.projects[i].Categories)
		d.projects[i].Categories = append(categories, c)
	}
	d.syncSelectedLocked(projectID)

	if err := d.persistProjects(ctx); err != nil {
		return err
	}
	_, err := d.addGlobalCategoryLocked(ctx, c)
	return err
}

func (d *Dashboard) removeCategoryLocked(ctx context.Context, projectID, categoryID string) error {
	for i := range d.projects {
		if d.projects[i].ID != projectID {
			continue
		}
		kept := make([]models.Category, 0, len(d.projects[i].Categories))
		for _, c := range d.projects[i].Categories {
			if c.ID != categoryID {
				kept = append(kept, c)
			}
		}
		d.projects[i].Categories = kept
	}
	d.syncSelectedLocked(projectID)

	return d.persistProjects(ctx)
}

// syncSelectedLocked refreshes the selected copy after a mutation touched
// the project it points at.
func (d *Dashboard) syncSelectedLocked(projectID string) {
	if d.selected == nil || d.selected.ID != projectID {
		return
	}
	for _, p := range d.projects {
		if p.ID == projectID {
			clone := p
			d.selected = &clone
			return
		}
	}
}

// --- Filtering ---

// Filter derives the visible subset of the project list. query matches
// case-insensitively against Name or Description; categoryIDs are AND-ed:
// a project is visible only if it carries every one of them. Empty inputs
// mean no filtering. Original order is preserved.
func (d *Dashboard) Filter(query string, categoryIDs []string) []models.Project {
	d.mu.Lock()
	defer d.mu.Unlock()

	q := strings.ToLower(query)
	out := make([]models.Project, 0, len(d.projects))
	for _, p := range d.projects {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if !hasAllCategories(&p, categoryIDs) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasAllCategories(p *models.Project, ids []string) bool {
	for _, id := range ids {
		if !p.HasCategory(id) {
			return false
		}
	}
	return true
}

// --- Persistence ---

func (d *Dashboard) persistProjects(ctx context.Context) error {
	if err := d.repo.SetProjects(ctx, d.projects); err != nil {
		return fmt.Errorf("persist projects: %w", err)
	}
	return nil
}

func (d *Dashboard) persistCategories(ctx context.Context) error {
	if err := d.repo.SetCategories(ctx, d.categories); err != nil {
		return fmt.Errorf("persist categories: %w", err)
	}
	return nil
}
