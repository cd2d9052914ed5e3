package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/starboard-dev/starboard/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteRepository implements Repository using modernc.org/sqlite
// (pure Go, no CGO). Each Set replaces the stored list inside a single
// transaction so a crash never leaves a half-written list behind.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) a SQLite database at the given path.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Limiting to a single
	// connection serializes all DB access through Go's connection pool,
	// preventing "database is locked" errors from concurrent HTTP requests.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Set busy timeout so concurrent writes wait instead of failing immediately
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteRepository) Migrate(ctx context.Context) error {
	// Create migrations tracking table
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// Sort by filename
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Check if already applied
		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteRepository) Close() error {
	return s.db.Close()
}

// --- Projects ---

func (s *SQLiteRepository) GetProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, category, url, logo, owner, stats, last_activity,
			contributors, branches, commits, pull_requests, categories, languages, topics,
			license, size, last_release, homepage
		FROM projects ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("get projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		var stats, categories, languages, topics string
		var lastRelease sql.NullString

		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.URL, &p.Logo,
			&p.Owner, &stats, &p.LastActivity,
			&p.Contributors, &p.Branches, &p.Commits, &p.PullRequests,
			&categories, &languages, &topics,
			&p.License, &p.Size, &lastRelease, &p.Homepage); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}

		if err := json.Unmarshal([]byte(stats), &p.Stats); err != nil {
			return nil, fmt.Errorf("decode stats for %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(categories), &p.Categories); err != nil {
			return nil, fmt.Errorf("decode categories for %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(languages), &p.Languages); err != nil {
			return nil, fmt.Errorf("decode languages for %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(topics), &p.Topics); err != nil {
			return nil, fmt.Errorf("decode topics for %s: %w", p.ID, err)
		}
		if lastRelease.Valid && lastRelease.String != "" {
			var r models.Release
			if err := json.Unmarshal([]byte(lastRelease.String), &r); err != nil {
				return nil, fmt.Errorf("decode release for %s: %w", p.ID, err)
			}
			p.LastRelease = &r
		}

		p.Normalize()
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLiteRepository) SetProjects(ctx context.Context, projects []models.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("clear projects: %w", err)
	}

	for i, p := range projects {
		stats, err := json.Marshal(p.Stats)
		if err != nil {
			return fmt.Errorf("encode stats for %s: %w", p.ID, err)
		}
		categories, err := json.Marshal(p.Categories)
		if err != nil {
			return fmt.Errorf("encode categories for %s: %w", p.ID, err)
		}
		languages, err := json.Marshal(p.Languages)
		if err != nil {
			return fmt.Errorf("encode languages for %s: %w", p.ID, err)
		}
		topics, err := json.Marshal(p.Topics)
		if err != nil {
			return fmt.Errorf("encode topics for %s: %w", p.ID, err)
		}
		var lastRelease sql.NullString
		if p.LastRelease != nil {
			data, err := json.Marshal(p.LastRelease)
			if err != nil {
				return fmt.Errorf("encode release for %s: %w", p.ID, err)
			}
			lastRelease = sql.NullString{String: string(data), Valid: true}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO projects (position, id, name, description, category, url, logo, owner,
				stats, last_activity, contributors, branches, commits, pull_requests,
				categories, languages, topics, license, size, last_release, homepage)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, p.ID, p.Name, p.Description, p.Category, p.URL, p.Logo, p.Owner,
			string(stats), p.LastActivity, p.Contributors, p.Branches, p.Commits, p.PullRequests,
			string(categories), string(languages), string(topics),
			p.License, p.Size, lastRelease, p.Homepage,
		)
		if err != nil {
			return fmt.Errorf("insert project %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// --- Categories ---

func (s *SQLiteRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, color FROM categories ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLiteRepository) SetCategories(ctx context.Context, categories []models.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM categories"); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	for i, c := range categories {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO categories (position, id, name, color) VALUES (?, ?, ?, ?)",
			i, c.ID, c.Name, c.Color)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
