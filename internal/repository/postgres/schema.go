package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables and indexes for the given prefix if they do
// not exist yet. Every statement is idempotent, so this is safe to run on
// every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, prefix string) error {
	tables := NewTableNames(prefix)

	createCategories := `
		CREATE TABLE IF NOT EXISTS ` + tables.Categories + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createCategories); err != nil {
		return fmt.Errorf("create categories table: %w", err)
	}

	createMaterials := `
		CREATE TABLE IF NOT EXISTS ` + tables.Materials + ` (
			id UUID PRIMARY KEY,
			owner_id TEXT NOT NULL,
			owner_name TEXT NOT NULL,
			category_id UUID NOT NULL REFERENCES ` + tables.Categories + `(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			drive_file_id TEXT,
			file_name TEXT NOT NULL DEFAULT '',
			mime_type TEXT NOT NULL DEFAULT '',
			visibility TEXT NOT NULL DEFAULT 'pending',
			rejected_at TIMESTAMPTZ,
			download_count BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (visibility IN ('pending', 'published', 'rejected')),
			CHECK ((visibility = 'rejected') = (rejected_at IS NOT NULL))
		)
	`
	if _, err := pool.Exec(ctx, createMaterials); err != nil {
		return fmt.Errorf("create materials table: %w", err)
	}

	createArchive := `
		CREATE TABLE IF NOT EXISTS ` + tables.Archive + ` (
			id UUID PRIMARY KEY,
			material_id UUID NOT NULL,
			owner_id TEXT NOT NULL,
			owner_name TEXT NOT NULL,
			title TEXT NOT NULL,
			category_id UUID NOT NULL,
			category_name TEXT NOT NULL,
			rejected_at TIMESTAMPTZ NOT NULL,
			deleted_at TIMESTAMPTZ NOT NULL,
			drive_file_id TEXT
		)
	`
	if _, err := pool.Exec(ctx, createArchive); err != nil {
		return fmt.Errorf("create archive table: %w", err)
	}

	createLikes := `
		CREATE TABLE IF NOT EXISTS ` + tables.Likes + ` (
			id UUID PRIMARY KEY,
			material_id UUID NOT NULL REFERENCES ` + tables.Materials + `(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(material_id, user_id)
		)
	`
	if _, err := pool.Exec(ctx, createLikes); err != nil {
		return fmt.Errorf("create likes table: %w", err)
	}

	createComments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Comments + ` (
			id UUID PRIMARY KEY,
			material_id UUID NOT NULL REFERENCES ` + tables.Materials + `(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			user_name TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createComments); err != nil {
		return fmt.Errorf("create comments table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `materials_owner ON ` + tables.Materials + `(owner_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `materials_visibility ON ` + tables.Materials + `(visibility, created_at DESC)`,
		// Partial index backing the sweeper's expiry query
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `materials_rejected_at ON ` + tables.Materials + `(rejected_at) WHERE visibility = 'rejected'`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `comments_material ON ` + tables.Comments + `(material_id, created_at)`,
	}
	for _, idx := range indexes {
		if _, err := pool.Exec(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// defaultCategories are inserted on startup when missing. Category management
// has no API surface; this list is the catalog materials are filed under.
var defaultCategories = []string{
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"Computer Science",
	"Economics",
	"Languages",
	"History",
	"Other",
}

// SeedCategories inserts the default categories, skipping any that already
// exist by name. Safe to run on every startup.
func SeedCategories(ctx context.Context, pool *pgxpool.Pool, prefix string) error {
	tables := NewTableNames(prefix)

	query := `
		INSERT INTO ` + tables.Categories + ` (id, name)
		VALUES (gen_random_uuid(), $1)
		ON CONFLICT (name) DO NOTHING
	`
	for _, name := range defaultCategories {
		if _, err := pool.Exec(ctx, query, name); err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
	}

	return nil
}
