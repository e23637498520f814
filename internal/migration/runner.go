package migration

import (
	"context"

	"toplist/internal/errors"

	"github.com/jmoiron/sqlx"
)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createItemsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create items table")
	}
	if err := r.createTagsTables(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create tags tables")
	}
	if err := r.createAccoladesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create accolades table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *MigrationRunner) createItemsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS items (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(50) NOT NULL,
			subcategory VARCHAR(100) NOT NULL DEFAULT '',
			group_name VARCHAR(255),
			description TEXT,
			item_year INTEGER,
			item_year_to INTEGER,
			reference_url TEXT,
			image_url TEXT,
			view_count INTEGER NOT NULL DEFAULT 0,
			selection_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createTagsTables(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tags (
			id UUID PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS item_tags (
			item_id UUID NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			tag_id UUID NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (item_id, tag_id)
		)
	`)
	return err
}

func (r *MigrationRunner) createAccoladesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS accolades (
			id UUID PRIMARY KEY,
			item_id UUID NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			type VARCHAR(50) NOT NULL,
			name VARCHAR(255) NOT NULL,
			value VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category, subcategory)`,
		`CREATE INDEX IF NOT EXISTS idx_items_name_lower ON items(LOWER(name))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_items_identity ON items(LOWER(name), category, subcategory)`,
		`CREATE INDEX IF NOT EXISTS idx_accolades_item ON accolades(item_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
