// Package migrations applies the versioned SQL files that define the
// scheduling schema. Applied versions are tracked in schema_migrations, and
// every file runs inside its own transaction together with its bookkeeping
// row, so a failed migration leaves no partial state behind.
package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teachhq/teach-backend/internal/pkg/logger"
)

// Migrator applies schema migrations against a connection pool
type Migrator struct {
	db *pgxpool.Pool
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{db: db}
}

// MigrateFromDirectory applies every pending *.sql file in the directory, in
// lexical order of file name.
func (m *Migrator) MigrateFromDirectory(dirPath string) error {
	ctx := context.Background()

	if _, err := m.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	names, err := listMigrationFiles(dirPath)
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := m.applyFile(ctx, dirPath, name); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

// applyFile runs one migration file if its version has not been applied yet
func (m *Migrator) applyFile(ctx context.Context, dirPath, name string) error {
	// "001_init.sql" => version "001"
	version := strings.SplitN(name, "_", 2)[0]

	var applied bool
	if err := m.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`,
		version,
	).Scan(&applied); err != nil {
		return fmt.Errorf("check applied versions: %w", err)
	}
	if applied {
		logger.Debug().Str("file", name).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := os.ReadFile(filepath.Join(dirPath, name))
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}

	logger.Info().Str("file", name).Msg("Applying migration")

	err = pgx.BeginFunc(ctx, m.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration SQL: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
			version, time.Now(),
		); err != nil {
			return fmt.Errorf("record applied version: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().Str("file", name).Msg("Migration applied")
	return nil
}

// listMigrationFiles returns the *.sql file names of a directory sorted by name
func listMigrationFiles(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("read migration directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
