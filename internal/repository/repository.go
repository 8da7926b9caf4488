// Package repository persists session metadata and refresh tokens in a
// local sqlite database.
package repository

import (
	"database/sql"
	"fmt"

	"imagehub/internal/config"
	"imagehub/internal/db/migrations"

	"github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Repository wraps the database handle and the SQL query builder.
type Repository struct {
	DB      *sql.DB
	Builder squirrel.StatementBuilderType
}

// NewRepository opens (or creates) the sqlite database at the configured path.
func NewRepository(cfg *config.Config) (*Repository, error) {
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("could not open database at %s: %w", cfg.Database.Path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not reach database at %s: %w", cfg.Database.Path, err)
	}

	// sqlite handles a single writer; keep the pool at one connection to
	// avoid SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	return &Repository{
		DB:      db,
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Close closes the underlying database handle.
func (r *Repository) Close() error {
	return r.DB.Close()
}

func (r *Repository) gooseSetup() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("could not set goose dialect: %w", err)
	}
	return nil
}

// MigrateUp applies all pending schema migrations.
func (r *Repository) MigrateUp() error {
	if err := r.gooseSetup(); err != nil {
		return err
	}
	return goose.Up(r.DB, ".")
}

// MigrateDown rolls the schema back by one version.
func (r *Repository) MigrateDown() error {
	if err := r.gooseSetup(); err != nil {
		return err
	}
	return goose.Down(r.DB, ".")
}

// MigrationStatus prints the migration status for the current database.
func (r *Repository) MigrationStatus() error {
	if err := r.gooseSetup(); err != nil {
		return err
	}
	return goose.Status(r.DB, ".")
}
