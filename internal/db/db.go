// Package db is the sqlite key-value gateway. Every snapshot lives in a
// single kv table whose schema is managed by goose.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const defaultBusyTimeout = 5 * time.Second

// Config holds sqlite connection settings
type Config struct {
	Path        string        // database file, created with its directory if missing
	BusyTimeout time.Duration // how long a locked database is retried (default: 5s)
}

// DB is a kvstore backed by a sqlite file
type DB struct {
	*sql.DB
}

// Open opens the database at path with default settings
func Open(path string) (*DB, error) {
	return OpenWithConfig(context.Background(), Config{Path: path})
}

// OpenWithConfig opens the database, verifies the connection and brings the
// schema up to date.
func OpenWithConfig(ctx context.Context, cfg Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d", cfg.Path, busy.Milliseconds())

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One process owns the file (see app lock); a single connection keeps
	// writes serialized.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &DB{DB: sqlDB}, nil
}

func newProvider(sqlDB *sql.DB) (*goose.Provider, error) {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(goose.DialectSQLite3, sqlDB, fsys)
}

// runMigrations applies pending migrations. The provider keeps no global
// state and does not log, so the TUI screen stays clean.
func runMigrations(ctx context.Context, sqlDB *sql.DB) error {
	provider, err := newProvider(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the latest applied migration version
func (db *DB) SchemaVersion(ctx context.Context) (int64, error) {
	provider, err := newProvider(db.DB)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}
