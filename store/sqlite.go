// Package store is the relational backing container: schema bootstrap,
// transactional commits, and per-name version table management.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	// Package sqlite is a CGo-free port of SQLite/SQLite3.
	_ "modernc.org/sqlite"

	"github.com/ladzaretti/migrate"
)

var (
	//go:embed migrations/sqlite
	embedFS embed.FS

	embeddedMigrations = migrate.EmbeddedMigrations{
		FS:   embedFS,
		Path: "migrations/sqlite",
	}
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, letting every query
// method run unmodified against either an auto-commit connection or a
// transaction-scoped Store returned by WithTx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store wraps the on-disk container. All four singleton tables are
// bootstrapped at New; per-entry version tables are created and dropped
// on demand by the engine.
type Store struct {
	db *sql.DB
	q  dbtx
}

func errf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}

// New opens (creating if absent) the container at path and applies the
// singleton-table schema. Schema creation is idempotent.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errf("sqlite open: %v", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, errf("pragma: %v", err)
	}

	m := migrate.New(db, migrate.SQLiteDialect{})

	if _, err := m.Apply(embeddedMigrations); err != nil {
		return nil, errf("migration: %v", err)
	}

	return &Store{db: db, q: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin starts a new transaction on the base connection.
func (s *Store) Begin(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// WithTx returns a copy of Store whose query methods run against tx
// instead of the base connection, so a caller can compose several
// mutations into one atomic commit.
func (s *Store) WithTx(tx *sql.Tx) *Store {
	return &Store{db: s.db, q: tx}
}

// Vacuum issues a container-level compaction: free-page reclamation and
// contiguous defragmentation of the backing file.
func (s *Store) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	return err
}
