package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store owns all persistence for the trivia backend: admin accounts,
// categories, challenge packs, questions, game sessions, and the audit
// log. It runs on SQLite (default, single file) or PostgreSQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the configured database and applies migrations.
// For SQLite, dsn is a data directory; pass empty string for in-memory.
// For Postgres, dsn is a standard connection string.
func Open(driver, dsn string) (*Store, error) {
	var db *sqlx.DB
	var err error

	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		var connStr string
		if dsn == "" {
			connStr = ":memory:?_journal_mode=WAL"
		} else {
			if err := os.MkdirAll(dsn, 0755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			connStr = filepath.Join(dsn, "quizdeck.db") + "?_journal_mode=WAL&_busy_timeout=5000"
		}
		db, err = sqlx.Connect("sqlite", connStr)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	case DriverPostgres:
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres database: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// rebind converts `?` placeholders to the bindvar style of the active
// driver ($1, $2, ... on Postgres).
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

func now() time.Time {
	return time.Now().UTC()
}
