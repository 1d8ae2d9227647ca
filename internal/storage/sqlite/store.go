package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/timetable/internal/logger"
	"github.com/julianstephens/timetable/internal/migration"
	"github.com/julianstephens/timetable/internal/storage"
	"github.com/julianstephens/timetable/migrations"
)

var _ storage.Provider = (*Store)(nil)

// Store must be initialised with Init before use.
type Store struct {
	*storage.SQLStore
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Init opens (creating if needed) the database file and applies pending migrations.
func (s *Store) Init(ctx context.Context) error {
	if s.path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)
	s.db = db

	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.SQLStore = storage.NewSQLStore(db, migration.SQLite, isUniqueViolation)
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, subFS, migration.SQLite)
	_, err = runner.Apply(ctx, func(msg string) {
		logger.Info(msg, "db", "sqlite")
	})
	return err
}

func (s *Store) Describe() string {
	return "sqlite:" + s.path
}
