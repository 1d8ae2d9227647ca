package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/timetable/internal/logger"
	"github.com/julianstephens/timetable/internal/migration"
	"github.com/julianstephens/timetable/internal/storage"
	"github.com/julianstephens/timetable/migrations"
)

const uniqueViolationCode = "23505"

var ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")

var _ storage.Provider = (*Store)(nil)

// Store must be initialised with Init before use.
type Store struct {
	*storage.SQLStore
	connStr string
	db      *sql.DB
}

func New(connStr string) *Store {
	return &Store{connStr: connStr}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}

// ValidateConnString checks that connStr is a URI or key=value DSN lib/pq accepts.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	return nil
}

// hasSSLMode reports whether the connection string sets sslmode, in either URI or DSN form.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	for _, part := range strings.Fields(connStr) {
		if k, _, ok := strings.Cut(part, "="); ok && strings.EqualFold(k, "sslmode") {
			return true
		}
	}
	return false
}

func (s *Store) Init(ctx context.Context) error {
	if err := ValidateConnString(s.connStr); err != nil {
		return err
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	s.db = db

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	runner := migration.NewRunner(db, subFS, migration.Postgres)
	if _, err := runner.Apply(ctx, func(msg string) { logger.Info(msg, "db", "postgres") }); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.SQLStore = storage.NewSQLStore(db, migration.Postgres, isUniqueViolation)
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Describe returns a label that does not leak credentials.
func (s *Store) Describe() string {
	return "postgresql"
}
