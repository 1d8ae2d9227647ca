// Package migration applies numbered SQL files (NNN_name.sql) from an
// fs.FS to a database, tracking the applied version in schema_version.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Dialect selects the placeholder syntax used for bookkeeping queries.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

var ErrSchemaTooNew = errors.New("database schema is newer than this binary supports")

type Migration struct {
	Version int
	Name    string
	SQL     string
}

type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect Dialect
}

func NewRunner(db *sql.DB, migrationFS fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, fs: migrationFS, dialect: dialect}
}

func (r *Runner) ensureVersionTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the applied schema version, 0 for a fresh database.
func (r *Runner) CurrentVersion(ctx context.Context) (int, error) {
	if err := r.ensureVersionTable(ctx); err != nil {
		return 0, err
	}
	var version int
	err := r.db.QueryRowContext(ctx, `SELECT version FROM schema_version`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Migrations parses the migration files, sorted by version.
func (r *Runner) Migrations() ([]Migration, error) {
	files, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var out []Migration
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}
		num, rest, ok := strings.Cut(f.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", f.Name())
		}
		version, err := strconv.Atoi(num)
		if err != nil || version < 1 {
			return nil, fmt.Errorf("invalid version number in migration filename %s", f.Name())
		}
		body, err := fs.ReadFile(r.fs, f.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", f.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: strings.TrimSuffix(rest, ".sql"), SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

// Apply runs every pending migration, each in its own transaction, and
// returns how many were applied. logFn may be nil.
func (r *Runner) Apply(ctx context.Context, logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return 0, err
	}
	all, err := r.Migrations()
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		logFn("No migration files found")
		return 0, nil
	}
	latest := all[len(all)-1].Version
	if current > latest {
		return 0, fmt.Errorf("%w (database %d, supported %d)", ErrSchemaTooNew, current, latest)
	}

	start := time.Now()
	applied := 0
	for _, m := range all {
		if m.Version <= current {
			continue
		}
		logFn(fmt.Sprintf("Applying migration %d: %s", m.Version, m.Name))
		if err := r.applyOne(ctx, m); err != nil {
			return applied, err
		}
		applied++
	}

	if applied == 0 {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", current))
	} else {
		logFn(fmt.Sprintf("Applied %d migration(s) in %v", applied, time.Since(start)))
	}
	return applied, nil
}

func (r *Runner) applyOne(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	insert := "INSERT INTO schema_version (version) VALUES (" + r.dialect.placeholder(1) + ")"
	if _, err := tx.ExecContext(ctx, insert, m.Version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// Validate fails when the database is ahead of the embedded migrations.
func (r *Runner) Validate(ctx context.Context) error {
	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	all, err := r.Migrations()
	if err != nil {
		return err
	}
	latest := 0
	if len(all) > 0 {
		latest = all[len(all)-1].Version
	}
	if current > latest {
		return fmt.Errorf("%w (database %d, supported %d)", ErrSchemaTooNew, current, latest)
	}
	return nil
}
