package server

import (
	"context"
	"strings"

	"github.com/julianstephens/timetable/internal/storage"
	"github.com/julianstephens/timetable/internal/storage/postgres"
	"github.com/julianstephens/timetable/internal/storage/sqlite"
	"github.com/julianstephens/timetable/internal/utils"
)

// isPostgresDSN reports whether dsn should be handed to lib/pq rather than
// treated as a SQLite file path.
func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=") ||
		strings.Contains(dsn, "dbname=")
}

// OpenStorage picks and initialises the backend for dsn. A "sqlite:" prefix
// is accepted and stripped.
func OpenStorage(ctx context.Context, dsn string) (storage.Provider, error) {
	var p storage.Provider
	if isPostgresDSN(dsn) {
		p = postgres.New(dsn)
	} else {
		p = sqlite.NewStore(utils.ExpandHome(strings.TrimPrefix(dsn, "sqlite:")))
	}
	if err := p.Init(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
