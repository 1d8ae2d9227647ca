package storage

import (
	"testing"

	"github.com/julianstephens/timetable/internal/migration"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect migration.Dialect
		in      string
		want    string
	}{
		{migration.SQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{migration.Postgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{migration.Postgres, "DELETE FROM t", "DELETE FROM t"},
	}
	for _, tt := range tests {
		s := &SQLStore{dialect: tt.dialect}
		if got := s.rebind(tt.in); got != tt.want {
			t.Errorf("rebind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
