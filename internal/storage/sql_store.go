package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/timetable/internal/migration"
	"github.com/julianstephens/timetable/internal/models"
)

const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLStore implements the data methods of Provider over database/sql.
// Queries are written with ? placeholders and rebound for the dialect.
type SQLStore struct {
	db              *sql.DB
	dialect         migration.Dialect
	uniqueViolation func(error) bool
}

// NewSQLStore wraps an open database. uniqueViolation reports whether a
// driver error is a unique-constraint failure.
func NewSQLStore(db *sql.DB, dialect migration.Dialect, uniqueViolation func(error) bool) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, uniqueViolation: uniqueViolation}
}

func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) rebind(query string) string {
	if s.dialect != migration.Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) CreateAccount(ctx context.Context, acct Account) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO accounts (uid, email, password_hash, created_at) VALUES (?, ?, ?, ?)`),
		acct.UID, strings.ToLower(acct.Email), acct.PasswordHash, acct.CreatedAt.UTC().Format(timestampLayout))
	if err != nil {
		if s.uniqueViolation != nil && s.uniqueViolation(err) {
			return fmt.Errorf("account %s: %w", acct.Email, ErrConflict)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *SQLStore) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	var acct Account
	var created string
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT uid, email, password_hash, created_at FROM accounts WHERE email = ?`),
		strings.ToLower(email)).Scan(&acct.UID, &acct.Email, &acct.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	acct.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return acct, nil
}

func (s *SQLStore) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO users (uid, email, name, photo_url) VALUES (?, ?, ?, ?)
			ON CONFLICT (uid) DO UPDATE SET email = excluded.email, name = excluded.name, photo_url = excluded.photo_url`),
		user.UID, user.Email, user.Name, user.PhotoURL)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

func (s *SQLStore) GetUser(ctx context.Context, uid string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT uid, email, name, photo_url FROM users WHERE uid = ?`), uid).
		Scan(&u.UID, &u.Email, &u.Name, &u.PhotoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

const entryColumns = `id, user_id, action, week_start, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var (
		id, userID, action, weekStart, status, created string
	)
	if err := row.Scan(&id, &userID, &action, &weekStart, &status, &created); err != nil {
		return models.Entry{}, err
	}
	e := models.Entry{ID: models.PersistedID(id), UserID: userID, Action: action}
	var err error
	if e.WeekStart, err = time.Parse(time.RFC3339Nano, weekStart); err != nil {
		return models.Entry{}, fmt.Errorf("entry %s: bad week_start: %w", id, err)
	}
	if err := json.Unmarshal([]byte(status), &e.Status); err != nil {
		return models.Entry{}, fmt.Errorf("entry %s: bad status: %w", id, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		e.CreatedAt = &t
	}
	return e, nil
}

func (s *SQLStore) ListEntries(ctx context.Context, userID string) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT `+entryColumns+` FROM entries WHERE user_id = ? ORDER BY seq`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLStore) GetEntry(ctx context.Context, id string) (models.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+entryColumns+` FROM entries WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, ErrNotFound
	}
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to get entry: %w", err)
	}
	return e, nil
}

// CreateEntry inserts entry, which must already carry its id and creation time.
func (s *SQLStore) CreateEntry(ctx context.Context, entry models.Entry) (models.Entry, error) {
	if entry.ID.IsZero() || entry.CreatedAt == nil {
		return models.Entry{}, errors.New("entry requires an id and creation time")
	}
	status, err := json.Marshal(entry.Status)
	if err != nil {
		return models.Entry{}, err
	}
	_, err = s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
		entry.ID.String(), entry.UserID, entry.Action,
		entry.WeekStart.Format(time.RFC3339Nano), string(status),
		entry.CreatedAt.UTC().Format(timestampLayout))
	if err != nil {
		if s.uniqueViolation != nil && s.uniqueViolation(err) {
			return models.Entry{}, fmt.Errorf("entry %s: %w", entry.ID, ErrConflict)
		}
		return models.Entry{}, fmt.Errorf("failed to create entry: %w", err)
	}
	return entry, nil
}

func (s *SQLStore) UpdateEntryStatus(ctx context.Context, id string, status models.Status) (models.Entry, error) {
	data, err := json.Marshal(status)
	if err != nil {
		return models.Entry{}, err
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE entries SET status = ? WHERE id = ?`), string(data), id)
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to update entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Entry{}, ErrNotFound
	}
	return s.GetEntry(ctx, id)
}

func (s *SQLStore) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM entries WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
