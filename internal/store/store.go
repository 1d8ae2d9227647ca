// Package store holds the signed-in user's timetable entries in memory and
// keeps them in step with the remote backend, falling back to a
// session-only local mode when the backend cannot be reached.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/timetable/internal/logger"
	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/utils"
)

// Backend is the remote persistence capability the store needs.
// *api.Client satisfies it.
type Backend interface {
	GetEntries(ctx context.Context, userID string) ([]models.Entry, error)
	AddEntry(ctx context.Context, draft models.EntryDraft) (models.Entry, error)
	UpdateEntry(ctx context.Context, id string, patch models.StatusPatch) (models.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// Store is safe for concurrent use. The mutex is never held across a
// backend call, so every apply step looks the entry up again by id.
type Store struct {
	backend Backend
	userID  string
	now     func() time.Time

	mu               sync.Mutex
	entries          []models.Entry
	backendAvailable bool
	lastErr          error
}

type Option func(*Store)

// WithClock overrides the time source used for week start and creation time.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store for userID. A nil backend starts the store in local mode.
func New(backend Backend, userID string, opts ...Option) *Store {
	s := &Store{
		backend:          backend,
		userID:           userID,
		now:              time.Now,
		entries:          []models.Entry{},
		backendAvailable: backend != nil,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) UserID() string {
	return s.userID
}

// Entries returns a snapshot of the current entries in insertion order.
func (s *Store) Entries() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// BackendAvailable reports whether remote persistence is in use.
func (s *Store) BackendAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backendAvailable
}

// Err returns the last recorded failure, or nil.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

func (s *Store) fail(op, msg string, cause error) error {
	err := &Error{Op: op, Message: msg, Err: cause}
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	logger.Error(msg, "op", op, "user", s.userID, "error", cause)
	return err
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id models.EntryID) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// Load replaces the entries with the backend's list for the user. On
// failure the store switches to local mode with no entries. There is no retry.
func (s *Store) Load(ctx context.Context) error {
	if s.backend == nil {
		return s.goOffline(ErrNoBackend)
	}

	entries, err := s.backend.GetEntries(ctx, s.userID)
	if err != nil {
		return s.goOffline(err)
	}

	s.mu.Lock()
	s.entries = entries
	s.backendAvailable = true
	s.lastErr = nil
	s.mu.Unlock()

	logger.Debug("Loaded entries", "user", s.userID, "count", len(entries))
	return nil
}

func (s *Store) goOffline(cause error) error {
	err := &Error{Op: "load", Message: MsgOffline, Err: cause}
	s.mu.Lock()
	s.entries = []models.Entry{}
	s.backendAvailable = false
	s.lastErr = err
	s.mu.Unlock()
	logger.Warn("Backend unavailable, switching to offline mode", "user", s.userID, "error", cause)
	return err
}

// AddAction creates an all-pending entry for the current week.
func (s *Store) AddAction(ctx context.Context, name string) (models.Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Entry{}, &Error{Op: "add", Message: msgEmptyAction, Err: ErrEmptyAction}
	}

	now := s.now()
	draft := models.NewDraft(s.userID, name, utils.CurrentWeekMonday(now))

	var entry models.Entry
	if s.BackendAvailable() {
		saved, err := s.backend.AddEntry(ctx, draft)
		if err != nil {
			return models.Entry{}, s.fail("add", msgAddFailed, err)
		}
		entry = saved
	} else {
		entry = draft.Local(now)
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	logger.Debug("Added action", "id", entry.ID.String(), "local", entry.ID.IsLocal())
	return entry, nil
}

// SetStatus records value for day on the entry with the given id. Only
// referenceDay (normally today) may be changed; any other day and any
// unknown id is silently ignored. Write-once is left to the caller.
func (s *Store) SetStatus(ctx context.Context, id models.EntryID, day time.Weekday, value models.DayStatus, referenceDay time.Weekday) error {
	if day != referenceDay {
		return nil
	}
	if !value.IsSet() {
		return &Error{Op: "update", Message: msgInvalid, Err: ErrInvalidStatus}
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	next := s.entries[idx].Status.With(day, value)
	remote := s.backendAvailable && !id.IsLocal()
	s.mu.Unlock()

	if remote {
		if _, err := s.backend.UpdateEntry(ctx, id.String(), models.StatusPatch{Status: next}); err != nil {
			return s.fail("update", msgUpdateFailed, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx = s.indexOf(id)
	if idx < 0 {
		logger.Debug("Dropping status update for deleted entry", "id", id.String())
		return &Error{Op: "update", Message: msgEntryGone, Err: ErrEntryGone}
	}
	s.entries[idx].Status = s.entries[idx].Status.With(day, value)
	return nil
}

// DeleteAction removes the entry with the given id. Entries that were
// never persisted are removed without contacting the backend.
func (s *Store) DeleteAction(ctx context.Context, id models.EntryID) error {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return nil
	}
	remote := s.backendAvailable && !id.IsLocal()
	s.mu.Unlock()

	if remote {
		if err := s.backend.DeleteEntry(ctx, id.String()); err != nil {
			return s.fail("delete", msgDeleteFailed, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	}
	logger.Debug("Deleted action", "id", id.String())
	return nil
}
