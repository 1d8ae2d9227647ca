// Package storage persists accounts, mirrored users and timetable entries
// for the companion backend.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/timetable/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Account is a sign-in identity. PasswordHash is empty for accounts created
// through a federated provider.
type Account struct {
	UID          string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Accounts
	CreateAccount(ctx context.Context, acct Account) error
	GetAccountByEmail(ctx context.Context, email string) (Account, error)

	// Users
	SaveUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, uid string) (models.User, error)

	// Entries
	ListEntries(ctx context.Context, userID string) ([]models.Entry, error)
	GetEntry(ctx context.Context, id string) (models.Entry, error)
	CreateEntry(ctx context.Context, entry models.Entry) (models.Entry, error)
	UpdateEntryStatus(ctx context.Context, id string, status models.Status) (models.Entry, error)
	DeleteEntry(ctx context.Context, id string) error

	// Utils
	Describe() string
}
