// Package auth signs users in through an identity provider, mirrors the
// user record to the backend and caches the resulting session locally.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/timetable/internal/keyring"
	"github.com/julianstephens/timetable/internal/logger"
	"github.com/julianstephens/timetable/internal/models"
)

// UserSyncer persists the mirrored user record.
type UserSyncer interface {
	SaveUser(ctx context.Context, user models.User) (models.User, error)
}

// Cache stores a session between runs.
type Cache interface {
	SetToken(token string) error
	GetToken() (string, error)
	SetSessionUser(user models.User) error
	GetSessionUser() (models.User, error)
	Clear() error
}

// KeyringCache is the Cache backed by the OS keyring.
type KeyringCache struct{}

func (KeyringCache) SetToken(token string) error { return keyring.SetToken(token) }

func (KeyringCache) GetToken() (string, error) { return keyring.GetToken() }

func (KeyringCache) SetSessionUser(user models.User) error { return keyring.SetSessionUser(user) }

func (KeyringCache) GetSessionUser() (models.User, error) { return keyring.GetSessionUser() }

func (KeyringCache) Clear() error { return keyring.Clear() }

// ErrSessionNotSaved is returned, together with the live session, when
// sign-in succeeded but the session could not be cached for later runs.
var ErrSessionNotSaved = errors.New("signed in, but the session could not be saved")

type Authenticator struct {
	Provider Provider
	Cache    Cache
	// NewSyncer builds the client used to mirror the user record once a
	// session exists. Nil skips mirroring.
	NewSyncer func(*Session) UserSyncer
}

func (a *Authenticator) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &Error{Flow: FlowEmail, Err: ErrMissingFields}
	}
	res, err := a.Provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return a.establish(ctx, res)
}

func (a *Authenticator) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &Error{Flow: FlowEmail, Err: ErrMissingFields}
	}
	res, err := a.Provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return a.establish(ctx, res)
}

func (a *Authenticator) SignInWithProvider(ctx context.Context, idToken string) (*Session, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, &Error{Code: CodePopupClosed, Flow: FlowProvider}
	}
	res, err := a.Provider.SignInWithProvider(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return a.establish(ctx, res)
}

// establish mirrors the user and caches the session. A failed mirror is
// only logged; a failed cache returns the session with ErrSessionNotSaved.
func (a *Authenticator) establish(ctx context.Context, res Result) (*Session, error) {
	u := res.User
	user := models.MirrorUser(u.UID, u.Email, u.Name, u.PhotoURL)
	session := NewSession(user, res.Token)

	if a.NewSyncer != nil {
		if _, err := a.NewSyncer(session).SaveUser(ctx, user); err != nil {
			logger.Warn("Failed to mirror user record", "uid", user.UID, "error", err)
		}
	}

	if a.Cache != nil {
		if err := a.cache(session); err != nil {
			logger.Error("Failed to cache session", "uid", user.UID, "error", err)
			return session, fmt.Errorf("%w: %w", ErrSessionNotSaved, err)
		}
	}

	logger.Info("Signed in", "uid", user.UID)
	return session, nil
}

// cache writes token and user. A half-written session is cleared so
// Restore never pairs a new token with a stale user.
func (a *Authenticator) cache(s *Session) error {
	if err := a.Cache.SetToken(s.token); err != nil {
		return err
	}
	if err := a.Cache.SetSessionUser(s.user); err != nil {
		if clearErr := a.Cache.Clear(); clearErr != nil {
			logger.Warn("Failed to clear partial session", "error", clearErr)
		}
		return err
	}
	return nil
}

// Restore rebuilds the session cached by a previous sign-in.
func (a *Authenticator) Restore() (*Session, error) {
	if a.Cache == nil {
		return nil, ErrNoSession
	}
	token, err := a.Cache.GetToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	user, err := a.Cache.GetSessionUser()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return NewSession(user, token), nil
}

// Logout forgets the cached session.
func (a *Authenticator) Logout() error {
	if a.Cache == nil {
		return nil
	}
	if err := a.Cache.Clear(); err != nil {
		return err
	}
	logger.Info("Signed out")
	return nil
}
