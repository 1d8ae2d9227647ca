package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/timetable/internal/api"
	"github.com/julianstephens/timetable/internal/auth"
	"github.com/julianstephens/timetable/internal/constants"
	ierrors "github.com/julianstephens/timetable/internal/errors"
	"github.com/julianstephens/timetable/internal/logger"
	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/store"
	"github.com/julianstephens/timetable/internal/utils"
)

var ErrNotSignedIn = errors.New("not signed in, run 'timetable login' first")

// Context carries what every command needs: where the API lives, which
// timezone decides "today", and how to authenticate.
type Context struct {
	APIURL    string
	Timezone  string
	ConfigDir string
	Debug     bool
	// Timeout overrides the default per-request timeout when positive.
	Timeout time.Duration
	Auth    *auth.Authenticator
	Out     io.Writer
	// Interactive enables prompts for missing credentials.
	Interactive bool

	base context.Context
}

// NewContext wires the default HTTP provider and keyring cache. Every
// client it builds, including the auth provider, honours timeout.
func NewContext(base context.Context, apiURL, timezone, configDir string, timeout time.Duration) *Context {
	c := &Context{
		APIURL:      apiURL,
		Timezone:    timezone,
		ConfigDir:   configDir,
		Timeout:     timeout,
		Out:         os.Stdout,
		Interactive: isTerminal(os.Stdin),
		base:        base,
	}
	opts := c.apiOptions()
	c.Auth = &auth.Authenticator{
		Provider: auth.NewHTTPProvider(apiURL, opts...),
		Cache:    auth.KeyringCache{},
		NewSyncer: func(s *auth.Session) auth.UserSyncer {
			return api.New(apiURL, s, opts...)
		},
	}
	return c
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// Context returns the base context for blocking calls.
func (c *Context) Context() context.Context {
	if c.base == nil {
		return context.Background()
	}
	return c.base
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// Now returns the current time in the configured timezone.
func (c *Context) Now() (time.Time, error) {
	return utils.NowInTimezone(c.Timezone)
}

func (c *Context) clock() func() time.Time {
	return utils.Clock(c.Timezone)
}

// Session restores the signed-in session from the keyring.
func (c *Context) Session() (*auth.Session, error) {
	s, err := c.Auth.Restore()
	if errors.Is(err, auth.ErrNoSession) {
		return nil, ErrNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return s, nil
}

func (c *Context) apiOptions() []api.Option {
	if c.Timeout > 0 {
		return []api.Option{api.WithTimeout(c.Timeout)}
	}
	return nil
}

func (c *Context) Client(s *auth.Session) *api.Client {
	return api.New(c.APIURL, s, c.apiOptions()...)
}

// OpenStore loads the signed-in user's entries. An unreachable backend is
// reported on Out and yields a store in offline mode rather than an error.
func (c *Context) OpenStore() (*store.Store, *auth.Session, error) {
	session, err := c.Session()
	if err != nil {
		return nil, nil, err
	}
	st := store.New(c.Client(session), session.UserID(), store.WithClock(c.clock()))
	if err := st.Load(c.Context()); err != nil {
		logger.Warn("Opening store in offline mode", "error", err)
		if api.IsUnauthorized(err) {
			c.printf("⚠ Your session was rejected by the backend. Run 'timetable login' again.\n")
		}
		c.printf("⚠ %s\n  Changes made now exist only until this command exits.\n\n", ierrors.Message(err))
	}
	return st, session, nil
}

// resolveEntry finds an entry by exact id or unique id prefix.
func resolveEntry(entries []models.Entry, ref string) (models.Entry, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Entry{}, errors.New("an entry id is required")
	}
	var matches []models.Entry
	for _, e := range entries {
		id := e.ID.String()
		if id == ref {
			return e, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return models.Entry{}, fmt.Errorf("no entry matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Entry{}, fmt.Errorf("%q matches %d entries, use a longer id", ref, len(matches))
	}
}

// shortID abbreviates an id for display; resolveEntry accepts the result.
func shortID(id models.EntryID) string {
	s := id.String()
	keep := 8
	if id.IsLocal() {
		keep += len(constants.LocalIDPrefix)
	}
	if len(s) <= keep {
		return s
	}
	return s[:keep]
}
