package auth

import (
	"context"
	"errors"

	"github.com/julianstephens/timetable/internal/models"
)

var ErrNoSession = errors.New("not signed in")

// Session is the signed-in identity. It is passed explicitly to whatever
// needs the current user or a bearer token.
type Session struct {
	user  models.User
	token string
}

func NewSession(user models.User, token string) *Session {
	return &Session{user: user, token: token}
}

func (s *Session) CurrentUser() models.User {
	return s.user
}

func (s *Session) UserID() string {
	return s.user.UID
}

// Token implements api.TokenSource.
func (s *Session) Token(context.Context) (string, error) {
	if s == nil || s.token == "" {
		return "", ErrNoSession
	}
	return s.token, nil
}
