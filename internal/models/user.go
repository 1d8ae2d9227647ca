package models

import (
	"net/url"
	"strings"

	"github.com/julianstephens/timetable/internal/constants"
)

// User mirrors the identity owned by the auth provider.
type User struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// MirrorUser builds the record saved to the API after sign-in. The name
// falls back to the local part of the email and the photo to a generated avatar.
func MirrorUser(uid, email, displayName, photoURL string) User {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	if photoURL == "" {
		photoURL = constants.DefaultAvatarURL + url.QueryEscape(email)
	}
	return User{
		UID:      uid,
		Email:    email,
		Name:     name,
		PhotoURL: photoURL,
	}
}
