package server

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/timetable/internal/auth"
	"github.com/julianstephens/timetable/internal/constants"
	"github.com/julianstephens/timetable/internal/logger"
	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/storage"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type providerRequest struct {
	IDToken string `json:"idToken"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (s *Server) authError(w http.ResponseWriter, status int, code auth.Code, flow auth.Flow) {
	authFailuresTotal.WithLabelValues(string(code)).Inc()
	writeError(w, status, string(code), auth.Message(code, flow))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, auth.MsgMissingFields)
		return
	}
	if !validEmail(email) {
		s.authError(w, http.StatusBadRequest, auth.CodeInvalidEmail, auth.FlowEmail)
		return
	}
	if len(req.Password) < constants.MinPasswordLength {
		s.authError(w, http.StatusBadRequest, auth.CodeWeakPassword, auth.FlowEmail)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to create account")
		return
	}
	acct := storage.Account{UID: uuid.NewString(), Email: email, PasswordHash: string(hash), CreatedAt: s.now()}
	if err := s.store.CreateAccount(r.Context(), acct); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			s.authError(w, http.StatusConflict, auth.CodeEmailInUse, auth.FlowEmail)
			return
		}
		logger.Error("Failed to create account", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to create account")
		return
	}

	user := models.MirrorUser(acct.UID, acct.Email, "", "")
	if _, err := s.store.SaveUser(r.Context(), user); err != nil {
		logger.Warn("Failed to save user record on sign-up", "uid", acct.UID, "error", err)
	}
	s.respondSession(w, http.StatusCreated, user)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, auth.MsgMissingFields)
		return
	}

	acct, err := s.store.GetAccountByEmail(r.Context(), email)
	if errors.Is(err, storage.ErrNotFound) {
		s.authError(w, http.StatusUnauthorized, auth.CodeUserNotFound, auth.FlowEmail)
		return
	}
	if err != nil {
		logger.Error("Failed to look up account", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to sign in")
		return
	}
	// provider-only accounts have no password
	if acct.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)) != nil {
		s.authError(w, http.StatusUnauthorized, auth.CodeWrongPassword, auth.FlowEmail)
		return
	}

	s.respondSession(w, http.StatusOK, s.userFor(r, acct.UID, acct.Email, "", ""))
}

func (s *Server) handleProviderSignIn(w http.ResponseWriter, r *http.Request) {
	var req providerRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "idToken is required")
		return
	}

	claims, err := s.identities.Verify(req.IDToken)
	if errors.Is(err, ErrProviderDisabled) {
		s.authError(w, http.StatusForbidden, auth.CodeUnauthorizedDomain, auth.FlowProvider)
		return
	}
	if err != nil {
		logger.Debug("Rejected identity token", "error", err)
		s.authError(w, http.StatusUnauthorized, auth.CodeInvalidToken, auth.FlowProvider)
		return
	}

	email := strings.ToLower(claims.Email)
	acct, err := s.store.GetAccountByEmail(r.Context(), email)
	if errors.Is(err, storage.ErrNotFound) {
		acct = storage.Account{UID: uuid.NewString(), Email: email, CreatedAt: s.now()}
		err = s.store.CreateAccount(r.Context(), acct)
	}
	if err != nil {
		logger.Error("Failed to resolve provider account", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to sign in")
		return
	}

	s.respondSession(w, http.StatusOK, s.userFor(r, acct.UID, acct.Email, claims.Name, claims.Picture))
}

// userFor returns the stored user record, or a mirrored one if none exists yet.
func (s *Server) userFor(r *http.Request, uid, email, name, photo string) models.User {
	if u, err := s.store.GetUser(r.Context(), uid); err == nil {
		return u
	}
	user := models.MirrorUser(uid, email, name, photo)
	if _, err := s.store.SaveUser(r.Context(), user); err != nil {
		logger.Warn("Failed to save user record", "uid", uid, "error", err)
	}
	return user
}

func (s *Server) respondSession(w http.ResponseWriter, status int, user models.User) {
	token, err := s.tokens.Issue(user.UID, user.Email)
	if err != nil {
		logger.Error("Failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to issue token")
		return
	}
	writeJSON(w, status, authResponse{Token: token, User: user})
}
