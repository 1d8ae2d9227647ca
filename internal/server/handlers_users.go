package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/julianstephens/timetable/internal/logger"
	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/storage"
)

func (s *Server) handleSaveUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	caller := uidFrom(r.Context())
	if u.UID == "" {
		u.UID = caller
	}
	if u.UID != caller {
		writeError(w, http.StatusForbidden, codeForbidden, "cannot modify another user")
		return
	}

	saved, err := s.store.SaveUser(r.Context(), models.MirrorUser(u.UID, u.Email, u.Name, u.PhotoURL))
	if err != nil {
		logger.Error("Failed to save user", "uid", u.UID, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to save user")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	if uid != uidFrom(r.Context()) {
		writeError(w, http.StatusForbidden, codeForbidden, "cannot read another user")
		return
	}
	u, err := s.store.GetUser(r.Context(), uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, codeNotFound, "user not found")
		return
	}
	if err != nil {
		logger.Error("Failed to get user", "uid", uid, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
