package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/julianstephens/timetable/internal/logger"
	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/storage"
	"github.com/julianstephens/timetable/internal/utils"
)

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID != uidFrom(r.Context()) {
		writeError(w, http.StatusForbidden, codeForbidden, "cannot read another user's timetable")
		return
	}
	entries, err := s.store.ListEntries(r.Context(), userID)
	if err != nil {
		logger.Error("Failed to list entries", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var draft models.EntryDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	caller := uidFrom(r.Context())
	if draft.UserID == "" {
		draft.UserID = caller
	}
	if draft.UserID != caller {
		writeError(w, http.StatusForbidden, codeForbidden, "cannot add entries for another user")
		return
	}
	draft.Action = strings.TrimSpace(draft.Action)
	if draft.Action == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "action is required")
		return
	}

	now := s.now()
	if draft.WeekStart.IsZero() {
		draft.WeekStart = utils.CurrentWeekMonday(now)
	}
	entry := models.Entry{
		ID:        models.PersistedID(uuid.NewString()),
		UserID:    draft.UserID,
		Action:    draft.Action,
		WeekStart: draft.WeekStart,
		Status:    draft.Status,
		CreatedAt: &now,
	}
	saved, err := s.store.CreateEntry(r.Context(), entry)
	if err != nil {
		logger.Error("Failed to create entry", "user", caller, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to create entry")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// ownedEntry loads the entry named in the route, treating another user's
// entry as missing.
func (s *Server) ownedEntry(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	e, err := s.store.GetEntry(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && e.UserID != uidFrom(r.Context())) {
		writeError(w, http.StatusNotFound, codeNotFound, "entry not found")
		return "", false
	}
	if err != nil {
		logger.Error("Failed to get entry", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to get entry")
		return "", false
	}
	return id, true
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var patch models.StatusPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	id, ok := s.ownedEntry(w, r)
	if !ok {
		return
	}
	updated, err := s.store.UpdateEntryStatus(r.Context(), id, patch.Status)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, codeNotFound, "entry not found")
		return
	}
	if err != nil {
		logger.Error("Failed to update entry", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to update entry")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.ownedEntry(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteEntry(r.Context(), id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Error("Failed to delete entry", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to delete entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
