package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/timetable/internal/constants"
)

// EntryID identifies an entry either by its server-assigned id or by a
// placeholder generated while the backend is unreachable.
type EntryID struct {
	value string
	local bool
}

// PersistedID wraps an id assigned by the remote API.
func PersistedID(id string) EntryID {
	return EntryID{value: id}
}

// NewLocalID generates a fresh placeholder id for an entry that only exists in memory.
func NewLocalID() EntryID {
	return EntryID{value: constants.LocalIDPrefix + uuid.New().String(), local: true}
}

// ParseEntryID converts user-supplied text (CLI arguments, TUI selections)
// back into an EntryID.
func ParseEntryID(s string) EntryID {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, constants.LocalIDPrefix) {
		return EntryID{value: s, local: true}
	}
	return PersistedID(s)
}

func (id EntryID) String() string { return id.value }

// IsLocal reports whether the entry has never been persisted remotely.
func (id EntryID) IsLocal() bool { return id.local }

func (id EntryID) IsZero() bool { return id.value == "" }

func (id EntryID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON decodes ids received from the remote API, which are always persisted.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = PersistedID(s)
	return nil
}

// Entry is one tracked action's status record for one week.
type Entry struct {
	ID        EntryID    `json:"_id"`
	UserID    string     `json:"userId"`
	Action    string     `json:"action"`
	WeekStart time.Time  `json:"weekStart"`
	Status    Status     `json:"status"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// EntryDraft is an entry that has not been assigned an id yet.
type EntryDraft struct {
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	WeekStart time.Time `json:"weekStart"`
	Status    Status    `json:"status"`
}

// NewDraft builds an all-pending draft for the week starting at weekStart.
func NewDraft(userID, action string, weekStart time.Time) EntryDraft {
	return EntryDraft{
		UserID:    userID,
		Action:    strings.TrimSpace(action),
		WeekStart: weekStart,
	}
}

// Local materializes the draft as an in-memory entry with a placeholder id.
func (d EntryDraft) Local(now time.Time) Entry {
	created := now
	return Entry{
		ID:        NewLocalID(),
		UserID:    d.UserID,
		Action:    d.Action,
		WeekStart: d.WeekStart,
		Status:    d.Status,
		CreatedAt: &created,
	}
}

// StatusPatch is the partial update body for an entry.
type StatusPatch struct {
	Status Status `json:"status"`
}
