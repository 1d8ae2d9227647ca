package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/timetable/internal/models"
)

// GetEntries lists every entry owned by userID.
func (c *Client) GetEntries(ctx context.Context, userID string) ([]models.Entry, error) {
	var entries []models.Entry
	if err := c.Do(ctx, "get entries", http.MethodGet, "/timetable/"+pathEscape(userID), nil, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

// AddEntry persists a draft and returns the stored entry with its server id.
func (c *Client) AddEntry(ctx context.Context, draft models.EntryDraft) (models.Entry, error) {
	var entry models.Entry
	if err := c.Do(ctx, "add entry", http.MethodPost, "/timetable", draft, &entry); err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

// UpdateEntry replaces the status map of a persisted entry.
func (c *Client) UpdateEntry(ctx context.Context, id string, patch models.StatusPatch) (models.Entry, error) {
	var entry models.Entry
	if err := c.Do(ctx, "update entry", http.MethodPut, "/timetable/"+pathEscape(id), patch, &entry); err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

// DeleteEntry removes a persisted entry.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.Do(ctx, "delete entry", http.MethodDelete, "/timetable/"+pathEscape(id), nil, nil)
}

// Health pings the backend's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.Do(ctx, "health", http.MethodGet, "/health", nil, nil)
}
