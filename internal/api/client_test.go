package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julianstephens/timetable/internal/constants"
	"github.com/julianstephens/timetable/internal/models"
)

type staticToken string

func (t staticToken) Token(context.Context) (string, error) { return string(t), nil }

type tokenFunc func(ctx context.Context) (string, error)

func (f tokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", staticToken("tok-123")), srv
}

func TestGetEntriesSendsBearerToken(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/timetable/user-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"_id":"e1","userId":"user-1","action":"read","weekStart":"2026-10-12T00:00:00Z","status":{"Monday":"yes"}}]`)
	})

	entries, err := client.GetEntries(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].ID.String() != "e1" || entries[0].ID.IsLocal() {
		t.Errorf("ID = %+v", entries[0].ID)
	}
	if entries[0].Status.Get(time.Monday) != models.StatusYes {
		t.Errorf("Monday = %q", entries[0].Status.Get(time.Monday))
	}
}

func TestGetEntriesEmptyBody(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})

	entries, err := client.GetEntries(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetEntries() error = %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("entries = %#v, want empty slice", entries)
	}
}

func TestAddEntryPostsDraft(t *testing.T) {
	weekStart := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/timetable" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var draft models.EntryDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if draft.Action != "Read" || draft.UserID != "user-1" {
			t.Errorf("draft = %+v", draft)
		}
		entry := models.Entry{
			ID:        models.PersistedID("srv-1"),
			UserID:    draft.UserID,
			Action:    draft.Action,
			WeekStart: draft.WeekStart,
			Status:    draft.Status,
		}
		_ = json.NewEncoder(w).Encode(entry)
	})

	entry, err := client.AddEntry(context.Background(), models.NewDraft("user-1", " Read ", weekStart))
	if err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}
	if entry.ID.String() != "srv-1" {
		t.Errorf("ID = %q, want srv-1", entry.ID.String())
	}
	if !entry.WeekStart.Equal(weekStart) {
		t.Errorf("WeekStart = %v", entry.WeekStart)
	}
}

func TestUpdateEntrySendsFullStatus(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/timetable/e1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var raw map[string]map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(raw["status"]) != 7 {
			t.Errorf("status has %d keys, want 7", len(raw["status"]))
		}
		if raw["status"]["Wednesday"] != "no" {
			t.Errorf("Wednesday = %v", raw["status"]["Wednesday"])
		}
		_, _ = io.WriteString(w, `{"_id":"e1","userId":"u","action":"a","weekStart":"2026-10-12T00:00:00Z","status":{"Wednesday":"no"}}`)
	})

	var status models.Status
	status = status.With(time.Wednesday, models.StatusNo)
	if _, err := client.UpdateEntry(context.Background(), "e1", models.StatusPatch{Status: status}); err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	called := false
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete || r.URL.Path != "/api/timetable/e1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteEntry(context.Background(), "e1"); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if !called {
		t.Error("server was not called")
	}
}

func TestSaveAndGetUser(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/users":
			var u models.User
			_ = json.NewDecoder(r.Body).Decode(&u)
			_ = json.NewEncoder(w).Encode(u)
		case r.Method == http.MethodGet && r.URL.Path == "/api/users/uid-1":
			_, _ = io.WriteString(w, `{"uid":"uid-1","email":"a@b.c","name":"a","photoURL":"p"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	saved, err := client.SaveUser(context.Background(), models.User{UID: "uid-1", Email: "a@b.c"})
	if err != nil || saved.UID != "uid-1" {
		t.Fatalf("SaveUser() = %+v, %v", saved, err)
	}
	user, err := client.GetUser(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if user.Name != "a" || user.PhotoURL != "p" {
		t.Errorf("user = %+v", user)
	}
}

func TestErrorResponse(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"not_found","message":"entry not found"}`)
	})

	err := client.DeleteEntry(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Code != "not_found" || apiErr.Message != "entry not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if IsUnauthorized(err) {
		t.Error("IsUnauthorized() = true")
	}
}

func TestErrorResponsePlainText(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GetUser(context.Background(), "x")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Message != "boom" {
		t.Errorf("Message = %q, want boom", apiErr.Message)
	}
}

func TestTimeoutIsOrdinaryFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := New(srv.URL, nil, WithTimeout(50*time.Millisecond))
	err := client.Health(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T (%v)", err, err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", apiErr.StatusCode)
	}
}

func TestWithTimeoutLeavesOtherClientsAlone(t *testing.T) {
	short := New("http://example.invalid", nil, WithTimeout(50*time.Millisecond))
	def := New("http://example.invalid", nil)

	if short.http.Timeout != 50*time.Millisecond {
		t.Errorf("short timeout = %v", short.http.Timeout)
	}
	if def.http.Timeout != constants.RequestTimeout {
		t.Errorf("default timeout = %v, want %v", def.http.Timeout, constants.RequestTimeout)
	}
	if short.http == def.http {
		t.Error("clients share an http.Client")
	}
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(url, nil)
	if _, err := client.GetEntries(context.Background(), "u"); err == nil {
		t.Fatal("expected error from closed server")
	}
}

func TestNoTokenHeaderWithoutSource(t *testing.T) {
	client := New("", nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("Authorization = %q, want empty", h)
		}
	}))
	t.Cleanup(srv.Close)
	client.baseURL = srv.URL

	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health() error = %v", err)
	}
}

func TestTokenSourceError(t *testing.T) {
	client := New("http://127.0.0.1:0", tokenFunc(func(context.Context) (string, error) {
		return "", errors.New("no token")
	}))
	if err := client.Health(context.Background()); err == nil {
		t.Fatal("expected token error")
	}
}
