package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/timetable/internal/api"
	"github.com/julianstephens/timetable/internal/auth"
	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/store"
)

const (
	testSecret         = "test-secret"
	testProviderSecret = "provider-secret"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	p, err := OpenStorage(context.Background(), "sqlite:"+filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("OpenStorage() error = %v", err)
	}
	t.Cleanup(func() { p.Close() })

	cfg := DefaultConfig()
	cfg.JWTSecret = testSecret
	cfg.Provider = ProviderConfig{Secret: testProviderSecret, Issuer: "https://id.example.com", Audience: "timetable"}
	srv := httptest.NewServer(New(cfg, p).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func signUp(t *testing.T, base, email string) authResponse {
	t.Helper()
	status, body := doJSON(t, http.MethodPost, base+"/api/auth/signup", "", credentialsRequest{Email: email, Password: "secret1"})
	if status != http.StatusCreated {
		t.Fatalf("signup status = %d, body = %s", status, body)
	}
	var res authResponse
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	return res
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("error body %s: %v", body, err)
	}
	return e.Code
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", nil)
	if status != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Errorf("health = %d %s", status, body)
	}
	status, body = doJSON(t, http.MethodGet, srv.URL+"/metrics", "", nil)
	if status != http.StatusOK || !strings.Contains(string(body), "timetable_http_requests_total") {
		t.Errorf("metrics = %d", status)
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL

	res := signUp(t, base, "Ada@Example.com")
	if res.Token == "" || res.User.UID == "" {
		t.Fatalf("signup response = %+v", res)
	}
	if res.User.Name != "ada" || !strings.HasPrefix(res.User.PhotoURL, "https://ui-avatars.com/api/?name=") {
		t.Errorf("mirrored user = %+v", res.User)
	}

	tests := []struct {
		name     string
		path     string
		body     credentialsRequest
		wantCode string
		status   int
	}{
		{"duplicate", "/api/auth/signup", credentialsRequest{"ada@example.com", "secret1"}, string(auth.CodeEmailInUse), http.StatusConflict},
		{"weak", "/api/auth/signup", credentialsRequest{"bob@example.com", "123"}, string(auth.CodeWeakPassword), http.StatusBadRequest},
		{"invalid email", "/api/auth/signup", credentialsRequest{"not-an-email", "secret1"}, string(auth.CodeInvalidEmail), http.StatusBadRequest},
		{"unknown user", "/api/auth/signin", credentialsRequest{"who@example.com", "secret1"}, string(auth.CodeUserNotFound), http.StatusUnauthorized},
		{"wrong password", "/api/auth/signin", credentialsRequest{"ada@example.com", "nope"}, string(auth.CodeWrongPassword), http.StatusUnauthorized},
		{"missing fields", "/api/auth/signin", credentialsRequest{"", ""}, codeBadRequest, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, http.MethodPost, base+tt.path, "", tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d (%s)", status, tt.status, body)
			}
			if got := errorCode(t, body); got != tt.wantCode {
				t.Errorf("code = %q, want %q", got, tt.wantCode)
			}
		})
	}

	status, body := doJSON(t, http.MethodPost, base+"/api/auth/signin", "", credentialsRequest{"ada@example.com", "secret1"})
	if status != http.StatusOK {
		t.Fatalf("signin status = %d (%s)", status, body)
	}
	var signin authResponse
	_ = json.Unmarshal(body, &signin)
	if signin.User.UID != res.User.UID {
		t.Errorf("signin uid = %q, want %q", signin.User.UID, res.User.UID)
	}
}

func identityToken(t *testing.T, secret, aud string, exp time.Time) string {
	t.Helper()
	claims := IdentityClaims{
		Email: "grace@example.com",
		Name:  "Grace Hopper",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "provider-sub-1",
			Issuer:    "https://id.example.com",
			Audience:  jwt.ClaimStrings{aud},
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestProviderSignIn(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/auth/provider"
	future := time.Now().Add(time.Hour)

	status, body := doJSON(t, http.MethodPost, url, "", providerRequest{IDToken: identityToken(t, testProviderSecret, "timetable", future)})
	if status != http.StatusOK {
		t.Fatalf("status = %d (%s)", status, body)
	}
	var first authResponse
	_ = json.Unmarshal(body, &first)
	if first.User.Name != "Grace Hopper" {
		t.Errorf("user = %+v", first.User)
	}

	// the same identity maps to the same account
	_, body = doJSON(t, http.MethodPost, url, "", providerRequest{IDToken: identityToken(t, testProviderSecret, "timetable", future)})
	var second authResponse
	_ = json.Unmarshal(body, &second)
	if second.User.UID != first.User.UID {
		t.Errorf("second uid = %q, want %q", second.User.UID, first.User.UID)
	}

	bad := []string{
		identityToken(t, "wrong-secret", "timetable", future),
		identityToken(t, testProviderSecret, "someone-else", future),
		identityToken(t, testProviderSecret, "timetable", time.Now().Add(-time.Hour)),
	}
	for i, tok := range bad {
		status, body := doJSON(t, http.MethodPost, url, "", providerRequest{IDToken: tok})
		if status != http.StatusUnauthorized || errorCode(t, body) != string(auth.CodeInvalidToken) {
			t.Errorf("bad token %d: status = %d body = %s", i, status, body)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	for _, tok := range []string{"", "garbage"} {
		status, body := doJSON(t, http.MethodGet, srv.URL+"/api/timetable/u1", tok, nil)
		if status != http.StatusUnauthorized || errorCode(t, body) != codeUnauthorized {
			t.Errorf("token %q: status = %d", tok, status)
		}
	}
}

func TestTimetableCRUD(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api"
	ada := signUp(t, srv.URL, "ada@example.com")
	bob := signUp(t, srv.URL, "bob@example.com")

	weekStart := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	status, body := doJSON(t, http.MethodPost, base+"/timetable", ada.Token, models.NewDraft(ada.User.UID, "Read", weekStart))
	if status != http.StatusCreated {
		t.Fatalf("create status = %d (%s)", status, body)
	}
	var entry models.Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		t.Fatal(err)
	}
	if entry.ID.IsZero() || entry.CreatedAt == nil {
		t.Errorf("entry = %+v", entry)
	}

	status, _ = doJSON(t, http.MethodPost, base+"/timetable", ada.Token, models.NewDraft(ada.User.UID, "   ", weekStart))
	if status != http.StatusBadRequest {
		t.Errorf("empty action status = %d", status)
	}
	status, _ = doJSON(t, http.MethodPost, base+"/timetable", ada.Token, models.NewDraft(bob.User.UID, "Sneaky", weekStart))
	if status != http.StatusForbidden {
		t.Errorf("foreign create status = %d", status)
	}

	var st models.Status
	st = st.With(time.Wednesday, models.StatusYes)
	status, body = doJSON(t, http.MethodPut, base+"/timetable/"+entry.ID.String(), ada.Token, models.StatusPatch{Status: st})
	if status != http.StatusOK {
		t.Fatalf("update status = %d (%s)", status, body)
	}
	status, _ = doJSON(t, http.MethodPut, base+"/timetable/"+entry.ID.String(), bob.Token, models.StatusPatch{Status: st})
	if status != http.StatusNotFound {
		t.Errorf("foreign update status = %d", status)
	}
	status, _ = doJSON(t, http.MethodPut, base+"/timetable/"+entry.ID.String(), ada.Token, map[string]any{"status": map[string]string{"Funday": "yes"}})
	if status != http.StatusBadRequest {
		t.Errorf("bad status key = %d", status)
	}

	status, body = doJSON(t, http.MethodGet, base+"/timetable/"+ada.User.UID, ada.Token, nil)
	var list []models.Entry
	_ = json.Unmarshal(body, &list)
	if status != http.StatusOK || len(list) != 1 || list[0].Status.Get(time.Wednesday) != models.StatusYes {
		t.Errorf("list = %d %s", status, body)
	}
	status, _ = doJSON(t, http.MethodGet, base+"/timetable/"+ada.User.UID, bob.Token, nil)
	if status != http.StatusForbidden {
		t.Errorf("foreign list status = %d", status)
	}

	status, _ = doJSON(t, http.MethodDelete, base+"/timetable/"+entry.ID.String(), ada.Token, nil)
	if status != http.StatusNoContent {
		t.Errorf("delete status = %d", status)
	}
	status, _ = doJSON(t, http.MethodDelete, base+"/timetable/"+entry.ID.String(), ada.Token, nil)
	if status != http.StatusNotFound {
		t.Errorf("second delete status = %d", status)
	}
}

func TestUsers(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api"
	ada := signUp(t, srv.URL, "ada@example.com")

	status, body := doJSON(t, http.MethodPost, base+"/users", ada.Token, models.User{UID: ada.User.UID, Email: "ada@example.com", Name: "Ada L"})
	if status != http.StatusOK {
		t.Fatalf("save user status = %d (%s)", status, body)
	}
	status, body = doJSON(t, http.MethodGet, base+"/users/"+ada.User.UID, ada.Token, nil)
	var u models.User
	_ = json.Unmarshal(body, &u)
	if status != http.StatusOK || u.Name != "Ada L" {
		t.Errorf("get user = %d %+v", status, u)
	}
	status, _ = doJSON(t, http.MethodPost, base+"/users", ada.Token, models.User{UID: "other"})
	if status != http.StatusForbidden {
		t.Errorf("foreign save status = %d", status)
	}
}

func TestClientAndStoreAgainstServer(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	provider := auth.NewHTTPProvider(srv.URL + "/api")
	a := &auth.Authenticator{
		Provider:  provider,
		NewSyncer: func(s *auth.Session) auth.UserSyncer { return api.New(srv.URL+"/api", s) },
	}
	session, err := a.SignUp(ctx, "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	client := api.New(srv.URL+"/api", session)
	wed := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	s := store.New(client, session.UserID(), store.WithClock(func() time.Time { return wed }))
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	entry, err := s.AddAction(ctx, "Read")
	if err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}
	if entry.ID.IsLocal() {
		t.Fatal("expected server id")
	}
	if err := s.SetStatus(ctx, entry.ID, time.Wednesday, models.StatusYes, time.Wednesday); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	reloaded := store.New(client, session.UserID())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload error = %v", err)
	}
	got := reloaded.Entries()
	if len(got) != 1 || got[0].Action != "Read" || got[0].Status.Get(time.Wednesday) != models.StatusYes {
		t.Fatalf("reloaded entries = %+v", got)
	}
	for _, day := range models.Week {
		if day != time.Wednesday && got[0].Status.Get(day) != models.StatusPending {
			t.Errorf("%s = %q, want pending", day, got[0].Status.Get(day))
		}
	}

	if err := s.DeleteAction(ctx, entry.ID); err != nil {
		t.Fatalf("DeleteAction() error = %v", err)
	}
	user, err := client.GetUser(ctx, session.UserID())
	if err != nil || user.Email != "ada@example.com" {
		t.Errorf("GetUser() = %+v, %v", user, err)
	}
}
