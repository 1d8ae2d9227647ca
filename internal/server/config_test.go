package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	yamlBody := "listen_addr: \":6000\"\njwt_secret: from-yaml\ntoken_ttl: 2h\nprovider:\n  issuer: yaml-issuer\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TIMETABLE_PROVIDER_AUDIENCE=dotenv-aud\n"), 0600); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("TIMETABLE_PROVIDER_AUDIENCE")
	t.Cleanup(func() { os.Unsetenv("TIMETABLE_PROVIDER_AUDIENCE") })
	t.Setenv("TIMETABLE_JWT_SECRET", "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ListenAddr != ":6000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.JWTSecret != "from-env" {
		t.Errorf("JWTSecret = %q, want env override", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.Provider.Issuer != "yaml-issuer" || cfg.Provider.Audience != "dotenv-aud" {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.JWTIssuer == "" || cfg.DSN == "" {
		t.Error("defaults not applied")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ListenAddr == "" {
		t.Error("defaults not applied")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without jwt secret")
	}
	cfg.JWTSecret = "x"
	cfg.TokenTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero ttl")
	}
}

func TestBadTokenTTLEnv(t *testing.T) {
	t.Setenv("TIMETABLE_TOKEN_TTL", "soon")
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestIsPostgresDSN(t *testing.T) {
	tests := map[string]bool{
		"postgres://localhost/db":    true,
		"postgresql://u@h/db":        true,
		"host=localhost dbname=x":    true,
		"~/.config/timetable/srv.db": false,
		"sqlite:/tmp/x.db":           false,
	}
	for dsn, want := range tests {
		if got := isPostgresDSN(dsn); got != want {
			t.Errorf("isPostgresDSN(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", "timetable", time.Hour)
	tok, err := issuer.Issue("u1", "a@b.c")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Subject != "u1" || claims.Email != "a@b.c" {
		t.Errorf("claims = %+v", claims)
	}

	other := NewTokenIssuer("other", "timetable", time.Hour)
	if _, err := other.Parse(tok); err == nil {
		t.Error("token accepted with wrong secret")
	}

	expired := NewTokenIssuer("s3cret", "timetable", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue("u1", "")
	if _, err := issuer.Parse(old); err == nil {
		t.Error("expired token accepted")
	}
}
