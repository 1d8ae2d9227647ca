package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/timetable/internal/models"
)

func TestSetAndGetToken(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("eyJhbGciOi.test.token"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}

	got, err := GetToken()
	if err != nil {
		t.Fatalf("GetToken() failed: %v", err)
	}
	if got != "eyJhbGciOi.test.token" {
		t.Errorf("GetToken() = %q, want %q", got, "eyJhbGciOi.test.token")
	}
}

func TestSetTokenEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken(""); err == nil {
		t.Error("SetToken(\"\") should return an error")
	}
}

func TestGetTokenNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = Clear()

	if _, err := GetToken(); err != ErrNotFound {
		t.Errorf("GetToken() error = %v, want %v", err, ErrNotFound)
	}
}

func TestSessionUserRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	user := models.User{UID: "uid-1", Email: "a@example.com", Name: "a", PhotoURL: "https://x"}
	if err := SetSessionUser(user); err != nil {
		t.Fatalf("SetSessionUser() failed: %v", err)
	}

	got, err := GetSessionUser()
	if err != nil {
		t.Fatalf("GetSessionUser() failed: %v", err)
	}
	if got != user {
		t.Errorf("GetSessionUser() = %+v, want %+v", got, user)
	}

	if err := SetSessionUser(models.User{}); err == nil {
		t.Error("SetSessionUser() without uid should fail")
	}
}

func TestClear(t *testing.T) {
	gokeyring.MockInit()

	_ = SetToken("token")
	_ = SetSessionUser(models.User{UID: "uid-1"})

	if err := Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if _, err := GetToken(); err != ErrNotFound {
		t.Errorf("after Clear(), GetToken() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := GetSessionUser(); err != ErrNotFound {
		t.Errorf("after Clear(), GetSessionUser() error = %v, want %v", err, ErrNotFound)
	}

	// Clearing twice is fine
	if err := Clear(); err != nil {
		t.Errorf("second Clear() failed: %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
