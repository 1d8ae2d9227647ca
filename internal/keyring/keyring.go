package keyring

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/timetable/internal/constants"
	"github.com/julianstephens/timetable/internal/models"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(key string) (string, error) {
	val, err := keyring.Get(constants.AppName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return val, nil
}

func del(key string) error {
	err := keyring.Delete(constants.AppName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}

// GetToken retrieves the cached bearer token.
// Returns ErrNotFound if nobody is signed in.
func GetToken() (string, error) {
	return get(constants.KeyringTokenUser)
}

// SetToken caches the bearer token.
func SetToken(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.KeyringTokenUser, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// GetSessionUser retrieves the signed-in user's identity.
func GetSessionUser() (models.User, error) {
	raw, err := get(constants.KeyringSessionUser)
	if err != nil {
		return models.User{}, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.User{}, fmt.Errorf("corrupt session in keyring: %w", err)
	}
	return user, nil
}

// SetSessionUser stores the signed-in user's identity.
func SetSessionUser(user models.User) error {
	if user.UID == "" {
		return errors.New("session user must have a uid")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := keyring.Set(constants.AppName, constants.KeyringSessionUser, string(data)); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

// Clear removes the cached token and session user. Missing entries are not an error.
func Clear() error {
	for _, key := range []string{constants.KeyringTokenUser, constants.KeyringSessionUser} {
		if err := del(key); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered but is empty
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
